// Package controller configures the eyebot controller daemon.
package controller

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/robotalks/eyebot/pkg/env"
	"github.com/robotalks/eyebot/pkg/link"
	"github.com/robotalks/eyebot/pkg/link/serialport"
)

// BotType is the robot type registered by the controller.
const BotType = "eyebot"

// DefaultAddress is the bus address of the color channel.
const DefaultAddress = 0x08

// Config provides the options of the controller.
type Config struct {
	// ID overrides the bot ID, which defaults to the hex address.
	ID string
	// Address of the color channel on the secondary bus.
	Address uint

	// Motion is the primary command channel.
	Motion serialport.Config
	// Servo is the port of the servo controller, empty to simulate.
	Servo serialport.Config
	// ServoDevice is the servo controller device number, 0 for the
	// compact protocol.
	ServoDevice uint
	LeftServo   uint
	RightServo  uint
	// Color is an optional raw color stream port.
	Color serialport.Config

	// MQTTBrokerURL enables the MQTT transport.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
	// WebsocketAddr enables the websocket transport.
	WebsocketAddr string

	// Sim uses simulated actuators and strip.
	Sim bool
	// Restart re-executes the binary on a soft reset request.
	Restart bool
}

var defaultConfig = Config{
	Address:    DefaultAddress,
	Motion:     serialport.Config{BaudRate: serialport.DefaultBaudRate},
	Servo:      serialport.Config{BaudRate: serialport.DefaultBaudRate},
	Color:      serialport.Config{BaudRate: serialport.DefaultBaudRate, ReadTimeout: 100 * time.Millisecond},
	RightServo: 1,
	Restart:    true,
}

func init() {
	if val := os.Getenv("EYEBOT_ID"); val != "" {
		defaultConfig.ID = val
	}
	if val := os.Getenv("EYEBOT_ADDRESS"); val != "" {
		if addr, err := strconv.ParseUint(val, 0, 8); err == nil {
			defaultConfig.Address = uint(addr)
		}
	}
	if val := os.Getenv("EYEBOT_MOTION_PORT"); val != "" {
		defaultConfig.Motion.Port = val
	}
	if val := os.Getenv("EYEBOT_SERVO_PORT"); val != "" {
		defaultConfig.Servo.Port = val
	}
	if val := os.Getenv("EYEBOT_COLOR_PORT"); val != "" {
		defaultConfig.Color.Port = val
	}
	if val := os.Getenv("EYEBOT_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv("EYEBOT_WS_ADDR"); val != "" {
		defaultConfig.WebsocketAddr = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.ID, "id", defaultConfig.ID, "Bot ID, defaults to the hex address")
	flag.UintVar(&defaultConfig.Address, "address", defaultConfig.Address, "Color channel bus address")
	flag.StringVar(&defaultConfig.Motion.Port, "motion-port", defaultConfig.Motion.Port, "Motion command serial port")
	flag.IntVar(&defaultConfig.Motion.BaudRate, "motion-baud", defaultConfig.Motion.BaudRate, "Motion command baud rate")
	flag.StringVar(&defaultConfig.Servo.Port, "servo-port", defaultConfig.Servo.Port, "Servo controller serial port")
	flag.UintVar(&defaultConfig.ServoDevice, "servo-device", defaultConfig.ServoDevice, "Servo controller device number, 0 for compact protocol")
	flag.UintVar(&defaultConfig.LeftServo, "servo-left", defaultConfig.LeftServo, "Left wheel servo channel")
	flag.UintVar(&defaultConfig.RightServo, "servo-right", defaultConfig.RightServo, "Right wheel servo channel")
	flag.StringVar(&defaultConfig.Color.Port, "color-port", defaultConfig.Color.Port, "Raw color stream serial port")
	flag.IntVar(&defaultConfig.Color.BaudRate, "color-baud", defaultConfig.Color.BaudRate, "Raw color stream baud rate")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL")
	flag.StringVar(&defaultConfig.WebsocketAddr, "ws", defaultConfig.WebsocketAddr, "Websocket listen address")
	flag.BoolVar(&defaultConfig.Sim, "sim", defaultConfig.Sim, "Simulate actuators and LED strip")
	flag.BoolVar(&defaultConfig.Restart, "restart", defaultConfig.Restart, "Re-exec on soft reset request")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Validate checks the config.
func (c *Config) Validate() error {
	if c.Address > 0x7f {
		return fmt.Errorf("invalid address 0x%x", c.Address)
	}
	if c.ServoDevice > 0x7f {
		return fmt.Errorf("invalid servo device %d", c.ServoDevice)
	}
	if c.LeftServo > 23 || c.RightServo > 23 {
		return fmt.Errorf("invalid servo channels %d, %d", c.LeftServo, c.RightServo)
	}
	if !c.Sim && !c.Servo.IsSet() {
		return fmt.Errorf("servo port is required unless simulated")
	}
	return nil
}

// Ref returns the reference of the bot.
func (c *Config) Ref() link.BotRef {
	ref := link.BotRef{Type: BotType, ID: c.ID}
	if ref.ID == "" {
		ref.ID = fmt.Sprintf("%02x", c.Address)
	}
	return ref
}

// Info returns the registration of the bot.
func (c *Config) Info() link.BotInfo {
	info := link.BotInfo{
		Ref: c.Ref(),
		Meta: link.BotMeta{
			Description: "differential drive with LED eyes",
			Labels: map[string]string{
				"address": fmt.Sprintf("0x%02x", c.Address),
			},
		},
	}
	if id := env.MachineID(); id != "" {
		info.Meta.Labels["machine-id"] = id
	}
	if c.Sim {
		info.Meta.Labels["sim"] = "true"
	}
	return info
}
