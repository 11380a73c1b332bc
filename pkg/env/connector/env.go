// Package connector configures tools talking to a running eyebot.
package connector

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/robotalks/eyebot/pkg/link"
	"github.com/robotalks/eyebot/pkg/link/mqtt"
	"github.com/robotalks/eyebot/pkg/link/serialport"
	"github.com/robotalks/eyebot/pkg/link/websocket"
	"github.com/robotalks/eyebot/pkg/motion"
)

// Config provides common options to connect an eyebot.
type Config struct {
	Ref link.BotRef

	// RegistryURL specifies the MQTT broker where bots register.
	// e.g. mqtt://host:port/topic-prefix
	RegistryURL string
	// ColorURL selects the color channel transport, either a
	// ws://host:port/eyes URL or empty to use the registry broker.
	ColorURL string
	// Motion is the serial port of the motion channel.
	Motion serialport.Config
}

var defaultConfig = Config{
	Ref:         link.BotRef{Type: "eyebot", ID: "08"},
	RegistryURL: "mqtt://localhost:1883/robo/",
	Motion:      serialport.Config{BaudRate: serialport.DefaultBaudRate},
}

func init() {
	if val := os.Getenv("EYEBOT_TYPE"); val != "" {
		defaultConfig.Ref.Type = val
	}
	if val := os.Getenv("EYEBOT_ID"); val != "" {
		defaultConfig.Ref.ID = val
	}
	if val := os.Getenv("EYEBOT_REGISTRY_URL"); val != "" {
		defaultConfig.RegistryURL = val
	}
	if val := os.Getenv("EYEBOT_COLOR_URL"); val != "" {
		defaultConfig.ColorURL = val
	}
	if val := os.Getenv("EYEBOT_MOTION_PORT"); val != "" {
		defaultConfig.Motion.Port = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Ref.Type, "bot-type", defaultConfig.Ref.Type, "Bot type to connect.")
	flag.StringVar(&defaultConfig.Ref.ID, "bot-id", defaultConfig.Ref.ID, "Bot ID to connect.")
	flag.StringVar(&defaultConfig.RegistryURL, "bot-reg", defaultConfig.RegistryURL, "Bot registry URL.")
	flag.StringVar(&defaultConfig.ColorURL, "color-url", defaultConfig.ColorURL, "Color channel URL, defaults to the registry.")
	flag.StringVar(&defaultConfig.Motion.Port, "motion-port", defaultConfig.Motion.Port, "Motion channel serial port.")
	flag.IntVar(&defaultConfig.Motion.BaudRate, "motion-baud", defaultConfig.Motion.BaudRate, "Motion channel baud rate.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewQueue connects the registry broker.
func (c *Config) NewQueue(ctx context.Context) (*mqtt.Queue, error) {
	if err := checkScheme(c.RegistryURL, "mqtt", "mqtts", "tcp", "ssl"); err != nil {
		return nil, fmt.Errorf("invalid registry URL: %v", err)
	}
	q, err := mqtt.NewQueueFromURL(c.RegistryURL)
	if err != nil {
		return nil, err
	}
	if err = q.Connect(ctx); err != nil {
		return nil, err
	}
	return q, nil
}

// Discover enumerates registered bots.
func (c *Config) Discover(ctx context.Context) ([]link.BotInfo, error) {
	q, err := c.NewQueue(ctx)
	if err != nil {
		return nil, err
	}
	defer q.Close()
	return mqtt.Discover(ctx, q, mqtt.DefaultDiscoverTimeout)
}

// ColorSender is a connected color channel.
type ColorSender interface {
	link.Sender
	Close() error
}

type queueSender struct {
	*mqtt.ColorClient
}

func (s *queueSender) Close() error {
	return s.Queue.Close()
}

// ConnectColor connects the color channel of the bot.
func (c *Config) ConnectColor(ctx context.Context) (ColorSender, error) {
	if !c.Ref.IsValid() {
		return nil, fmt.Errorf("bot type and id must be specified")
	}
	if c.ColorURL != "" {
		if err := checkScheme(c.ColorURL, "ws", "wss"); err != nil {
			return nil, fmt.Errorf("invalid color URL: %v", err)
		}
		client, err := websocket.Dial(c.ColorURL)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	q, err := c.NewQueue(ctx)
	if err != nil {
		return nil, err
	}
	return &queueSender{ColorClient: mqtt.NewColorClient(q, c.Ref)}, nil
}

// MotionConn is an open motion channel.
type MotionConn struct {
	*motion.Client
	Port interface{ Close() error }
}

// Close implements io.Closer.
func (m *MotionConn) Close() error {
	return m.Port.Close()
}

// OpenMotion opens the motion channel.
func (c *Config) OpenMotion() (*MotionConn, error) {
	if !c.Motion.IsSet() {
		return nil, fmt.Errorf("motion port must be specified")
	}
	port, err := c.Motion.Open()
	if err != nil {
		return nil, err
	}
	return &MotionConn{Client: motion.NewClient(port), Port: port}, nil
}

// DefaultCommandTimeout limits a single remote command.
const DefaultCommandTimeout = 3 * time.Second

func checkScheme(rawURL string, schemes ...string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	for _, scheme := range schemes {
		if u.Scheme == scheme {
			return nil
		}
	}
	return fmt.Errorf("unsupported scheme %q", u.Scheme)
}
