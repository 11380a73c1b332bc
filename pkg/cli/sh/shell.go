// Package sh provides the interactive shell of eyectl.
package sh

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strconv"

	"github.com/abiosoft/ishell"

	env "github.com/robotalks/eyebot/pkg/env/connector"
	"github.com/robotalks/eyebot/pkg/eyes"
	"github.com/robotalks/eyebot/pkg/link"
	"github.com/robotalks/eyebot/pkg/link/serialport"
	"github.com/robotalks/eyebot/pkg/motion"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell  *ishell.Shell
	Config *env.Config

	color  env.ColorSender
	motion *env.MotionConn
}

const shellKey = "$shell"

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&DiscoverCmd,
		&MoveCmd,
		&EyeResetCmd,
		&ResetCmd,
		&ColorCmd,
		&AllCmd,
		&QueryCmd,
		&PortsCmd,
	}

	listPorts = serialport.List
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// New creates a new shell.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", conf.Ref.Name()))
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// FormatInfo prints BotInfo into friendly string for display.
func FormatInfo(info link.BotInfo) string {
	var w bytes.Buffer
	fmt.Fprintf(&w, "%s", info.Ref.Name())
	if info.Meta.Description != "" {
		fmt.Fprintf(&w, ": %s", info.Meta.Description)
	}
	if addr := info.Meta.Labels["address"]; addr != "" {
		fmt.Fprintf(&w, " (%s)", addr)
	}
	return w.String()
}

// PortInfo is a serial port found on the system.
type PortInfo struct {
	Name   string `json:"name"`
	Motion bool   `json:"motion,omitempty"`
}

// ListPorts lists serial ports and marks the configured motion port.
func ListPorts(conf *env.Config) ([]PortInfo, error) {
	names, err := listPorts()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %v", err)
	}
	ports := make([]PortInfo, 0, len(names))
	for _, name := range names {
		ports = append(ports, PortInfo{Name: name, Motion: name == conf.Motion.Port})
	}
	return ports, nil
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), env.DefaultCommandTimeout)
}

// Color returns the color channel, connecting on first use.
func (s *Shell) Color(ctx context.Context) (link.Sender, error) {
	if s.color == nil {
		sender, err := s.Config.ConnectColor(ctx)
		if err != nil {
			return nil, err
		}
		s.color = sender
	}
	return s.color, nil
}

// Motion returns the motion channel, opening it on first use.
func (s *Shell) Motion() (*motion.Client, error) {
	if s.motion == nil {
		conn, err := s.Config.OpenMotion()
		if err != nil {
			return nil, err
		}
		s.motion = conn
	}
	return s.motion.Client, nil
}

// Close releases connected channels.
func (s *Shell) Close() {
	if s.color != nil {
		s.color.Close()
		s.color = nil
	}
	if s.motion != nil {
		s.motion.Close()
		s.motion = nil
	}
}

// SendColor sends a color command as one receive event.
func (s *Shell) SendColor(c *ishell.Context, cmd eyes.ColorCommand) {
	ctx, cancel := commandContext()
	defer cancel()
	sender, err := s.Color(ctx)
	if err != nil {
		c.Err(err)
		return
	}
	if err = sender.Send(ctx, cmd.Bytes()); err != nil {
		c.Err(err)
		return
	}
	c.Println("OK")
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	defer s.Close()
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

func (s *Shell) printJSON(c *ishell.Context, v interface{}) {
	out, err := json.Marshal(v)
	if err != nil {
		c.Err(err)
		return
	}
	c.Println(string(out))
}

func parseBytes(args []string) ([]byte, error) {
	data := make([]byte, len(args))
	for n, arg := range args {
		val, err := strconv.ParseUint(arg, 0, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid byte %q", arg)
		}
		data[n] = byte(val)
	}
	return data, nil
}

// ParseColorCommand parses "IDX R G B".
func ParseColorCommand(args []string) (cmd eyes.ColorCommand, err error) {
	if len(args) != 4 {
		return cmd, fmt.Errorf("expect IDX R G B")
	}
	data, err := parseBytes(args)
	if err != nil {
		return cmd, err
	}
	return eyes.ColorCommand{Index: data[0], Red: data[1], Green: data[2], Blue: data[3]}, nil
}

var (
	// DiscoverCmd discovers bots.
	DiscoverCmd = ishell.Cmd{
		Name:    "discover",
		Aliases: []string{"list", "l"},
		Help:    "list registered bots",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			infoList, err := s.Config.Discover(context.Background())
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				if len(infoList) == 0 {
					// in case infoList is nil, make it empty slice.
					infoList = []link.BotInfo{}
				}
				s.printJSON(c, infoList)
				return
			}
			if len(infoList) == 0 {
				c.Println("No bots found")
				return
			}
			for _, info := range infoList {
				c.Println(FormatInfo(info))
			}
		},
	}

	// MoveCmd runs a maneuver and waits for the acknowledgment.
	MoveCmd = ishell.Cmd{
		Name:    "move",
		Aliases: []string{"m"},
		Help:    "f|b|l|r|forward|backward|left|right",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Err(fmt.Errorf("expect a maneuver"))
				return
			}
			cmd, ok := motion.ParseCommand(c.Args[0])
			if !ok {
				c.Err(fmt.Errorf("unknown maneuver %q", c.Args[0]))
				return
			}
			client, err := ShellFrom(c).Motion()
			if err != nil {
				c.Err(err)
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), motion.DefaultAckTimeout)
			defer cancel()
			if err = client.Do(ctx, cmd); err != nil {
				c.Err(err)
				return
			}
			c.Println("OK")
		},
	}

	// EyeResetCmd resets the color stream progress.
	EyeResetCmd = ishell.Cmd{
		Name: "eye-reset",
		Help: "reset color stream progress",
		Func: func(c *ishell.Context) {
			sendMotion(c, motion.EyeReset)
		},
	}

	// ResetCmd requests a controller restart.
	ResetCmd = ishell.Cmd{
		Name: "reset",
		Help: "restart the controller",
		Func: func(c *ishell.Context) {
			sendMotion(c, motion.SoftReset)
		},
	}

	// ColorCmd sets a single LED.
	ColorCmd = ishell.Cmd{
		Name:    "color",
		Aliases: []string{"c"},
		Help:    "IDX R G B",
		Func: func(c *ishell.Context) {
			cmd, err := ParseColorCommand(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			ShellFrom(c).SendColor(c, cmd)
		},
	}

	// AllCmd sets all LEDs.
	AllCmd = ishell.Cmd{
		Name: "all",
		Help: "R G B",
		Func: func(c *ishell.Context) {
			cmd, err := ParseColorCommand(append([]string{strconv.Itoa(int(eyes.IndexAll))}, c.Args...))
			if err != nil {
				c.Err(err)
				return
			}
			ShellFrom(c).SendColor(c, cmd)
		},
	}

	// QueryCmd prints the color stream progress.
	QueryCmd = ishell.Cmd{
		Name:    "query",
		Aliases: []string{"q"},
		Help:    "print color stream progress",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			ctx, cancel := commandContext()
			defer cancel()
			sender, err := s.Color(ctx)
			if err != nil {
				c.Err(err)
				return
			}
			progress, err := sender.Query(ctx)
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				s.printJSON(c, map[string]int{"progress": int(progress)})
				return
			}
			c.Println(progress)
		},
	}

	// PortsCmd lists serial ports usable as the motion channel.
	PortsCmd = ishell.Cmd{
		Name: "ports",
		Help: "list serial ports",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			ports, err := ListPorts(s.Config)
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				s.printJSON(c, ports)
				return
			}
			if len(ports) == 0 {
				c.Println("No serial ports found")
				return
			}
			for _, port := range ports {
				if port.Motion {
					c.Println(port.Name + " (motion)")
				} else {
					c.Println(port.Name)
				}
			}
		},
	}
)

func sendMotion(c *ishell.Context, cmd motion.Command) {
	client, err := ShellFrom(c).Motion()
	if err != nil {
		c.Err(err)
		return
	}
	if err = client.Send(cmd); err != nil {
		c.Err(err)
		return
	}
	c.Println("OK")
}

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(env.NewConfig()).Run(flag.Args()...)
}
