package main

//go-build: CGO_ENABLED=0

import (
	"errors"
	"flag"
	"io"
	"os"

	"github.com/golang/glog"

	env "github.com/robotalks/eyebot/pkg/env/controller"
	"github.com/robotalks/eyebot/pkg/eyes"
	fx "github.com/robotalks/eyebot/pkg/framework"
	"github.com/robotalks/eyebot/pkg/hal"
	"github.com/robotalks/eyebot/pkg/ledmap"
	"github.com/robotalks/eyebot/pkg/link/mqtt"
	"github.com/robotalks/eyebot/pkg/link/stream"
	"github.com/robotalks/eyebot/pkg/link/websocket"
	"github.com/robotalks/eyebot/pkg/motion"
)

func init() {
	env.SetupFlags()
}

type stdio struct {
	io.Reader
	io.Writer
}

// restartLater accepts the restart request; the binary re-executes
// itself once every runner has stopped.
type restartLater struct{}

func (restartLater) Restart() error { return nil }

type closers []io.Closer

func (c closers) Close() {
	for n := len(c) - 1; n >= 0; n-- {
		c[n].Close()
	}
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf := env.NewConfig()
	if err := conf.Validate(); err != nil {
		glog.Exit(err)
	}
	ref := conf.Ref()
	var opened closers

	var strip hal.Strip = hal.NewSimStrip(ledmap.Count)
	var registrar *mqtt.Registrar
	if conf.MQTTBrokerURL != "" {
		reg, err := mqtt.NewRegistrar(conf.MQTTBrokerURL, conf.Info())
		if err != nil {
			glog.Exitf("create MQTT registrar error: %v", err)
		}
		registrar = reg
		strip = mqtt.NewFramePublisher(strip, ref, reg.Queue)
	}

	receiver := eyes.NewReceiver(eyes.NewPainter(strip))
	runner := fx.NewRunner().HandleSignals()
	runner.Go(receiver)

	if registrar != nil {
		mqtt.NewColorLink(registrar.Queue, ref, receiver).Attach(registrar.Queue)
		runner.Go(registrar, mqtt.NewStatsReporter(ref, receiver, registrar.Queue))
	}
	if conf.WebsocketAddr != "" {
		runner.Go(websocket.NewServer(conf.WebsocketAddr, receiver))
	}
	if conf.Color.IsSet() {
		port, err := conf.Color.Open()
		if err != nil {
			glog.Exit(err)
		}
		runner.Go(stream.NewPump(port, receiver))
	}

	var channel io.ReadWriter = stdio{Reader: os.Stdin, Writer: os.Stdout}
	if conf.Motion.IsSet() {
		port, err := conf.Motion.Open()
		if err != nil {
			glog.Exit(err)
		}
		opened = append(opened, port)
		channel = port
	} else {
		glog.Info("motion commands on stdio")
	}

	var left, right hal.Actuator
	if conf.Sim {
		left, right = hal.NewSimActuator("left"), hal.NewSimActuator("right")
	} else {
		port, err := conf.Servo.Open()
		if err != nil {
			glog.Exit(err)
		}
		opened = append(opened, port)
		maestro := hal.NewMaestro(port, uint8(conf.ServoDevice))
		left, right = maestro.Servo(uint8(conf.LeftServo)), maestro.Servo(uint8(conf.RightServo))
	}
	dispatcher := motion.NewDispatcher(channel, left, right)
	dispatcher.Progress = receiver
	if conf.Restart {
		dispatcher.Platform = restartLater{}
	}
	runner.Go(dispatcher)

	glog.Infof("%s running", ref.Name())
	err := runner.Wait()
	opened.Close()
	if isRestart(err) {
		glog.Info("restart requested")
		if err = (&hal.ExecPlatform{}).Restart(); err != nil {
			glog.Exit(err)
		}
	}
	if err != nil {
		glog.Exit(err)
	}
}

func isRestart(err error) bool {
	if errors.Is(err, fx.ErrRestart) {
		return true
	}
	if errs, ok := err.(*fx.AggregatedError); ok {
		return errs.Has(fx.ErrRestart)
	}
	return false
}
