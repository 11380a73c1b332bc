package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/robotalks/eyebot/pkg/link/mqtt"
	"github.com/robotalks/eyebot/pkg/msgs"
)

var (
	mqttURL = "mqtt://localhost:1883/robo/"
)

func init() {
	if val := os.Getenv("EYEBOT_REGISTRY_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func describe(topic string, payload []byte) string {
	leaf := topic[strings.LastIndex(topic, "/")+1:]
	switch leaf {
	case mqtt.MetaTopic:
		if len(payload) == 0 {
			return "unregistered"
		}
		return string(payload)
	case mqtt.ProgressTopic:
		if len(payload) == 0 {
			return "progress: empty"
		}
		return "progress: " + strconv.Itoa(int(payload[0]))
	case mqtt.FrameTopic:
		frame, err := msgs.DecodeStripFrame(payload)
		if err != nil {
			return "bad frame: " + err.Error()
		}
		return frame.String()
	case mqtt.StatsTopic:
		stats, err := msgs.DecodeReceiverStats(payload)
		if err != nil {
			return "bad stats: " + err.Error()
		}
		return stats.String()
	}
	return ""
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	for _, leaf := range []string{mqtt.MetaTopic, mqtt.ProgressTopic, mqtt.FrameTopic, mqtt.StatsTopic} {
		q.Sub("+/+/"+leaf, func(topic string, payload []byte) {
			log.Printf("%s: %s", topic, describe(topic, payload))
		})
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if err = q.Connect(ctx); err != nil {
		log.Fatalln(err)
	}
	<-ctx.Done()
	q.Close()
}
