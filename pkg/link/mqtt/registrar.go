package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/eyebot/pkg/link"
)

// MetaTopic is the leaf topic carrying the retained registration.
const MetaTopic = "meta"

// Registrar owns the broker connection of a controller and keeps its
// registration retained under <type>/<id>/meta. The registration is
// cleared by the will when the connection drops, and on shutdown.
type Registrar struct {
	Queue *Queue
	Info  link.BotInfo

	meta []byte
}

// NewRegistrar creates a Registrar.
func NewRegistrar(brokerURL string, info link.BotInfo) (*Registrar, error) {
	if !info.Ref.IsValid() {
		return nil, fmt.Errorf("invalid bot ref %q", info.Ref.Name())
	}
	meta, err := json.Marshal(&info.Meta)
	if err != nil {
		return nil, err
	}
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+info.Ref.Topic(MetaTopic), nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("eyebot:" + info.Ref.Name())
	}
	r := &Registrar{
		Queue: NewQueue(opts, topicPrefix),
		Info:  info,
		meta:  meta,
	}
	r.Queue.OnConnect = func(*Queue) { r.register() }
	return r, nil
}

// Name implements Named.
func (r *Registrar) Name() string {
	return "mqtt:" + r.Info.Ref.Name()
}

// Run implements Runnable.
func (r *Registrar) Run(ctx context.Context) error {
	if err := r.Queue.Connect(ctx); err != nil {
		return err
	}
	glog.Infof("registered %s", r.Info.Ref.Name())
	<-ctx.Done()
	r.Queue.PubWith(r.Info.Ref.Topic(MetaTopic), nil, 1, true).WaitTimeout(time.Second)
	return r.Queue.Close()
}

func (r *Registrar) register() {
	r.Queue.PubWith(r.Info.Ref.Topic(MetaTopic), r.meta, 1, true)
}

// DefaultDiscoverTimeout defines the default timeout value of discovery.
const DefaultDiscoverTimeout = 500 * time.Millisecond

// Discover collects the registrations retained on the broker.
// Empty payloads are cleared registrations and are skipped.
func Discover(ctx context.Context, q *Queue, timeout time.Duration) ([]link.BotInfo, error) {
	infoCh, doneCh := make(chan link.BotInfo, 16), make(chan struct{})
	defer close(doneCh)
	sub := q.Sub("+/+/"+MetaTopic, func(topic string, payload []byte) {
		info, ok := parseRegistration(topic, payload)
		if !ok {
			return
		}
		select {
		case infoCh <- info:
		case <-doneCh:
		}
	})
	defer sub.Close()
	if !q.Client.IsConnected() {
		if err := q.Connect(ctx); err != nil {
			return nil, err
		}
	}

	if timeout <= 0 {
		timeout = DefaultDiscoverTimeout
	}
	expire := time.After(timeout)
	var infos []link.BotInfo
	for {
		select {
		case info := <-infoCh:
			infos = append(infos, info)
		case <-expire:
			return infos, nil
		case <-ctx.Done():
			return infos, ctx.Err()
		}
	}
}

func parseRegistration(topic string, payload []byte) (info link.BotInfo, ok bool) {
	items := strings.Split(topic, "/")
	if len(items) != 3 || len(payload) == 0 {
		return
	}
	info.Ref = link.BotRef{Type: items[0], ID: items[1]}
	if err := json.Unmarshal(payload, &info.Meta); err != nil {
		glog.Warningf("invalid registration %q: %v", topic, err)
	}
	return info, true
}
