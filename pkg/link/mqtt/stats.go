package mqtt

import (
	"context"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/eyebot/pkg/eyes"
	fx "github.com/robotalks/eyebot/pkg/framework"
	"github.com/robotalks/eyebot/pkg/link"
	"github.com/robotalks/eyebot/pkg/msgs"
)

// StatsTopic is the leaf topic of the receiver statistics.
const StatsTopic = "stats"

// DefaultStatsInterval is the default period of StatsReporter.
const DefaultStatsInterval = 5 * time.Second

// StatsSource provides receiver statistics.
type StatsSource interface {
	Stats() eyes.Stats
	Query() byte
}

// StatsReporter periodically publishes msgs.ReceiverStats on
// <ref>/stats, skipping periods without any change.
type StatsReporter struct {
	Ref      link.BotRef
	Source   StatsSource
	Pub      Publisher
	Interval time.Duration
	Clock    fx.Clock

	last *msgs.ReceiverStats
}

// NewStatsReporter creates a StatsReporter.
func NewStatsReporter(ref link.BotRef, source StatsSource, pub Publisher) *StatsReporter {
	return &StatsReporter{Ref: ref, Source: source, Pub: pub, Interval: DefaultStatsInterval}
}

// Name implements Named.
func (r *StatsReporter) Name() string {
	return "stats"
}

// Run implements Runnable.
func (r *StatsReporter) Run(ctx context.Context) error {
	clock := fx.ClockOrDefault(r.Clock)
	interval := r.Interval
	if interval <= 0 {
		interval = DefaultStatsInterval
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-clock.After(interval):
			r.Report()
		}
	}
}

// Report publishes the current statistics if they changed.
func (r *StatsReporter) Report() {
	s := r.Source.Stats()
	m := &msgs.ReceiverStats{
		Events:    s.Events,
		Bytes:     s.Bytes,
		Applied:   s.Applied,
		Discarded: s.Discarded,
		Resyncs:   s.Resyncs,
		Resets:    s.Resets,
		Cursor:    uint32(r.Source.Query()),
	}
	if r.last != nil && *r.last == *m {
		return
	}
	r.last = m
	data, err := msgs.Encode(m)
	if err != nil {
		glog.Errorf("encode stats: %v", err)
		return
	}
	publish(r.Pub, r.Ref.Topic(StatsTopic), data)
}
