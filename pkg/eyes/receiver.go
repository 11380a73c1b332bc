package eyes

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/eyebot/pkg/framework"
)

// ErrStopped indicates the Receiver is no longer running.
var ErrStopped = errors.New("receiver stopped")

// DefaultQueueSize is the default capacity of the event queue.
const DefaultQueueSize = 8

// Applier applies a decoded color command. It returns false when the
// command was discarded.
type Applier interface {
	Apply(ColorCommand) (bool, error)
}

// Stats counts what the Receiver has processed.
type Stats struct {
	Events    uint64
	Bytes     uint64
	Applied   uint64
	Discarded uint64
	Resyncs   uint64
	Resets    uint64
}

// Receiver owns a Decoder and serializes everything touching it:
// receive events from transports, progress resets and queries.
type Receiver struct {
	Applier       Applier
	Clock         fx.Clock
	ResyncTimeout time.Duration

	eventCh chan *event
	stopCh  chan struct{}
	stopped sync.Once

	lock    sync.Mutex
	decoder Decoder
	stats   Stats
}

type event struct {
	data  []byte
	reset bool
	done  chan struct{}
}

// NewReceiver creates a Receiver applying commands with applier.
func NewReceiver(applier Applier) *Receiver {
	return &Receiver{
		Applier:       applier,
		ResyncTimeout: DefaultResyncTimeout,
		eventCh:       make(chan *event, DefaultQueueSize),
		stopCh:        make(chan struct{}),
	}
}

// Name implements Named.
func (r *Receiver) Name() string {
	return "eyes"
}

// Receive delivers one receive event and waits until it is processed.
// data is copied, the caller may reuse it. The event is timed when it
// is processed, so the decoder sees arrival times in queue order.
func (r *Receiver) Receive(data []byte) error {
	return r.post(&event{data: append([]byte(nil), data...)})
}

// ResetProgress drops any partial color command. It is ordered with
// receive events: everything received before the call is processed
// first.
func (r *Receiver) ResetProgress() error {
	return r.post(&event{reset: true})
}

// Query returns the current cursor as the single status byte.
func (r *Receiver) Query() byte {
	r.lock.Lock()
	defer r.lock.Unlock()
	return byte(r.decoder.Cursor())
}

// Stats returns a snapshot of the counters.
func (r *Receiver) Stats() Stats {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.stats
}

// Run implements Runnable. It must be called only once.
func (r *Receiver) Run(ctx context.Context) error {
	defer r.stopped.Do(func() { close(r.stopCh) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-r.eventCh:
			r.process(ev)
			close(ev.done)
		}
	}
}

func (r *Receiver) post(ev *event) error {
	ev.done = make(chan struct{})
	select {
	case r.eventCh <- ev:
	case <-r.stopCh:
		return ErrStopped
	}
	select {
	case <-ev.done:
		return nil
	case <-r.stopCh:
		return ErrStopped
	}
}

func (r *Receiver) process(ev *event) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if ev.reset {
		if r.decoder.Cursor() != CursorIndex {
			glog.V(2).Infof("eyes: progress reset at cursor %d", r.decoder.Cursor())
		}
		r.decoder.Reset()
		r.stats.Resets++
		return
	}
	r.decoder.Timeout = r.ResyncTimeout
	fr := r.decoder.Feed(fx.ClockOrDefault(r.Clock).Now(), ev.data)
	r.stats.Events++
	r.stats.Bytes += uint64(len(ev.data))
	if fr.Resynced {
		r.stats.Resyncs++
		glog.V(2).Info("eyes: resync after silence, partial command dropped")
	}
	for _, cmd := range fr.Commands {
		applied, err := r.Applier.Apply(cmd)
		if err != nil {
			glog.Errorf("eyes: apply %v: %v", cmd, err)
		}
		if applied {
			r.stats.Applied++
			glog.V(4).Infof("eyes: applied %v", cmd)
		} else {
			r.stats.Discarded++
			glog.V(2).Infof("eyes: discarded %v", cmd)
		}
	}
}
