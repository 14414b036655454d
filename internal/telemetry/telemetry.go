// Package telemetry aggregates run statistics off the frame goroutine and
// logs a summary at a fixed interval.
package telemetry

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/starfall/internal/loop"
)

// DefaultInterval is how often a batch is flushed.
const DefaultInterval = 2 * time.Second

// Event kinds.
const (
	KindKill    = "kill"
	KindDamage  = "damage"
	KindFrame   = "frame"
	KindScore   = "score"
	KindPowerUp = "power-up"
	KindRunOver = "run-over"
)

// Event is one statistic sample.
type Event struct {
	Kind string
	I    int
	F    float64
	At   time.Time
}

// Batch is the aggregate of one interval.
type Batch struct {
	Kills    int
	Damage   float64
	Frames   int
	AvgDt    float64 // seconds
	Score    int     // latest score seen
	PowerUps int
	Dropped  int64 // events lost to a full buffer since the sink started
}

func (b Batch) empty() bool {
	return b.Kills == 0 && b.Damage == 0 && b.Frames == 0 && b.PowerUps == 0
}

// Sink collects events on a buffered channel. Producers never block: when
// the buffer is full the event is dropped and counted. Sink also
// implements loop.Observer, so it can be fanned in next to the HUD.
type Sink struct {
	in      chan Event
	quit    chan struct{}
	done    chan struct{}
	once    sync.Once
	dropped atomic.Int64
	flush   func(Batch)

	last loop.Stats // frame goroutine only
}

// NewSink starts a sink that logs a summary through logger every interval.
func NewSink(logger *log.Logger, interval time.Duration) *Sink {
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.WithPrefix("telemetry")
	return newSink(interval, func(b Batch) {
		if b.empty() {
			return
		}
		logger.Info("batch",
			"kills", b.Kills,
			"damage", b.Damage,
			"frames", b.Frames,
			"avgDt", b.AvgDt,
			"score", b.Score,
			"powerUps", b.PowerUps,
			"dropped", b.Dropped,
		)
	})
}

func newSink(interval time.Duration, flush func(Batch)) *Sink {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s := &Sink{
		in:    make(chan Event, 256),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
		flush: flush,
	}
	go s.loop(interval)
	return s
}

// Send queues an event without blocking.
func (s *Sink) Send(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	select {
	case s.in <- ev:
	default:
		s.dropped.Add(1)
	}
}

// Dropped returns the number of events lost to a full buffer.
func (s *Sink) Dropped() int64 {
	return s.dropped.Load()
}

// Frame reports one simulated frame. Kills and damage are sent as the
// difference from the previous call's stats; a reset run restarts them.
func (s *Sink) Frame(dt float64, stats loop.Stats) {
	if stats.Frames < s.last.Frames {
		s.last = loop.Stats{}
	}
	if k := stats.Kills - s.last.Kills; k > 0 {
		s.Send(Event{Kind: KindKill, I: k})
	}
	if d := stats.DamageTaken - s.last.DamageTaken; d > 0 {
		s.Send(Event{Kind: KindDamage, F: d})
	}
	s.last = stats
	s.Send(Event{Kind: KindFrame, F: dt})
}

func (s *Sink) ScoreChanged(score int) {
	s.Send(Event{Kind: KindScore, I: score})
}

func (s *Sink) HealthChanged(float64, float64) {}
func (s *Sink) LivesChanged(int)               {}
func (s *Sink) TempoChanged(float64)           {}

func (s *Sink) Status(e loop.StatusEvent) {
	switch e.Name {
	case loop.StatusPowerUp:
		s.Send(Event{Kind: KindPowerUp, I: 1})
	case loop.StatusRunOver:
		s.Send(Event{Kind: KindRunOver, I: e.Score})
	}
}

// Close stops the sink after flushing what it has. It is safe to call
// more than once.
func (s *Sink) Close() {
	s.once.Do(func() {
		close(s.quit)
	})
	<-s.done
}

func (s *Sink) loop(interval time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var b Batch
	var dtSum float64
	emit := func() {
		if b.Frames > 0 {
			b.AvgDt = dtSum / float64(b.Frames)
		}
		b.Dropped = s.dropped.Load()
		if s.flush != nil {
			s.flush(b)
		}
		// Score carries over; everything else resets per batch.
		b = Batch{Score: b.Score}
		dtSum = 0
	}

	for {
		select {
		case <-s.quit:
			for {
				select {
				case ev := <-s.in:
					s.apply(&b, &dtSum, ev)
				default:
					emit()
					return
				}
			}

		case ev := <-s.in:
			if ev.Kind == KindRunOver {
				s.apply(&b, &dtSum, ev)
				emit()
				continue
			}
			s.apply(&b, &dtSum, ev)

		case <-ticker.C:
			emit()
		}
	}
}

func (s *Sink) apply(b *Batch, dtSum *float64, ev Event) {
	switch ev.Kind {
	case KindKill:
		b.Kills += ev.I
	case KindDamage:
		b.Damage += ev.F
	case KindFrame:
		b.Frames++
		*dtSum += ev.F
	case KindScore, KindRunOver:
		b.Score = ev.I
	case KindPowerUp:
		b.PowerUps += ev.I
	}
}

var _ loop.Observer = (*Sink)(nil)
