// Package trainlog reports the progress of surrogate training runs.
package trainlog

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Summarizer is implemented by models that can describe their architecture.
type Summarizer interface {
	Summary() string
}

// Logger receives the lifecycle events of a training run.
type Logger interface {
	// TrainStart is called once before any optimizer runs.
	TrainStart(model Summarizer)
	// TrainOpt announces the optimizer about to run.
	TrainOpt(name string)
	// TrainEpoch reports the loss computed before that epoch's update.
	TrainEpoch(epoch int, loss float32)
	// TrainEnd is called after the last step with the number of epochs run.
	TrainEnd(epochs int)
}

// ErrorFunc computes a validation error of the model being trained, such as
// a relative L2 error against a reference solution.
type ErrorFunc func() (float64, error)

// SlogLogger is a Logger writing structured records through log/slog.
//
// Every run gets a fresh uuid attached to all of its records. Epoch records
// are emitted every Frequency epochs; the first epoch is always reported.
type SlogLogger struct {
	log       *slog.Logger
	frequency int

	mu      sync.Mutex
	runID   uuid.UUID
	start   time.Time
	last    time.Time
	errFn   ErrorFunc
	optName string
	now     func() time.Time
}

// New creates a SlogLogger. A nil logger uses slog.Default(); a
// non-positive frequency reports every epoch.
func New(log *slog.Logger, frequency int) *SlogLogger {
	if log == nil {
		log = slog.Default()
	}
	if frequency <= 0 {
		frequency = 1
	}
	return &SlogLogger{
		log:       log,
		frequency: frequency,
		now:       time.Now,
	}
}

// SetErrorFn installs a validation error callback reported with each epoch
// record.
func (l *SlogLogger) SetErrorFn(fn ErrorFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errFn = fn
}

// RunID returns the id of the current (or last) run.
func (l *SlogLogger) RunID() uuid.UUID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.runID
}

// TrainStart starts a new run and logs the model summary.
func (l *SlogLogger) TrainStart(model Summarizer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.runID = uuid.New()
	l.start = l.now()
	l.last = l.start

	attrs := []any{slog.String("run", l.runID.String())}
	if model != nil {
		attrs = append(attrs, slog.String("summary", model.Summary()))
	}
	l.log.Info("training started", attrs...)
}

// TrainOpt logs the optimizer switch.
func (l *SlogLogger) TrainOpt(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.optName = name
	l.log.Info("optimizer", slog.String("run", l.runID.String()), slog.String("name", name))
}

// TrainEpoch logs the loss every frequency epochs.
func (l *SlogLogger) TrainEpoch(epoch int, loss float32) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if epoch%l.frequency != 0 {
		return
	}

	now := l.now()
	attrs := []any{
		slog.String("run", l.runID.String()),
		slog.String("opt", l.optName),
		slog.Int("epoch", epoch),
		slog.Float64("loss", float64(loss)),
		slog.Duration("elapsed", now.Sub(l.start)),
		slog.Duration("since_last", now.Sub(l.last)),
	}
	l.last = now

	if l.errFn != nil {
		errValue, err := l.errFn()
		if err != nil {
			attrs = append(attrs, slog.String("error_fn", err.Error()))
		} else {
			attrs = append(attrs, slog.Float64("error", errValue))
		}
	}
	l.log.Info("epoch", attrs...)
}

// TrainEnd logs the total number of epochs and the run duration.
func (l *SlogLogger) TrainEnd(epochs int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.log.Info("training finished",
		slog.String("run", l.runID.String()),
		slog.Int("epochs", epochs),
		slog.Duration("elapsed", l.now().Sub(l.start)),
	)
}

// Nop is a Logger that discards every event.
type Nop struct{}

// TrainStart does nothing.
func (Nop) TrainStart(Summarizer) {}

// TrainOpt does nothing.
func (Nop) TrainOpt(string) {}

// TrainEpoch does nothing.
func (Nop) TrainEpoch(int, float32) {}

// TrainEnd does nothing.
func (Nop) TrainEnd(int) {}
