package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Config controls the scheduler service.
type Config struct {
	Enabled        bool
	Workers        int
	DefaultTimeout time.Duration
	HistorySize    int
	Timezone       string // IANA TZ, e.g. "Asia/Shanghai"
	RetryMax       int    // max retries per task (default 2)
}

type retryOptions struct {
	Max      int
	Base     time.Duration
	MaxDelay time.Duration
	Jitter   float64 // 0.2 = 20%
}

func (o retryOptions) withDefaults(cfg Config) retryOptions {
	if o.Max <= 0 {
		o.Max = cfg.RetryMax
	}
	if o.Max < 0 {
		o.Max = 0
	}
	if o.Base <= 0 {
		o.Base = 500 * time.Millisecond
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = 15 * time.Second
	}
	if o.Jitter <= 0 {
		o.Jitter = 0.2
	}
	return o
}

type runState struct {
	mu      sync.Mutex
	running bool
}

// RunRecord is one completed (or failed) task execution.
type RunRecord struct {
	ID       string
	Name     string
	Started  time.Time
	Duration time.Duration
	Attempts int
	Error    string
}

type task struct {
	id      string
	name    string
	timeout time.Duration
	run     func(ctx context.Context) error
	state   *runState
}

type scheduleDef struct {
	id      string
	name    string
	spec    string // cron spec or @every
	timeout time.Duration
	job     func(ctx context.Context) error
	entryID cron.EntryID
	state   *runState
}

type Service struct {
	mu sync.Mutex

	log *slog.Logger
	cfg Config
	loc *time.Location

	parser cron.Parser
	c      *cron.Cron
	defs   []scheduleDef

	queue  chan task
	stopCh chan struct{}
	// stopDone is non-nil while a Stop() is in progress; closed when workers fully exit.
	stopDone chan struct{}

	hmu       sync.Mutex
	history   []RunRecord
	runCtx    context.Context
	runCancel context.CancelFunc
	workerWG  sync.WaitGroup
}

type ScheduleInfo struct {
	ID      string
	Name    string
	Spec    string
	Timeout time.Duration
	Next    time.Time
	Prev    time.Time
}

type Snapshot struct {
	Enabled        bool
	Timezone       string
	Workers        int
	QueueLen       int
	QueueCap       int
	DefaultTimeout time.Duration
	Schedules      []ScheduleInfo
	History        []RunRecord
}
