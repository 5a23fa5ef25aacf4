// Package scheduler runs named maintenance tasks on fixed intervals: polling
// a remote index for changes and optimizing the local database.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rubiojr/docsearch/pkg/log"
)

var (
	ErrRunning   = errors.New("scheduler is already running")
	ErrNoTasks   = errors.New("no tasks configured")
	ErrDuplicate = errors.New("task already registered")
)

// Task is a unit of periodic work. Errors are logged and the task keeps
// its schedule.
type Task func(ctx context.Context) error

type entry struct {
	name     string
	interval time.Duration
	run      Task
}

type Scheduler struct {
	mu      sync.Mutex
	tasks   []entry
	names   map[string]struct{}
	runCtx  context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	logger  *log.Logger
}

func New() *Scheduler {
	return &Scheduler{
		names:  make(map[string]struct{}),
		logger: log.ForService("scheduler"),
	}
}

// Add registers task to run every interval. An interval of zero or less
// registers nothing. Tasks added while the scheduler runs start at once.
func (s *Scheduler) Add(name string, interval time.Duration, task Task) error {
	if interval <= 0 {
		s.logger.Debugf("task %s disabled (interval %v)", name, interval)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.names[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	e := entry{name: name, interval: interval, run: task}
	s.names[name] = struct{}{}
	s.tasks = append(s.tasks, e)

	if s.running {
		s.start(e)
	}
	return nil
}

// Len returns the number of registered tasks.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Start launches one goroutine per task. Tasks first run after one interval.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrRunning
	}
	if len(s.tasks) == 0 {
		return ErrNoTasks
	}

	s.runCtx, s.cancel = context.WithCancel(ctx)
	s.running = true
	for _, e := range s.tasks {
		s.start(e)
	}
	s.logger.Infof("started %d tasks", len(s.tasks))
	return nil
}

// start requires s.mu and a running scheduler.
func (s *Scheduler) start(e entry) {
	s.wg.Add(1)
	go s.loop(s.runCtx, e)
	s.logger.Debugf("scheduled %s every %v", e.name, e.interval)
}

func (s *Scheduler) loop(ctx context.Context, e entry) {
	defer s.wg.Done()
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.logger.Debugf("running %s", e.name)
			if err := e.run(ctx); err != nil {
				s.logger.Warnf("%s failed: %v", e.name, err)
			}
		}
	}
}

// Stop cancels every task and waits for running ones to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.running = false
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Infof("stopped")
}

// Run starts the scheduler and blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return nil
}

func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
