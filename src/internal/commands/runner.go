package commands

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rbac-console/admin-console/src/internal/log"
)

// Supervisor runs a long-lived function and restarts it with exponential
// backoff when it fails or panics. A nil return ends supervision.
type Supervisor struct {
	name        string
	run         func(ctx context.Context) error
	maxRestarts int // 0 means unlimited
	backoff     time.Duration
	maxBackoff  time.Duration

	mu       sync.Mutex
	restarts int
	lastErr  error
}

// SupervisorConfig configures a Supervisor.
type SupervisorConfig struct {
	Name        string
	MaxRestarts int
	Backoff     time.Duration // default 1s
	MaxBackoff  time.Duration // default 30s
}

// NewSupervisor creates a supervisor for run.
func NewSupervisor(cfg SupervisorConfig, run func(ctx context.Context) error) *Supervisor {
	if cfg.Backoff == 0 {
		cfg.Backoff = time.Second
	}
	if cfg.MaxBackoff == 0 {
		cfg.MaxBackoff = 30 * time.Second
	}
	return &Supervisor{
		name:        cfg.Name,
		run:         run,
		maxRestarts: cfg.MaxRestarts,
		backoff:     cfg.Backoff,
		maxBackoff:  cfg.MaxBackoff,
	}
}

// Run blocks until run returns nil, ctx is cancelled, or the restart limit
// is reached. It returns the last error in the latter case.
func (s *Supervisor) Run(ctx context.Context) error {
	backoff := s.backoff

	for {
		err := s.runOnce(ctx)

		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()

		if err == nil {
			log.Debugf("%s: exited cleanly", s.name)
			return nil
		}
		if ctx.Err() != nil {
			log.Infof("%s: stopped", s.name)
			return nil
		}

		s.mu.Lock()
		s.restarts++
		restarts := s.restarts
		s.mu.Unlock()

		if s.maxRestarts > 0 && restarts >= s.maxRestarts {
			log.Errorf("%s: max restarts (%d) reached, giving up", s.name, s.maxRestarts)
			return err
		}

		log.Errorf("%s: failed: %v. Restarting in %v (restart #%d)", s.name, err, backoff, restarts)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > s.maxBackoff {
			backoff = s.maxBackoff
		}
	}
}

// Restarts returns how many times run has been restarted.
func (s *Supervisor) Restarts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restarts
}

// LastError returns the error of the most recent run.
func (s *Supervisor) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Supervisor) runOnce(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("panic: %v", recovered)
		}
	}()
	return s.run(ctx)
}
