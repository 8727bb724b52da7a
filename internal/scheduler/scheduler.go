package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"remindbot/internal/remind"
	"remindbot/internal/storage"
)

type Config struct {
	// ResyncEvery is the interval of the periodic recovery sweep.
	// Zero disables the periodic job; the startup sweep always runs.
	ResyncEvery time.Duration
	// FireTimeout bounds a single delivery. Zero means no timeout.
	FireTimeout time.Duration
}

// Dispatcher handles a fired reminder. It is responsible for deleting the
// row once delivery has been attempted.
type Dispatcher interface {
	Deliver(ctx context.Context, id int64, r remind.Reminder)
}

type handle struct {
	timer *clock.Timer
	stop  chan struct{}
}

// Scheduler owns the ID-to-handle map. It is constructed explicitly and
// injected where needed; tests can run several independent instances.
type Scheduler struct {
	cfg   Config
	log   zerolog.Logger
	store storage.Store
	disp  Dispatcher
	clk   clock.Clock

	mu      sync.Mutex
	handles map[int64]*handle
	// firing holds IDs whose delivery has begun but whose row is not yet
	// deleted, so a concurrent resync cannot re-arm them.
	firing  map[int64]struct{}
	cron    *cron.Cron
	baseCtx context.Context
	started bool
}

func New(cfg Config, store storage.Store, disp Dispatcher, clk clock.Clock, log zerolog.Logger) *Scheduler {
	if clk == nil {
		clk = clock.New()
	}
	return &Scheduler{
		cfg:     cfg,
		log:     log.With().Str("component", "scheduler").Logger(),
		store:   store,
		disp:    disp,
		clk:     clk,
		handles: map[int64]*handle{},
		firing:  map[int64]struct{}{},
	}
}

// Start runs the recovery sweep and, if configured, the periodic resync job.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.baseCtx = ctx
	s.mu.Unlock()

	if err := s.Resync(ctx); err != nil {
		// The sweep failing must not keep the bot from serving new
		// commands; the periodic job will retry.
		s.log.Warn().Err(err).Msg("recovery sweep failed")
	}

	if s.cfg.ResyncEvery > 0 {
		c := cron.New()
		_, err := c.AddFunc(fmt.Sprintf("@every %s", s.cfg.ResyncEvery), func() {
			if err := s.Resync(ctx); err != nil {
				s.log.Warn().Err(err).Msg("resync failed")
			}
		})
		if err != nil {
			return err
		}
		c.Start()
		s.mu.Lock()
		s.cron = c
		s.mu.Unlock()
	}

	s.log.Info().Dur("resync_every", s.cfg.ResyncEvery).Msg("scheduler started")
	return nil
}

// Stop halts the resync job and disarms all live handles. Persisted rows are
// untouched; a later Start re-arms them.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
	}
	for id, h := range s.handles {
		h.timer.Stop()
		close(h.stop)
		delete(s.handles, id)
	}
	s.started = false
	s.log.Info().Msg("scheduler stopped")
}

// Schedule persists r and arms a one-shot timer for its fire time. The
// returned ID is the caller's handle for list and delete.
func (s *Scheduler) Schedule(ctx context.Context, r remind.Reminder) (int64, error) {
	id, err := s.store.AddReminder(ctx, r)
	if err != nil {
		return 0, err
	}
	s.arm(id, r)
	s.log.Info().Int64("id", id).Time("when", r.When).Str("who", r.Who).Msg("reminder scheduled")
	return id, nil
}

// Cancel disarms the live handle for id. It returns false when no handle is
// registered (already fired, already cancelled, or armed by a previous
// process); the caller is still expected to delete the persisted row.
func (s *Scheduler) Cancel(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.handles[id]
	if !ok {
		return false
	}
	delete(s.handles, id)
	h.timer.Stop()
	close(h.stop)
	return true
}

// Resync arms every persisted reminder that has no live handle. Reminders
// whose fire time has passed are armed with zero delay.
func (s *Scheduler) Resync(ctx context.Context) error {
	rows, err := s.store.ListReminders(ctx)
	if err != nil {
		return err
	}
	armed := 0
	for _, row := range rows {
		if s.arm(row.ID, row.Reminder) {
			armed++
		}
	}
	if armed > 0 {
		s.log.Info().Int("armed", armed).Msg("re-armed persisted reminders")
	}
	return nil
}

// Outstanding returns the IDs with a live handle, ascending.
func (s *Scheduler) Outstanding() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int64, 0, len(s.handles))
	for id := range s.handles {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *Scheduler) arm(id int64, r remind.Reminder) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.handles[id]; ok {
		return false
	}
	if _, ok := s.firing[id]; ok {
		return false
	}
	d := r.When.Sub(s.clk.Now())
	if d < 0 {
		d = 0
	}
	h := &handle{timer: s.clk.Timer(d), stop: make(chan struct{})}
	s.handles[id] = h
	go s.wait(id, r, h)
	return true
}

func (s *Scheduler) wait(id int64, r remind.Reminder, h *handle) {
	select {
	case <-h.timer.C:
	case <-h.stop:
		return
	}

	// The timer elapsed, but Cancel may still win the race: the handle map
	// is the arbiter, and only the side that removes the entry proceeds.
	s.mu.Lock()
	cur, ok := s.handles[id]
	if !ok || cur != h {
		s.mu.Unlock()
		return
	}
	delete(s.handles, id)
	s.firing[id] = struct{}{}
	ctx := s.baseCtx
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.firing, id)
		s.mu.Unlock()
	}()

	if ctx == nil {
		ctx = context.Background()
	}
	if s.cfg.FireTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.FireTimeout)
		defer cancel()
	}

	// A delete can land between the timer elapsing and dispatch, and a
	// resync can even have re-armed a cancelled ID while its row was
	// still persisted. The row is the source of truth at fire time.
	if _, err := s.store.ReminderByID(ctx, id); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Warn().Err(err).Int64("id", id).Msg("row check at fire time failed")
		}
		return
	}
	s.disp.Deliver(ctx, id, r)
}
