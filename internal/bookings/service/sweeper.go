package service

import (
	"context"
	"time"

	"castlehire/internal/bookings/repository"
	"castlehire/pkg/config"
)

// Sweeper periodically expires stale pending bookings and marks finished
// confirmed hires as completed. It runs until Stop is called.
type Sweeper struct {
	repo repository.BookingRepository
	cfg  *config.Config
	stop chan struct{}
	done chan struct{}
}

func NewSweeper(repo repository.BookingRepository, cfg *config.Config) *Sweeper {
	return &Sweeper{
		repo: repo,
		cfg:  cfg,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (w *Sweeper) Start() {
	go w.run()
}

// Stop signals the sweeper and waits for the in-flight sweep to finish.
func (w *Sweeper) Stop() {
	close(w.stop)
	<-w.done
}

func (w *Sweeper) run() {
	defer close(w.done)

	ticker := time.NewTicker(w.cfg.SweeperInterval)
	defer ticker.Stop()

	w.sweep()
	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), w.cfg.WriteTimeout)
	defer cancel()

	now := time.Now()
	staleBefore := now.Add(-time.Duration(w.cfg.PendingTTLHours) * time.Hour)

	expired, err := w.repo.ExpirePending(ctx, now, staleBefore)
	if err != nil {
		w.cfg.Log.Error("Failed to expire pending bookings", "error", err)
	} else if expired > 0 {
		w.cfg.Log.Info("Expired pending bookings", "count", expired)
	}

	completed, err := w.repo.CompleteFinished(ctx, now)
	if err != nil {
		w.cfg.Log.Error("Failed to complete finished bookings", "error", err)
	} else if completed > 0 {
		w.cfg.Log.Info("Completed finished bookings", "count", completed)
	}
}
