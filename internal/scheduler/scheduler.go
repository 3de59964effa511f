package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/promptpix/go-promptpix-backend/internal/generation/repository"
)

type Scheduler struct {
	queueRepo *repository.QueueRepository
	cron      *cron.Cron
}

func NewScheduler(queueRepo *repository.QueueRepository) *Scheduler {
	return &Scheduler{queueRepo: queueRepo}
}

// Start initializes cron tasks
func (s *Scheduler) Start() {
	c := cron.New(cron.WithSeconds())

	// every 5 minutes
	_, err := c.AddFunc("0 */5 * * * *", func() {
		s.pruneQueueIndexes()
	})

	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Println("Cron scheduler started (pruning queue indexes every 5 minutes)")
	c.Start()
	s.cron = c
}

// Stop halts the scheduler and waits for any running job to finish.
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

func (s *Scheduler) pruneQueueIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := s.queueRepo.PruneIndexes(ctx)
	if err != nil {
		log.Printf("Queue index prune failed: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("Queue index prune removed %d stale entries", removed)
	}
}
