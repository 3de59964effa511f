package service

import (
	"context"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/promptpix/go-promptpix-backend/internal/generation/domain"
	"github.com/promptpix/go-promptpix-backend/internal/generation/enhance"
	"github.com/promptpix/go-promptpix-backend/internal/generation/imageapi"
	"github.com/promptpix/go-promptpix-backend/internal/generation/readiness"
	"github.com/promptpix/go-promptpix-backend/internal/generation/repository"
)

// GenerationService orchestrates one generation request: enhance the prompt,
// build the image URL, validate it resolves to image content, persist, and
// resolve the queue item once the image is actually ready. The outbound call
// order is strict and the database insert is gated on validation.
type GenerationService struct {
	enhancer  *enhance.Client
	images    *imageapi.Client
	poller    *readiness.Poller
	genRepo   *repository.GenerationRepository
	queueRepo *repository.QueueRepository

	// pollTimeout bounds the background readiness watch so a stuck probe
	// cannot outlive the queue item it reports on.
	pollTimeout time.Duration
}

func NewGenerationService(
	enhancer *enhance.Client,
	images *imageapi.Client,
	poller *readiness.Poller,
	genRepo *repository.GenerationRepository,
	queueRepo *repository.QueueRepository,
) *GenerationService {
	return &GenerationService{
		enhancer:    enhancer,
		images:      images,
		poller:      poller,
		genRepo:     genRepo,
		queueRepo:   queueRepo,
		pollTimeout: 5 * time.Minute,
	}
}

// Generate runs the full orchestration for one prompt. On success the
// generation is persisted and the returned request ID can be watched via the
// queue endpoint while the readiness poll settles in the background.
func (s *GenerationService) Generate(ctx context.Context, userID, prompt string) (*domain.GenerateResult, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, domain.ErrEmptyPrompt
	}

	item := &domain.QueueItem{
		UserID: userID,
		Prompt: prompt,
		Status: domain.StatusQueued,
	}
	if err := s.queueRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	if _, err := s.queueRepo.Transition(ctx, item.ID, domain.StatusGenerating, nil); err != nil {
		return nil, err
	}

	enhanced, err := s.enhancer.Enhance(ctx, prompt)
	if err != nil {
		s.fail(ctx, item.ID, err)
		return nil, err
	}

	seed := rand.Intn(domain.SeedRange)
	imageURL := s.images.BuildURL(enhanced, seed)

	// Enhancement and URL construction are done; the validation call is next.
	if _, err := s.queueRepo.Transition(ctx, item.ID, domain.StatusFinalizing, nil); err != nil {
		return nil, err
	}

	if err := s.images.Validate(ctx, imageURL); err != nil {
		s.fail(ctx, item.ID, err)
		return nil, err
	}

	gen := &domain.Generation{
		UserID:         userID,
		Prompt:         prompt,
		EnhancedPrompt: enhanced,
		ImageURL:       imageURL,
		Seed:           seed,
	}
	if err := s.genRepo.Create(ctx, gen); err != nil {
		s.fail(ctx, item.ID, err)
		return nil, err
	}

	go s.watchReadiness(item.ID, imageURL)

	return &domain.GenerateResult{
		RequestID:      item.ID,
		ImageURL:       imageURL,
		EnhancedPrompt: enhanced,
		Seed:           seed,
	}, nil
}

// History returns the user's persisted generations, newest first.
func (s *GenerationService) History(ctx context.Context, userID string) ([]domain.Generation, error) {
	return s.genRepo.ListByUser(ctx, userID)
}

// QueueItem returns one of the user's queue items. Items belonging to other
// users are reported as not found.
func (s *GenerationService) QueueItem(ctx context.Context, userID, itemID string) (*domain.QueueItem, error) {
	item, err := s.queueRepo.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.UserID != userID {
		return nil, domain.ErrQueueItemNotFound
	}
	return item, nil
}

// watchReadiness resolves the queue item once the readiness poll settles.
// It runs detached from the request context: the caller already has its
// response, only the queue item is still watching.
func (s *GenerationService) watchReadiness(itemID, imageURL string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.pollTimeout)
	defer cancel()

	outcome, err := s.poller.Wait(ctx, imageURL, func(state string) {
		log.Printf("[readiness] item=%s state=%s", itemID, state)
	})
	if err != nil {
		s.fail(ctx, itemID, err)
		return
	}

	switch outcome {
	case readiness.Ready, readiness.Partial:
		_, terr := s.queueRepo.Transition(ctx, itemID, domain.StatusComplete, func(it *domain.QueueItem) {
			it.Readiness = string(outcome)
		})
		if terr != nil {
			log.Printf("[readiness] item=%s failed to complete queue item: %v", itemID, terr)
		}
	case readiness.Failed:
		_, terr := s.queueRepo.Transition(ctx, itemID, domain.StatusFailed, func(it *domain.QueueItem) {
			it.Readiness = string(readiness.Failed)
			it.Error = "image never became loadable"
		})
		if terr != nil {
			log.Printf("[readiness] item=%s failed to fail queue item: %v", itemID, terr)
		}
	}
}

// fail marks the queue item failed, keeping the original error for callers
// watching the queue endpoint.
func (s *GenerationService) fail(ctx context.Context, itemID string, cause error) {
	if _, err := s.queueRepo.Transition(ctx, itemID, domain.StatusFailed, func(it *domain.QueueItem) {
		it.Error = cause.Error()
	}); err != nil {
		log.Printf("[generate] item=%s failed to mark queue item failed: %v", itemID, err)
	}
}
