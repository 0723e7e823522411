package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"rebelbot/internal/metrics"
	"rebelbot/internal/models"
	"rebelbot/internal/repositories"
)

type FeedbackService interface {
	Submit(ctx context.Context, userID string, req models.FeedbackRequest) (*models.Feedback, error)
}

type feedbackServiceImpl struct {
	feedbackRepo repositories.FeedbackRepository
	notifier     Notifier

	// notifications tracks in-flight notifier calls.
	notifications sync.WaitGroup
}

// NewFeedbackService creates a FeedbackService. notifier may be nil; it is
// called in the background so a slow mail server does not delay the response.
func NewFeedbackService(feedbackRepo repositories.FeedbackRepository, notifier Notifier) FeedbackService {
	return &feedbackServiceImpl{feedbackRepo: feedbackRepo, notifier: notifier}
}

func (s *feedbackServiceImpl) Submit(ctx context.Context, userID string, req models.FeedbackRequest) (*models.Feedback, error) {
	message, err := ValidateMessage(req.Message)
	if err != nil {
		return nil, err
	}

	feedback := &models.Feedback{
		ID:        uuid.NewString(),
		UserID:    userID,
		Message:   message,
		Page:      strings.TrimSpace(req.Page),
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.feedbackRepo.Create(ctx, feedback)
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("Failed to store feedback")
		return nil, err
	}
	metrics.FeedbackSubmittedTotal.Inc()
	log.Info().Str("userID", userID).Str("feedbackID", created.ID).Msg("Feedback submitted")

	if s.notifier != nil {
		notice := *created
		s.notifications.Add(1)
		go func() {
			defer s.notifications.Done()
			if err := s.notifier.NotifyFeedback(&notice); err != nil {
				log.Warn().Err(err).Str("feedbackID", notice.ID).Msg("Feedback stored but notification failed")
			}
		}()
	}
	return created, nil
}
