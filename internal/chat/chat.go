// Package chat answers customer questions for a salon's storefront page.
// A Gemini-backed responder handles free-form questions when configured;
// a keyword rule responder is always available as the floor.
package chat

import (
	"context"
	"errors"

	"github.com/nextwaveweb/salonbook/internal/observability/metrics"
	"github.com/nextwaveweb/salonbook/pkg/logging"
)

// ErrEmptyQuestion is returned when the question text is blank.
var ErrEmptyQuestion = errors.New("chat: empty question")

// Question is one customer message scoped to a business.
type Question struct {
	BusinessID string
	Text       string
	Locale     string
}

// Reply carries the answer and which backend produced it.
type Reply struct {
	Text    string `json:"answer"`
	Backend string `json:"-"`
}

// Responder produces a reply to a question.
type Responder interface {
	Answer(ctx context.Context, q Question) (Reply, error)
}

// Service fronts a responder with metrics and logging.
type Service struct {
	responder Responder
	metrics   *metrics.ChatMetrics
	logger    *logging.Logger
}

// NewService creates a chat service.
func NewService(responder Responder, m *metrics.ChatMetrics, logger *logging.Logger) *Service {
	if responder == nil {
		panic("chat: responder required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{responder: responder, metrics: m, logger: logger}
}

// Ask answers one question.
func (s *Service) Ask(ctx context.Context, q Question) (Reply, error) {
	if q.Text == "" {
		return Reply{}, ErrEmptyQuestion
	}
	reply, err := s.responder.Answer(ctx, q)
	if err != nil {
		s.metrics.ObserveRequest("error")
		return Reply{}, err
	}
	s.metrics.ObserveRequest(reply.Backend)
	s.logger.Debug("chat question answered", "business_id", q.BusinessID, "backend", reply.Backend)
	return reply, nil
}
