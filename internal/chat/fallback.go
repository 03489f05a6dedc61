package chat

import (
	"context"

	"github.com/nextwaveweb/salonbook/pkg/logging"
)

// FallbackResponder wraps a primary responder with a fallback.
// If the primary fails, it automatically retries with the fallback.
type FallbackResponder struct {
	primary  Responder
	fallback Responder
	logger   *logging.Logger
}

// NewFallbackResponder creates a fallback-enabled responder.
// If fallback is nil, only the primary is used.
func NewFallbackResponder(primary, fallback Responder, logger *logging.Logger) *FallbackResponder {
	if logger == nil {
		logger = logging.Default()
	}
	return &FallbackResponder{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Answer asks the primary responder first. If it fails and a fallback is
// configured, retries with the fallback.
func (r *FallbackResponder) Answer(ctx context.Context, q Question) (Reply, error) {
	reply, err := r.primary.Answer(ctx, q)
	if err == nil {
		return reply, nil
	}

	r.logger.Warn("primary responder failed, attempting fallback",
		"error", err.Error(),
		"fallback_available", r.fallback != nil,
	)

	if r.fallback == nil {
		return Reply{}, err
	}

	fallbackReply, fallbackErr := r.fallback.Answer(ctx, q)
	if fallbackErr != nil {
		r.logger.Error("fallback responder also failed",
			"primary_error", err.Error(),
			"fallback_error", fallbackErr.Error(),
		)
		return Reply{}, fallbackErr
	}

	r.logger.Info("fallback responder succeeded after primary failure")
	return fallbackReply, nil
}
