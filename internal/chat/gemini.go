package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/nextwaveweb/salonbook/internal/business"
)

// BusinessSource looks up the salon's name and knowledge text for the
// system instruction.
type BusinessSource interface {
	GetByID(ctx context.Context, id string) (*business.Business, error)
}

// GeminiResponder answers free-form questions with Google's Gemini API,
// grounded in the salon's knowledge text and service menu.
type GeminiResponder struct {
	client     *genai.Client
	modelID    string
	businesses BusinessSource
	menu       Menu
}

// NewGeminiResponder creates a Gemini-backed responder.
func NewGeminiResponder(ctx context.Context, apiKey, modelID string, businesses BusinessSource, menu Menu) (*GeminiResponder, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("chat: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("chat: failed to create gemini client: %w", err)
	}

	return &GeminiResponder{
		client:     client,
		modelID:    modelID,
		businesses: businesses,
		menu:       menu,
	}, nil
}

// Answer sends a single-turn completion grounded in the salon's context.
func (r *GeminiResponder) Answer(ctx context.Context, q Question) (Reply, error) {
	instruction, err := r.systemInstruction(ctx, q)
	if err != nil {
		return Reply{}, err
	}

	model := r.client.GenerativeModel(r.modelID)
	model.SystemInstruction = genai.NewUserContent(genai.Text(instruction))

	resp, err := model.GenerateContent(ctx, genai.Text(q.Text))
	if err != nil {
		return Reply{}, fmt.Errorf("chat: gemini completion failed: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return Reply{}, errors.New("chat: gemini returned no candidates")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return Reply{}, errors.New("chat: gemini returned empty content")
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	answer := strings.TrimSpace(text.String())
	if answer == "" {
		return Reply{}, errors.New("chat: gemini returned empty text")
	}
	return Reply{Text: answer, Backend: "gemini"}, nil
}

// Close releases resources held by the Gemini client.
func (r *GeminiResponder) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

func (r *GeminiResponder) systemInstruction(ctx context.Context, q Question) (string, error) {
	biz, err := r.businesses.GetByID(ctx, q.BusinessID)
	if err != nil {
		return "", fmt.Errorf("chat: load business: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are the assistant of the hair salon %q. Answer briefly and politely.", biz.Name)
	if q.Locale == "he" {
		b.WriteString(" Answer in Hebrew.")
	}
	if biz.BotKnowledge != "" {
		b.WriteString("\n\nSalon information:\n")
		b.WriteString(biz.BotKnowledge)
	}
	if r.menu != nil {
		if services, err := r.menu.List(ctx, q.BusinessID); err == nil && len(services) > 0 {
			b.WriteString("\n\nService menu:\n")
			for _, svc := range services {
				fmt.Fprintf(&b, "- %s: %.0f (%d min)\n", svc.Name, svc.Price, svc.DurationMinutes)
			}
		}
	}
	b.WriteString("\n\nIf you do not know the answer, say so and suggest calling the salon.")
	return b.String(), nil
}
