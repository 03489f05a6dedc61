package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/nextwaveweb/salonbook/internal/catalog"
	"github.com/nextwaveweb/salonbook/internal/schedule"
)

// Availability exposes the weekly slot window for hours answers.
type Availability interface {
	ResolveWeek(ctx context.Context, q schedule.WeekQuery) ([]schedule.ResolvedDay, error)
}

// Menu exposes the service list for pricing answers.
type Menu interface {
	List(ctx context.Context, businessID string) ([]catalog.Service, error)
}

var (
	hoursKeywords = []string{"hour", "open", "when", "availab", "שעות", "פתוח", "מתי"}
	priceKeywords = []string{"price", "cost", "much", "מחיר", "עולה", "כמה"}

	defaultAnswers = map[string]string{
		"en": "I can help with opening hours and prices. For anything else, please call the salon.",
		"he": "אפשר לשאול אותי על שעות פתיחה ומחירים. לכל שאלה אחרת, התקשרו למספרה.",
	}
	noHoursAnswers = map[string]string{
		"en": "There are no open appointments in the coming week.",
		"he": "אין תורים פנויים בשבוע הקרוב.",
	}
	noMenuAnswers = map[string]string{
		"en": "The price list is not published yet. Please call the salon.",
		"he": "המחירון עדיין לא פורסם. התקשרו למספרה.",
	}
)

// RuleResponder answers hours and price questions from live data with
// simple keyword matching. It never fails, so it works as a fallback.
type RuleResponder struct {
	availability Availability
	menu         Menu
}

// NewRuleResponder creates a rule-based responder.
func NewRuleResponder(availability Availability, menu Menu) *RuleResponder {
	return &RuleResponder{availability: availability, menu: menu}
}

// Answer classifies the question and builds an answer from the schedule or
// the menu.
func (r *RuleResponder) Answer(ctx context.Context, q Question) (Reply, error) {
	text := strings.ToLower(q.Text)
	switch {
	case matchesAny(text, priceKeywords):
		return r.priceAnswer(ctx, q)
	case matchesAny(text, hoursKeywords):
		return r.hoursAnswer(ctx, q)
	default:
		return Reply{Text: localized(defaultAnswers, q.Locale), Backend: "rules"}, nil
	}
}

func (r *RuleResponder) hoursAnswer(ctx context.Context, q Question) (Reply, error) {
	days, err := r.availability.ResolveWeek(ctx, schedule.WeekQuery{
		BusinessID: q.BusinessID,
		Locale:     q.Locale,
	})
	if err != nil {
		return Reply{}, fmt.Errorf("chat: resolve week: %w", err)
	}

	var lines []string
	for _, day := range days {
		if len(day.Times) == 0 {
			continue
		}
		first := day.Times[0].Time
		last := day.Times[len(day.Times)-1].Time
		lines = append(lines, fmt.Sprintf("%s %s: %s-%s", day.DayName, day.Date, first, last))
	}
	if len(lines) == 0 {
		return Reply{Text: localized(noHoursAnswers, q.Locale), Backend: "rules"}, nil
	}
	return Reply{Text: strings.Join(lines, "\n"), Backend: "rules"}, nil
}

func (r *RuleResponder) priceAnswer(ctx context.Context, q Question) (Reply, error) {
	services, err := r.menu.List(ctx, q.BusinessID)
	if err != nil {
		return Reply{}, fmt.Errorf("chat: list services: %w", err)
	}
	if len(services) == 0 {
		return Reply{Text: localized(noMenuAnswers, q.Locale), Backend: "rules"}, nil
	}

	lines := make([]string, len(services))
	for i, svc := range services {
		lines[i] = fmt.Sprintf("%s: %.0f (%d min)", svc.Name, svc.Price, svc.DurationMinutes)
	}
	return Reply{Text: strings.Join(lines, "\n"), Backend: "rules"}, nil
}

func matchesAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func localized(answers map[string]string, locale string) string {
	if answer, ok := answers[locale]; ok {
		return answer
	}
	return answers["en"]
}
