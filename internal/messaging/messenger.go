// Package messaging produces short texts for members: renewal reminders,
// welcome notes, offers and workout tips. Generation never fails from the
// caller's point of view; a fixed text replaces any unavailable answer.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"alcyxob/gymledger/internal/metrics"

	"go.uber.org/zap"
)

type MessageType string

const (
	MessageReminder MessageType = "REMINDER"
	MessageWelcome  MessageType = "WELCOME"
	MessageOffer    MessageType = "OFFER"
)

var ErrInvalidMessageType = errors.New("message type must be REMINDER, WELCOME or OFFER")

func ParseMessageType(s string) (MessageType, error) {
	switch t := MessageType(strings.ToUpper(strings.TrimSpace(s))); t {
	case MessageReminder, MessageWelcome, MessageOffer:
		return t, nil
	}
	return "", ErrInvalidMessageType
}

const (
	FallbackMemberMessage = "Hey! Just a reminder about your gym membership. See you soon! 💪"
	FallbackWorkoutTip    = "Consistency is key to progress."
	// OfflineWorkoutTip is served when no generator or API key is configured.
	OfflineWorkoutTip     = "Stay consistent and drink water!"
)

// Messenger composes prompts and applies the fallbacks.
type Messenger struct {
	gen TextGenerator
	log *zap.Logger
}

func NewMessenger(gen TextGenerator, log *zap.Logger) *Messenger {
	return &Messenger{gen: gen, log: log.Named("messaging")}
}

// MemberMessage drafts a WhatsApp style message for a member. expiry is
// rendered in its own location.
func (m *Messenger) MemberMessage(ctx context.Context, name string, expiry time.Time, kind MessageType) string {
	var situation string
	switch kind {
	case MessageReminder:
		situation = fmt.Sprintf("Their membership expires on %s. Remind them to renew.", expiry.Format("Jan 2, 2006"))
	case MessageWelcome:
		situation = "They just joined! Welcome them to the gym family."
	case MessageOffer:
		situation = "Offer them a 10% discount if they renew within 24 hours."
	}

	prompt := fmt.Sprintf(`Act as a professional and friendly gym manager.
Write a short, engaging WhatsApp message for a member named %q.

Context:
%s

Requirements:
- Include emojis.
- Keep it under 50 words.
- Don't include subject lines or quotes.`, name, situation)

	return m.generate(ctx, string(kind), prompt, FallbackMemberMessage, FallbackMemberMessage)
}

// WorkoutTip returns a one sentence tip for someone training for daysActive days.
func (m *Messenger) WorkoutTip(ctx context.Context, daysActive int) string {
	prompt := fmt.Sprintf("Give me one single, powerful, and scientific workout tip for someone who has been working out for %d days. Keep it short (max 1 sentence).", daysActive)
	return m.generate(ctx, "WORKOUT_TIP", prompt, FallbackWorkoutTip, OfflineWorkoutTip)
}

// generate returns offline when generation is not configured and fallback
// when a configured call fails.
func (m *Messenger) generate(ctx context.Context, kind, prompt, fallback, offline string) string {
	if m.gen == nil {
		metrics.RecordMessage(kind, "fallback")
		return offline
	}

	text, err := m.gen.Generate(ctx, prompt)
	if errors.Is(err, ErrNoAPIKey) {
		metrics.RecordMessage(kind, "fallback")
		return offline
	}
	if err != nil {
		m.log.Warn("message generation failed, using fallback", zap.String("type", kind), zap.Error(err))
		metrics.RecordMessage(kind, "fallback")
		return fallback
	}

	metrics.RecordMessage(kind, "ai")
	return text
}
