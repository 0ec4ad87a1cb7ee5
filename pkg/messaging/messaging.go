package messaging

import (
	"strings"
	"time"

	"github.com/strokecare/platform/pkg/common/models"
)

// Compose builds an unread message. Recipient, subject and body are required.
func Compose(from, to, subject, body string, kind models.MessageKind, now time.Time) (models.Message, error) {
	to = strings.TrimSpace(to)
	if to == "" {
		return models.Message{}, models.NewValidationError("to", "is required")
	}
	if strings.TrimSpace(subject) == "" {
		return models.Message{}, models.NewValidationError("subject", "is required")
	}
	if strings.TrimSpace(body) == "" {
		return models.Message{}, models.NewValidationError("body", "is required")
	}
	if kind == "" {
		kind = models.MessageGeneral
	}
	return models.Message{
		From:      from,
		To:        to,
		Subject:   subject,
		Body:      body,
		Category:  kind,
		Timestamp: now,
	}, nil
}

// KindFor tags caregiver-to-patient notes as encouragement.
func KindFor(sender models.Role) models.MessageKind {
	if sender == models.RoleCaregiver {
		return models.MessageEncouragement
	}
	return models.MessageGeneral
}

// Inbox returns messages sent by or to email, newest first. messages must be
// in creation order.
func Inbox(messages []models.Message, email string) []models.Message {
	out := make([]models.Message, 0)
	for i := len(messages) - 1; i >= 0; i-- {
		m := messages[i]
		if m.To == email || m.From == email {
			out = append(out, m)
		}
	}
	return out
}

// MarkRead flips the read flag of message id when the viewer is its
// recipient. It reports whether anything changed; the input slice is not
// modified.
func MarkRead(messages []models.Message, id int64, viewerEmail string) ([]models.Message, bool, error) {
	for i, m := range messages {
		if m.ID != id {
			continue
		}
		if m.To != viewerEmail || m.Read {
			return messages, false, nil
		}
		out := append([]models.Message(nil), messages...)
		out[i].Read = true
		return out, true, nil
	}
	return messages, false, models.NewNotFoundError("message", "")
}

func UnreadCount(messages []models.Message, email string) int {
	n := 0
	for _, m := range messages {
		if m.To == email && !m.Read {
			n++
		}
	}
	return n
}
