package engagement

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tahmid-rahman/inkwell-backend/internal/models"
	"github.com/tahmid-rahman/inkwell-backend/internal/repositories"
)

// Event is the payload pushed to a recipient's live channel.
type Event struct {
	Type      string             `json:"type"`
	Actor     models.UserCompact `json:"actor"`
	Subject   models.Subject     `json:"subject,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

// Presence answers whether a recipient is currently reachable for live
// delivery and, if so, hands the event over. Delivery is best effort: the
// return value only reports whether a channel accepted the event. The
// transport layer owns the implementation's lifecycle.
type Presence interface {
	Deliver(recipientID string, event Event) bool
}

// Fanout turns creating state transitions into notifications. It deduplicates
// on the exact (recipient, actor, type, subject) tuple, suppresses
// self-notification, and pushes a live event opportunistically after a record
// is persisted. Notification persistence sits outside the toggle's atomicity
// boundary: a fanout failure never rolls back a committed toggle.
type Fanout struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	presence      Presence // nil when no live transport is wired
	log           *logrus.Logger
}

// NewFanout creates a Fanout. presence may be nil.
func NewFanout(notifRepo repositories.NotificationRepository, userRepo repositories.UserRepository, presence Presence, log *logrus.Logger) *Fanout {
	return &Fanout{
		notifications: notifRepo,
		users:         userRepo,
		presence:      presence,
		log:           log,
	}
}

// NotifyOnCreate records a notification for a creating transition. It returns
// the existing record unchanged when the tuple is already present, and nil
// when the actor is the recipient.
func (f *Fanout) NotifyOnCreate(ctx context.Context, notifType, recipientID, actorID string, subject models.Subject) (*models.Notification, error) {
	if recipientID == actorID {
		return nil, nil
	}

	existing, err := f.notifications.FindByTuple(ctx, recipientID, actorID, notifType, subject)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	notification := &models.Notification{
		RecipientID: recipientID,
		ActorID:     actorID,
		Type:        notifType,
		SubjectKind: subject.Kind,
		SubjectID:   subject.ID,
		Read:        false,
		CreatedAt:   time.Now(),
	}
	if err := f.notifications.Create(ctx, notification); err != nil {
		return nil, err
	}

	f.deliverLive(ctx, notification)
	return notification, nil
}

// deliverLive pushes the event to the recipient's channel if one is
// reachable. Failure or absence of a channel is silently ignored.
func (f *Fanout) deliverLive(ctx context.Context, notification *models.Notification) {
	if f.presence == nil {
		return
	}

	actor, err := f.users.GetUserByID(ctx, notification.ActorID)
	if err != nil {
		f.log.WithFields(logrus.Fields{"actor_id": notification.ActorID, "error": err.Error()}).
			Debug("live delivery skipped, actor lookup failed")
		return
	}

	event := Event{
		Type:      notification.Type,
		Actor:     actor.ToCompact(),
		Subject:   notification.Subject(),
		CreatedAt: notification.CreatedAt,
	}
	if !f.presence.Deliver(notification.RecipientID, event) {
		f.log.WithField("recipient_id", notification.RecipientID).
			Debug("recipient not reachable for live delivery")
	}
}
