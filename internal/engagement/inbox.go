package engagement

import (
	"context"
	"time"

	"github.com/tahmid-rahman/inkwell-backend/internal/apperrors"
	"github.com/tahmid-rahman/inkwell-backend/internal/models"
	"github.com/tahmid-rahman/inkwell-backend/internal/repositories"
)

// InboxEntry is a notification joined with its actor summary and a rendered
// one-line summary.
type InboxEntry struct {
	ID        uint               `json:"id"`
	Type      string             `json:"type"`
	Actor     models.UserCompact `json:"actor"`
	Subject   models.Subject     `json:"subject,omitempty"`
	Summary   string             `json:"summary"`
	Read      bool               `json:"read"`
	CreatedAt time.Time          `json:"created_at"`
}

// Inbox is the read side of notifications: listing with rendered summaries
// and the read-state flip.
type Inbox struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	posts         repositories.PostRepository
}

// NewInbox creates an Inbox.
func NewInbox(notifRepo repositories.NotificationRepository, userRepo repositories.UserRepository, postRepo repositories.PostRepository) *Inbox {
	return &Inbox{
		notifications: notifRepo,
		users:         userRepo,
		posts:         postRepo,
	}
}

// UnreadCount returns how many of the recipient's notifications are unread.
func (i *Inbox) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	return i.notifications.UnreadCount(ctx, recipientID)
}

// List returns the recipient's notifications newest first without mutating
// stored state.
func (i *Inbox) List(ctx context.Context, recipientID string) ([]InboxEntry, error) {
	notifications, err := i.notifications.ListByRecipient(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	entries := make([]InboxEntry, 0, len(notifications))
	actorCache := make(map[string]models.UserCompact)
	for _, n := range notifications {
		actor, ok := actorCache[n.ActorID]
		if !ok {
			user, err := i.users.GetUserByID(ctx, n.ActorID)
			if err == nil {
				actor = user.ToCompact()
			} else {
				actor = models.UserCompact{ID: n.ActorID, Username: "someone"}
			}
			actorCache[n.ActorID] = actor
		}
		entries = append(entries, InboxEntry{
			ID:        n.ID,
			Type:      n.Type,
			Actor:     actor,
			Subject:   n.Subject(),
			Summary:   renderSummary(actor.Username, n.Type),
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	return entries, nil
}

// MarkRead flips the notification to read. Only the recipient may mark it;
// marking an already-read notification succeeds without side effects. The
// subject post, if any, is returned for UI convenience.
func (i *Inbox) MarkRead(ctx context.Context, recipientID string, notificationID uint) (*models.Notification, *models.Post, error) {
	notification, err := i.notifications.GetByID(ctx, notificationID)
	if err != nil {
		return nil, nil, err
	}
	if notification.RecipientID != recipientID {
		return nil, nil, apperrors.Forbidden("notification belongs to another user")
	}

	if !notification.Read {
		if err := i.notifications.MarkRead(ctx, notificationID); err != nil {
			return nil, nil, err
		}
		notification.Read = true
	}

	var post *models.Post
	if notification.SubjectKind == models.SubjectPost && notification.SubjectID != "" {
		post, _ = i.posts.GetPostByID(ctx, notification.SubjectID)
	}
	return notification, post, nil
}

// renderSummary derives the human-readable line shown in the inbox.
func renderSummary(username, notifType string) string {
	switch notifType {
	case models.NotificationLike:
		return username + " liked your post"
	case models.NotificationComment:
		return username + " commented on your post"
	case models.NotificationFollow:
		return username + " started following you"
	case models.NotificationMention:
		return username + " mentioned you"
	case models.NotificationReply:
		return username + " replied to your comment"
	case models.NotificationBookmark:
		return username + " bookmarked your post"
	default:
		return username + " interacted with you"
	}
}
