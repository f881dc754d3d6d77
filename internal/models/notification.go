package models

import "time"

// Notification types. Follow, bookmark and like are dedup-sensitive: at most
// one record may exist per (recipient, actor, type, subject) tuple.
const (
	NotificationLike     = "like"
	NotificationComment  = "comment"
	NotificationFollow   = "follow"
	NotificationMention  = "mention"
	NotificationReply    = "reply"
	NotificationBookmark = "bookmark"
)

// Subject kinds for the tagged subject variant.
const (
	SubjectNone    = ""
	SubjectPost    = "post"
	SubjectComment = "comment"
)

// Subject is the tagged reference a notification points at. Follow
// notifications carry no subject; like and bookmark notifications reference a
// post; comment, reply and mention notifications reference a comment.
type Subject struct {
	Kind string `json:"kind,omitempty"`
	ID   string `json:"id,omitempty"`
}

// NoSubject is the empty subject used by follow notifications.
func NoSubject() Subject {
	return Subject{}
}

// PostSubject references a post by id.
func PostSubject(postID string) Subject {
	return Subject{Kind: SubjectPost, ID: postID}
}

// CommentSubject references a comment by id.
func CommentSubject(commentID string) Subject {
	return Subject{Kind: SubjectComment, ID: commentID}
}

// Notification represents a persisted engagement notification (PostgreSQL).
// Records are created only by the fanout on a creating transition and are
// mutated only to flip Read.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	RecipientID string    `json:"recipient_id" gorm:"size:24;uniqueIndex:idx_notif_tuple;index"`
	ActorID     string    `json:"actor_id" gorm:"size:24;uniqueIndex:idx_notif_tuple;index"`
	Type        string    `json:"type" gorm:"size:20;uniqueIndex:idx_notif_tuple"`
	SubjectKind string    `json:"subject_kind" gorm:"size:10;uniqueIndex:idx_notif_tuple"`
	SubjectID   string    `json:"subject_id" gorm:"size:24;uniqueIndex:idx_notif_tuple"`
	Read        bool      `json:"read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

// Subject returns the tagged subject reference of the notification.
func (n *Notification) Subject() Subject {
	return Subject{Kind: n.SubjectKind, ID: n.SubjectID}
}
