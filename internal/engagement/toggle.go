package engagement

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/tahmid-rahman/inkwell-backend/internal/apperrors"
	"github.com/tahmid-rahman/inkwell-backend/internal/models"
	"github.com/tahmid-rahman/inkwell-backend/internal/repositories"
)

// FollowResult reports the post-transition follow state: the new membership
// plus the target's follower count and the actor's following count, so the
// caller can render without a second read.
type FollowResult struct {
	Created        bool  `json:"-"`
	IsFollowing    bool  `json:"isFollowing"`
	FollowersCount int64 `json:"followersCount"`
	FollowingCount int64 `json:"followingCount"`
}

// BookmarkResult reports the post-transition bookmark state.
type BookmarkResult struct {
	Created      bool `json:"-"`
	IsBookmarked bool `json:"isBookmarked"`
}

// LikeResult reports the post-transition like state.
type LikeResult struct {
	Created   bool  `json:"-"`
	IsLiked   bool  `json:"isLiked"`
	LikeCount int64 `json:"likeCount"`
}

// Engine flips membership in the relationship sets. A toggle that creates a
// relationship hands off to the fanout; removal never notifies. Fanout
// failures are logged and swallowed so a committed toggle is never undone by
// its side effect.
type Engine struct {
	users  repositories.UserRepository
	posts  repositories.PostRepository
	rels   repositories.RelationshipRepository
	fanout *Fanout
	log    *logrus.Logger
}

// NewEngine creates an Engine.
func NewEngine(userRepo repositories.UserRepository, postRepo repositories.PostRepository, relRepo repositories.RelationshipRepository, fanout *Fanout, log *logrus.Logger) *Engine {
	return &Engine{
		users:  userRepo,
		posts:  postRepo,
		rels:   relRepo,
		fanout: fanout,
		log:    log,
	}
}

// ToggleFollow flips the mirrored follower/following pair between actor and
// target. Self-follow fails before any state change.
func (e *Engine) ToggleFollow(ctx context.Context, actorID, targetID string) (*FollowResult, error) {
	if actorID == targetID {
		return nil, apperrors.InvalidOperation("cannot follow yourself")
	}
	if _, err := e.users.GetUserByID(ctx, actorID); err != nil {
		return nil, err
	}
	if _, err := e.users.GetUserByID(ctx, targetID); err != nil {
		return nil, err
	}

	isFollowing, err := e.rels.IsFollowing(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}

	if isFollowing {
		err = e.rels.RemoveFollow(ctx, actorID, targetID)
	} else {
		err = e.rels.AddFollow(ctx, actorID, targetID)
	}
	if err != nil {
		return nil, err
	}

	targetFollowers, _, err := e.rels.FollowCounts(ctx, targetID)
	if err != nil {
		return nil, err
	}
	_, actorFollowing, err := e.rels.FollowCounts(ctx, actorID)
	if err != nil {
		return nil, err
	}

	result := &FollowResult{
		Created:        !isFollowing,
		IsFollowing:    !isFollowing,
		FollowersCount: targetFollowers,
		FollowingCount: actorFollowing,
	}
	if result.Created {
		e.notify(ctx, models.NotificationFollow, targetID, actorID, models.NoSubject())
	}
	return result, nil
}

// ToggleBookmark flips the mirrored bookmark pair between the actor and the
// post. A creating transition notifies the post's author.
func (e *Engine) ToggleBookmark(ctx context.Context, actorID, postID string) (*BookmarkResult, error) {
	if _, err := e.users.GetUserByID(ctx, actorID); err != nil {
		return nil, err
	}
	post, err := e.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	isBookmarked, err := e.rels.HasBookmarked(ctx, actorID, postID)
	if err != nil {
		return nil, err
	}

	if isBookmarked {
		err = e.rels.RemoveBookmark(ctx, actorID, postID)
	} else {
		err = e.rels.AddBookmark(ctx, actorID, postID)
	}
	if err != nil {
		return nil, err
	}

	result := &BookmarkResult{
		Created:      !isBookmarked,
		IsBookmarked: !isBookmarked,
	}
	if result.Created {
		e.notify(ctx, models.NotificationBookmark, post.Author.Hex(), actorID, models.PostSubject(postID))
	}
	return result, nil
}

// ToggleLike flips the actor's membership in the post's likes set. Likes are
// one-sided; only the post tracks them.
func (e *Engine) ToggleLike(ctx context.Context, actorID, postID string) (*LikeResult, error) {
	if _, err := e.users.GetUserByID(ctx, actorID); err != nil {
		return nil, err
	}
	post, err := e.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	isLiked, err := e.rels.HasLiked(ctx, actorID, postID)
	if err != nil {
		return nil, err
	}

	if isLiked {
		err = e.rels.RemoveLike(ctx, actorID, postID)
	} else {
		err = e.rels.AddLike(ctx, actorID, postID)
	}
	if err != nil {
		return nil, err
	}

	likeCount, err := e.rels.LikeCount(ctx, postID)
	if err != nil {
		return nil, err
	}

	result := &LikeResult{
		Created:   !isLiked,
		IsLiked:   !isLiked,
		LikeCount: likeCount,
	}
	if result.Created {
		e.notify(ctx, models.NotificationLike, post.Author.Hex(), actorID, models.PostSubject(postID))
	}
	return result, nil
}

// NotifyComment fans out a comment notification to the post author and, when
// the comment replies to another comment, a reply notification to the parent
// comment's author. Each new comment is its own subject, so repeated comments
// on the same post all notify.
func (e *Engine) NotifyComment(ctx context.Context, actorID string, post *models.Post, comment *models.Comment, parentAuthorID string) {
	subject := models.CommentSubject(comment.ID.Hex())
	e.notify(ctx, models.NotificationComment, post.Author.Hex(), actorID, subject)

	if comment.Parent != nil && parentAuthorID != "" && parentAuthorID != post.Author.Hex() {
		e.notify(ctx, models.NotificationReply, parentAuthorID, actorID, subject)
	}
}

// notify hands a creating transition to the fanout. Errors are logged and
// never propagated to the toggle result.
func (e *Engine) notify(ctx context.Context, notifType, recipientID, actorID string, subject models.Subject) {
	if e.fanout == nil {
		return
	}
	if _, err := e.fanout.NotifyOnCreate(ctx, notifType, recipientID, actorID, subject); err != nil {
		e.log.WithFields(logrus.Fields{
			"type":      notifType,
			"recipient": recipientID,
			"actor":     actorID,
			"error":     err.Error(),
		}).Warn("notification fanout failed")
	}
}
