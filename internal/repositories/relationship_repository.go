package repositories

import (
	"context"

	"github.com/tahmid-rahman/inkwell-backend/internal/apperrors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RelationshipRepository owns the mirrored membership sets behind follows,
// bookmarks and likes. Mirrored dual writes (follow, bookmark) run inside a
// single multi-document transaction so the two sides can never disagree
// outside the transaction boundary. Likes are one-sided and live on the post
// document only.
type RelationshipRepository interface {
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
	AddFollow(ctx context.Context, followerID, followeeID string) error
	RemoveFollow(ctx context.Context, followerID, followeeID string) error
	FollowCounts(ctx context.Context, userID string) (followers, following int64, err error)

	HasBookmarked(ctx context.Context, userID, postID string) (bool, error)
	AddBookmark(ctx context.Context, userID, postID string) error
	RemoveBookmark(ctx context.Context, userID, postID string) error

	HasLiked(ctx context.Context, userID, postID string) (bool, error)
	AddLike(ctx context.Context, userID, postID string) error
	RemoveLike(ctx context.Context, userID, postID string) error
	LikeCount(ctx context.Context, postID string) (int64, error)
}

// MongoRelationshipRepository implements RelationshipRepository on the users
// and posts collections.
type MongoRelationshipRepository struct {
	client *mongo.Client
	users  *mongo.Collection
	posts  *mongo.Collection
}

// NewMongoRelationshipRepository creates a new MongoRelationshipRepository
func NewMongoRelationshipRepository(client *mongo.Client, db *mongo.Database) *MongoRelationshipRepository {
	return &MongoRelationshipRepository{
		client: client,
		users:  db.Collection("users"),
		posts:  db.Collection("posts"),
	}
}

func parseID(hex, what string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apperrors.NotFound(what + " not found")
	}
	return objID, nil
}

// inTransaction runs fn inside a mongo session transaction. Both writes of a
// mirrored pair commit or neither does.
func (r *MongoRelationshipRepository) inTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return apperrors.Storage("failed to start session", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil {
		return apperrors.Storage("relationship write failed", err)
	}
	return nil
}

// IsFollowing reports membership on the follower-owned side of the pair
func (r *MongoRelationshipRepository) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	follower, err := parseID(followerID, "user")
	if err != nil {
		return false, err
	}
	followee, err := parseID(followeeID, "user")
	if err != nil {
		return false, err
	}

	count, err := r.users.CountDocuments(ctx, bson.M{"_id": follower, "following": followee})
	if err != nil {
		return false, apperrors.Storage("failed to check follow state", err)
	}
	return count > 0, nil
}

// AddFollow adds the pair to both mirrored sets
func (r *MongoRelationshipRepository) AddFollow(ctx context.Context, followerID, followeeID string) error {
	follower, err := parseID(followerID, "user")
	if err != nil {
		return err
	}
	followee, err := parseID(followeeID, "user")
	if err != nil {
		return err
	}

	return r.inTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := r.users.UpdateOne(sc, bson.M{"_id": follower},
			bson.M{"$addToSet": bson.M{"following": followee}}); err != nil {
			return err
		}
		_, err := r.users.UpdateOne(sc, bson.M{"_id": followee},
			bson.M{"$addToSet": bson.M{"followers": follower}})
		return err
	})
}

// RemoveFollow removes the pair from both mirrored sets
func (r *MongoRelationshipRepository) RemoveFollow(ctx context.Context, followerID, followeeID string) error {
	follower, err := parseID(followerID, "user")
	if err != nil {
		return err
	}
	followee, err := parseID(followeeID, "user")
	if err != nil {
		return err
	}

	return r.inTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := r.users.UpdateOne(sc, bson.M{"_id": follower},
			bson.M{"$pull": bson.M{"following": followee}}); err != nil {
			return err
		}
		_, err := r.users.UpdateOne(sc, bson.M{"_id": followee},
			bson.M{"$pull": bson.M{"followers": follower}})
		return err
	})
}

// FollowCounts returns the cardinalities of a user's follower and following sets
func (r *MongoRelationshipRepository) FollowCounts(ctx context.Context, userID string) (int64, int64, error) {
	objID, err := parseID(userID, "user")
	if err != nil {
		return 0, 0, err
	}

	var doc struct {
		Followers []primitive.ObjectID `bson:"followers"`
		Following []primitive.ObjectID `bson:"following"`
	}
	err = r.users.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, 0, apperrors.NotFound("user not found")
		}
		return 0, 0, apperrors.Storage("failed to load follow counts", err)
	}
	return int64(len(doc.Followers)), int64(len(doc.Following)), nil
}

// HasBookmarked reports membership on the user-owned side of the pair
func (r *MongoRelationshipRepository) HasBookmarked(ctx context.Context, userID, postID string) (bool, error) {
	user, err := parseID(userID, "user")
	if err != nil {
		return false, err
	}
	post, err := parseID(postID, "post")
	if err != nil {
		return false, err
	}

	count, err := r.users.CountDocuments(ctx, bson.M{"_id": user, "bookmarks": post})
	if err != nil {
		return false, apperrors.Storage("failed to check bookmark state", err)
	}
	return count > 0, nil
}

// AddBookmark adds the pair to the user's bookmark set and the post's
// bookmarks set in one transaction
func (r *MongoRelationshipRepository) AddBookmark(ctx context.Context, userID, postID string) error {
	user, err := parseID(userID, "user")
	if err != nil {
		return err
	}
	post, err := parseID(postID, "post")
	if err != nil {
		return err
	}

	return r.inTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := r.users.UpdateOne(sc, bson.M{"_id": user},
			bson.M{"$addToSet": bson.M{"bookmarks": post}}); err != nil {
			return err
		}
		_, err := r.posts.UpdateOne(sc, bson.M{"_id": post},
			bson.M{"$addToSet": bson.M{"bookmarks": user}})
		return err
	})
}

// RemoveBookmark removes the pair from both mirrored sets
func (r *MongoRelationshipRepository) RemoveBookmark(ctx context.Context, userID, postID string) error {
	user, err := parseID(userID, "user")
	if err != nil {
		return err
	}
	post, err := parseID(postID, "post")
	if err != nil {
		return err
	}

	return r.inTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := r.users.UpdateOne(sc, bson.M{"_id": user},
			bson.M{"$pull": bson.M{"bookmarks": post}}); err != nil {
			return err
		}
		_, err := r.posts.UpdateOne(sc, bson.M{"_id": post},
			bson.M{"$pull": bson.M{"bookmarks": user}})
		return err
	})
}

// HasLiked reports whether the user appears in the post's likes set
func (r *MongoRelationshipRepository) HasLiked(ctx context.Context, userID, postID string) (bool, error) {
	user, err := parseID(userID, "user")
	if err != nil {
		return false, err
	}
	post, err := parseID(postID, "post")
	if err != nil {
		return false, err
	}

	count, err := r.posts.CountDocuments(ctx, bson.M{"_id": post, "likes": user})
	if err != nil {
		return false, apperrors.Storage("failed to check like state", err)
	}
	return count > 0, nil
}

// AddLike adds the user to the post's likes set. The relation is one-sided;
// there is no mirrored set on the user document.
func (r *MongoRelationshipRepository) AddLike(ctx context.Context, userID, postID string) error {
	user, err := parseID(userID, "user")
	if err != nil {
		return err
	}
	post, err := parseID(postID, "post")
	if err != nil {
		return err
	}

	if _, err := r.posts.UpdateOne(ctx, bson.M{"_id": post},
		bson.M{"$addToSet": bson.M{"likes": user}}); err != nil {
		return apperrors.Storage("failed to add like", err)
	}
	return nil
}

// RemoveLike removes the user from the post's likes set
func (r *MongoRelationshipRepository) RemoveLike(ctx context.Context, userID, postID string) error {
	user, err := parseID(userID, "user")
	if err != nil {
		return err
	}
	post, err := parseID(postID, "post")
	if err != nil {
		return err
	}

	if _, err := r.posts.UpdateOne(ctx, bson.M{"_id": post},
		bson.M{"$pull": bson.M{"likes": user}}); err != nil {
		return apperrors.Storage("failed to remove like", err)
	}
	return nil
}

// LikeCount returns the cardinality of the post's likes set
func (r *MongoRelationshipRepository) LikeCount(ctx context.Context, postID string) (int64, error) {
	post, err := parseID(postID, "post")
	if err != nil {
		return 0, err
	}

	var doc struct {
		Likes []primitive.ObjectID `bson:"likes"`
	}
	err = r.posts.FindOne(ctx, bson.M{"_id": post}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, apperrors.NotFound("post not found")
		}
		return 0, apperrors.Storage("failed to load like count", err)
	}
	return int64(len(doc.Likes)), nil
}
