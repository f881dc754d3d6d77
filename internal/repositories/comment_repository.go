package repositories

import (
	"context"
	"time"

	"github.com/tahmid-rahman/inkwell-backend/internal/apperrors"
	"github.com/tahmid-rahman/inkwell-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id string) (*models.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]models.Comment, error)
}

// MongoCommentRepository implements CommentRepository for MongoDB
type MongoCommentRepository struct {
	comments *mongo.Collection
	posts    *mongo.Collection
}

// NewMongoCommentRepository creates a new MongoCommentRepository
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{
		comments: db.Collection("comments"),
		posts:    db.Collection("posts"),
	}
}

// CreateComment inserts the comment and bumps the post's comment counter
func (r *MongoCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt

	if _, err := r.comments.InsertOne(ctx, comment); err != nil {
		return apperrors.Storage("failed to create comment", err)
	}
	if _, err := r.posts.UpdateOne(ctx, bson.M{"_id": comment.Post},
		bson.M{"$inc": bson.M{"comment_count": 1}}); err != nil {
		return apperrors.Storage("failed to update comment count", err)
	}
	return nil
}

// GetCommentByID retrieves a comment by hex id
func (r *MongoCommentRepository) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("comment not found")
	}

	var comment models.Comment
	if err := r.comments.FindOne(ctx, bson.M{"_id": objID}).Decode(&comment); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("comment not found")
		}
		return nil, apperrors.Storage("failed to load comment", err)
	}
	return &comment, nil
}

// ListByPost retrieves a post's comments oldest first
func (r *MongoCommentRepository) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, apperrors.NotFound("post not found")
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.comments.Find(ctx, bson.M{"post": objID}, findOptions)
	if err != nil {
		return nil, apperrors.Storage("failed to list comments", err)
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, apperrors.Storage("failed to decode comments", err)
	}
	return comments, nil
}
