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

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*models.Post, error)
	ViewPostBySlug(ctx context.Context, slug string) (*models.Post, error)
	ListPublished(ctx context.Context, skip, limit int64) ([]models.Post, error)
	UpdatePost(ctx context.Context, slug string, update models.UpdatePostRequest) (*models.Post, error)
	DeletePost(ctx context.Context, slug string) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost derives the slug, excerpt and read time, then inserts the post.
// The slug starts as the slugified title; on a uniqueness collision a random
// suffix disambiguates it.
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	post.Excerpt = models.DeriveExcerpt(post.BodyHTML)
	post.ReadTime = models.DeriveReadTime(post.BodyHTML)
	if post.Status == "" {
		post.Status = models.PostStatusPublished
	}
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	if post.Bookmarks == nil {
		post.Bookmarks = []primitive.ObjectID{}
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}

	base := models.Slugify(post.Title)
	post.Slug = base
	for attempt := 0; ; attempt++ {
		_, err := r.collection.InsertOne(ctx, post)
		if err == nil {
			return nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return apperrors.Storage("failed to create post", err)
		}
		if attempt >= 5 {
			return apperrors.Storage("failed to derive a unique slug", err)
		}
		post.Slug = base + "-" + models.SlugSuffix()
	}
}

// GetPostByID retrieves a post by hex id
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("post not found")
	}

	var post models.Post
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("post not found")
		}
		return nil, apperrors.Storage("failed to load post", err)
	}
	return &post, nil
}

// GetPostBySlug retrieves a post by slug regardless of status
func (r *MongoPostRepository) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	if err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&post); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("post not found")
		}
		return nil, apperrors.Storage("failed to load post", err)
	}
	return &post, nil
}

// ViewPostBySlug retrieves a published post by slug and increments its view
// counter in the same operation
func (r *MongoPostRepository) ViewPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	filter := bson.M{"slug": slug, "status": models.PostStatusPublished}
	update := bson.M{"$inc": bson.M{"views": 1}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.Post
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&post); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("no post available")
		}
		return nil, apperrors.Storage("failed to load post", err)
	}
	return &post, nil
}

// ListPublished retrieves published posts newest first
func (r *MongoPostRepository) ListPublished(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"status": models.PostStatusPublished}, findOptions)
	if err != nil {
		return nil, apperrors.Storage("failed to list posts", err)
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, apperrors.Storage("failed to decode posts", err)
	}
	return posts, nil
}

// UpdatePost applies the non-empty fields to the post with the given slug and
// returns the updated document. The author reference is never touched.
func (r *MongoPostRepository) UpdatePost(ctx context.Context, slug string, update models.UpdatePostRequest) (*models.Post, error) {
	set := bson.M{"updated_at": time.Now()}
	if update.Title != "" {
		set["title"] = update.Title
	}
	if update.BodyHTML != "" {
		set["body_html"] = update.BodyHTML
		set["excerpt"] = models.DeriveExcerpt(update.BodyHTML)
		set["read_time"] = models.DeriveReadTime(update.BodyHTML)
	}
	if update.Tags != nil {
		set["tags"] = update.Tags
	}
	if update.CoverImage != "" {
		set["cover_image"] = update.CoverImage
	}
	if update.Status != "" {
		set["status"] = update.Status
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var post models.Post
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"slug": slug}, bson.M{"$set": set}, opts).Decode(&post); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("post not found")
		}
		return nil, apperrors.Storage("failed to update post", err)
	}
	return &post, nil
}

// DeletePost removes a post by slug
func (r *MongoPostRepository) DeletePost(ctx context.Context, slug string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"slug": slug})
	if err != nil {
		return apperrors.Storage("failed to delete post", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound("post not found")
	}
	return nil
}
