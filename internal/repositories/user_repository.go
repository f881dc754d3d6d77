package repositories

import (
	"context"
	"time"

	"github.com/tahmid-rahman/inkwell-backend/internal/apperrors"
	"github.com/tahmid-rahman/inkwell-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByLogin(ctx context.Context, username, email string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	UpdateProfile(ctx context.Context, id string, update models.UpdateProfileRequest) (*models.User, error)
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// CreateUser inserts a new user with empty relationship sets
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	if user.Followers == nil {
		user.Followers = []primitive.ObjectID{}
	}
	if user.Following == nil {
		user.Following = []primitive.ObjectID{}
	}
	if user.Bookmarks == nil {
		user.Bookmarks = []primitive.ObjectID{}
	}
	if user.Role == "" {
		user.Role = "user"
	}
	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Conflict("user already exists")
		}
		return apperrors.Storage("failed to create user", err)
	}
	return nil
}

// GetUserByID retrieves a user by hex id
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("user not found")
	}

	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Storage("failed to load user", err)
	}
	return &user, nil
}

// GetUserByLogin retrieves a user matching either username or email
func (r *MongoUserRepository) GetUserByLogin(ctx context.Context, username, email string) (*models.User, error) {
	filter := bson.M{"$or": bson.A{bson.M{"username": username}, bson.M{"email": email}}}

	var user models.User
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Storage("failed to load user", err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email
func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Storage("failed to load user", err)
	}
	return &user, nil
}

// ExistsByUsernameOrEmail reports whether a user with the given username or
// email is already registered
func (r *MongoUserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	filter := bson.M{"$or": bson.A{bson.M{"username": username}, bson.M{"email": email}}}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return false, apperrors.Storage("failed to check existing user", err)
	}
	return count > 0, nil
}

// UpdateProfile applies the non-empty profile fields and returns the updated user
func (r *MongoUserRepository) UpdateProfile(ctx context.Context, id string, update models.UpdateProfileRequest) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("user not found")
	}

	set := bson.M{"updated_at": time.Now()}
	if update.Name != "" {
		set["name"] = update.Name
	}
	if update.Bio != "" {
		set["bio"] = update.Bio
	}
	if update.AvatarURL != "" {
		set["avatar_url"] = update.AvatarURL
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": set})
	if err != nil {
		return nil, apperrors.Storage("failed to update profile", err)
	}
	if res.MatchedCount == 0 {
		return nil, apperrors.NotFound("user not found")
	}
	return r.GetUserByID(ctx, id)
}
