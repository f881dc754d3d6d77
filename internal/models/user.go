package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account stored in MongoDB. Followers, following and
// bookmarks are embedded id arrays; followers/following are mirrored pairs
// maintained by the engagement engine and a user id never appears in its own
// followers or following.
type User struct {
	ID        primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Username  string               `json:"username" bson:"username"`
	Email     string               `json:"email" bson:"email"`
	Password  string               `json:"-" bson:"password"` // bcrypt hash, never serialized
	Name      string               `json:"name" bson:"name"`
	Bio       string               `json:"bio" bson:"bio"`
	AvatarURL string               `json:"avatar_url" bson:"avatar_url"`
	Followers []primitive.ObjectID `json:"followers" bson:"followers"`
	Following []primitive.ObjectID `json:"following" bson:"following"`
	Bookmarks []primitive.ObjectID `json:"bookmarks" bson:"bookmarks"`
	Role      string               `json:"role" bson:"role"` // user, admin
	CreatedAt time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time            `json:"updated_at" bson:"updated_at"`
}

// UserCompact is the minimal actor summary embedded in feed items,
// notifications and live events.
type UserCompact struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// ToCompact returns the compact summary of a user.
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:        u.ID.Hex(),
		Username:  u.Username,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
	}
}

// RegisterRequest defines the request body for local registration
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest defines the request body for login; username or email works
type LoginRequest struct {
	Username string `json:"username" validate:"omitempty,min=3"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest defines the request body for profile edits
type UpdateProfileRequest struct {
	Name      string `json:"name,omitempty" validate:"omitempty,max=80"`
	Bio       string `json:"bio,omitempty" validate:"omitempty,max=300"`
	AvatarURL string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
