package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment represents a comment on a post stored in MongoDB. Parent is set
// when the comment replies to another comment.
type Comment struct {
	ID        primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Post      primitive.ObjectID  `json:"post" bson:"post"`
	Author    primitive.ObjectID  `json:"author" bson:"author"`
	Body      string              `json:"body" bson:"body"`
	Parent    *primitive.ObjectID `json:"parent,omitempty" bson:"parent,omitempty"`
	CreatedAt time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time           `json:"updated_at" bson:"updated_at"`
}

// CreateCommentRequest defines the request body for commenting on a post
type CreateCommentRequest struct {
	Body   string `json:"body" validate:"required,min=1,max=2000"`
	Parent string `json:"parent,omitempty" validate:"omitempty,len=24,hexadecimal"`
}
