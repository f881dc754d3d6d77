package models

import (
	"math/rand"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// Post represents a published article stored in MongoDB. Likes and bookmarks
// are embedded user-id arrays; bookmarks mirror the bookmarking user's own
// bookmark set while likes are tracked on the post side only. Author is
// immutable after creation and the slug is globally unique.
type Post struct {
	ID           primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Title        string               `json:"title" bson:"title"`
	Slug         string               `json:"slug" bson:"slug"`
	BodyHTML     string               `json:"body_html" bson:"body_html"`
	Excerpt      string               `json:"excerpt" bson:"excerpt"`
	Tags         []string             `json:"tags" bson:"tags"`
	Author       primitive.ObjectID   `json:"author" bson:"author"`
	CoverImage   string               `json:"cover_image" bson:"cover_image"`
	Likes        []primitive.ObjectID `json:"likes" bson:"likes"`
	Bookmarks    []primitive.ObjectID `json:"bookmarks" bson:"bookmarks"`
	CommentCount int                  `json:"comment_count" bson:"comment_count"`
	Views        int64                `json:"views" bson:"views"`
	ReadTime     int                  `json:"read_time" bson:"read_time"`
	Status       string               `json:"status" bson:"status"`
	CreatedAt    time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at" bson:"updated_at"`
}

// LikeCount returns the number of users that like the post.
func (p *Post) LikeCount() int {
	return len(p.Likes)
}

// CreatePostRequest defines the request body for authoring a post
type CreatePostRequest struct {
	Title      string   `json:"title" validate:"required,min=1,max=200"`
	BodyHTML   string   `json:"bodyHtml" validate:"required,min=1"`
	Tags       []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=40"`
	CoverImage string   `json:"coverImage,omitempty" validate:"omitempty,url"`
	Status     string   `json:"status,omitempty" validate:"omitempty,oneof=draft published"`
}

// UpdatePostRequest defines the request body for editing a post
type UpdatePostRequest struct {
	Title      string   `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	BodyHTML   string   `json:"bodyHtml,omitempty" validate:"omitempty,min=1"`
	Tags       []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=40"`
	CoverImage string   `json:"coverImage,omitempty" validate:"omitempty,url"`
	Status     string   `json:"status,omitempty" validate:"omitempty,oneof=draft published"`
}

var (
	nonSlugChars  = regexp.MustCompile(`[^a-z0-9]+`)
	htmlTags      = regexp.MustCompile(`<\/?[^>]+(>|$)`)
	slugAlphabet  = "abcdefghijklmnopqrstuvwxyz0123456789"
	maxSlugLength = 120
)

// Slugify lowercases a title and collapses everything that is not a letter
// or digit into single hyphens, truncated to 120 characters.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = nonSlugChars.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > maxSlugLength {
		slug = strings.Trim(slug[:maxSlugLength], "-")
	}
	if slug == "" {
		slug = "post"
	}
	return slug
}

// SlugSuffix returns a short random suffix used to disambiguate slug
// collisions.
func SlugSuffix() string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = slugAlphabet[rand.Intn(len(slugAlphabet))]
	}
	return string(b)
}

// DeriveExcerpt strips markup from the body and trims the plain text to 160
// characters, appending an ellipsis when truncated.
func DeriveExcerpt(bodyHTML string) string {
	text := strings.TrimSpace(htmlTags.ReplaceAllString(bodyHTML, ""))
	runes := []rune(text)
	if len(runes) > 160 {
		return string(runes[:157]) + "..."
	}
	return text
}

// DeriveReadTime estimates reading time in minutes at 200 words per minute,
// never below one minute.
func DeriveReadTime(bodyHTML string) int {
	text := strings.TrimSpace(htmlTags.ReplaceAllString(bodyHTML, ""))
	words := len(strings.Fields(text))
	minutes := (words + 100) / 200
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
