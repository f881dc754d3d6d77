package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tahmid-rahman/inkwell-backend/internal/apperrors"
	"github.com/tahmid-rahman/inkwell-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubPostsBySlug struct {
	stubPosts
	bySlug map[string]*models.Post
}

func (s *stubPostsBySlug) ViewPostBySlug(_ context.Context, slug string) (*models.Post, error) {
	if p, ok := s.bySlug[slug]; ok {
		p.Views++
		return p, nil
	}
	return nil, apperrors.NotFound("post not found")
}

func TestGetPostBySlugRendersLikeCount(t *testing.T) {
	author := &models.User{ID: primitive.NewObjectID(), Username: "bob"}
	post := &models.Post{
		ID:     primitive.NewObjectID(),
		Title:  "hi",
		Slug:   "hi",
		Author: author.ID,
		Likes:  []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()},
	}

	posts := &stubPostsBySlug{bySlug: map[string]*models.Post{"hi": post}}
	users := &stubUsers{byID: map[string]*models.User{author.ID.Hex(): author}}
	handler := NewPostHandler(posts, users)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("slug")
	c.SetParamValues("hi")

	require.NoError(t, handler.GetPostBySlug(c))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), body["likeCount"])

	authorBody, ok := body["author"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "bob", authorBody["username"])
}
