package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tahmid-rahman/inkwell-backend/internal/apperrors"
	"github.com/tahmid-rahman/inkwell-backend/internal/engagement"
	"github.com/tahmid-rahman/inkwell-backend/internal/models"
	"github.com/tahmid-rahman/inkwell-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubUsers overrides only the lookups the toggle path exercises.
type stubUsers struct {
	repositories.UserRepository
	byID map[string]*models.User
}

func (s *stubUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return nil, apperrors.NotFound("user not found")
}

type stubPosts struct {
	repositories.PostRepository
	byID map[string]*models.Post
}

func (s *stubPosts) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	if p, ok := s.byID[id]; ok {
		return p, nil
	}
	return nil, apperrors.NotFound("post not found")
}

// stubRels keeps just enough mirrored state for the follow and like toggles.
type stubRels struct {
	repositories.RelationshipRepository
	following map[string]bool // follower|followee
	likes     map[string]map[string]bool
}

func newStubRels() *stubRels {
	return &stubRels{
		following: make(map[string]bool),
		likes:     make(map[string]map[string]bool),
	}
}

func (s *stubRels) IsFollowing(_ context.Context, a, b string) (bool, error) {
	return s.following[a+"|"+b], nil
}

func (s *stubRels) AddFollow(_ context.Context, a, b string) error {
	s.following[a+"|"+b] = true
	return nil
}

func (s *stubRels) RemoveFollow(_ context.Context, a, b string) error {
	delete(s.following, a+"|"+b)
	return nil
}

func (s *stubRels) FollowCounts(_ context.Context, userID string) (int64, int64, error) {
	var followers, following int64
	for pair, ok := range s.following {
		if !ok {
			continue
		}
		if pair[:len(userID)] == userID {
			following++
		}
		if pair[len(pair)-len(userID):] == userID {
			followers++
		}
	}
	return followers, following, nil
}

func (s *stubRels) HasLiked(_ context.Context, userID, postID string) (bool, error) {
	return s.likes[postID][userID], nil
}

func (s *stubRels) AddLike(_ context.Context, userID, postID string) error {
	if s.likes[postID] == nil {
		s.likes[postID] = make(map[string]bool)
	}
	s.likes[postID][userID] = true
	return nil
}

func (s *stubRels) RemoveLike(_ context.Context, userID, postID string) error {
	delete(s.likes[postID], userID)
	return nil
}

func (s *stubRels) LikeCount(_ context.Context, postID string) (int64, error) {
	return int64(len(s.likes[postID])), nil
}

type stubNotifs struct {
	repositories.NotificationRepository
	records []*models.Notification
}

func (s *stubNotifs) FindByTuple(_ context.Context, recipientID, actorID, notifType string, subject models.Subject) (*models.Notification, error) {
	for _, n := range s.records {
		if n.RecipientID == recipientID && n.ActorID == actorID && n.Type == notifType &&
			n.SubjectKind == subject.Kind && n.SubjectID == subject.ID {
			return n, nil
		}
	}
	return nil, nil
}

func (s *stubNotifs) Create(_ context.Context, n *models.Notification) error {
	n.ID = uint(len(s.records) + 1)
	s.records = append(s.records, n)
	return nil
}

type handlerFixture struct {
	handler *EngagementHandler
	notifs  *stubNotifs
	alice   *models.User
	bob     *models.User
	post    *models.Post
}

func newHandlerFixture() *handlerFixture {
	alice := &models.User{ID: primitive.NewObjectID(), Username: "alice"}
	bob := &models.User{ID: primitive.NewObjectID(), Username: "bob"}
	post := &models.Post{ID: primitive.NewObjectID(), Title: "hi", Author: bob.ID}

	users := &stubUsers{byID: map[string]*models.User{alice.ID.Hex(): alice, bob.ID.Hex(): bob}}
	posts := &stubPosts{byID: map[string]*models.Post{post.ID.Hex(): post}}
	notifs := &stubNotifs{}

	log := logrus.New()
	fanout := engagement.NewFanout(notifs, users, nil, log)
	engine := engagement.NewEngine(users, posts, newStubRels(), fanout, log)

	return &handlerFixture{
		handler: NewEngagementHandler(engine),
		notifs:  notifs,
		alice:   alice,
		bob:     bob,
		post:    post,
	}
}

func invoke(t *testing.T, actorID, paramID string, fn echo.HandlerFunc) (*httptest.ResponseRecorder, map[string]interface{}, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(paramID)
	if actorID != "" {
		c.Set("userID", actorID)
	}

	err := fn(c)
	var body map[string]interface{}
	if err == nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body, err
}

func TestToggleFollowEnvelope(t *testing.T) {
	f := newHandlerFixture()

	rec, body, err := invoke(t, f.alice.ID.Hex(), f.bob.ID.Hex(), f.handler.ToggleFollow)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["isFollowing"])
	assert.Equal(t, float64(1), body["followersCount"])
	assert.Equal(t, float64(1), body["followingCount"])

	// toggle off
	rec, body, err = invoke(t, f.alice.ID.Hex(), f.bob.ID.Hex(), f.handler.ToggleFollow)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["isFollowing"])
	assert.Equal(t, float64(0), body["followersCount"])
	assert.Equal(t, float64(0), body["followingCount"])
}

func TestToggleFollowSelfReturnsInvalidOperation(t *testing.T) {
	f := newHandlerFixture()

	_, _, err := invoke(t, f.alice.ID.Hex(), f.alice.ID.Hex(), f.handler.ToggleFollow)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidOperation))
}

func TestToggleFollowUnauthenticated(t *testing.T) {
	f := newHandlerFixture()

	_, _, err := invoke(t, "", f.bob.ID.Hex(), f.handler.ToggleFollow)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))
}

func TestToggleLikeEnvelopeAndNotification(t *testing.T) {
	f := newHandlerFixture()

	rec, body, err := invoke(t, f.alice.ID.Hex(), f.post.ID.Hex(), f.handler.ToggleLike)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["likeCount"])
	assert.Equal(t, "post liked", body["message"])
	require.Len(t, f.notifs.records, 1)
	assert.Equal(t, models.NotificationLike, f.notifs.records[0].Type)
	assert.Equal(t, f.bob.ID.Hex(), f.notifs.records[0].RecipientID)

	// toggle off: count drops, no new notification
	_, body, err = invoke(t, f.alice.ID.Hex(), f.post.ID.Hex(), f.handler.ToggleLike)
	require.NoError(t, err)
	assert.Equal(t, float64(0), body["likeCount"])
	assert.Equal(t, "post unliked", body["message"])
	assert.Len(t, f.notifs.records, 1)
}

func TestToggleLikeMissingPost(t *testing.T) {
	f := newHandlerFixture()

	_, _, err := invoke(t, f.alice.ID.Hex(), primitive.NewObjectID().Hex(), f.handler.ToggleLike)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}
