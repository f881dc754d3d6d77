package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tahmid-rahman/inkwell-backend/internal/apperrors"
	"github.com/tahmid-rahman/inkwell-backend/internal/engagement"
)

// EngagementHandler exposes the follow, bookmark and like toggles
type EngagementHandler struct {
	engine *engagement.Engine
}

// NewEngagementHandler creates a new EngagementHandler
func NewEngagementHandler(engine *engagement.Engine) *EngagementHandler {
	return &EngagementHandler{engine: engine}
}

// RegisterEngagementRoutes registers the toggle routes. authGroup carries the
// follow and bookmark toggles, apiGroup the post like toggle.
func (h *EngagementHandler) RegisterEngagementRoutes(authGroup, apiGroup *echo.Group) {
	authGroup.PUT("/follow/:id", h.ToggleFollow)
	authGroup.PUT("/bookmark/:id", h.ToggleBookmark)
	apiGroup.PUT("/posts/:id/like", h.ToggleLike)
}

// ToggleFollow flips the follow relationship with the target user
func (h *EngagementHandler) ToggleFollow(c echo.Context) error {
	actorID := getUserIDFromContext(c)
	if actorID == "" {
		return apperrors.Unauthorized("user not authenticated")
	}

	result, err := h.engine.ToggleFollow(c.Request().Context(), actorID, c.Param("id"))
	if err != nil {
		return err
	}

	message := "user unfollowed"
	if result.IsFollowing {
		message = "user followed"
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":        true,
		"message":        message,
		"isFollowing":    result.IsFollowing,
		"followersCount": result.FollowersCount,
		"followingCount": result.FollowingCount,
	})
}

// ToggleBookmark flips the bookmark relationship with the post
func (h *EngagementHandler) ToggleBookmark(c echo.Context) error {
	actorID := getUserIDFromContext(c)
	if actorID == "" {
		return apperrors.Unauthorized("user not authenticated")
	}

	result, err := h.engine.ToggleBookmark(c.Request().Context(), actorID, c.Param("id"))
	if err != nil {
		return err
	}

	message := "bookmark removed"
	if result.IsBookmarked {
		message = "post bookmarked"
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"message":      message,
		"isBookmarked": result.IsBookmarked,
	})
}

// ToggleLike flips the actor's like on the post
func (h *EngagementHandler) ToggleLike(c echo.Context) error {
	actorID := getUserIDFromContext(c)
	if actorID == "" {
		return apperrors.Unauthorized("user not authenticated")
	}

	result, err := h.engine.ToggleLike(c.Request().Context(), actorID, c.Param("id"))
	if err != nil {
		return err
	}

	message := "post unliked"
	if result.IsLiked {
		message = "post liked"
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"message":   message,
		"likeCount": result.LikeCount,
	})
}
