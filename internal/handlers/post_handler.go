package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/tahmid-rahman/inkwell-backend/internal/apperrors"
	"github.com/tahmid-rahman/inkwell-backend/internal/models"
	"github.com/tahmid-rahman/inkwell-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		userRepository: userRepo,
	}
}

// RegisterPostRoutes registers post routes on an authenticated group
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/create-post", h.CreatePost)
	g.GET("/posts", h.GetAllPosts)
	g.GET("/posts/:slug", h.GetPostBySlug)
	g.PUT("/update-post/:slug", h.UpdatePost)
	g.DELETE("/delete-post/:slug", h.DeletePost)
}

// CreatePost creates a new post authored by the authenticated user
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return apperrors.Unauthorized("user not authenticated")
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.InvalidOperation("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	author, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return apperrors.Unauthorized("invalid actor identity")
	}

	post := &models.Post{
		Title:      req.Title,
		BodyHTML:   req.BodyHTML,
		Tags:       req.Tags,
		CoverImage: req.CoverImage,
		Status:     req.Status,
		Author:     author,
	}
	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "post created successfully",
		"post":    post,
	})
}

// GetAllPosts returns published posts newest first with author summaries
func (h *PostHandler) GetAllPosts(c echo.Context) error {
	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit < 1 || limit > 50 {
		limit = 20
	}

	posts, err := h.postRepository.ListPublished(c.Request().Context(), skip, limit)
	if err != nil {
		return err
	}

	authorCache := make(map[string]models.UserCompact)
	enriched := make([]echo.Map, 0, len(posts))
	for _, post := range posts {
		authorID := post.Author.Hex()
		author, ok := authorCache[authorID]
		if !ok {
			if user, err := h.userRepository.GetUserByID(c.Request().Context(), authorID); err == nil {
				author = user.ToCompact()
			}
			authorCache[authorID] = author
		}
		enriched = append(enriched, echo.Map{"post": post, "author": author, "likeCount": post.LikeCount()})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "posts": enriched})
}

// GetPostBySlug returns a single published post and counts the view
func (h *PostHandler) GetPostBySlug(c echo.Context) error {
	post, err := h.postRepository.ViewPostBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}

	var author models.UserCompact
	if user, err := h.userRepository.GetUserByID(c.Request().Context(), post.Author.Hex()); err == nil {
		author = user.ToCompact()
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"post":      post,
		"author":    author,
		"likeCount": post.LikeCount(),
	})
}

// UpdatePost edits a post; only the author may edit
func (h *PostHandler) UpdatePost(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return apperrors.Unauthorized("user not authenticated")
	}
	slug := c.Param("slug")

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.InvalidOperation("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postRepository.GetPostBySlug(c.Request().Context(), slug)
	if err != nil {
		return err
	}
	if post.Author.Hex() != userID {
		return apperrors.Forbidden("not authorized to edit this post")
	}

	updated, err := h.postRepository.UpdatePost(c.Request().Context(), slug, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "post updated successfully",
		"post":    updated,
	})
}

// DeletePost removes a post; only the author may delete
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return apperrors.Unauthorized("user not authenticated")
	}
	slug := c.Param("slug")

	post, err := h.postRepository.GetPostBySlug(c.Request().Context(), slug)
	if err != nil {
		return err
	}
	if post.Author.Hex() != userID {
		return apperrors.Forbidden("not authorized to delete this post")
	}

	if err := h.postRepository.DeletePost(c.Request().Context(), slug); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "post deleted successfully"})
}
