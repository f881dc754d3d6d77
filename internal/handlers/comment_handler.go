package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tahmid-rahman/inkwell-backend/internal/apperrors"
	"github.com/tahmid-rahman/inkwell-backend/internal/engagement"
	"github.com/tahmid-rahman/inkwell-backend/internal/models"
	"github.com/tahmid-rahman/inkwell-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
	engine            *engagement.Engine
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, engine *engagement.Engine) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
		engine:            engine,
	}
}

// RegisterCommentRoutes registers comment routes on an authenticated group
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.CreateComment)
	g.GET("/posts/:id/comments", h.ListComments)
}

// CreateComment adds a comment to a post and fans out the notifications
func (h *CommentHandler) CreateComment(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return apperrors.Unauthorized("user not authenticated")
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.InvalidOperation("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	author, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return apperrors.Unauthorized("invalid actor identity")
	}

	comment := &models.Comment{
		Post:   post.ID,
		Author: author,
		Body:   req.Body,
	}

	var parentAuthorID string
	if req.Parent != "" {
		parent, err := h.commentRepository.GetCommentByID(c.Request().Context(), req.Parent)
		if err != nil {
			return err
		}
		if parent.Post != post.ID {
			return apperrors.InvalidOperation("parent comment belongs to another post")
		}
		comment.Parent = &parent.ID
		parentAuthorID = parent.Author.Hex()
	}

	if err := h.commentRepository.CreateComment(c.Request().Context(), comment); err != nil {
		return err
	}

	h.engine.NotifyComment(c.Request().Context(), userID, post, comment, parentAuthorID)

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "comment created successfully",
		"comment": comment,
	})
}

// ListComments returns a post's comments oldest first
func (h *CommentHandler) ListComments(c echo.Context) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	comments, err := h.commentRepository.ListByPost(c.Request().Context(), post.ID.Hex())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "comments": comments})
}
