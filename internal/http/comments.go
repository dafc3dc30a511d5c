package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"estante/internal/database/comments"
	"estante/internal/entities"
)

// CommenterRef is the public projection of a comment's author.
type CommenterRef struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// CommentResponse is a comment enriched with its commenter projection.
type CommentResponse struct {
	entities.Comment
	UserRef *CommenterRef `json:"user,omitempty"`
}

func toCommentResponse(comment entities.Comment) CommentResponse {
	resp := CommentResponse{Comment: comment}
	if comment.User != nil {
		resp.UserRef = &CommenterRef{
			ID:        comment.User.ID,
			Username:  comment.User.Username,
			Name:      comment.User.Name,
			AvatarURL: comment.User.AvatarURL,
		}
	}
	return resp
}

func toCommentResponses(list []entities.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(list))
	for _, comment := range list {
		out = append(out, toCommentResponse(comment))
	}
	return out
}

// CommentsController serves public comment reads/creates and the admin
// moderation queue.
type CommentsController struct {
	comments *comments.Repository
}

func NewCommentsController(commentRepo *comments.Repository) *CommentsController {
	return &CommentsController{comments: commentRepo}
}

// ListForBook returns a book's approved comments, newest first.
func (cc *CommentsController) ListForBook(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	list, err := cc.comments.ListApprovedForBook(bookID)
	if err != nil {
		respondInternalError(c, err, "list comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": toCommentResponses(list)})
}

type createCommentRequest struct {
	Content string `json:"content" binding:"required,max=5000"`
	Rating  *int   `json:"rating" binding:"omitempty,gte=1,lte=5"`
}

// Create submits a comment for the authenticated user. It enters the
// moderation queue unapproved and is not publicly visible yet.
func (cc *CommentsController) Create(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	comment := &entities.Comment{
		UserID:  GetUserID(c),
		BookID:  bookID,
		Content: req.Content,
		Rating:  req.Rating,
	}
	if err := cc.comments.Create(comment); err != nil {
		respondDomainError(c, err, "book")
		return
	}

	respondCreated(c, comment)
}

// MarkHelpful bumps the helpful counter.
func (cc *CommentsController) MarkHelpful(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := cc.comments.IncrementHelpfulCount(id); err != nil {
		respondDomainError(c, err, "comment")
		return
	}

	respondSuccess(c, "marked helpful")
}

// ModerationQueue lists comments for the admin, optionally filtered with
// ?approved=true|false.
func (cc *CommentsController) ModerationQueue(c *gin.Context) {
	var approved *bool
	if v := c.Query("approved"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			respondBadRequest(c, "invalid approved")
			return
		}
		approved = &parsed
	}

	list, err := cc.comments.ListAll(approved)
	if err != nil {
		respondInternalError(c, err, "moderation queue")
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": toCommentResponses(list)})
}

// Approve publishes a comment and refreshes the book rating when the
// comment carries one.
func (cc *CommentsController) Approve(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	comment, err := cc.comments.Approve(id)
	if err != nil {
		respondDomainError(c, err, "comment")
		return
	}

	c.JSON(http.StatusOK, comment)
}

// Delete removes a comment; an approved rated comment's removal refreshes
// the book rating.
func (cc *CommentsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := cc.comments.Delete(id); err != nil {
		respondDomainError(c, err, "comment")
		return
	}

	respondSuccess(c, "comment deleted")
}
