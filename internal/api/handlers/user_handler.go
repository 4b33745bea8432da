package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prepwise/airecruiter/internal/services"
	"github.com/prepwise/airecruiter/internal/utils"
)

type UserHandler struct {
	users services.UserService
}

func NewUserHandler(users services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type ensureUserRequest struct {
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
	Email    string `json:"email"`
}

// Ensure upserts the signed-in user. Token claims win over the body; the body
// only fills gaps for providers that omit profile claims.
func (h *UserHandler) Ensure(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req ensureUserRequest
	_ = c.ShouldBindJSON(&req)

	name := id.Name
	if name == "" {
		name = req.Name
	}
	imageURL := id.Picture
	if imageURL == "" {
		imageURL = req.ImageURL
	}
	email := id.Email
	if email == "" {
		email = req.Email
	}
	if email == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "UserHandler.Ensure", "email is required", nil))
		return
	}

	user, err := h.users.EnsureUser(c.Request.Context(), name, imageURL, email)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}
