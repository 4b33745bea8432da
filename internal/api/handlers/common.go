package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prepwise/airecruiter/internal/utils"
)

type APIError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
	Error   string     `json:"error"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)

	var ae *utils.AppError
	if errors.As(err, &ae) {
		c.JSON(status, APIError{
			Code:    ae.Code,
			Message: ae.Message,
			Error:   ae.Message,
		})
		return
	}

	c.JSON(status, APIError{
		Code:    utils.CodeInternal,
		Message: http.StatusText(status),
		Error:   http.StatusText(status),
	})
}

// identity is the request-scoped view of the signed-in user, threaded
// explicitly instead of looked up ambiently further down.
type identity struct {
	UserID  string
	Name    string
	Email   string
	Picture string
}

// RateLimitKey is the per-identity budget key: email when present, subject
// otherwise.
func (id identity) RateLimitKey() string {
	if id.Email != "" {
		return id.Email
	}
	return id.UserID
}

func requireIdentity(c *gin.Context) (identity, bool) {
	var id identity
	if v, ok := c.Get("user_id"); ok {
		id.UserID, _ = v.(string)
	}
	if id.UserID == "" {
		writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "Unauthorized. Please sign in.", nil))
		return identity{}, false
	}
	id.Name = c.GetString("user_name")
	id.Email = c.GetString("user_email")
	id.Picture = c.GetString("user_picture")
	return id, true
}
