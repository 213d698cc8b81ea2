package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/dmitrijs2005/gophauth/internal/server/validation"
)

const msgBadBody = "Request body must be a JSON object"

type AuthHandler struct {
	users *services.UserService
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Error      string `json:"error"`
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req validation.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, msgBadBody)
		return
	}

	result, err := h.users.Signup(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req validation.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, msgBadBody)
		return
	}

	result, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if users == nil {
		users = []*models.User{}
	}

	c.JSON(http.StatusOK, users)
}

func respondServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrorConflict):
		status = http.StatusConflict
	case errors.Is(err, common.ErrorUnauthorized):
		status = http.StatusUnauthorized
	}
	respondError(c, status, common.Message(err))
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{
		StatusCode: status,
		Message:    message,
		Error:      http.StatusText(status),
	})
}
