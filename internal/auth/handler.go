package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// CreateSession issues an anonymous session. The client holds on to
// the token; the server never stores anything about the user beyond
// the uploads and selections namespaced under this id.
func (h *Handler) CreateSession(c *gin.Context) {
	userID := uuid.New().String()

	token, err := GenerateToken(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user_id": userID,
		"token":   token,
	})
}
