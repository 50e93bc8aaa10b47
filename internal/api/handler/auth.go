package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type tokenRequest struct {
	Username string `json:"username" binding:"required"`
}

// IssueToken finds or creates the account for the given username and
// returns a signed JWT for it.
func (h *Handler) IssueToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}

	user, err := h.Storage.FindOrCreateUser(strings.TrimSpace(req.Username))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := h.Auth.Issue(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// AuthRequired validates the bearer token and stores the user id on the
// request context.
func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := h.Auth.Verify(bearerToken(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
			return
		}
		c.Set("user_id", userID)
		c.Next()
	}
}

// bearerToken pulls the credential from the Authorization header, falling
// back to the token query parameter for clients that cannot set headers.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return header[7:]
	}
	return c.Query("token")
}
