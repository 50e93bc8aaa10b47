package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"pingdm/backend/internal/models"
	"pingdm/backend/internal/storage"
)

// REST-side CRUD. These endpoints talk to the store directly and stay off
// the live fan-out paths.

// ListConversations returns the caller's conversations, most recently
// active first.
func (h *Handler) ListConversations(c *gin.Context) {
	userID := c.GetString("user_id")

	convs, err := h.Storage.ListConversationsForUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list conversations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": convs})
}

type createConversationRequest struct {
	RecipientID string `json:"recipient_id" binding:"required"`
}

// CreateConversation finds or creates the thread with another user.
func (h *Handler) CreateConversation(c *gin.Context) {
	userID := c.GetString("user_id")

	var req createConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipient_id is required"})
		return
	}
	if req.RecipientID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot start a conversation with yourself"})
		return
	}
	if _, err := h.Storage.GetUserByID(req.RecipientID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipient not found"})
		return
	}

	conv, err := h.Storage.FindOrCreateConversation(userID, req.RecipientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create conversation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversation": conv})
}

// GetMessages pages through a conversation's history, newest first.
func (h *Handler) GetMessages(c *gin.Context) {
	userID := c.GetString("user_id")
	conversationID := c.Param("id")

	conv, err := h.Storage.GetConversationByID(conversationID)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load conversation"})
		return
	}
	if !conv.HasParticipant(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a participant"})
		return
	}

	before, _ := strconv.ParseUint(c.Query("before"), 10, 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	msgs, err := h.Storage.GetMessagesPage(conversationID, uint(before), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// SearchMessages matches the caller's message history against a query.
func (h *Handler) SearchMessages(c *gin.Context) {
	userID := c.GetString("user_id")

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	msgs, err := h.Storage.SearchMessages(userID, query, 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// DeleteConversation removes the thread and all of its messages. Only a
// participant may delete.
func (h *Handler) DeleteConversation(c *gin.Context) {
	userID := c.GetString("user_id")
	conversationID := c.Param("id")

	conv, err := h.Storage.GetConversationByID(conversationID)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load conversation"})
		return
	}
	if !conv.HasParticipant(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a participant"})
		return
	}

	if err := h.Storage.DeleteConversation(conversationID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete conversation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": conversationID})
}

type reportRequest struct {
	ReportedUserID string `json:"reported_user_id" binding:"required"`
	ConversationID string `json:"conversation_id"`
	Reason         string `json:"reason" binding:"required"`
}

// CreateReport files a complaint against another user for out-of-band
// review.
func (h *Handler) CreateReport(c *gin.Context) {
	userID := c.GetString("user_id")

	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reported_user_id and reason are required"})
		return
	}

	report := &models.Report{
		ReporterID:     userID,
		ReportedUserID: req.ReportedUserID,
		ConversationID: req.ConversationID,
		Reason:         req.Reason,
	}
	if err := h.Storage.SaveReport(report); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save report"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"report_id": report.ID})
}
