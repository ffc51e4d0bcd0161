// README: Conversational endpoints: free-text chat, the activities command, help and history reset.
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"terra/internal/service"
)

// DefaultTimeout bounds one pipeline run, which makes several external calls.
const DefaultTimeout = 90 * time.Second

type Recommender interface {
	Handle(ctx context.Context, req service.Request) service.Response
	ClearHistory(userID string) string
}

type ChatHandler struct {
	pipeline Recommender
	timeout  time.Duration
}

func NewChatHandler(p Recommender, timeout time.Duration) *ChatHandler {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ChatHandler{pipeline: p, timeout: timeout}
}

type chatReq struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type activitiesReq struct {
	UserID   string `json:"user_id"`
	Location string `json:"location"`
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		writeError(c, http.StatusBadRequest, "missing message")
		return
	}
	if !isValidID(req.UserID) {
		writeError(c, http.StatusBadRequest, "invalid user_id")
		return
	}

	h.run(c, service.Message{User: req.UserID, Body: req.Message})
}

// Activities handles POST /api/activities.
func (h *ChatHandler) Activities(c *gin.Context) {
	var req activitiesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	req.Location = strings.TrimSpace(req.Location)
	if !isValidID(req.UserID) {
		writeError(c, http.StatusBadRequest, "invalid user_id")
		return
	}
	if req.Location == "" {
		writeError(c, http.StatusBadRequest, service.ActivitiesUsage)
		return
	}

	h.run(c, service.ActivitiesCommand{User: req.UserID, Location: req.Location})
}

func (h *ChatHandler) run(c *gin.Context, req service.Request) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	writeJSON(c, http.StatusOK, h.pipeline.Handle(ctx, req))
}

// Help handles GET /api/help.
func (h *ChatHandler) Help(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"reply": service.HelpText})
}

// ClearHistory handles DELETE /api/users/:id/history.
func (h *ChatHandler) ClearHistory(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid user id")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"reply": h.pipeline.ClearHistory(id)})
}
