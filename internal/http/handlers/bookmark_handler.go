// README: Bookmark endpoints over the per-user bookmark service.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"terra/internal/modules/bookmark"
)

type BookmarkHandler struct {
	bookmarks *bookmark.Service
}

func NewBookmarkHandler(svc *bookmark.Service) *BookmarkHandler {
	return &BookmarkHandler{bookmarks: svc}
}

type addBookmarkReq struct {
	Location string `json:"location"`
	Label    string `json:"label"`
}

// Add handles POST /api/users/:id/bookmarks.
func (h *BookmarkHandler) Add(c *gin.Context) {
	id, ok := userParam(c)
	if !ok {
		return
	}
	var req addBookmarkReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	label, err := h.bookmarks.Add(c.Request.Context(), id, req.Location, req.Label)
	if err != nil {
		writeBookmarkError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, bookmark.Entry{Label: label, Location: strings.TrimSpace(req.Location)})
}

// List handles GET /api/users/:id/bookmarks.
func (h *BookmarkHandler) List(c *gin.Context) {
	id, ok := userParam(c)
	if !ok {
		return
	}
	entries, err := h.bookmarks.List(c.Request.Context(), id)
	if err != nil {
		writeBookmarkError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"bookmarks": entries})
}

// Delete handles DELETE /api/users/:id/bookmarks/:label.
func (h *BookmarkHandler) Delete(c *gin.Context) {
	id, ok := userParam(c)
	if !ok {
		return
	}
	label := c.Param("label")
	if err := h.bookmarks.Delete(c.Request.Context(), id, label); err != nil {
		writeBookmarkError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"deleted": label})
}

// DeleteAll handles DELETE /api/users/:id/bookmarks.
func (h *BookmarkHandler) DeleteAll(c *gin.Context) {
	id, ok := userParam(c)
	if !ok {
		return
	}
	n, err := h.bookmarks.DeleteAll(c.Request.Context(), id)
	if err != nil {
		writeBookmarkError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"deleted": n})
}

func userParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid user id")
		return "", false
	}
	return id, true
}
