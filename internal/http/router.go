// README: HTTP router registration.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"terra/internal/http/handlers"
	"terra/internal/http/middleware"
	"terra/internal/logger"
	"terra/internal/modules/bookmark"
)

type RouterDeps struct {
	Pipeline  handlers.Recommender
	Bookmarks *bookmark.Service
	Timeout   time.Duration
	Logger    *slog.Logger
}

func NewRouter(d RouterDeps) *gin.Engine {
	log := logger.OrDefault(d.Logger)

	r := gin.New()
	r.Use(middleware.Logging(log), middleware.Recovery(log))

	chat := handlers.NewChatHandler(d.Pipeline, d.Timeout)
	r.POST("/api/chat", chat.Chat)
	r.POST("/api/activities", chat.Activities)
	r.GET("/api/help", chat.Help)
	r.DELETE("/api/users/:id/history", chat.ClearHistory)

	bm := handlers.NewBookmarkHandler(d.Bookmarks)
	r.POST("/api/users/:id/bookmarks", bm.Add)
	r.GET("/api/users/:id/bookmarks", bm.List)
	r.DELETE("/api/users/:id/bookmarks", bm.DeleteAll)
	r.DELETE("/api/users/:id/bookmarks/:label", bm.Delete)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
