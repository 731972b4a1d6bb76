package httpapi

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/eternal-365/educonnect/internal/chat"
	"github.com/eternal-365/educonnect/internal/common"
	"github.com/eternal-365/educonnect/internal/config"
	"github.com/eternal-365/educonnect/internal/httpapi/handlers"
	"github.com/eternal-365/educonnect/internal/httpapi/middleware"
	"github.com/eternal-365/educonnect/internal/store/rabbitmq"
	"github.com/eternal-365/educonnect/internal/users"
)

func NewRouter(db *gorm.DB, cfg config.Config, usersSvc *users.Service, chatSvc *chat.Service, rabbit *rabbitmq.Publisher) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(cors.Default())

	// API misses get the JSON envelope; everything else falls back to the
	// browser client (single-page app routing).
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			common.Fail(c, http.StatusNotFound, "route not found")
			return
		}
		if c.Request.Method != http.MethodGet {
			common.Fail(c, http.StatusNotFound, "route not found")
			return
		}
		p := filepath.Join(cfg.StaticDir, filepath.Clean("/"+c.Request.URL.Path))
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			c.File(p)
			return
		}
		c.File(filepath.Join(cfg.StaticDir, "index.html"))
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, "method not allowed")
	})

	h := handlers.NewHandler(db, cfg, usersSvc, chatSvc, rabbit)

	r.GET("/ping", h.Ping)

	api := r.Group("/api")
	api.GET("/health", h.Health)
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)

	authed := api.Group("/")
	authed.Use(middleware.AuthRequired(cfg.JWTSecret))
	authed.GET("/profile", h.GetProfile)
	authed.PUT("/profile", h.UpdateProfile)
	authed.GET("/students", h.ListStudents)

	authed.POST("/vocational/register", h.RegisterVocationalCourse)
	authed.GET("/vocational/courses", h.ListVocationalCourses)
	authed.PUT("/vocational/progress", h.UpdateCourseProgress)

	authed.POST("/chat", h.Chat)
	authed.GET("/chat/history", h.ChatHistory)
	authed.GET("/chat/history/:studentId", h.ChatHistory)
	authed.POST("/chat/async", h.ChatAsync)
	authed.GET("/chat/jobs/:jobId", h.GetChatJob)

	return r
}
