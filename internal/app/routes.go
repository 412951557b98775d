package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studykit/core/internal/llm"
	"github.com/studykit/core/internal/middleware"
	"github.com/studykit/core/internal/modules/article"
	"github.com/studykit/core/internal/modules/auth"
	"github.com/studykit/core/internal/modules/library"
	"github.com/studykit/core/internal/modules/notes"
	"github.com/studykit/core/internal/modules/quiz"
	"github.com/studykit/core/internal/modules/schedule"
	"github.com/studykit/core/internal/modules/writer"
	pkgredis "github.com/studykit/core/internal/pkg/redis"
	"github.com/studykit/core/internal/pkg/response"
	"github.com/studykit/core/internal/pkg/taskqueue"
	"github.com/studykit/core/internal/transform"
)

func (a *App) registerRoutes(rc *pkgredis.Client) {
	r := a.router
	authMW := middleware.Auth()

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":    "studykit-core",
		"version": "1.0.0",
	}

	apiPrefix := "/api/v1"

	// Auth context has to be populated before the rate limiter so its
	// authenticated-request exemption can fire.
	r.Use(middleware.OptionalAuth())
	r.Use(middleware.RateLimit(rc.Raw()))

	// Versioned API
	api := r.Group(apiPrefix)
	api.Use(middleware.HTTPCache(rc.Raw(), middleware.HTTPCacheOptions{
		TTL:       15 * time.Second,
		Disable:   a.cfg.IsDev(),
		SkipPaths: httpCacheSkipPaths(apiPrefix),
	}))

	// App info endpoints
	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/info", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })
	api.GET("/uptime", func(c *gin.Context) {
		uptimeMs := time.Since(processStart).Milliseconds()
		c.JSON(http.StatusOK, gin.H{
			"timestamp": uptimeMs,
			"humanize":  humanizeDuration(time.Duration(uptimeMs) * time.Millisecond),
		})
	})

	// Cache maintenance
	api.DELETE("/cache", authMW, func(c *gin.Context) {
		deleted, err := middleware.PurgeHTTPCache(c.Request.Context(), rc.Raw())
		if err != nil {
			response.InternalError(c, err)
			return
		}
		response.OK(c, gin.H{"deleted": deleted})
	})

	// Shared services
	aiClient := llm.New(a.cfg.AI)
	transformer := transform.NewNotesTransformer(aiClient, a.cfg.AI.TransformModel)
	a.sessions = transform.NewStore(transformer)
	a.tasks = taskqueue.NewService(rc)

	// Auth
	auth.NewHandler(auth.NewService(a.cfg.IsDev(), a.logger)).RegisterRoutes(api, authMW)

	// Notes, transforms and background transform tasks
	notesSvc := notes.NewService(aiClient, a.cfg.AI, a.sessions, a.tasks, a.logger)
	notes.NewHandler(notesSvc).RegisterRoutes(api, authMW)

	// Saves are guarded against accidental duplicates; transform routes are
	// not, they answer repeats from the session cache instead.
	saves := api.Group("", middleware.Idempotence(rc.Raw()))
	librarySvc := library.NewService(a.db, a.sessions, a.logger)
	library.NewHandler(librarySvc).RegisterRoutes(saves, authMW)

	// Quizzes and article analysis
	quiz.NewHandler(quiz.NewService(aiClient, a.cfg.AI, a.logger)).RegisterRoutes(api, authMW)
	article.NewHandler(article.NewService(aiClient, a.cfg.AI, a.logger)).RegisterRoutes(api, authMW)

	// Study schedules and goals
	goalStore := schedule.NewGoalStore(a.db)
	scheduleSvc := schedule.NewService(aiClient, a.cfg.AI, goalStore, a.logger)
	schedule.NewHandler(scheduleSvc).RegisterRoutes(api, authMW)

	// Writing editor
	writer.NewHandler(writer.NewService(aiClient, a.cfg.AI, a.logger)).RegisterRoutes(api, authMW)
}

func httpCacheSkipPaths(apiPrefix string) []string {
	p := strings.TrimSuffix(strings.TrimSpace(apiPrefix), "/")
	if p == "" {
		p = "/api/v1"
	}
	return []string{
		p + "/uptime",
		p + "/ping",
		p + "/auth/check",
		p + "/tasks",
		p + "/tasks/*",
	}
}
