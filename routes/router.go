package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/polemika/polemika/config"
	"github.com/polemika/polemika/controllers"
	"github.com/polemika/polemika/middleware"
	"github.com/polemika/polemika/repositories"
	"github.com/polemika/polemika/services"
	"github.com/polemika/polemika/utils"
)

// SetupRouter wires repositories, services, controllers and middlewares.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	// Replace the default console logger with the rolling zap access log
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	postRepo := repositories.NewPostRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	voteRepo := repositories.NewVoteRepository(db)

	commentService := services.NewCommentService(commentRepo, postRepo)
	voteService := services.NewVoteService(voteRepo)

	postController := controllers.NewPostController(postRepo)
	commentController := controllers.NewCommentController(commentService)
	voteController := controllers.NewVoteController(voteService)

	api := r.Group("/api/v1")

	api.GET("/posts", postController.ListPosts)
	api.POST("/posts", postController.CreatePost)
	api.GET("/posts/:id", postController.GetPost)

	api.GET("/posts/:id/comments", commentController.GetCommentTree)
	api.POST("/posts/:id/comments", commentController.CreateComment)
	api.DELETE("/comments/:id", commentController.DeleteComment)

	api.POST("/votes/:kind/:id", voteController.CastVote)
	api.GET("/votes/:kind/:id", voteController.GetVote)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
