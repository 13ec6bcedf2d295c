package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "devbench/internal/app"
	"devbench/internal/bootstrap"
	"devbench/internal/repository"
	"devbench/internal/transport/http/handler"
	"devbench/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	sessionRepo := repository.NewSessionRepository(app.MySQL)
	configRepo := repository.NewModelConfigRepository(app.MySQL)
	resultRepo := repository.NewRunResultRepository(app.MySQL)
	aiModelRepo := repository.NewAiModelRepository(app.MySQL)

	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	sessionService := appsvc.NewSessionService(sessionRepo, configRepo, resultRepo, aiModelRepo)
	aiModelService := appsvc.NewAiModelService(aiModelRepo, configRepo)

	authHandler := handler.NewAuthHandler(authService)
	sessionHandler := handler.NewSessionHandler(sessionService)
	runHandler := handler.NewRunHandler(app.RunService)
	aiModelHandler := handler.NewAiModelHandler(aiModelService)
	learnHandler := handler.NewLearnHandler(app.Catalog)

	v1 := router.Group("/api/v1")

	learnGroup := v1.Group("/learn")
	learnGroup.GET("/languages", learnHandler.ListLanguages)
	learnGroup.GET("/languages/:language_slug/exercises", learnHandler.ListExercises)
	learnGroup.GET("/languages/:language_slug/exercises/:exercise_id", learnHandler.GetExercise)

	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", middleware.AuthJWT(app.Config.Auth.JWTSecret), authHandler.Me)

	modelGroup := v1.Group("/models")
	modelGroup.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))
	modelGroup.POST("", aiModelHandler.Create)
	modelGroup.GET("", aiModelHandler.List)
	modelGroup.DELETE("/:id", aiModelHandler.Delete)

	devGroup := v1.Group("/dev")
	devGroup.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))
	devGroup.POST("/sessions", sessionHandler.Create)
	devGroup.GET("/sessions", sessionHandler.List)
	devGroup.GET("/sessions/:id", sessionHandler.Get)
	devGroup.PATCH("/sessions/:id", sessionHandler.Update)
	devGroup.DELETE("/sessions/:id", sessionHandler.Delete)
	devGroup.POST("/sessions/:id/archive", sessionHandler.Archive)
	devGroup.POST("/sessions/:id/configs", sessionHandler.CreateConfig)
	devGroup.GET("/sessions/:id/configs", sessionHandler.ListConfigs)
	devGroup.PATCH("/sessions/:id/configs/:config_id", sessionHandler.UpdateConfig)
	devGroup.DELETE("/sessions/:id/configs/:config_id", sessionHandler.DeleteConfig)
	devGroup.POST("/sessions/:id/runs", runHandler.Record)
	devGroup.GET("/sessions/:id/runs", runHandler.List)
	devGroup.POST("/runs/:run_id/results", runHandler.RecordResult)
	devGroup.GET("/runs/:run_id/results", runHandler.ListResults)

	return router
}
