package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/wchwawa/journal-app-mvp/internal/config"
	"github.com/wchwawa/journal-app-mvp/internal/handler"
	applog "github.com/wchwawa/journal-app-mvp/internal/logger"
	"github.com/wchwawa/journal-app-mvp/internal/middleware"
	"github.com/wchwawa/journal-app-mvp/internal/service"
	"github.com/wchwawa/journal-app-mvp/internal/timezone"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	applog.Init(cfg.Log)

	db, err := cfg.OpenGormDB()
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}

	tz, err := timezone.NewResolver(cfg.App.Timezone)
	if err != nil {
		slog.Error("timezone init failed", "tz", cfg.App.Timezone, "err", err)
		os.Exit(1)
	}

	aiSvc := service.NewAIService(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.SearchModel)
	aggSvc := service.NewAggregateService(db, tz)
	reflSvc := service.NewReflectionService(db, aiSvc, aggSvc, tz)
	syncSvc := service.NewSyncService(reflSvc)
	summarySvc := service.NewSummaryService(db, aiSvc, aggSvc, tz)
	journalSvc := service.NewJournalService(db, tz)
	contextSvc := service.NewAgentContextService(db, tz)
	authSvc := service.NewAuthService(db)
	quota := service.NewSearchQuota(tz)

	secret := []byte(cfg.App.JWTSecret)
	authH := handler.NewAuthHandler(authSvc, secret)
	reflH := handler.NewReflectionHandler(reflSvc)
	summaryH := handler.NewSummaryHandler(summarySvc, syncSvc)
	journalH := handler.NewJournalHandler(journalSvc, syncSvc)
	agentH := handler.NewAgentHandler(contextSvc, quota, aiSvc)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.POST("/api/login", authH.Login)

	api := r.Group("/api", middleware.JWTAuth(secret))
	api.POST("/reflections/sync", reflH.Sync)
	api.GET("/reflections/daily", reflH.ListDaily)
	api.GET("/reflections/weekly", reflH.ListPeriod("weekly"))
	api.GET("/reflections/monthly", reflH.ListPeriod("monthly"))
	api.PATCH("/reflections/daily/:date", reflH.PatchDaily)
	api.PATCH("/reflections/period/:id", reflH.PatchPeriod)
	api.POST("/summaries/generate", summaryH.Generate)
	api.POST("/journals/list", journalH.List)
	api.PUT("/journals/:id", journalH.Update)
	api.POST("/agent/tools/context", agentH.Context)
	api.POST("/agent/tools/search", agentH.Search)

	slog.Info("server starting", "addr", cfg.Addr(), "tz", cfg.App.Timezone)
	if err := r.Run(cfg.Addr()); err != nil {
		slog.Error("server failed", "err", err)
	}
}
