package main

import (
	"io"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/logutils"
	"github.com/zhangxincheng/fork-jaudiotagger/config"
	"github.com/zhangxincheng/fork-jaudiotagger/handlers"
)

// logFilter drops log lines whose [LEVEL] prefix is below level
func logFilter(level string, w io.Writer) *logutils.LevelFilter {
	var levels []logutils.LogLevel
	for _, l := range config.Levels {
		levels = append(levels, logutils.LogLevel(l))
	}
	return &logutils.LevelFilter{
		Levels:   levels,
		MinLevel: logutils.LogLevel(level),
		Writer:   w,
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[ERROR] Invalid configuration: %v", err)
	}
	log.SetOutput(logFilter(cfg.LogLevel, os.Stderr))

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	corsConfig.ExposeHeaders = []string{"X-Tag-Size", "X-Audio-Start", "X-Request-ID", "Content-Disposition"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))
	router.Use(handlers.RequestID())

	tagHandler := handlers.NewTagHandler(cfg)

	// API Routes
	tagHandler.Register(router.Group("/api/v1"))

	log.Printf("[INFO] Server starting on port %s", cfg.Port)
	log.Printf("[INFO] API endpoints:")
	log.Printf("[INFO]   POST /api/v1/tags/inspect - Audio header, frames and statistics of an MP3 (JSON)")
	log.Printf("[INFO]   POST /api/v1/tags/update  - Set tag fields of an MP3 (returns rewritten MP3)")
	log.Printf("[INFO]   POST /api/v1/tags/delete  - Remove the ID3v2 tag of an MP3 (returns MP3)")
	log.Printf("[INFO]   GET  /api/v1/health       - Health check")
	log.Printf("[INFO] New tags are written as %s with %d bytes of padding", cfg.TagVersion, cfg.TagPadding)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("[ERROR] Failed to start server: %v", err)
	}
}
