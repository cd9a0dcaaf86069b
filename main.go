package main

import (
	"os"

	"github.com/cppla/requestdesk/config"
	"github.com/cppla/requestdesk/controllers"
	"github.com/cppla/requestdesk/routes"
	"github.com/cppla/requestdesk/store"
	"github.com/cppla/requestdesk/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer utils.Logger.Sync()

	submissions := store.NewSubmissionStore(cfg.DataFile)
	if err := submissions.EnsureInitialized(); err != nil {
		utils.Sugar.Fatalf("init submission store %s: %v", cfg.DataFile, err)
	}
	if err := os.MkdirAll(cfg.UploadsDir, 0o755); err != nil {
		utils.Sugar.Fatalf("create uploads dir %s: %v", cfg.UploadsDir, err)
	}
	if cfg.SMTPUsername == "" || cfg.SMTPPassword == "" {
		utils.Sugar.Warn("GMAIL_USER/GMAIL_PASS not set, submissions will be stored but notifications will fail")
	}

	requests := controllers.NewRequestController(submissions, cfg.UploadsDir, utils.NewMailer(cfg), int64(cfg.MaxImageMB)<<20)
	r := routes.SetupRouter(cfg, requests)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
	utils.Sugar.Info("server stopped")
}
