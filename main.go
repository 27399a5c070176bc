package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/GaneshVarma1/Goodmoney/internal/config"
	"github.com/GaneshVarma1/Goodmoney/internal/database"
	"github.com/GaneshVarma1/Goodmoney/internal/router"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// ensure basic directories exist
	if err := ensureDir(filepath.Dir(cfg.Database.Path)); err != nil {
		log.Fatalf("create data dir: %v", err)
	}
	if err := ensureDir(filepath.Dir(cfg.Log.File)); err != nil {
		log.Fatalf("create log dir: %v", err)
	}

	if cfg.AI.APIKey == "" {
		log.Printf("warning: TOGETHER_API_KEY is not set, the AI copilot will be unavailable")
	}
	if cfg.Mail.APIKey == "" {
		log.Printf("warning: RESEND_API_KEY is not set, statement email will be unavailable")
	}

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	// setup router
	r := router.SetupRouter(cfg, db)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
