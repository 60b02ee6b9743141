// Command cruler serves the HTTP trigger surface over internal/cruler's
// three extraction entry points, with an optional periodic re-run on a
// cron schedule. Grounded on cmd/Crepes/main.go: flag-parsed config path
// and port override, graceful SIGINT/SIGTERM shutdown with a timeout
// context — retargeted from the teacher's GORM/scraper-engine bootstrap
// onto ruleset/cruler/store/scheduler.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cruler-project/cruler/internal/api"
	"github.com/cruler-project/cruler/internal/config"
	"github.com/cruler-project/cruler/internal/cruler"
	"github.com/cruler-project/cruler/internal/logx"
	"github.com/cruler-project/cruler/internal/ruleset"
	"github.com/cruler-project/cruler/internal/scheduler"
	"github.com/cruler-project/cruler/internal/store"
)

const version = "v0.1.0"

func main() {
	configPath := flag.String("config", "config.json", "Path to configuration file")
	port := flag.String("port", "", "HTTP port to listen on (overrides config)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Printf("WARNING: failed to load config file: %v, using default settings", err)
		cfg = config.GetDefaultConfig()
	}
	if *port != "" {
		cfg.Port = *port
	}

	logger, err := logx.New("", logx.LevelInfo, true)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Close()

	dbPath := filepath.Join(cfg.RootPath, cruler.DefaultStorePath)
	st, err := store.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open run ledger at %q: %v", dbPath, err)
	}
	defer st.Close()

	sched := scheduler.New(cfg.RootPath, logger)
	if cronCfg, err := ruleset.LoadConfigure(filepath.Join(cfg.RootPath, cruler.DefaultConfigurePath)); err == nil {
		if cronExpr, ok := cronCfg.CronSchedule(); ok {
			if err := sched.Start(cronExpr, cruler.ExtractAllFromRoot); err != nil {
				log.Printf("WARNING: failed to start scheduler: %v", err)
			} else {
				log.Printf("scheduler started with cron %q against root %q", cronExpr, cfg.RootPath)
			}
		}
	}
	defer sched.Stop()

	router := api.SetupRouter(api.Deps{RootPath: cfg.RootPath, Store: st})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Handler:      router,
		Addr:         addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("cruler %s starting on http://localhost%s", version, addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	log.Println("server exited properly")
}
