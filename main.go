package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/csrf"

	"sched/auth"
	"sched/config"
	"sched/db"
	"sched/handlers"
	"sched/i18n"
	"sched/logger"
)

func main() {
	if err := config.LoadConfig("config.json"); err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	if err := logger.Initialize(config.AppConfig.LogLevel); err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}

	if err := i18n.LoadTranslations("i18n"); err != nil {
		logger.Log.Fatalw("error loading translations", "error", err)
	}

	auth.InitStore()

	conn, err := db.Open(config.AppConfig.DatabasePath)
	if err != nil {
		logger.Log.Fatalw("error opening database", "path", config.AppConfig.DatabasePath, "error", err)
	}
	defer conn.Close()

	if err := db.Seed(conn); err != nil {
		logger.Log.Fatalw("error seeding database", "error", err)
	}

	app := handlers.New(conn)

	mux := http.NewServeMux()

	// Static files
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	app.Register(mux)

	addr := fmt.Sprintf("%s:%d", config.AppConfig.ListenIP, config.AppConfig.ListenPort)
	logger.Log.Infow("server starting", "addr", addr, "app", config.AppConfig.AppName)

	// CSRF Protection
	csrfMiddleware := csrf.Protect(
		[]byte(config.AppConfig.SessionKey),
		csrf.Secure(false), // Set to true in production with HTTPS
		csrf.Path("/"),
	)

	handler := handlers.SecurityHeaders(csrfMiddleware(app.WithTx(mux)))

	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Log.Fatalw("server exited", "error", err)
	}
}
