package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/grantscope/docintake/internal/application"
	appcrawler "github.com/grantscope/docintake/internal/application/crawler"
	appdocs "github.com/grantscope/docintake/internal/application/documents"
	"github.com/grantscope/docintake/internal/config"
	domdocs "github.com/grantscope/docintake/internal/domain/documents"
	domgrants "github.com/grantscope/docintake/internal/domain/grants"
	democls "github.com/grantscope/docintake/internal/infra/classifier/demo"
	openaicls "github.com/grantscope/docintake/internal/infra/classifier/openai"
	remotecls "github.com/grantscope/docintake/internal/infra/classifier/remote"
	"github.com/grantscope/docintake/internal/infra/crawlsource"
	mysqlp "github.com/grantscope/docintake/internal/infra/db/mysql"
	postgresp "github.com/grantscope/docintake/internal/infra/db/postgres"
	"github.com/grantscope/docintake/internal/infra/httpserver"
	minioStore "github.com/grantscope/docintake/internal/infra/storage"
	"github.com/grantscope/docintake/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// connect DB (driver switch)
	var (
		db        *sql.DB
		docRepo   domdocs.Repository
		grantRepo domgrants.Repository
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		docRepo = postgresp.NewDocumentRepository(db)
		grantRepo = postgresp.NewGrantRepository(db)
	default:
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		docRepo = mysqlp.NewDocumentRepository(db)
		grantRepo = mysqlp.NewGrantRepository(db)
	}
	defer db.Close()

	// init minio (optional: uploads kept only when configured)
	var artifacts domdocs.ArtifactStore
	if cfg.Minio.Endpoint != "" {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		artifacts = store
	}

	// pick classifier backend
	hostname, _ := os.Hostname()
	mode := cfg.ResolveClassifierMode(hostname)
	var classifier domdocs.Classifier
	switch mode {
	case config.ModeDemo:
		classifier = democls.New()
	case config.ModeOpenAI:
		classifier = openaicls.NewClient(cfg.Classifier.APIKey, cfg.Classifier.Model)
	default:
		classifier = remotecls.NewClient(cfg.Classifier.Endpoint, cfg.Classifier.Model)
	}
	log.Printf("classifier backend: %s", classifier.Name())

	// init services
	docsSvc := appdocs.NewService(docRepo, classifier, artifacts, application.SystemClock{}, cfg.Classifier.Model)

	var sources []domgrants.Source
	for _, s := range cfg.Crawler.Sources {
		sources = append(sources, crawlsource.NewHTTPSource(s.Name, s.URL))
	}
	manager := appcrawler.NewManager(grantRepo, sources, application.SystemClock{})

	// init router
	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))
	mux.Use(middleware.RateLimitMiddleware(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate))

	mux.Get("/metrics", middleware.MetricsHandler)
	mux.Get("/livez", middleware.LivenessHandler)
	mux.Get("/healthz", middleware.HealthHandler(map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	}))
	mux.Mount("/", httpserver.NewRouter(docsSvc, manager, cfg.Crawler.Interval.Std()))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	manager.StopScheduledCrawls()

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
