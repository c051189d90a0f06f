// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"wayfare/internal/config"
	"wayfare/internal/extract"
	httptransport "wayfare/internal/http"
	"wayfare/internal/infra"
	"wayfare/internal/maps"
	"wayfare/internal/modules/assistquota"
	"wayfare/internal/modules/dialogue"
	"wayfare/internal/modules/trip"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Firebase.ProjectID == "" {
		log.Fatal("WAYFARE_FIREBASE_PROJECT_ID is required")
	}
	verifier, err := infra.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	if err != nil {
		log.Fatalf("firebase init: %v", err)
	}

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	var routes trip.RouteEstimator
	if cfg.Maps.APIKey != "" {
		rs, err := maps.NewRouteService(cfg.Maps.APIKey)
		if err != nil {
			log.Fatalf("maps init: %v", err)
		}
		routes = rs
	}

	tripStore := trip.NewStore(dbPool)
	tripSvc := trip.NewService(tripStore, routes)

	sessionStore := dialogue.NewRedisSessionStore(redisClient, cfg.Dialogue.SessionTTL)

	var dialogueSvc *dialogue.Service
	if cfg.AI.GeminiKey != "" {
		gem, err := extract.NewGeminiExtractor(ctx, cfg.AI.GeminiKey)
		if err != nil {
			log.Fatalf("gemini init: %v", err)
		}
		defer gem.Close()

		quotaSvc := assistquota.NewService(assistquota.NewStore(dbPool))
		dialogueSvc = dialogue.NewService(gem, sessionStore, tripSvc).WithQuota(quotaSvc)
	} else {
		log.Printf("GEMINI_API_KEY not set; using rule-based extraction")
		dialogueSvc = dialogue.NewService(extract.NewRulesExtractor(), sessionStore, tripSvc)
	}

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Dialogue: dialogueSvc,
		Trips:    tripSvc,
		Verifier: verifier,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	log.Printf("listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
