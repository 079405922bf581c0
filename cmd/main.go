package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"
	grpchealth "google.golang.org/grpc/health"
	"google.golang.org/grpc/reflection"

	httpctx "github.com/dtroode/chirp-server/internal/api/http/context"
	httpmw "github.com/dtroode/chirp-server/internal/api/http/middleware"
	httprouter "github.com/dtroode/chirp-server/internal/api/http/router"
	httpserver "github.com/dtroode/chirp-server/internal/api/http/server"
	"github.com/dtroode/chirp-server/internal/api/grpc/health"
	grpcrouter "github.com/dtroode/chirp-server/internal/api/grpc/router"
	grpcserver "github.com/dtroode/chirp-server/internal/api/grpc/server"
	"github.com/dtroode/chirp-server/internal/config"
	"github.com/dtroode/chirp-server/internal/logger"
	"github.com/dtroode/chirp-server/internal/mailer"
	"github.com/dtroode/chirp-server/internal/metrics"
	"github.com/dtroode/chirp-server/internal/model"
	"github.com/dtroode/chirp-server/internal/oauth"
	"github.com/dtroode/chirp-server/internal/password"
	"github.com/dtroode/chirp-server/internal/repository/memory"
	"github.com/dtroode/chirp-server/internal/repository/postgres"
	"github.com/dtroode/chirp-server/internal/server"
	"github.com/dtroode/chirp-server/internal/service"
	"github.com/dtroode/chirp-server/internal/token"
	"github.com/dtroode/chirp-server/internal/worker"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

type stores struct {
	accounts      model.AccountStore
	sessions      model.SessionStore
	posts         model.PostStore
	relationships model.RelationshipStore
	bookmarks     model.BookmarkStore
	pinger        health.Pinger
	close         func()
}

func openStores(ctx context.Context, cfg *config.Config) (stores, error) {
	if cfg.Storage == "memory" {
		return stores{
			accounts:      memory.NewAccountRepository(),
			sessions:      memory.NewSessionRepository(),
			posts:         memory.NewPostRepository(),
			relationships: memory.NewRelationshipRepository(),
			bookmarks:     memory.NewBookmarkRepository(),
			pinger:        health.PingerFunc(func(context.Context) error { return nil }),
			close:         func() {},
		}, nil
	}

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		return stores{}, err
	}
	return stores{
		accounts:      postgres.NewAccountRepository(db),
		sessions:      postgres.NewSessionRepository(db),
		posts:         postgres.NewPostRepository(db),
		relationships: postgres.NewRelationshipRepository(db),
		bookmarks:     postgres.NewBookmarkRepository(db),
		pinger:        db,
		close:         func() { _ = db.Close() },
	}, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel, logger.WithFormat(cfg.LogFormat))

	st, err := openStores(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer st.close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	codec := token.NewJWT(token.Secrets{
		Access:         cfg.JWT.AccessSecret,
		Refresh:        cfg.JWT.RefreshSecret,
		EmailVerify:    cfg.JWT.EmailVerifySecret,
		ForgotPassword: cfg.JWT.ForgotPasswordSecret,
	})
	tokenService := service.NewTokenService(codec, st.sessions, service.TokenTTLs{
		Access:         cfg.JWT.AccessTTL,
		Refresh:        cfg.JWT.RefreshTTL,
		EmailVerify:    cfg.JWT.EmailVerifyTTL,
		ForgotPassword: cfg.JWT.ForgotPasswordTTL,
	}, logger)

	hasher := password.NewBcrypt(cfg.Password.BcryptCost)
	mail := mailer.NewAsync(mailer.NewLogSender(cfg.Mail.From, cfg.Mail.BaseURL, logger), cfg.Mail.SendTimeout, logger)
	google := oauth.NewGoogle(oauth.GoogleConfig{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURL:  cfg.Google.RedirectURL,
	})

	authService := service.NewAuth(st.accounts, tokenService, hasher, mail, google, collector, logger)
	verificationService := service.NewVerification(st.accounts, tokenService, hasher, mail, collector, logger)
	accountService := service.NewAccount(st.accounts, tokenService, collector, logger)
	relationshipService := service.NewRelationship(st.accounts, st.relationships, logger)
	postService := service.NewPost(st.posts, service.NewVisibility(st.accounts, st.relationships), logger)

	limiter := httpmw.NewRateLimiter(httpmw.RateLimiterConfig{
		Rate:  rate.Limit(cfg.RateLimit.RPS),
		Burst: cfg.RateLimit.Burst,
	}, logger)
	defer limiter.Stop()

	httpRouter := httprouter.New(httprouter.Services{
		Auth:          authService,
		Verification:  verificationService,
		Account:       accountService,
		Relationship:  relationshipService,
		Post:          postService,
		Bookmark:      service.NewBookmark(st.bookmarks, postService, logger),
		Tokens:        tokenService,
		StatusGate:    service.NewAccountStateMachine(),
		RateLimiter:   limiter,
		Metrics:       collector,
		MetricsHandle: metrics.Handler(reg),
	}, httpctx.NewManager(), logger)
	apiServer := httpserver.NewHTTPServer(httpRouter.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port), cfg.HTTP.ReadTimeout, cfg.HTTP.WriteTimeout)

	healthServer := grpchealth.NewServer()
	checker := health.NewChecker(st.pinger, healthServer, cfg.GRPC.HealthCheckInterval, logger)
	grpcSrv := grpcrouter.New(healthServer, logger).Register()
	reflection.Register(grpcSrv)
	opsServer := grpcserver.NewGRPCServer(grpcSrv, fmt.Sprintf(":%s", cfg.GRPC.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	pruner := worker.NewSessionPruner(st.sessions, cfg.Session.PruneInterval, collector, logger)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		pruner.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		checker.Run(ctx)
	}()

	servers := []struct {
		server model.Server
		layer  model.SecurityLayer
	}{
		{apiServer, sl},
		{opsServer, server.NewPlainListener()},
	}
	for _, s := range servers {
		wg.Add(1)
		go func(s model.Server, layer model.SecurityLayer) {
			defer wg.Done()
			logger.Info("Starting server on", "address", s.Address())
			if err := s.Start(layer); err != nil {
				logger.Error("failed to start server", "error", err, "address", s.Address())
				stop()
			}
		}(s.server, s.layer)
	}

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	for _, s := range servers {
		if err := s.server.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", s.server.Address())
		}
	}
	if err := mail.Wait(shutdownCtx); err != nil {
		logger.Error("pending mail was not delivered before shutdown", "error", err)
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
