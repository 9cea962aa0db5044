package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ogurasousui/jackisa-office/internal/adapters/auth"
	"github.com/ogurasousui/jackisa-office/internal/adapters/grpc/handler"
	"github.com/ogurasousui/jackisa-office/internal/adapters/repository/postgres"
	"github.com/ogurasousui/jackisa-office/internal/core/company"
	"github.com/ogurasousui/jackisa-office/internal/core/membership"
	"github.com/ogurasousui/jackisa-office/internal/core/paye"
	"github.com/ogurasousui/jackisa-office/internal/core/profile"
	"github.com/ogurasousui/jackisa-office/internal/core/shared"
	"github.com/ogurasousui/jackisa-office/internal/core/tenancy"
	"github.com/ogurasousui/jackisa-office/internal/platform/config"
	pg "github.com/ogurasousui/jackisa-office/internal/platform/db/postgres"
	"github.com/ogurasousui/jackisa-office/internal/platform/logger"
	"github.com/ogurasousui/jackisa-office/internal/platform/metrics"
	"github.com/ogurasousui/jackisa-office/internal/platform/server"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(ctx, cfg, zl); err != nil {
		zl.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, zl *zap.Logger) error {
	schedule, err := payrollSchedule(cfg.Payroll)
	if err != nil {
		return err
	}

	verifier, err := auth.NewVerifier(auth.Config{
		Secret:   cfg.Auth.JWTSecret,
		Issuer:   cfg.Auth.Issuer,
		Audience: cfg.Auth.Audience,
	})
	if err != nil {
		return err
	}

	dbPool, err := pg.NewPool(ctx, cfg.Database, zl)
	if err != nil {
		return fmt.Errorf("initialize database pool: %w", err)
	}
	defer dbPool.Close()

	m := metrics.New()
	txManager := pg.NewTransactionManager(dbPool)
	idp := auth.ContextIdentityProvider{}
	clock := shared.SystemClock{}

	payeSvc := paye.NewService(schedule, zl.Named("paye"), m)
	sessionSvc := tenancy.NewService(idp, postgres.NewSessionStore(dbPool), txManager, zl.Named("tenancy"))
	profileSvc := profile.NewService(postgres.NewProfileRepository(dbPool), clock, txManager)
	membershipSvc := membership.NewService(postgres.NewMembershipRepository(dbPool), clock, txManager)
	companySvc := company.NewService(postgres.NewCompanyRepository(dbPool), membershipSvc, clock, txManager)

	grpcServer := server.New(cfg.Server.ListenAddr, server.Services{
		Payroll:    handler.NewPayrollGrpcHandler(payeSvc),
		Session:    handler.NewSessionGrpcHandler(sessionSvc),
		Profile:    handler.NewProfileGrpcHandler(profileSvc, idp),
		Company:    handler.NewCompanyGrpcHandler(companySvc, idp),
		Membership: handler.NewMembershipGrpcHandler(membershipSvc, idp),
		Tools:      handler.NewToolsGrpcHandler(nil, nil),
	}, zl, grpc.ChainUnaryInterceptor(
		server.RecoveryInterceptor(zl),
		m.UnaryServerInterceptor(),
		server.LoggingInterceptor(zl.Named("grpc")),
		server.RateLimitInterceptor(server.NewLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)),
		auth.UnaryServerInterceptor(verifier, zl.Named("auth")),
	))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return grpcServer.Run(gctx)
	})

	if cfg.Server.MetricsAddr != "" {
		metricsServer := &http.Server{
			Addr:              cfg.Server.MetricsAddr,
			Handler:           metricsMux(m),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			zl.Info("metrics server listening", zap.String("addr", cfg.Server.MetricsAddr))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve metrics: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return metricsServer.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

func metricsMux(m *metrics.Metrics) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return mux
}

func payrollSchedule(cfg config.PayrollConfig) (*paye.Schedule, error) {
	if cfg.ContributionRate == nil && len(cfg.Bands) == 0 {
		return paye.DefaultSchedule(), nil
	}

	rate := paye.DefaultContributionRate
	if cfg.ContributionRate != nil {
		rate = *cfg.ContributionRate
	}

	bands := paye.DefaultBands()
	if len(cfg.Bands) > 0 {
		bands = make([]paye.TaxBand, 0, len(cfg.Bands))
		for _, b := range cfg.Bands {
			upper := math.Inf(1)
			if b.Upper != nil {
				upper = *b.Upper
			}
			bands = append(bands, paye.TaxBand{Label: b.Label, Lower: b.Lower, Upper: upper, Rate: b.Rate})
		}
	}

	schedule, err := paye.NewSchedule(rate, bands)
	if err != nil {
		return nil, fmt.Errorf("payroll schedule: %w", err)
	}
	return schedule, nil
}
