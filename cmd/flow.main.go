package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"investment-flow-service/internal/config"
	"investment-flow-service/internal/handler"
	"investment-flow-service/internal/metrics"
	"investment-flow-service/internal/middleware"
	"investment-flow-service/internal/repository"
	"investment-flow-service/internal/router"
	"investment-flow-service/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// db connection
	dbpool, err := pgxpool.New(context.Background(), cfg.DBConnString)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer dbpool.Close()

	// redis
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr, Password: cfg.RedisPass,
	})
	defer rdb.Close()

	m := metrics.Registry(cfg.MetricsNamespace)

	// repos
	reservationRepo := repository.NewReservationRepo(dbpool)
	eligibilityRepo := repository.NewEligibilityRepo(dbpool)
	paymentRepo := repository.NewPaymentRepo(dbpool)
	escrowRepo := repository.NewEscrowRepo(dbpool)
	auditRepo := repository.NewAuditRepo(dbpool)

	// services
	reservationSvc := service.NewReservationService(reservationRepo, auditRepo)
	eligibilitySvc := service.NewEligibilityService(eligibilityRepo, auditRepo)
	paymentSvc := service.NewPaymentService(paymentRepo, auditRepo)
	escrowSvc := service.NewEscrowService(escrowRepo, auditRepo, service.EscrowPolicy{
		AllowNegativeBalance: cfg.EscrowAllowNegative,
		EnforceTransitions:   cfg.EscrowEnforceTransitions,
	})

	// handlers & router
	auth := middleware.RequireAuth([]byte(cfg.JWTSecret), cfg.JWTIssuer)
	r := router.New(router.Handlers{
		Reservations: handler.NewReservationHandler(reservationSvc, logger, m),
		Eligibility:  handler.NewEligibilityHandler(eligibilitySvc, logger),
		Payments:     handler.NewPaymentHandler(paymentSvc, logger, m),
		Escrow:       handler.NewEscrowHandler(escrowSvc, logger, m),
	}, auth, rdb, m)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	go func() {
		logger.Info("investment flow REST server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server shutdown", zap.Error(err))
	}
}
