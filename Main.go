package main

import (
	"Marketplace/carts"
	"Marketplace/config"
	"Marketplace/events"
	"Marketplace/inventory"
	"Marketplace/jwt"
	"Marketplace/logger"
	"Marketplace/routers"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig(config.Path())
	if err != nil {
		panic("無法讀取設定檔: " + err.Error())
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic("無法建立logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("服務異常結束", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	db, err := config.SetupMySQLConnection(cfg)
	if err != nil {
		return err
	}
	defer func() {
		dbInstance, _ := db.DB()
		_ = dbInstance.Close()
	}()

	var cache carts.ViewCache
	if rdb := config.SetupRedisConnection(cfg); rdb != nil {
		defer rdb.Close()
		cache = carts.NewRedisViewCache(rdb, cfg.Cart.CacheTTL, log)
	} else {
		log.Info("未設定Redis，停用購物車快取")
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.RabbitMQ.URL != "" {
		rabbit, err := events.NewRabbit(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			return err
		}
		defer rabbit.Close()
		publisher = rabbit
	} else {
		log.Info("未設定RabbitMQ，停用購物車事件")
	}

	verifier, err := jwt.NewVerifierFromFile(cfg.JWT.PublicKeyPath)
	if err != nil {
		return err
	}

	ledger := inventory.NewLedger(db, inventory.Options{LockRows: cfg.Cart.LockItemRows})
	svc := carts.NewService(db, ledger, carts.Options{
		Logger:      log,
		Cache:       cache,
		Publisher:   publisher,
		MaxAttempts: cfg.Cart.MaxAttempts,
	})

	gin.SetMode(gin.ReleaseMode)
	router, err := routers.SetupRouters(routers.Deps{
		Carts:    svc,
		Ledger:   ledger,
		Verifier: verifier,
		Logger:   log,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("服務啟動", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("服務關閉中")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
