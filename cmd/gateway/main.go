// API Gatewayサービスのエントリポイント。
// ベアラートークンによる認証と、user/health/food/inventory/mealplan
// 各サービスへのリクエストの振り分けを担当する。
// 外部からアクセス可能な唯一のサービスであり、セキュリティの境界線となる。
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/nao1215/nutrigate/internal/config"
	"github.com/nao1215/nutrigate/internal/gateway"
	"github.com/nao1215/nutrigate/pkg/httpclient"
	"github.com/nao1215/nutrigate/pkg/logger"
	"github.com/nao1215/nutrigate/pkg/metrics"
	"github.com/nao1215/nutrigate/pkg/middleware"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Gatewayサービスの起動に失敗: %v", err)
	}
}

func run() error {
	// .env が無い場合は環境変数のみで設定する
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	codec, err := middleware.NewTokenCodec(cfg.JWTSecret, cfg.JWTAlg)
	if err != nil {
		return fmt.Errorf("トークンコーデックの初期化に失敗: %w", err)
	}

	m := metrics.New()
	services := gateway.NewServices(cfg,
		httpclient.WithTimeout(cfg.BackendTimeout),
		httpclient.WithObserver(m),
	)
	server := gateway.NewServer(cfg, codec, services, zl, m)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zl.Info("設定を読み込みました",
		zap.Strings("cors_origins", cfg.ClientOrigins),
		zap.String("user_service", cfg.UserService),
		zap.String("health_service", cfg.HealthService),
		zap.String("food_service", cfg.FoodService),
		zap.String("inventory_service", cfg.InventoryService),
		zap.String("mealplan_service", cfg.MealPlanService),
	)
	return server.Run(ctx)
}
