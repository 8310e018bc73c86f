package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/nutrigate/internal/config"
	"github.com/nao1215/nutrigate/pkg/httpclient"
	"github.com/nao1215/nutrigate/pkg/metrics"
	"github.com/nao1215/nutrigate/pkg/middleware"
	"go.uber.org/zap"
)

// Services はゲートウェイが呼び出すバックエンドサービスのクライアント。
// 起動時に一度だけ構築され、以後変更されない。
type Services struct {
	User      *httpclient.Client
	Health    *httpclient.Client
	Food      *httpclient.Client
	Inventory *httpclient.Client
	MealPlan  *httpclient.Client
}

// NewServices は設定のベースURLから各サービスのクライアントを生成する。
func NewServices(cfg *config.Config, opts ...httpclient.Option) Services {
	return Services{
		User:      httpclient.New("user", cfg.UserService, opts...),
		Health:    httpclient.New("health", cfg.HealthService, opts...),
		Food:      httpclient.New("food", cfg.FoodService, opts...),
		Inventory: httpclient.New("inventory", cfg.InventoryService, opts...),
		MealPlan:  httpclient.New("mealplan", cfg.MealPlanService, opts...),
	}
}

// all は全サービスのクライアントを返す。
func (s Services) all() []*httpclient.Client {
	return []*httpclient.Client{s.User, s.Health, s.Food, s.Inventory, s.MealPlan}
}

// Server はAPI GatewayのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// cfg は起動時に読み込んだ設定。
	cfg *config.Config
	// codec はベアラートークンの発行と検証を行う。
	codec *middleware.TokenCodec
	// services はバックエンドサービスのクライアント。
	services Services
	// metrics はPrometheusメトリクス。
	metrics *metrics.Collector
	// log は構造化ロガー。
	log *zap.Logger
}

// NewServer は新しいGatewayサーバーを生成し、ルーティングを設定する。
func NewServer(cfg *config.Config, codec *middleware.TokenCodec, services Services, log *zap.Logger, m *metrics.Collector) *Server {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(log))
	router.Use(middleware.Metrics(m))
	// Recovery はAccessLogとMetricsより内側に置き、パニック時の500も記録させる
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.ClientOrigins))

	s := &Server{
		router:   router,
		cfg:      cfg,
		codec:    codec,
		services: services,
		metrics:  m,
		log:      log,
	}
	s.setupRoutes()

	return s
}

// Handler はルーティング済みのHTTPハンドラを返す。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run はHTTPサーバーを起動し、ctxが終了するとグレースフルシャットダウンする。
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Gatewayサービスを起動します", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("HTTPサーバーの起動に失敗: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("Gatewayサービスを停止します")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTPサーバーの停止に失敗: %w", err)
	}
	return nil
}
