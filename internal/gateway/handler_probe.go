package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// readinessTimeout はレディネス確認でバックエンドの応答を待つ時間。
const readinessTimeout = 3 * time.Second

// liveness はゲートウェイ自身の生存確認に応答する。
func liveness() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "gateway"})
	}
}

// readiness は全バックエンドに並行して疎通確認を行う。
// 1つでも到達できなければ503と到達できないサービス名を返す。
func readiness(services Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()

		clients := services.all()
		errs := make([]error, len(clients))
		var g errgroup.Group
		for i, client := range clients {
			g.Go(func() error {
				errs[i] = client.Ping(ctx)
				return errs[i]
			})
		}
		if err := g.Wait(); err == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ready"})
			return
		}

		unavailable := make([]string, 0, len(clients))
		for i, err := range errs {
			if err != nil {
				unavailable = append(unavailable, clients[i].Name())
			}
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "unavailable": unavailable})
	}
}
