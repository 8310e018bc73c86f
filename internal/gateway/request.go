package gateway

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/nutrigate/pkg/httpclient"
	"github.com/nao1215/nutrigate/pkg/middleware"
)

// caller は認証済みの呼び出し元ユーザーIDと、
// そのIDをバックエンドに伝播するコンテキストを返す。
func caller(c *gin.Context) (context.Context, int64, error) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return nil, 0, errUnauthorized
	}
	return httpclient.WithUserID(c.Request.Context(), userID), userID, nil
}

// bindJSON はリクエストボディをvにバインドし、検証する。
func bindJSON(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return badRequest(fmt.Sprintf("invalid request body: %v", err))
	}
	return nil
}

// parseID は正の整数のIDを解釈する。
func parseID(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest(fmt.Sprintf("invalid %s: %q", name, raw))
	}
	return id, nil
}

// pathID はパスパラメータのIDを解釈する。
func pathID(c *gin.Context, name string) (int64, error) {
	return parseID(name, c.Param(name))
}
