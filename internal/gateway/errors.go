package gateway

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/nutrigate/pkg/httpclient"
)

// httpError はゲートウェイ自身が判定したクライアント向けのエラー。
type httpError struct {
	// status はレスポンスのHTTPステータスコード。
	status int
	// detail はレスポンスボディのdetailに入るメッセージ。
	detail string
	// bearer が true の場合 WWW-Authenticate: Bearer を付与する。
	bearer bool
}

// Error はerrorインターフェースを実装する。
func (e *httpError) Error() string {
	return e.detail
}

var (
	// errUnauthorized はトークンが無い、または無効であることを表す。
	errUnauthorized = &httpError{status: http.StatusUnauthorized, detail: "Could not validate credentials", bearer: true}
	// errInvalidCredentials はログインの資格情報が誤っていることを表す。
	errInvalidCredentials = &httpError{status: http.StatusUnauthorized, detail: "Incorrect username or password", bearer: true}
	// errNotOwner は呼び出し元が対象リソースの所有者でないことを表す。
	errNotOwner = &httpError{status: http.StatusForbidden, detail: "Not allowed to access this resource"}
	// errIDMismatch はパスのIDとボディのIDが一致しないことを表す。
	errIDMismatch = &httpError{status: http.StatusBadRequest, detail: "Path id does not match body id"}
)

// badRequest は400のエラーを生成する。
func badRequest(detail string) error {
	return &httpError{status: http.StatusBadRequest, detail: detail}
}

// internalError はゲートウェイ内部の失敗を500として扱う。
func internalError(err error) error {
	return errors.Join(&httpError{status: http.StatusInternalServerError, detail: "Internal Server Error"}, err)
}

// respondError はエラーを種類に応じたHTTPレスポンスに変換して返す。
// エラー自体はアクセスログに出力するためGinコンテキストにも登録する。
//
//   - httpError: そのステータスとメッセージ
//   - httpclient.APIError: バックエンドのステータスとdetail（ボディが空ならステータス名）
//   - タイムアウト: 504
//   - それ以外（通信失敗、デコード失敗）: 502
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var (
		he     *httpError
		apiErr *httpclient.APIError
	)
	switch {
	case errors.As(err, &he):
		if he.bearer {
			c.Header("WWW-Authenticate", "Bearer")
		}
		c.AbortWithStatusJSON(he.status, gin.H{"detail": he.detail})
	case errors.As(err, &apiErr):
		detail := apiErr.Detail
		if detail == nil {
			detail = http.StatusText(apiErr.StatusCode)
		}
		c.AbortWithStatusJSON(apiErr.StatusCode, gin.H{"detail": detail})
	case isTimeout(err):
		c.AbortWithStatusJSON(http.StatusGatewayTimeout, gin.H{"detail": http.StatusText(http.StatusGatewayTimeout)})
	default:
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"detail": http.StatusText(http.StatusBadGateway)})
	}
}

// isTimeout はバックエンド呼び出しがタイムアウトしたかを判定する。
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
