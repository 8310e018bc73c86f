package gateway

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/nutrigate/internal/config"
	"github.com/nao1215/nutrigate/pkg/httpclient"
	"github.com/nao1215/nutrigate/pkg/metrics"
	"github.com/nao1215/nutrigate/pkg/middleware"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	// testSecret はテスト用のJWTシークレット。
	testSecret = "test-secret-key-for-gateway"
	// testUserID はテストで使う呼び出し元ユーザーのID。
	testUserID = int64(7)
	// testOrigin はCORSで許可するテスト用オリジン。
	testOrigin = "http://localhost:3000"
)

// backendCall はフェイクバックエンドが受け取ったリクエスト。
type backendCall struct {
	Method   string
	Path     string
	RawQuery string
	Body     []byte
	Header   http.Header
}

// fakeBackend はバックエンドサービスの代わりに応答するテストサーバー。
// 受け取ったリクエストをすべて記録する。
type fakeBackend struct {
	mu    sync.Mutex
	calls []backendCall
	mux   *http.ServeMux
	srv   *httptest.Server
}

// newFakeBackend はフェイクバックエンドを起動する。
func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{mux: http.NewServeMux()}
	fb.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fb.mu.Lock()
		fb.calls = append(fb.calls, backendCall{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Body:     body,
			Header:   r.Header.Clone(),
		})
		fb.mu.Unlock()
		r.Body = io.NopCloser(bytes.NewReader(body))
		fb.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(fb.srv.Close)
	return fb
}

// reply はpatternに一致するリクエストに固定のステータスとボディで応答する。
func (fb *fakeBackend) reply(pattern string, status int, body string) {
	fb.mux.HandleFunc(pattern, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

// Calls は記録したリクエストを返す。
func (fb *fakeBackend) Calls() []backendCall {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]backendCall(nil), fb.calls...)
}

// harness は5つのフェイクバックエンドとゲートウェイをまとめたもの。
type harness struct {
	user      *fakeBackend
	health    *fakeBackend
	food      *fakeBackend
	inventory *fakeBackend
	mealplan  *fakeBackend
	codec     *middleware.TokenCodec
	server    *Server
}

// testConfig はテスト用の設定を返す。
func testConfig() *config.Config {
	return &config.Config{
		ClientOrigins:   []string{testOrigin},
		ExpireDays:      7,
		JWTSecret:       testSecret,
		JWTAlg:          "HS256",
		Port:            8080,
		LogLevel:        "debug",
		BackendTimeout:  5 * time.Second,
		ShutdownTimeout: time.Second,
	}
}

// newHarness はフェイクバックエンドに接続したゲートウェイを生成する。
func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		user:      newFakeBackend(t),
		health:    newFakeBackend(t),
		food:      newFakeBackend(t),
		inventory: newFakeBackend(t),
		mealplan:  newFakeBackend(t),
	}

	cfg := testConfig()
	cfg.UserService = h.user.srv.URL
	cfg.HealthService = h.health.srv.URL
	cfg.FoodService = h.food.srv.URL
	cfg.InventoryService = h.inventory.srv.URL
	cfg.MealPlanService = h.mealplan.srv.URL

	codec, err := middleware.NewTokenCodec(cfg.JWTSecret, cfg.JWTAlg)
	require.NoError(t, err)
	h.codec = codec

	m := metrics.New()
	services := NewServices(cfg, httpclient.WithTimeout(cfg.BackendTimeout), httpclient.WithObserver(m))
	h.server = NewServer(cfg, codec, services, zaptest.NewLogger(t), m)
	return h
}

// token は指定したユーザーの有効なトークンを返す。
func (h *harness) token(t *testing.T, userID int64) string {
	t.Helper()
	tok, err := h.codec.Encode("john", userID, time.Hour)
	require.NoError(t, err)
	return tok
}

// do はゲートウェイにリクエストを送る。tokenが空の場合はAuthorizationヘッダーを付けない。
func (h *harness) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.server.Handler().ServeHTTP(w, req)
	return w
}

// totalCalls は全バックエンドが受け取ったリクエスト数を返す。
func (h *harness) totalCalls() int {
	n := 0
	for _, fb := range []*fakeBackend{h.user, h.health, h.food, h.inventory, h.mealplan} {
		n += len(fb.Calls())
	}
	return n
}
