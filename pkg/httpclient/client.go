package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// defaultTimeout はバックエンド呼び出し1回あたりのタイムアウト。
const defaultTimeout = 30 * time.Second

// Observer はバックエンド呼び出しの結果を受け取る。
// メトリクス収集のために使用する。statusは通信失敗時に0となる。
type Observer interface {
	ObserveBackendCall(service, method string, status int, elapsed time.Duration)
}

// Client はバックエンドサービス1つに対するHTTPクライアント。
// 保持する状態はベースURLと設定のみで、リクエスト間で可変状態を共有しない。
type Client struct {
	// httpClient は内部で使用するHTTPクライアント。
	httpClient *http.Client
	// name はサービスの論理名（user, food など）。
	name string
	// baseURL は接続先サービスのベースURL。
	baseURL string
	// observer は呼び出し結果の通知先。nilの場合は通知しない。
	observer Observer
}

// Option はClientの設定を変更する関数。
type Option func(*Client)

// WithTimeout はリクエストのタイムアウトを設定する。
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient は内部で使用するHTTPクライアントを差し替える。
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithObserver は呼び出し結果の通知先を設定する。
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// New は新しいバックエンドクライアントを生成する。
// nameにはサービスの論理名、baseURLには接続先のベースURL（例: "http://user:8000"）を指定する。
func New(name, baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		name:    name,
		baseURL: baseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name はサービスの論理名を返す。
func (c *Client) Name() string {
	return c.name
}

// BaseURL は接続先のベースURLを返す。
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do はバックエンドにHTTPリクエストを1回だけ送信し、レスポンスボディを
// shapeに従ってresultにデコードする。リトライは行わない。
//
// ステータスが400〜599の場合と、それ以外でボディが空の場合は *APIError を返す。
func (c *Client) Do(ctx context.Context, method, path string, shape Shape, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("リクエストボディのシリアライズに失敗: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	propagateHeaders(ctx, req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, 0, time.Since(start))
		return fmt.Errorf("%sサービスへのリクエスト送信に失敗: %w", c.name, err)
	}
	defer resp.Body.Close()
	c.observe(method, resp.StatusCode, time.Since(start))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%sサービスのレスポンス読み取りに失敗: %w", c.name, err)
	}

	if isErrorStatus(resp.StatusCode) {
		return &APIError{
			Service:    c.name,
			StatusCode: resp.StatusCode,
			Detail:     errorDetail(respBody),
		}
	}
	// ボディが無い成功レスポンスもエラーとして扱う。
	// DELETEの204なども含まれるため、呼び出し側はボディを返すバックエンドにのみ使うこと。
	if len(bytes.TrimSpace(respBody)) == 0 {
		return &APIError{
			Service:    c.name,
			StatusCode: resp.StatusCode,
		}
	}

	return decode(shape, respBody, result)
}

// Ping はベースURLにGETリクエストを送信し、サービスが応答するかを確認する。
// ステータスコードに関わらず、HTTPレスポンスが返れば到達可能とみなす。
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗: %w", err)
	}
	propagateHeaders(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%sサービスに到達できません: %w", c.name, err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

// observe はObserverが設定されていれば呼び出し結果を通知する。
func (c *Client) observe(method string, status int, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveBackendCall(c.name, method, status, elapsed)
	}
}

// isErrorStatus はバックエンドエラーとして扱うステータスかを判定する。
func isErrorStatus(code int) bool {
	return code >= http.StatusBadRequest && code <= 599
}

// propagateHeaders はコンテキストの値をバックエンド向けヘッダーに転送する。
func propagateHeaders(ctx context.Context, req *http.Request) {
	if requestID, ok := ctx.Value(contextKeyRequestID).(string); ok && requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}
	if userID, ok := ctx.Value(contextKeyUserID).(int64); ok {
		req.Header.Set("X-User-ID", strconv.FormatInt(userID, 10))
	}
}

// contextKey はコンテキストキーの型。
type contextKey string

const (
	// contextKeyUserID はコンテキストにユーザーIDを格納するためのキー。
	contextKeyUserID contextKey = "user_id"
	// contextKeyRequestID はコンテキストにリクエストIDを格納するためのキー。
	contextKeyRequestID contextKey = "request_id"
)

// WithUserID はコンテキストにユーザーIDを設定する。
// 設定されたIDは X-User-ID ヘッダーとしてバックエンドに伝播する。
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, contextKeyUserID, userID)
}

// WithRequestID はコンテキストにリクエストIDを設定する。
// 設定されたIDは X-Request-ID ヘッダーとしてバックエンドに伝播する。
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID, requestID)
}
