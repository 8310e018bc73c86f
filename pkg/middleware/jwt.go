package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims はトークンから取り出したクレーム。
type Claims struct {
	// Subject はユーザー名（sub）。
	Subject string
	// UserID はユーザーの一意識別子（id）。
	UserID int64
	// ExpiresAt はトークンの有効期限（exp）。
	ExpiresAt time.Time
}

// tokenClaims はトークンに埋め込むペイロード。
type tokenClaims struct {
	jwt.RegisteredClaims
	// UserID はユーザーの一意識別子。
	UserID int64 `json:"id"`
}

// supportedAlgorithms は共有シークレットで署名できるアルゴリズム。
var supportedAlgorithms = map[string]jwt.SigningMethod{
	jwt.SigningMethodHS256.Alg(): jwt.SigningMethodHS256,
	jwt.SigningMethodHS384.Alg(): jwt.SigningMethodHS384,
	jwt.SigningMethodHS512.Alg(): jwt.SigningMethodHS512,
}

// requiredClaims はトークンが必ず持つべきクレームのキー。
var requiredClaims = []string{"sub", "id", "exp"}

// TokenCodec はベアラートークンの発行と検証を行う。
// シークレットとアルゴリズムは生成時に固定され、以後変更されない。
type TokenCodec struct {
	secret []byte
	method jwt.SigningMethod
	// now は現在時刻を返す。テストで差し替える。
	now func() time.Time
}

// NewTokenCodec は新しいTokenCodecを生成する。
// algにはHS256、HS384、HS512のいずれかを指定する。
func NewTokenCodec(secret, alg string) (*TokenCodec, error) {
	if secret == "" {
		return nil, errors.New("JWTシークレットが空です")
	}
	method, ok := supportedAlgorithms[alg]
	if !ok {
		return nil, fmt.Errorf("サポートされていない署名アルゴリズムです: %q", alg)
	}
	return &TokenCodec{
		secret: []byte(secret),
		method: method,
		now:    time.Now,
	}, nil
}

// Encode はユーザー名とユーザーIDからttl後に失効するトークンを生成する。
func (tc *TokenCodec) Encode(subject string, userID int64, ttl time.Duration) (string, error) {
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(tc.now().Add(ttl)),
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(tc.method, claims)
	signed, err := token.SignedString(tc.secret)
	if err != nil {
		return "", fmt.Errorf("JWTトークンの署名に失敗: %w", err)
	}
	return signed, nil
}

// Decode はトークンを検証してクレームを返す。
// 署名不正、アルゴリズム不一致、期限切れ、sub/id/expの欠落のいずれかで false を返す。
func (tc *TokenCodec) Decode(tokenString string) (Claims, bool) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return tc.secret, nil
	},
		jwt.WithValidMethods([]string{tc.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tc.now),
		jwt.WithJSONNumber(),
	)
	if err != nil {
		return Claims{}, false
	}

	for _, key := range requiredClaims {
		if _, ok := claims[key]; !ok {
			return Claims{}, false
		}
	}

	subject, ok := claims["sub"].(string)
	if !ok {
		return Claims{}, false
	}
	idNumber, ok := claims["id"].(json.Number)
	if !ok {
		return Claims{}, false
	}
	userID, err := idNumber.Int64()
	if err != nil {
		return Claims{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return Claims{}, false
	}

	return Claims{
		Subject:   subject,
		UserID:    userID,
		ExpiresAt: exp.Time,
	}, true
}

const (
	// contextKeyUserID はGinコンテキストにユーザーIDを格納するキー。
	contextKeyUserID = "user_id"
	// contextKeyUsername はGinコンテキストにユーザー名を格納するキー。
	contextKeyUsername = "username"
)

// unauthorizedDetail は認証失敗時に返すメッセージ。
const unauthorizedDetail = "Could not validate credentials"

// JWTAuth はベアラートークンを検証するGinミドルウェアを返す。
// 検証に成功した場合、コンテキストにユーザーIDとユーザー名を設定する。
// 失敗した場合は401を返し、後続のハンドラを実行しない。
func JWTAuth(codec *TokenCodec) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := bearerToken(c.GetHeader("Authorization"))
		if !found {
			abortUnauthorized(c)
			return
		}

		claims, ok := codec.Decode(tokenString)
		if !ok {
			abortUnauthorized(c)
			return
		}

		c.Set(contextKeyUserID, claims.UserID)
		c.Set(contextKeyUsername, claims.Subject)
		c.Next()
	}
}

// bearerToken はAuthorizationヘッダーからトークンを取り出す。
// スキーム名の大文字小文字は区別しない。
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// abortUnauthorized は401を返してリクエストを中断する。
func abortUnauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"detail": unauthorizedDetail,
	})
}

// GetUserID はGinコンテキストからユーザーIDを取得する。
// JWTAuthミドルウェアが事前に適用されている必要がある。
func GetUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(contextKeyUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// GetUsername はGinコンテキストからユーザー名を取得する。
func GetUsername(c *gin.Context) string {
	return c.GetString(contextKeyUsername)
}
