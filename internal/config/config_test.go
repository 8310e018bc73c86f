package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validValues は検証を通る最小限の設定マップを返す。
func validValues() map[string]any {
	return map[string]any{
		"CLIENT":            "http://localhost:3000",
		"USER_SERVICE":      "http://user:8000",
		"HEALTH_SERVICE":    "http://health:8000",
		"MEALPLAN_SERVICE":  "http://mealplan:8000",
		"FOOD_SERVICE":      "http://food:8000",
		"INVENTORY_SERVICE": "http://inventory:8000",
		"EXPIRE":            "7",
		"JWT_SECRET":        "secret",
		"JWT_ALG":           "HS256",
	}
}

func TestLoadFromMap(t *testing.T) {
	t.Parallel()

	t.Run("必須キーが揃っていれば読み込めること", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadFromMap(validValues())
		require.NoError(t, err)
		assert.Equal(t, []string{"http://localhost:3000"}, cfg.ClientOrigins)
		assert.Equal(t, "http://user:8000", cfg.UserService)
		assert.Equal(t, 7.0, cfg.ExpireDays)
		assert.Equal(t, "HS256", cfg.JWTAlg)
	})

	t.Run("省略可能なキーに既定値が入ること", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadFromMap(validValues())
		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, 30*time.Second, cfg.BackendTimeout)
		assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
		assert.Equal(t, ":8080", cfg.Addr())
	})

	t.Run("CLIENTのカンマ区切りが複数オリジンになること", func(t *testing.T) {
		t.Parallel()

		values := validValues()
		values["CLIENT"] = "http://localhost:3000, https://app.example.com"
		cfg, err := LoadFromMap(values)
		require.NoError(t, err)
		assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.ClientOrigins)
	})

	t.Run("文字列のタイムアウトを解釈できること", func(t *testing.T) {
		t.Parallel()

		values := validValues()
		values["BACKEND_TIMEOUT"] = "5s"
		cfg, err := LoadFromMap(values)
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, cfg.BackendTimeout)
	})

	for _, key := range []string{"CLIENT", "USER_SERVICE", "HEALTH_SERVICE", "MEALPLAN_SERVICE", "FOOD_SERVICE", "INVENTORY_SERVICE", "JWT_SECRET", "JWT_ALG", "EXPIRE"} {
		t.Run(key+"が無い場合エラーになること", func(t *testing.T) {
			t.Parallel()

			values := validValues()
			delete(values, key)
			_, err := LoadFromMap(values)
			assert.Error(t, err)
		})
	}

	t.Run("サービスURLが不正な場合エラーになること", func(t *testing.T) {
		t.Parallel()

		values := validValues()
		values["FOOD_SERVICE"] = "not a url"
		_, err := LoadFromMap(values)
		assert.ErrorContains(t, err, "FoodService")
	})

	t.Run("未対応のアルゴリズムでエラーになること", func(t *testing.T) {
		t.Parallel()

		values := validValues()
		values["JWT_ALG"] = "RS256"
		_, err := LoadFromMap(values)
		assert.ErrorContains(t, err, "JWTAlg")
	})

	t.Run("JWT_ALGとEXPIREが無い場合どちらも報告されること", func(t *testing.T) {
		t.Parallel()

		values := validValues()
		delete(values, "JWT_ALG")
		delete(values, "EXPIRE")
		_, err := LoadFromMap(values)
		require.Error(t, err)
		assert.ErrorContains(t, err, "JWTAlg: required")
		assert.ErrorContains(t, err, "ExpireDays: required")
	})

	t.Run("EXPIREが0以下の場合エラーになること", func(t *testing.T) {
		t.Parallel()

		values := validValues()
		values["EXPIRE"] = "0"
		_, err := LoadFromMap(values)
		assert.ErrorContains(t, err, "ExpireDays")
	})
}

func TestLoad(t *testing.T) {
	t.Run("環境変数から読み込めること", func(t *testing.T) {
		for key, value := range validValues() {
			t.Setenv(key, value.(string))
		}
		t.Setenv("EXPIRE", "0.5")
		t.Setenv("PORT", "9000")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 9000, cfg.Port)
		assert.Equal(t, 12*time.Hour, cfg.TokenTTL())
	})

	t.Run("JWT_SECRETが無い場合エラーになること", func(t *testing.T) {
		for key, value := range validValues() {
			t.Setenv(key, value.(string))
		}
		t.Setenv("JWT_SECRET", "")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestTokenTTL(t *testing.T) {
	t.Parallel()

	cfg := &Config{ExpireDays: 7}
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL())
}
