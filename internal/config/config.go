package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config はゲートウェイの設定。
type Config struct {
	// ClientOrigins はCORSで許可するオリジン（CLIENT、カンマ区切り）。
	ClientOrigins []string `mapstructure:"CLIENT" validate:"required,min=1,dive,required"`
	// UserService はuserサービスのベースURL。
	UserService string `mapstructure:"USER_SERVICE" validate:"required,url"`
	// HealthService はhealthサービスのベースURL。
	HealthService string `mapstructure:"HEALTH_SERVICE" validate:"required,url"`
	// MealPlanService はmealplanサービスのベースURL。
	MealPlanService string `mapstructure:"MEALPLAN_SERVICE" validate:"required,url"`
	// FoodService はfoodサービスのベースURL。
	FoodService string `mapstructure:"FOOD_SERVICE" validate:"required,url"`
	// InventoryService はinventoryサービスのベースURL。
	InventoryService string `mapstructure:"INVENTORY_SERVICE" validate:"required,url"`
	// ExpireDays はトークンの有効期間（日）。
	ExpireDays float64 `mapstructure:"EXPIRE" validate:"required,gt=0"`
	// JWTSecret はトークン署名用の共有シークレット。
	JWTSecret string `mapstructure:"JWT_SECRET" validate:"required"`
	// JWTAlg はトークンの署名アルゴリズム。
	JWTAlg string `mapstructure:"JWT_ALG" validate:"required,oneof=HS256 HS384 HS512"`

	// Port はリッスンするポート。
	Port int `mapstructure:"PORT" validate:"gt=0,lt=65536"`
	// LogLevel はログの出力レベル。
	LogLevel string `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	// BackendTimeout はバックエンド呼び出し1回あたりのタイムアウト。
	BackendTimeout time.Duration `mapstructure:"BACKEND_TIMEOUT" validate:"gt=0"`
	// ShutdownTimeout はグレースフルシャットダウンの待ち時間。
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
}

// keys は環境変数から読み込むキーの一覧。
var keys = []string{
	"CLIENT",
	"USER_SERVICE",
	"HEALTH_SERVICE",
	"MEALPLAN_SERVICE",
	"FOOD_SERVICE",
	"INVENTORY_SERVICE",
	"EXPIRE",
	"JWT_SECRET",
	"JWT_ALG",
	"PORT",
	"LOG_LEVEL",
	"BACKEND_TIMEOUT",
	"SHUTDOWN_TIMEOUT",
}

// setDefaults は省略可能なキーの既定値を設定する。
// トークンに関わるEXPIREとJWT_ALGは既定値を持たず、必ず環境から与える。
func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", 8080)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("BACKEND_TIMEOUT", 30*time.Second)
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
}

// Load は環境変数から設定を読み込み、検証する。
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("環境変数 %s のバインドに失敗: %w", key, err)
		}
	}
	return load(v)
}

// LoadFromMap は解決済みの設定マップから設定を読み込み、検証する。
// テストや組み込み用途で使用する。
func LoadFromMap(values map[string]any) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	for key, value := range values {
		v.Set(key, value)
	}
	return load(v)
}

// load はviperの値を構造体に展開して検証する。
func load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("設定の展開に失敗: %w", err)
	}
	cfg.ClientOrigins = splitOrigins(cfg.ClientOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// splitOrigins は "a,b" のような1要素のリストも含めてオリジンを展開する。
func splitOrigins(raw []string) []string {
	origins := make([]string, 0, len(raw))
	for _, entry := range raw {
		for _, o := range strings.Split(entry, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}
	return origins
}

// Validate は設定値を検証する。
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("設定が不正です: %s", strings.Join(msgs, ", "))
		}
		return fmt.Errorf("設定の検証に失敗: %w", err)
	}
	return nil
}

// TokenTTL はトークンの有効期間を返す。
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.ExpireDays * float64(24*time.Hour))
}

// Addr はHTTPサーバーのリッスンアドレスを返す。
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
