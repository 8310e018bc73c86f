package gateway

import (
	"encoding/json"
	"fmt"
)

// Energy は栄養量（カロリーと三大栄養素）。
type Energy struct {
	Calories      float64 `json:"calories" binding:"gte=0"`
	Fat           float64 `json:"fat" binding:"gte=0"`
	Carbohydrates float64 `json:"carbohydrates" binding:"gte=0"`
	Protein       float64 `json:"protein" binding:"gte=0"`
}

// BaseUser はユーザーの共通属性。
type BaseUser struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Gender   string `json:"gender" binding:"required"`
	// Birthday は "2006-01-02" 形式の日付。
	Birthday string `json:"birthday" binding:"required,datetime=2006-01-02"`
}

// UserCreate はアカウント作成のリクエストボディ。
type UserCreate struct {
	BaseUser
	TargetEnergy Energy `json:"target_energy"`
	Password     string `json:"password" binding:"required"`
}

// User はuserサービスが返すユーザー。
type User struct {
	BaseUser
	ID           int64  `json:"id"`
	Created      string `json:"created"`
	TargetEnergy Energy `json:"target_energy"`
}

// LoginForm はログインの資格情報。
// OAuth2のパスワードフォームとJSONの両方を受け付ける。
type LoginForm struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// validateResult はuserサービスの資格情報検証の結果。
type validateResult struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
}

// TokenResponse はログイン成功時のレスポンス。
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// successResponse は作成・削除系の操作の応答。
type successResponse struct {
	Success bool `json:"success"`
}

// HealthEntryCreate は健康記録の登録リクエスト。
type HealthEntryCreate struct {
	// Date は "2006-01-02" 形式の記録日。
	Date   string  `json:"date" binding:"required,datetime=2006-01-02"`
	Weight float64 `json:"weight" binding:"gt=0"`
	Energy Energy  `json:"energy"`
}

// HealthEntry はhealthサービスが返す健康記録。
type HealthEntry struct {
	ID     int64   `json:"id"`
	UserID int64   `json:"userId"`
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
	Energy Energy  `json:"energy"`
}

// Food はfoodサービスが返す食品。
type Food struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Brand         string   `json:"brand,omitempty"`
	Price         float64  `json:"price"`
	DiscountPrice *float64 `json:"discountPrice,omitempty"`
	Energy        Energy   `json:"energy"`
}

// InventoryItem は在庫の1品目。
// Food はゲートウェイが結合する食品で、見つからない場合はnullのまま返す。
type InventoryItem struct {
	ID          int64   `json:"id"`
	InventoryID int64   `json:"inventoryId"`
	FoodID      int64   `json:"foodId" binding:"required,gt=0"`
	Quantity    float64 `json:"quantity" binding:"gt=0"`
	Unit        string  `json:"unit,omitempty"`
	// ExpiresOn は "2006-01-02" 形式の消費期限。
	ExpiresOn string `json:"expiresOn,omitempty" binding:"omitempty,datetime=2006-01-02"`
	Food      *Food  `json:"food"`
}

// Inventory はユーザーが所有する在庫。
type Inventory struct {
	ID     int64           `json:"id"`
	UserID int64           `json:"userId"`
	Name   string          `json:"name"`
	Items  []InventoryItem `json:"items" binding:"dive"`
}

// InventoryCreate は在庫の作成リクエスト。
type InventoryCreate struct {
	Name  string          `json:"name" binding:"required"`
	Items []InventoryItem `json:"items" binding:"dive"`
}

// MealPlanCreate は献立の作成リクエスト。
type MealPlanCreate struct {
	Name string `json:"name" binding:"required"`
	// StartDate は "2006-01-02" 形式の開始日。
	StartDate string `json:"startDate" binding:"required,datetime=2006-01-02"`
	Days      int    `json:"days" binding:"gt=0"`
}

// MealPlan はmealplanサービスが返す献立。
type MealPlan struct {
	ID          int64         `json:"id"`
	UserID      int64         `json:"userId"`
	Name        string        `json:"name"`
	StartDate   string        `json:"startDate"`
	Days        int           `json:"days"`
	Recipes     []MealRecipe  `json:"recipes,omitempty"`
	MealsPerDay []MealsPerDay `json:"mealsPerDay,omitempty"`
}

// MealRecipe は献立の特定の日・食事にレシピを割り当てる。
type MealRecipe struct {
	MealPlanID int64  `json:"mealPlanId" binding:"required,gt=0"`
	RecipeID   int64  `json:"recipeId" binding:"required,gt=0"`
	Day        int    `json:"day" binding:"gte=0"`
	Meal       string `json:"meal" binding:"required,oneof=breakfast lunch dinner snack"`
}

// MealsPerDay は献立の1日あたりの栄養目標。
type MealsPerDay struct {
	ID         int64  `json:"id"`
	MealPlanID int64  `json:"mealPlanId" binding:"required,gt=0"`
	Day        int    `json:"day" binding:"gte=0"`
	Energy     Energy `json:"energy"`
}

// mealsPerDayFields はmealplanサービスが返す行の列数。
// [id, mealPlanId, day, calories, fat, carbohydrates, protein] の順に並ぶ。
const mealsPerDayFields = 7

// FromPositional はmealplanサービスが返す行からMealsPerDayを構築する。
func (m *MealsPerDay) FromPositional(fields []json.RawMessage) error {
	if len(fields) != mealsPerDayFields {
		return fmt.Errorf("MealsPerDayの列数が不正です: got %d, want %d", len(fields), mealsPerDayFields)
	}
	targets := []any{
		&m.ID,
		&m.MealPlanID,
		&m.Day,
		&m.Energy.Calories,
		&m.Energy.Fat,
		&m.Energy.Carbohydrates,
		&m.Energy.Protein,
	}
	for i, target := range targets {
		if err := json.Unmarshal(fields[i], target); err != nil {
			return fmt.Errorf("MealsPerDayの%d列目のデコードに失敗: %w", i, err)
		}
	}
	return nil
}

// GenerateMealPlan は栄養目標から献立を自動生成するリクエスト。
type GenerateMealPlan struct {
	UserID int64  `json:"userId"`
	Name   string `json:"name" binding:"required"`
	// StartDate は "2006-01-02" 形式の開始日。
	StartDate      string  `json:"startDate" binding:"required,datetime=2006-01-02"`
	Days           int     `json:"days" binding:"gt=0"`
	MealsPerDay    int     `json:"mealsPerDay" binding:"gt=0,lte=10"`
	Target         Energy  `json:"target"`
	ExcludeFoodIDs []int64 `json:"excludeFoodIds,omitempty"`
}
