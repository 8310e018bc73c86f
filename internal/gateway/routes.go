package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/nutrigate/pkg/middleware"
)

// route は公開エンドポイント1つとそのハンドラの対応。
type route struct {
	method string
	path   string
	// protected が true の場合、ハンドラの前にベアラートークンを検証する。
	protected bool
	handler   gin.HandlerFunc
}

// routes は公開エンドポイントの一覧を返す。
// ハンドラは必要なサービスクライアントだけを受け取るクロージャとして生成する。
func (s *Server) routes() []route {
	svc := s.services
	return []route{
		// 認証・ユーザー
		{method: http.MethodPost, path: "/login", handler: login(svc.User, s.codec, s.cfg.TokenTTL())},
		{method: http.MethodGet, path: "/user", protected: true, handler: getUser(svc.User)},
		{method: http.MethodPost, path: "/user", handler: createUser(svc.User)},
		{method: http.MethodDelete, path: "/user", protected: true, handler: deleteUser(svc.User)},

		// 健康記録
		{method: http.MethodPost, path: "/health", protected: true, handler: createHealthEntry(svc.Health)},
		{method: http.MethodDelete, path: "/health/:id", protected: true, handler: deleteHealthEntry(svc.Health)},
		{method: http.MethodGet, path: "/health/history", protected: true, handler: healthHistory(svc.Health)},

		// 在庫
		{method: http.MethodGet, path: "/inventories", protected: true, handler: listInventories(svc.Inventory, svc.Food)},
		{method: http.MethodPost, path: "/inventories", protected: true, handler: createInventory(svc.Inventory)},
		{method: http.MethodPost, path: "/inventories/:inv_id", protected: true, handler: addInventoryItem(svc.Inventory)},
		{method: http.MethodDelete, path: "/inventories/:inv_id", protected: true, handler: deleteInventory(svc.Inventory)},
		{method: http.MethodDelete, path: "/inventories/:inv_id/:item_id", protected: true, handler: deleteInventoryItem(svc.Inventory)},
		{method: http.MethodPut, path: "/inventories/:inv_id", protected: true, handler: updateInventory(svc.Inventory)},

		// 食品
		{method: http.MethodGet, path: "/foods", handler: searchFoods(svc.Food)},
		{method: http.MethodGet, path: "/foods/discounted", handler: discountedFoods(svc.Food)},
		{method: http.MethodGet, path: "/foods/:id", handler: getFood(svc.Food)},
		{method: http.MethodPost, path: "/foods/list", handler: listFoods(svc.Food)},

		// 献立
		{method: http.MethodPost, path: "/meal", protected: true, handler: createMealPlan(svc.MealPlan)},
		{method: http.MethodPost, path: "/mealRecipe", handler: addMealRecipe(svc.MealPlan)},
		{method: http.MethodPost, path: "/mealsPerDay", handler: setMealsPerDay(svc.MealPlan)},
		{method: http.MethodPost, path: "/generate", protected: true, handler: generateMealPlan(svc.MealPlan)},
		{method: http.MethodGet, path: "/mealPlan", protected: true, handler: currentMealPlan(svc.MealPlan)},
		{method: http.MethodGet, path: "/mealPlan/all", protected: true, handler: allMealPlans(svc.MealPlan)},
		{method: http.MethodDelete, path: "/mealPlan", protected: true, handler: deleteMealPlan(svc.MealPlan)},

		// 運用
		{method: http.MethodGet, path: "/healthz", handler: liveness()},
		{method: http.MethodGet, path: "/readyz", handler: readiness(svc)},
		{method: http.MethodGet, path: "/metrics", handler: gin.WrapH(s.metrics.Handler())},
	}
}

// setupRoutes はルート一覧をルーターに登録する。
func (s *Server) setupRoutes() {
	auth := middleware.JWTAuth(s.codec)
	for _, r := range s.routes() {
		if r.protected {
			s.router.Handle(r.method, r.path, auth, r.handler)
			continue
		}
		s.router.Handle(r.method, r.path, r.handler)
	}
}
