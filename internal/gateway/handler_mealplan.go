package gateway

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/nutrigate/pkg/httpclient"
)

// createMealPlan は呼び出し元の献立を作成する。
func createMealPlan(mealplans *httpclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, userID, err := caller(c)
		if err != nil {
			respondError(c, err)
			return
		}
		var req MealPlanCreate
		if err := bindJSON(c, &req); err != nil {
			respondError(c, err)
			return
		}

		plan := MealPlan{
			UserID:    userID,
			Name:      req.Name,
			StartDate: req.StartDate,
			Days:      req.Days,
		}
		var created MealPlan
		if err := mealplans.Do(ctx, http.MethodPost, "/mealplan", httpclient.ShapeObject, plan, &created); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, created)
	}
}

// addMealRecipe は献立の食事にレシピを割り当てる。
func addMealRecipe(mealplans *httpclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var recipe MealRecipe
		if err := bindJSON(c, &recipe); err != nil {
			respondError(c, err)
			return
		}

		var res successResponse
		if err := mealplans.Do(c.Request.Context(), http.MethodPost, "/mealplan/recipe", httpclient.ShapeObject, recipe, &res); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, successResponse{Success: res.Success})
	}
}

// setMealsPerDay は献立の1日あたりの栄養目標を設定する。
// mealplanサービスは保存した行を配列で返す。
func setMealsPerDay(mealplans *httpclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MealsPerDay
		if err := bindJSON(c, &req); err != nil {
			respondError(c, err)
			return
		}

		var saved MealsPerDay
		if err := mealplans.Do(c.Request.Context(), http.MethodPost, "/mealplan/mealsPerDay", httpclient.ShapeArray, req, &saved); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, saved)
	}
}

// generateMealPlan は栄養目標から呼び出し元の献立を生成する。
func generateMealPlan(mealplans *httpclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, userID, err := caller(c)
		if err != nil {
			respondError(c, err)
			return
		}
		var req GenerateMealPlan
		if err := bindJSON(c, &req); err != nil {
			respondError(c, err)
			return
		}
		req.UserID = userID

		var plan MealPlan
		if err := mealplans.Do(ctx, http.MethodPost, "/mealplan/generate", httpclient.ShapeObject, req, &plan); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, plan)
	}
}

// currentMealPlan は呼び出し元の現在の献立を返す。
func currentMealPlan(mealplans *httpclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, userID, err := caller(c)
		if err != nil {
			respondError(c, err)
			return
		}

		var plan MealPlan
		if err := mealplans.Do(ctx, http.MethodGet, fmt.Sprintf("/mealplan/user/%d", userID), httpclient.ShapeObject, nil, &plan); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, plan)
	}
}

// allMealPlans は呼び出し元の献立をすべて返す。
func allMealPlans(mealplans *httpclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, userID, err := caller(c)
		if err != nil {
			respondError(c, err)
			return
		}

		plans := []MealPlan{}
		if err := mealplans.Do(ctx, http.MethodGet, fmt.Sprintf("/mealplan/user/%d/all", userID), httpclient.ShapePrimitive, nil, &plans); err != nil {
			respondError(c, err)
			return
		}
		if plans == nil {
			plans = []MealPlan{}
		}
		c.JSON(http.StatusOK, plans)
	}
}

// deleteMealPlan はクエリのidで指定した献立を削除する。削除対象は呼び出し元の献立に限る。
func deleteMealPlan(mealplans *httpclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, userID, err := caller(c)
		if err != nil {
			respondError(c, err)
			return
		}
		planID, err := parseID("id", c.Query("id"))
		if err != nil {
			respondError(c, err)
			return
		}

		var res successResponse
		path := fmt.Sprintf("/mealplan/%d?userId=%d", planID, userID)
		if err := mealplans.Do(ctx, http.MethodDelete, path, httpclient.ShapeObject, nil, &res); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, successResponse{Success: res.Success})
	}
}
