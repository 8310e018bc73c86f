package gateway

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/nutrigate/pkg/httpclient"
)

// searchFoods はクエリ文字列をそのままfoodサービスに渡して食品を検索する。
func searchFoods(foods *httpclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := "/foods"
		if q := c.Request.URL.Query(); len(q) > 0 {
			path += "?" + q.Encode()
		}

		list := []Food{}
		if err := foods.Do(c.Request.Context(), http.MethodGet, path, httpclient.ShapePrimitive, nil, &list); err != nil {
			respondError(c, err)
			return
		}
		if list == nil {
			list = []Food{}
		}
		c.JSON(http.StatusOK, list)
	}
}

// getFood は食品を1件返す。
func getFood(foods *httpclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		foodID, err := pathID(c, "id")
		if err != nil {
			respondError(c, err)
			return
		}

		var food Food
		if err := foods.Do(c.Request.Context(), http.MethodGet, fmt.Sprintf("/foods/%d", foodID), httpclient.ShapeObject, nil, &food); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, food)
	}
}

// discountedFoods は割引中の食品を返す。
func discountedFoods(foods *httpclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		list := []Food{}
		if err := foods.Do(c.Request.Context(), http.MethodGet, "/foods/discounted", httpclient.ShapePrimitive, nil, &list); err != nil {
			respondError(c, err)
			return
		}
		if list == nil {
			list = []Food{}
		}
		c.JSON(http.StatusOK, list)
	}
}

// listFoods は食品IDのリストでまとめて食品を取得する。
func listFoods(foods *httpclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ids []int64
		if err := bindJSON(c, &ids); err != nil {
			respondError(c, err)
			return
		}

		list := []Food{}
		if err := foods.Do(c.Request.Context(), http.MethodPost, "/foods/list", httpclient.ShapePrimitive, ids, &list); err != nil {
			respondError(c, err)
			return
		}
		if list == nil {
			list = []Food{}
		}
		c.JSON(http.StatusOK, list)
	}
}
