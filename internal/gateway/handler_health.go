package gateway

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/nutrigate/pkg/httpclient"
)

// createHealthEntry は呼び出し元の健康記録を登録する。
func createHealthEntry(health *httpclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, userID, err := caller(c)
		if err != nil {
			respondError(c, err)
			return
		}
		var entry HealthEntryCreate
		if err := bindJSON(c, &entry); err != nil {
			respondError(c, err)
			return
		}

		var res successResponse
		if err := health.Do(ctx, http.MethodPost, fmt.Sprintf("/health/%d", userID), httpclient.ShapeObject, entry, &res); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, successResponse{Success: res.Success})
	}
}

// deleteHealthEntry は呼び出し元の健康記録をIDで削除する。
func deleteHealthEntry(health *httpclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, userID, err := caller(c)
		if err != nil {
			respondError(c, err)
			return
		}
		entryID, err := pathID(c, "id")
		if err != nil {
			respondError(c, err)
			return
		}

		var res successResponse
		if err := health.Do(ctx, http.MethodDelete, fmt.Sprintf("/health/%d/%d", userID, entryID), httpclient.ShapeObject, nil, &res); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, successResponse{Success: res.Success})
	}
}

// healthHistory は呼び出し元の健康記録の履歴を返す。
func healthHistory(health *httpclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, userID, err := caller(c)
		if err != nil {
			respondError(c, err)
			return
		}

		history := []HealthEntry{}
		if err := health.Do(ctx, http.MethodGet, fmt.Sprintf("/health/%d/history", userID), httpclient.ShapePrimitive, nil, &history); err != nil {
			respondError(c, err)
			return
		}
		if history == nil {
			history = []HealthEntry{}
		}
		c.JSON(http.StatusOK, history)
	}
}
