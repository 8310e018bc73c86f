package gateway

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/nutrigate/pkg/httpclient"
)

// listInventories は呼び出し元の在庫一覧を返す。
// 各品目には食品の詳細を結合する。食品の取得は全在庫で1回にまとめる。
func listInventories(inventories, foods *httpclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, userID, err := caller(c)
		if err != nil {
			respondError(c, err)
			return
		}

		var list []Inventory
		if err := inventories.Do(ctx, http.MethodGet, fmt.Sprintf("/inventory/user/%d", userID), httpclient.ShapePrimitive, nil, &list); err != nil {
			respondError(c, err)
			return
		}
		if list == nil {
			list = []Inventory{}
		}

		if err := attachFoods(ctx, foods, list); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// foodIDs は全在庫の品目が参照する食品IDを重複なく昇順で返す。
func foodIDs(list []Inventory) []int64 {
	seen := make(map[int64]struct{})
	ids := make([]int64, 0)
	for _, inv := range list {
		for _, item := range inv.Items {
			if _, ok := seen[item.FoodID]; ok {
				continue
			}
			seen[item.FoodID] = struct{}{}
			ids = append(ids, item.FoodID)
		}
	}
	slices.Sort(ids)
	return ids
}

// attachFoods はfoodサービスから食品をまとめて取得し、各品目に結合する。
// 取得結果に無い食品IDの品目は Food をnilのままにする。
func attachFoods(ctx context.Context, foods *httpclient.Client, list []Inventory) error {
	ids := foodIDs(list)
	if len(ids) == 0 {
		return nil
	}

	var found []Food
	if err := foods.Do(ctx, http.MethodPost, "/foods/list", httpclient.ShapePrimitive, ids, &found); err != nil {
		return err
	}
	byID := make(map[int64]Food, len(found))
	for _, f := range found {
		byID[f.ID] = f
	}

	for i := range list {
		for j := range list[i].Items {
			item := &list[i].Items[j]
			if f, ok := byID[item.FoodID]; ok {
				item.Food = &f
			}
		}
	}
	return nil
}

// createInventory は呼び出し元の在庫を作成する。userIdは常に呼び出し元のIDになる。
func createInventory(inventories *httpclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, userID, err := caller(c)
		if err != nil {
			respondError(c, err)
			return
		}
		var req InventoryCreate
		if err := bindJSON(c, &req); err != nil {
			respondError(c, err)
			return
		}

		inv := Inventory{
			UserID: userID,
			Name:   req.Name,
			Items:  req.Items,
		}
		for i := range inv.Items {
			inv.Items[i].Food = nil
		}

		var created Inventory
		if err := inventories.Do(ctx, http.MethodPost, "/inventory", httpclient.ShapeObject, inv, &created); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, created)
	}
}

// addInventoryItem は在庫に品目を追加する。呼び出し元が在庫の所有者であることを先に確認する。
func addInventoryItem(inventories *httpclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, userID, err := caller(c)
		if err != nil {
			respondError(c, err)
			return
		}
		invID, err := pathID(c, "inv_id")
		if err != nil {
			respondError(c, err)
			return
		}
		var item InventoryItem
		if err := bindJSON(c, &item); err != nil {
			respondError(c, err)
			return
		}
		if item.InventoryID != 0 && item.InventoryID != invID {
			respondError(c, errIDMismatch)
			return
		}
		item.InventoryID = invID
		item.Food = nil

		if err := ensureInventoryOwner(ctx, inventories, invID, userID); err != nil {
			respondError(c, err)
			return
		}

		var created InventoryItem
		if err := inventories.Do(ctx, http.MethodPost, fmt.Sprintf("/inventory/%d/item", invID), httpclient.ShapeObject, item, &created); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, created)
	}
}

// deleteInventory は在庫を削除する。
// ボディの在庫IDと所有者をバックエンド呼び出し前に確認し、
// さらにinventoryサービスが保持する実際の所有者が呼び出し元であることを確認する。
func deleteInventory(inventories *httpclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, userID, err := caller(c)
		if err != nil {
			respondError(c, err)
			return
		}
		invID, err := pathID(c, "inv_id")
		if err != nil {
			respondError(c, err)
			return
		}
		var inv Inventory
		if err := bindJSON(c, &inv); err != nil {
			respondError(c, err)
			return
		}
		if err := checkInventoryBody(inv, invID, userID); err != nil {
			respondError(c, err)
			return
		}
		if err := ensureInventoryOwner(ctx, inventories, invID, userID); err != nil {
			respondError(c, err)
			return
		}

		var res successResponse
		if err := inventories.Do(ctx, http.MethodDelete, fmt.Sprintf("/inventory/%d", invID), httpclient.ShapeObject, nil, &res); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, successResponse{Success: res.Success})
	}
}

// deleteInventoryItem は在庫から品目を1つ削除する。呼び出し元が在庫の所有者であることを先に確認する。
func deleteInventoryItem(inventories *httpclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, userID, err := caller(c)
		if err != nil {
			respondError(c, err)
			return
		}
		invID, err := pathID(c, "inv_id")
		if err != nil {
			respondError(c, err)
			return
		}
		itemID, err := pathID(c, "item_id")
		if err != nil {
			respondError(c, err)
			return
		}

		if err := ensureInventoryOwner(ctx, inventories, invID, userID); err != nil {
			respondError(c, err)
			return
		}

		var res successResponse
		if err := inventories.Do(ctx, http.MethodDelete, fmt.Sprintf("/inventory/%d/item/%d", invID, itemID), httpclient.ShapeObject, nil, &res); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, successResponse{Success: res.Success})
	}
}

// updateInventory は在庫を更新する。所有者の確認はdeleteInventoryと同じ。
func updateInventory(inventories *httpclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, userID, err := caller(c)
		if err != nil {
			respondError(c, err)
			return
		}
		invID, err := pathID(c, "inv_id")
		if err != nil {
			respondError(c, err)
			return
		}
		var inv Inventory
		if err := bindJSON(c, &inv); err != nil {
			respondError(c, err)
			return
		}
		if err := checkInventoryBody(inv, invID, userID); err != nil {
			respondError(c, err)
			return
		}
		if err := ensureInventoryOwner(ctx, inventories, invID, userID); err != nil {
			respondError(c, err)
			return
		}
		for i := range inv.Items {
			inv.Items[i].Food = nil
		}

		var updated Inventory
		if err := inventories.Do(ctx, http.MethodPut, fmt.Sprintf("/inventory/%d", invID), httpclient.ShapeObject, inv, &updated); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// checkInventoryBody はボディの在庫がパスのIDと一致し、呼び出し元の所有であることを確認する。
func checkInventoryBody(inv Inventory, invID, userID int64) error {
	if inv.ID != invID {
		return errIDMismatch
	}
	if inv.UserID != userID {
		return errNotOwner
	}
	return nil
}

// ensureInventoryOwner はinventoryサービスから在庫を取得し、所有者が呼び出し元であることを確認する。
func ensureInventoryOwner(ctx context.Context, inventories *httpclient.Client, invID, userID int64) error {
	var inv Inventory
	if err := inventories.Do(ctx, http.MethodGet, fmt.Sprintf("/inventory/%d", invID), httpclient.ShapeObject, nil, &inv); err != nil {
		return err
	}
	if inv.UserID != userID {
		return errNotOwner
	}
	return nil
}
