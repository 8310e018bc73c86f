package gateway

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/nutrigate/pkg/httpclient"
	"github.com/nao1215/nutrigate/pkg/middleware"
)

// tokenType はログイン応答のトークン種別。
const tokenType = "bearer"

// login はuserサービスで資格情報を検証し、アクセストークンを発行する。
func login(users *httpclient.Client, codec *middleware.TokenCodec, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form LoginForm
		if err := c.ShouldBind(&form); err != nil {
			respondError(c, badRequest("username and password are required"))
			return
		}

		var res validateResult
		if err := users.Do(c.Request.Context(), http.MethodPost, "/validate", httpclient.ShapeObject, form, &res); err != nil {
			respondError(c, err)
			return
		}
		if !res.Success {
			respondError(c, errInvalidCredentials)
			return
		}

		token, err := codec.Encode(form.Username, res.ID, ttl)
		if err != nil {
			respondError(c, internalError(err))
			return
		}
		c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: tokenType})
	}
}

// getUser は呼び出し元のユーザー情報を返す。
func getUser(users *httpclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, userID, err := caller(c)
		if err != nil {
			respondError(c, err)
			return
		}

		var user User
		if err := users.Do(ctx, http.MethodGet, fmt.Sprintf("/user/%d", userID), httpclient.ShapeObject, nil, &user); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// createUser はアカウントを作成する。ユーザー名の重複はuserサービスの409をそのまま返す。
func createUser(users *httpclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var account UserCreate
		if err := bindJSON(c, &account); err != nil {
			respondError(c, err)
			return
		}

		var res successResponse
		if err := users.Do(c.Request.Context(), http.MethodPost, "/user", httpclient.ShapeObject, account, &res); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, successResponse{Success: res.Success})
	}
}

// deleteUser は呼び出し元のアカウントを削除し、userサービスの応答をそのまま返す。
func deleteUser(users *httpclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, userID, err := caller(c)
		if err != nil {
			respondError(c, err)
			return
		}

		var res map[string]any
		if err := users.Do(ctx, http.MethodDelete, fmt.Sprintf("/user/%d", userID), httpclient.ShapeObject, nil, &res); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}
