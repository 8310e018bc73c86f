package httpclient

import (
	"encoding/json"
	"fmt"
)

// fallbackDetail はエラーボディからメッセージを取り出せない場合の既定値。
const fallbackDetail = "Error"

// APIError はバックエンドがエラーを返したことを表す。
// StatusCode はバックエンドが返したステータスをそのまま保持する。
type APIError struct {
	// Service はエラーを返したサービスの論理名。
	Service string
	// StatusCode はバックエンドのHTTPステータスコード。
	StatusCode int
	// Detail はエラーボディから取り出したdetail（またはtitle）の値。
	// 文字列とは限らず、FastAPIのバリデーションエラーでは配列になる。
	// 成功ステータスでボディが空の場合はnil。
	Detail any
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	if e.Detail == nil {
		return fmt.Sprintf("%sサービスがエラーを返しました: status=%d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%sサービスがエラーを返しました: status=%d, detail=%v", e.Service, e.StatusCode, e.Detail)
}

// DecodeError はレスポンスボディが宣言したShapeと一致しないことを表す。
type DecodeError struct {
	// Shape は呼び出し側が宣言したShape。
	Shape Shape
	// Err は原因となったエラー。
	Err error
}

// Error はerrorインターフェースを実装する。
func (e *DecodeError) Error() string {
	return fmt.Sprintf("レスポンスボディのデコードに失敗 (shape=%s): %v", e.Shape, e.Err)
}

// Unwrap は原因となったエラーを返す。
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// errorBody はバックエンドのエラーボディのうち参照するフィールド。
type errorBody struct {
	Detail any `json:"detail"`
	Title  any `json:"title"`
}

// errorDetail はエラーボディからdetailの値を取り出す。
// detailが無いかnullの場合はtitle、それも無ければ "Error" を返す。
// 空文字列や配列のdetailはそのまま返す。
func errorDetail(body []byte) any {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return fallbackDetail
	}
	if eb.Detail != nil {
		return eb.Detail
	}
	if eb.Title != nil {
		return eb.Title
	}
	return fallbackDetail
}
