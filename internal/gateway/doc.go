// Package gateway はAPI Gatewayサービスの内部実装を提供する。
//
// ベアラートークンによる認証、公開エンドポイントからバックエンドサービス
// （user, health, food, inventory, mealplan）への振り分け、複数サービスの
// 応答の結合、バックエンドのエラーのHTTPエラーへの変換を担当する。
// 外部からアクセス可能な唯一のサービスであり、セキュリティの境界線となる。
package gateway
