// Package middleware はゲートウェイのGinミドルウェアとベアラートークンの処理を提供する。
//
// トークンの発行と検証（TokenCodec）、JWT認証、CORS、リクエストID、
// アクセスログ、メトリクス、パニックリカバリを含む。
package middleware
