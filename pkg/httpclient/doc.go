// Package httpclient はゲートウェイからバックエンドサービスを呼び出すクライアントを提供する。
//
// 1つのClientが1つのバックエンドサービスに対応する。呼び出しごとに
// レスポンスボディのShape（object / array / primitive）を明示し、
// 400〜599のステータスはバックエンドのdetail/titleを保持した *APIError に変換する。
package httpclient
