// Package config はゲートウェイの設定を環境変数から読み込み、検証する。
//
// 設定はプロセス起動時に一度だけ読み込まれ、以後変更されない。
// 必須キーが欠けている場合、ハンドラが動き出す前にLoadがエラーを返す。
package config
