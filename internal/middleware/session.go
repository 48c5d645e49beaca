// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/model"
)

// sessionHeaderName はクライアントがセッションIDを渡すヘッダー名。
const sessionHeaderName = "X-Session-ID"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// sessionIDContextKey はリクエストコンテキストにセッションIDを格納するためのキー。
var sessionIDContextKey = contextKey("session_id")

// SessionToucher はセッションの存在確認と期限延長に必要なインターフェース。
// bulletin.Storeの部分集合として定義する。
type SessionToucher interface {
	Touch(id string) bool
}

// NewSessionMiddleware はX-Session-IDヘッダーからセッションIDを読み取り、
// 有効性を検証するミドルウェアを返す。
// 有効なセッションIDをリクエストコンテキストに注入し、期限を延長する。
// ヘッダーが無い・未知・期限切れの場合は404とSESSION_NOT_FOUNDを返す。
func NewSessionMiddleware(store SessionToucher) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := r.Header.Get(sessionHeaderName)
			if sessionID == "" {
				writeSessionNotFound(w)
				return
			}

			if !store.Touch(sessionID) {
				writeSessionNotFound(w)
				return
			}

			ctx := context.WithValue(r.Context(), sessionIDContextKey, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionIDFromContext はリクエストコンテキストからセッションIDを取得する。
// セッションミドルウェアを通過したリクエストでのみ有効。
func SessionIDFromContext(ctx context.Context) (string, error) {
	sessionID, ok := ctx.Value(sessionIDContextKey).(string)
	if !ok || sessionID == "" {
		return "", fmt.Errorf("session ID not found in context")
	}
	return sessionID, nil
}

// ContextWithSessionID はコンテキストにセッションIDを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDContextKey, sessionID)
}

// writeSessionNotFound は404とSESSION_NOT_FOUNDエラーを書き込む。
func writeSessionNotFound(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusNotFound, model.NewSessionNotFoundError())
}
