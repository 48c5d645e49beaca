package handler

import (
	"net/http"
)

// SessionStoreInterface はセッションハンドラーが必要とするストアインターフェース。
type SessionStoreInterface interface {
	// Create は新しいセッションを作成し、セッションIDを返す。
	Create() string
	// Count は現在保持しているセッション数を返す。
	Count() int
}

// SessionMetricsRecorder はセッション作成メトリクスの記録に必要なインターフェース。
// nilの場合は記録をスキップする。
type SessionMetricsRecorder interface {
	RecordSessionCreated()
}

// SessionHandler はセッション管理のHTTPハンドラー。
type SessionHandler struct {
	store   SessionStoreInterface
	metrics SessionMetricsRecorder
}

// NewSessionHandler はSessionHandlerを生成する。
func NewSessionHandler(store SessionStoreInterface, metrics SessionMetricsRecorder) *SessionHandler {
	return &SessionHandler{
		store:   store,
		metrics: metrics,
	}
}

// createSessionResponse はセッション作成のAPIレスポンス。
type createSessionResponse struct {
	SessionID string `json:"session_id"`
}

// healthResponse はヘルスチェックのAPIレスポンス。
type healthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

// CreateSession は新しい編集セッションを作成する。
// POST /api/sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	id := h.store.Create()
	if h.metrics != nil {
		h.metrics.RecordSessionCreated()
	}
	writeJSON(w, http.StatusCreated, createSessionResponse{SessionID: id})
}

// Health はヘルスチェックに応答する。
// GET /health
func (h *SessionHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Sessions: h.store.Count(),
	})
}
