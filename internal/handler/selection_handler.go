package handler

import (
	"encoding/json"
	"net/http"

	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/middleware"
	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/model"
)

// SelectionStoreInterface は選択ハンドラーが必要とするストアインターフェース。
type SelectionStoreInterface interface {
	// ToggleSelection は記事の選択状態を反転し、反転後の状態を返す。
	ToggleSelection(id string, newsID int) (bool, error)
	// ClearSelection は選択集合を空にする。
	ClearSelection(id string) error
	// ReplaceSelection は選択集合を指定のnewsIDリストで置き換える。
	ReplaceSelection(id string, newsIDs []int) error
	// SelectedArticles は選択中の記事を選択順で返す。
	SelectedArticles(id string) ([]model.Article, error)
}

// SelectionHandler は記事選択操作のHTTPハンドラー。
type SelectionHandler struct {
	store SelectionStoreInterface
}

// NewSelectionHandler はSelectionHandlerを生成する。
func NewSelectionHandler(store SelectionStoreInterface) *SelectionHandler {
	return &SelectionHandler{store: store}
}

// toggleSelectionRequest は選択トグルリクエストのボディ。
type toggleSelectionRequest struct {
	NewsID int `json:"news_id"`
}

// toggleSelectionResponse は選択トグルのAPIレスポンス。
type toggleSelectionResponse struct {
	NewsID   int  `json:"news_id"`
	Selected bool `json:"selected"`
}

// replaceSelectionRequest は選択置換リクエストのボディ。
type replaceSelectionRequest struct {
	NewsIDs []int `json:"news_ids"`
}

// selectionResponse は選択中記事リストのAPIレスポンス。
type selectionResponse struct {
	Data  []model.Article `json:"data"`
	Count int             `json:"count"`
}

// Toggle は記事の選択状態を反転する。
// POST /api/selection/toggle
func (h *SelectionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	sessionID, err := middleware.SessionIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewSessionNotFoundError())
		return
	}

	var req toggleSelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	selected, err := h.store.ToggleSelection(sessionID, req.NewsID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toggleSelectionResponse{
		NewsID:   req.NewsID,
		Selected: selected,
	})
}

// Clear は選択集合を空にする。記事キャッシュは保持される。
// POST /api/selection/clear
func (h *SelectionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sessionID, err := middleware.SessionIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewSessionNotFoundError())
		return
	}

	if err := h.store.ClearSelection(sessionID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Replace は選択集合をリクエストのnewsIDリストで置き換える。
// リスト順が新しい選択順になる。
// PUT /api/selection
func (h *SelectionHandler) Replace(w http.ResponseWriter, r *http.Request) {
	sessionID, err := middleware.SessionIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewSessionNotFoundError())
		return
	}

	var req replaceSelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	if err := h.store.ReplaceSelection(sessionID, req.NewsIDs); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListSelected は選択中の記事を選択順で返す。
// GET /api/selection
func (h *SelectionHandler) ListSelected(w http.ResponseWriter, r *http.Request) {
	sessionID, err := middleware.SessionIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewSessionNotFoundError())
		return
	}

	articles, err := h.store.SelectedArticles(sessionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if articles == nil {
		articles = []model.Article{}
	}

	writeJSON(w, http.StatusOK, selectionResponse{
		Data:  articles,
		Count: len(articles),
	})
}
