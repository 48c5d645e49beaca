package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/middleware"
	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/model"
	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/newsclient"
)

// NewsServiceInterface はニュースハンドラーが必要とするクライアントインターフェース。
type NewsServiceInterface interface {
	// Search は検索条件に一致する記事リストを取得する。
	Search(ctx context.Context, params newsclient.SearchParams) ([]model.Article, error)
	// Detail は記事詳細を取得する。
	Detail(ctx context.Context, newsID int) (*model.Article, error)
}

// NewsStoreInterface はニュースハンドラーが必要とするストアインターフェース。
type NewsStoreInterface interface {
	// BeginSearch は検索シーケンストークンを発行する。
	BeginSearch(id string) (int64, error)
	// CompleteSearch は検索レスポンスの記事をキャッシュに取り込む。
	// 古いレスポンスの場合はfalseを返す。
	CompleteSearch(id string, seq int64, articles []model.Article) (bool, error)
	// CacheArticle は記事1件をキャッシュに取り込む。
	CacheArticle(id string, article model.Article) error
}

// SearchMetricsRecorder は検索メトリクスの記録に必要なインターフェース。
// nilの場合は記録をスキップする。
type SearchMetricsRecorder interface {
	RecordSearchSuccess()
	RecordSearchFailure()
}

// NewsHandler はニュース検索・記事詳細のHTTPハンドラー。
type NewsHandler struct {
	service NewsServiceInterface
	store   NewsStoreInterface
	metrics SearchMetricsRecorder
}

// NewNewsHandler はNewsHandlerを生成する。
func NewNewsHandler(service NewsServiceInterface, store NewsStoreInterface, metrics SearchMetricsRecorder) *NewsHandler {
	return &NewsHandler{
		service: service,
		store:   store,
		metrics: metrics,
	}
}

// newsSearchResponse はニュース検索のAPIレスポンス。
// Staleがtrueのレスポンスはセッションキャッシュに取り込まれていない。
type newsSearchResponse struct {
	Data  []model.Article `json:"data"`
	Stale bool            `json:"stale"`
}

// newsDetailResponse は記事詳細のAPIレスポンス。
type newsDetailResponse struct {
	Data *model.Article `json:"data"`
}

// Search はニュース検索を処理する。
// GET /api/news
//
// 検索開始時にシーケンストークンを発行し、レスポンス取り込み時に
// 最新トークンと照合する。取り込みが見送られた（より新しい検索が
// 始まっている）場合はstale=trueで返す。
func (h *NewsHandler) Search(w http.ResponseWriter, r *http.Request) {
	sessionID, err := middleware.SessionIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewSessionNotFoundError())
		return
	}

	params, apiErr := parseSearchParams(r)
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	seq, err := h.store.BeginSearch(sessionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	articles, err := h.service.Search(r.Context(), params)
	if err != nil {
		if h.metrics != nil {
			h.metrics.RecordSearchFailure()
		}
		handleServiceError(w, err)
		return
	}

	applied, err := h.store.CompleteSearch(sessionID, seq, articles)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordSearchSuccess()
	}
	writeJSON(w, http.StatusOK, newsSearchResponse{
		Data:  articles,
		Stale: !applied,
	})
}

// Detail は記事詳細を取得する。
// GET /api/news/{id}
//
// 取得した記事はセッションキャッシュに取り込まれ、選択対象になる。
func (h *NewsHandler) Detail(w http.ResponseWriter, r *http.Request) {
	sessionID, err := middleware.SessionIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewSessionNotFoundError())
		return
	}

	newsID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("記事IDは整数で指定してください"))
		return
	}

	article, err := h.service.Detail(r.Context(), newsID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if err := h.store.CacheArticle(sessionID, *article); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newsDetailResponse{Data: article})
}

// parseSearchParams はクエリパラメータから検索条件を組み立てる。
// page/limitには既定値を適用し、整数パラメータの形式エラーはAPIErrorで返す。
func parseSearchParams(r *http.Request) (newsclient.SearchParams, *model.APIError) {
	q := r.URL.Query()

	params := newsclient.SearchParams{
		Query:           q.Get("query"),
		Page:            1,
		Limit:           20,
		PublishedAtFrom: q.Get("published_at_from"),
		PublishedAtTo:   q.Get("published_at_to"),
		UpdatedAtFrom:   q.Get("updated_at_from"),
		UpdatedAtTo:     q.Get("updated_at_to"),
	}

	intParams := []struct {
		name string
		dst  *int
	}{
		{"page", &params.Page},
		{"limit", &params.Limit},
		{"type_id", &params.TypeID},
		{"jurisdiction_id", &params.JurisdictionID},
	}
	for _, p := range intParams {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return newsclient.SearchParams{}, model.NewInvalidRequestError(
				p.name + " は整数で指定してください")
		}
		*p.dst = v
	}

	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 || params.Limit > 100 {
		params.Limit = 20
	}

	return params, nil
}
