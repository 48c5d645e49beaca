package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/imagesearch"
	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/middleware"
	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/model"
)

// ImageServiceInterface は画像ハンドラーが必要とする検索クライアント
// インターフェース。
type ImageServiceInterface interface {
	// Search はクエリに一致する写真を検索する。
	Search(ctx context.Context, query string, page, perPage int) (*imagesearch.SearchResult, error)
}

// URLValidator は記事画像URLの安全性検証に必要なインターフェース。
// security.SSRFGuardServiceの部分集合として定義する。
type URLValidator interface {
	ValidateURL(rawURL string) error
}

// ImageStoreInterface は画像ハンドラーが必要とするストアインターフェース。
type ImageStoreInterface interface {
	// SetArticleImage は記事に画像URLを設定する。
	SetArticleImage(id string, newsID int, imageURL string) error
}

// ImageHandler は画像検索・記事画像設定のHTTPハンドラー。
type ImageHandler struct {
	service   ImageServiceInterface
	validator URLValidator
	store     ImageStoreInterface
}

// NewImageHandler はImageHandlerを生成する。
func NewImageHandler(service ImageServiceInterface, validator URLValidator, store ImageStoreInterface) *ImageHandler {
	return &ImageHandler{
		service:   service,
		validator: validator,
		store:     store,
	}
}

// setArticleImageRequest は記事画像設定リクエストのボディ。
type setArticleImageRequest struct {
	ImageURL string `json:"image_url"`
}

// SearchImages は画像検索を処理する。
// GET /api/images
func (h *ImageHandler) SearchImages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := q.Get("query")
	if query == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("query パラメータは必須です"))
		return
	}

	page := 1
	if raw := q.Get("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			writeAPIErrorResponse(w, http.StatusBadRequest,
				model.NewInvalidRequestError("page は1以上の整数で指定してください"))
			return
		}
		page = v
	}

	perPage := 15
	if raw := q.Get("per_page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 80 {
			writeAPIErrorResponse(w, http.StatusBadRequest,
				model.NewInvalidRequestError("per_page は1から80の整数で指定してください"))
			return
		}
		perPage = v
	}

	result, err := h.service.Search(r.Context(), query, page, perPage)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// SetArticleImage は記事に画像URLを設定する。
// URLはSSRFガードで検証され、プライベートIPやループバックへの
// URLは拒否される。
// PUT /api/news/{id}/image
func (h *ImageHandler) SetArticleImage(w http.ResponseWriter, r *http.Request) {
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

	var req setArticleImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	if req.ImageURL == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidURLError("画像URLが空です"))
		return
	}

	if err := h.validator.ValidateURL(req.ImageURL); err != nil {
		writeAPIErrorResponse(w, http.StatusForbidden, model.NewSSRFBlockedError())
		return
	}

	if err := h.store.SetArticleImage(sessionID, newsID, req.ImageURL); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
