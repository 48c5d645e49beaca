package handler

import (
	"encoding/json"
	"net/http"

	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/bulletin"
	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/middleware"
	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/model"
	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/worldmap"
)

// BulletinStoreInterface はブレティンハンドラーが必要とするストアインターフェース。
type BulletinStoreInterface interface {
	// Config はブレティン構成のコピーを返す。
	Config(id string) (model.BulletinConfig, error)
	// UpdateConfig はブレティン構成を置き換える。
	UpdateConfig(id string, cfg model.BulletinConfig) error
	// SelectedArticles は選択中の記事を選択順で返す。
	SelectedArticles(id string) ([]model.Article, error)
	// SetBulletin は確定済みブレティンスナップショットを保存する。
	SetBulletin(id string, data *model.BulletinData) error
	// Bulletin は確定済みブレティンスナップショットのコピーを返す。
	Bulletin(id string) (*model.BulletinData, error)
}

// ContentSanitizer は利用者編集フィールドのサニタイズに必要なインターフェース。
type ContentSanitizer interface {
	Sanitize(raw string) string
}

// AssembleMetricsRecorder はブレティン組み立てメトリクスの記録に必要なインターフェース。
// nilの場合は記録をスキップする。
type AssembleMetricsRecorder interface {
	RecordBulletinAssembled()
}

// BulletinHandler はブレティン構成・組み立てのHTTPハンドラー。
type BulletinHandler struct {
	store     BulletinStoreInterface
	sanitizer ContentSanitizer
	metrics   AssembleMetricsRecorder
}

// NewBulletinHandler はBulletinHandlerを生成する。
func NewBulletinHandler(store BulletinStoreInterface, sanitizer ContentSanitizer, metrics AssembleMetricsRecorder) *BulletinHandler {
	return &BulletinHandler{
		store:     store,
		sanitizer: sanitizer,
		metrics:   metrics,
	}
}

// bulletinConfigResponse はブレティン構成のAPIレスポンス。
type bulletinConfigResponse struct {
	Config model.BulletinConfig `json:"config"`
}

// assembleBulletinRequest はブレティン組み立てリクエストのボディ。
type assembleBulletinRequest struct {
	Theme string `json:"theme"`
}

// bulletinResponse は確定済みブレティンのAPIレスポンス。
type bulletinResponse struct {
	Bulletin *model.BulletinData `json:"bulletin"`
}

// legendResponse は地図凡例解決のAPIレスポンス。
// Orderはブレティンの国別グルーピングの初出順を保持する。
type legendResponse struct {
	Legend map[string]worldmap.Resolution `json:"legend"`
	Order  []string                       `json:"order"`
}

// GetConfig はブレティン構成を取得する。
// GET /api/bulletin/config
func (h *BulletinHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	sessionID, err := middleware.SessionIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewSessionNotFoundError())
		return
	}

	cfg, err := h.store.Config(sessionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bulletinConfigResponse{Config: cfg})
}

// UpdateConfig はブレティン構成を置き換える。
// 利用者が編集する自由記述フィールドは保存前にサニタイズされる。
// PUT /api/bulletin/config
func (h *BulletinHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	sessionID, err := middleware.SessionIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewSessionNotFoundError())
		return
	}

	var cfg model.BulletinConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	h.sanitizeConfig(&cfg)

	if err := h.store.UpdateConfig(sessionID, cfg); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bulletinConfigResponse{Config: cfg})
}

// Assemble は選択済み記事と現在の構成から確定済みブレティンを組み立てる。
// POST /api/bulletin
func (h *BulletinHandler) Assemble(w http.ResponseWriter, r *http.Request) {
	sessionID, err := middleware.SessionIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewSessionNotFoundError())
		return
	}

	var req assembleBulletinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	theme, ok := model.ParseTheme(req.Theme)
	if !ok {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidThemeError(req.Theme))
		return
	}

	selected, err := h.store.SelectedArticles(sessionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	cfg, err := h.store.Config(sessionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	data, err := bulletin.Assemble(selected, cfg, theme)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if err := h.store.SetBulletin(sessionID, data); err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordBulletinAssembled()
	}
	writeJSON(w, http.StatusCreated, bulletinResponse{Bulletin: data})
}

// GetBulletin は確定済みブレティンスナップショットを取得する。
// GET /api/bulletin
func (h *BulletinHandler) GetBulletin(w http.ResponseWriter, r *http.Request) {
	sessionID, err := middleware.SessionIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewSessionNotFoundError())
		return
	}

	data, err := h.store.Bulletin(sessionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bulletinResponse{Bulletin: data})
}

// Legend は確定済みブレティンの国別凡例をジオメトリ名に解決する。
// GET /api/bulletin/legend
func (h *BulletinHandler) Legend(w http.ResponseWriter, r *http.Request) {
	sessionID, err := middleware.SessionIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewSessionNotFoundError())
		return
	}

	data, err := h.store.Bulletin(sessionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, legendResponse{
		Legend: worldmap.ResolveAll(data.CountryOrder),
		Order:  data.CountryOrder,
	})
}

// sanitizeConfig は利用者が編集する自由記述フィールドをサニタイズする。
// 表示フラグ・URL・日付フィールドは対象外。
func (h *BulletinHandler) sanitizeConfig(cfg *model.BulletinConfig) {
	s := h.sanitizer.Sanitize

	cfg.HeaderText = s(cfg.HeaderText)
	cfg.IssueNumber = s(cfg.IssueNumber)
	cfg.Greeting = s(cfg.Greeting)
	cfg.CustomInstructions = s(cfg.CustomInstructions)

	for _, section := range []*model.SectionConfig{&cfg.EuSection, &cfg.UsSection, &cfg.GlobalSection} {
		section.Title = s(section.Title)
		section.Introduction = s(section.Introduction)
		section.Trends = s(section.Trends)
	}

	gc := &cfg.GeneratedContent
	gc.KeyTrends = s(gc.KeyTrends)
	gc.ExecutiveSummary = s(gc.ExecutiveSummary)
	gc.KeyTakeaways = s(gc.KeyTakeaways)
	gc.EuTrends = s(gc.EuTrends)
	gc.UsTrends = s(gc.UsTrends)
	gc.GlobalTrends = s(gc.GlobalTrends)
}
