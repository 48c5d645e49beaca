package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/generate"
	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/middleware"
	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/model"
)

// GenerationServiceInterface は生成ハンドラーが必要とするオーケストレーター
// インターフェース。
type GenerationServiceInterface interface {
	// GenerateAll は必要な全スロットを固定順で生成し、失敗一覧を返す。
	GenerateAll(ctx context.Context, selected []model.Article, cfg *model.BulletinConfig) []generate.SlotFailure
	// GenerateOne は指定スロットのみを再生成する。
	GenerateOne(ctx context.Context, slot generate.Slot, selected []model.Article, cfg *model.BulletinConfig) error
}

// GenerationStoreInterface は生成ハンドラーが必要とするストアインターフェース。
type GenerationStoreInterface interface {
	// SelectedArticles は選択中の記事を選択順で返す。
	SelectedArticles(id string) ([]model.Article, error)
	// Config はブレティン構成のコピーを返す。
	Config(id string) (model.BulletinConfig, error)
	// MutateConfig は保持中の構成にロック下で変更を適用し、適用後のコピーを返す。
	MutateConfig(id string, mutate func(cfg *model.BulletinConfig)) (model.BulletinConfig, error)
}

// GenerateHandler はコンテンツ生成のHTTPハンドラー。
type GenerateHandler struct {
	service GenerationServiceInterface
	store   GenerationStoreInterface
}

// NewGenerateHandler はGenerateHandlerを生成する。
func NewGenerateHandler(service GenerationServiceInterface, store GenerationStoreInterface) *GenerateHandler {
	return &GenerateHandler{
		service: service,
		store:   store,
	}
}

// generationWarning は1スロットの生成失敗の警告表現。
// スロット単位の失敗は非致命的で、レスポンス全体は成功となる。
type generationWarning struct {
	Slot    string `json:"slot"`
	Message string `json:"message"`
}

// generateResponse はコンテンツ生成のAPIレスポンス。
// Configは生成テキスト書き込み後の構成、Warningsは失敗スロットの一覧。
type generateResponse struct {
	Config   model.BulletinConfig `json:"config"`
	Warnings []generationWarning  `json:"warnings"`
}

// GenerateAll は全スロットのコンテンツ生成を実行する。
// 失敗したスロットは警告として返し、成功したスロットの結果は構成に
// 反映される。
// POST /api/bulletin/generate
func (h *GenerateHandler) GenerateAll(w http.ResponseWriter, r *http.Request) {
	sessionID, err := middleware.SessionIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewSessionNotFoundError())
		return
	}

	selected, err := h.store.SelectedArticles(sessionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if len(selected) == 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewEmptySelectionError())
		return
	}

	before, err := h.store.Config(sessionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// 生成はスナップショット上で行い、結果はスロット単位で取り込む。
	// 生成中に行われた構成の並行編集を全置き換えで巻き戻さないため。
	working := before.Clone()
	failures := h.service.GenerateAll(r.Context(), selected, &working)

	merged, err := h.store.MutateConfig(sessionID, func(cfg *model.BulletinConfig) {
		applySlotChanges(cfg, &before, &working)
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	warnings := make([]generationWarning, 0, len(failures))
	for _, f := range failures {
		warnings = append(warnings, generationWarning{
			Slot:    string(f.Slot),
			Message: model.NewGenerationFailedError(string(f.Slot)).Message,
		})
	}

	writeJSON(w, http.StatusOK, generateResponse{
		Config:   merged,
		Warnings: warnings,
	})
}

// applySlotChanges は生成前後のスナップショットを比較し、値が変わった
// スロットだけを保持中の構成へ書き込む。
func applySlotChanges(dst, before, after *model.BulletinConfig) {
	for _, slot := range generate.AllSlots() {
		if v := slot.Read(after); v != slot.Read(before) {
			slot.Write(dst, v)
		}
	}
}

// GenerateOne は指定スロットのみを再生成する。
// 他のスロットの値には一切触れない。
// POST /api/bulletin/generate/{slot}
func (h *GenerateHandler) GenerateOne(w http.ResponseWriter, r *http.Request) {
	sessionID, err := middleware.SessionIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewSessionNotFoundError())
		return
	}

	slotName := chi.URLParam(r, "slot")
	slot, ok := generate.ParseSlot(slotName)
	if !ok {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidSlotError(slotName))
		return
	}

	selected, err := h.store.SelectedArticles(sessionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if len(selected) == 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewEmptySelectionError())
		return
	}

	working, err := h.store.Config(sessionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if err := h.service.GenerateOne(r.Context(), slot, selected, &working); err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
			return
		}
		// 補完API側の失敗はGENERATION_FAILEDとして返す
		writeAPIErrorResponse(w, http.StatusBadGateway,
			model.NewGenerationFailedError(string(slot)))
		return
	}

	// 対象スロットのみを保持中の構成へ書き込む。生成中に並行編集された
	// 他のフィールドと兄弟スロットには触れない。
	merged, err := h.store.MutateConfig(sessionID, func(cfg *model.BulletinConfig) {
		slot.Write(cfg, slot.Read(&working))
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		Config:   merged,
		Warnings: []generationWarning{},
	})
}
