package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/middleware"
	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/model"
)

// fakeSelectionStore はSelectionStoreInterfaceのテスト用フェイク。
// 実ストアの選択セマンティクスを簡略化して再現する。
type fakeSelectionStore struct {
	known    map[int]model.Article
	selected []int
}

func newFakeSelectionStore(articles ...model.Article) *fakeSelectionStore {
	known := make(map[int]model.Article, len(articles))
	for _, a := range articles {
		known[a.NewsID] = a
	}
	return &fakeSelectionStore{known: known}
}

func (f *fakeSelectionStore) ToggleSelection(id string, newsID int) (bool, error) {
	if _, ok := f.known[newsID]; !ok {
		return false, model.NewArticleNotFoundError(newsID)
	}
	for i, sel := range f.selected {
		if sel == newsID {
			f.selected = append(f.selected[:i], f.selected[i+1:]...)
			return false, nil
		}
	}
	f.selected = append(f.selected, newsID)
	return true, nil
}

func (f *fakeSelectionStore) ClearSelection(id string) error {
	f.selected = nil
	return nil
}

func (f *fakeSelectionStore) ReplaceSelection(id string, newsIDs []int) error {
	for _, newsID := range newsIDs {
		if _, ok := f.known[newsID]; !ok {
			return model.NewArticleNotFoundError(newsID)
		}
	}
	f.selected = append([]int(nil), newsIDs...)
	return nil
}

func (f *fakeSelectionStore) SelectedArticles(id string) ([]model.Article, error) {
	var articles []model.Article
	for _, newsID := range f.selected {
		articles = append(articles, f.known[newsID])
	}
	return articles, nil
}

// sessionRequestWithBody はセッションIDとJSONボディ付きのリクエストを生成する。
func sessionRequestWithBody(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(middleware.ContextWithSessionID(req.Context(), "test-session"))
}

// TestToggle_SelectsArticle は未選択記事のトグルで選択状態になることを検証する。
func TestToggle_SelectsArticle(t *testing.T) {
	store := newFakeSelectionStore(testArticles()...)
	h := NewSelectionHandler(store)

	req := sessionRequestWithBody(http.MethodPost, "/api/selection/toggle", `{"news_id": 1}`)
	w := httptest.NewRecorder()

	h.Toggle(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp toggleSelectionResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.NewsID != 1 {
		t.Errorf("news_id = %d, want 1", resp.NewsID)
	}
	if !resp.Selected {
		t.Error("selected = false, want true")
	}
}

// TestToggle_DeselectsArticle は選択済み記事のトグルで選択解除されることを検証する。
func TestToggle_DeselectsArticle(t *testing.T) {
	store := newFakeSelectionStore(testArticles()...)
	store.selected = []int{1}
	h := NewSelectionHandler(store)

	req := sessionRequestWithBody(http.MethodPost, "/api/selection/toggle", `{"news_id": 1}`)
	w := httptest.NewRecorder()

	h.Toggle(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp toggleSelectionResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Selected {
		t.Error("selected = true, want false")
	}
}

// TestToggle_UnknownArticle_Returns404 はキャッシュにない記事のトグルで404が返ることを検証する。
func TestToggle_UnknownArticle_Returns404(t *testing.T) {
	h := NewSelectionHandler(newFakeSelectionStore())

	req := sessionRequestWithBody(http.MethodPost, "/api/selection/toggle", `{"news_id": 999}`)
	w := httptest.NewRecorder()

	h.Toggle(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}

	var resp apiErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Code != model.ErrCodeArticleNotFound {
		t.Errorf("code = %q, want %q", resp.Code, model.ErrCodeArticleNotFound)
	}
}

// TestToggle_InvalidBody_Returns400 は不正なJSONボディで400が返ることを検証する。
func TestToggle_InvalidBody_Returns400(t *testing.T) {
	h := NewSelectionHandler(newFakeSelectionStore())

	req := sessionRequestWithBody(http.MethodPost, "/api/selection/toggle", `{invalid`)
	w := httptest.NewRecorder()

	h.Toggle(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// TestClear_Returns204 は選択クリアで204が返ることを検証する。
func TestClear_Returns204(t *testing.T) {
	store := newFakeSelectionStore(testArticles()...)
	store.selected = []int{1, 2}
	h := NewSelectionHandler(store)

	req := sessionRequestWithBody(http.MethodPost, "/api/selection/clear", "")
	w := httptest.NewRecorder()

	h.Clear(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if len(store.selected) != 0 {
		t.Errorf("selected = %v, want empty", store.selected)
	}
}

// TestReplace_ReplacesSelection は選択置換でリスト順が新しい選択順になることを検証する。
func TestReplace_ReplacesSelection(t *testing.T) {
	store := newFakeSelectionStore(testArticles()...)
	store.selected = []int{1}
	h := NewSelectionHandler(store)

	req := sessionRequestWithBody(http.MethodPut, "/api/selection", `{"news_ids": [2, 1]}`)
	w := httptest.NewRecorder()

	h.Replace(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusNoContent, w.Body.String())
	}
	if len(store.selected) != 2 || store.selected[0] != 2 || store.selected[1] != 1 {
		t.Errorf("selected = %v, want [2 1]", store.selected)
	}
}

// TestReplace_UnknownArticle_Returns404 はキャッシュにない記事を含む置換で404が返ることを検証する。
func TestReplace_UnknownArticle_Returns404(t *testing.T) {
	store := newFakeSelectionStore(testArticles()...)
	h := NewSelectionHandler(store)

	req := sessionRequestWithBody(http.MethodPut, "/api/selection", `{"news_ids": [1, 999]}`)
	w := httptest.NewRecorder()

	h.Replace(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// TestListSelected_ReturnsArticlesInOrder は選択中記事が選択順で返ることを検証する。
func TestListSelected_ReturnsArticlesInOrder(t *testing.T) {
	store := newFakeSelectionStore(testArticles()...)
	store.selected = []int{2, 1}
	h := NewSelectionHandler(store)

	req := newSessionRequest(http.MethodGet, "/api/selection")
	w := httptest.NewRecorder()

	h.ListSelected(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp selectionResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 2 {
		t.Errorf("count = %d, want 2", resp.Count)
	}
	if len(resp.Data) != 2 || resp.Data[0].NewsID != 2 || resp.Data[1].NewsID != 1 {
		t.Errorf("data order = %+v, want NewsID 2 then 1", resp.Data)
	}
}

// TestListSelected_EmptySelection_ReturnsEmptyArray は空選択で空配列が返ることを検証する。
func TestListSelected_EmptySelection_ReturnsEmptyArray(t *testing.T) {
	h := NewSelectionHandler(newFakeSelectionStore())

	req := newSessionRequest(http.MethodGet, "/api/selection")
	w := httptest.NewRecorder()

	h.ListSelected(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	body := w.Body.String()
	if !strings.Contains(body, `"data":[]`) {
		t.Errorf("body = %s, want data to be an empty array", body)
	}
}
