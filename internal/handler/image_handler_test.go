package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/imagesearch"
	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/middleware"
	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/model"
)

// fakeImageService はImageServiceInterfaceのテスト用フェイク。
type fakeImageService struct {
	result *imagesearch.SearchResult
	err    error

	lastQuery   string
	lastPage    int
	lastPerPage int
}

func (f *fakeImageService) Search(ctx context.Context, query string, page, perPage int) (*imagesearch.SearchResult, error) {
	f.lastQuery = query
	f.lastPage = page
	f.lastPerPage = perPage
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

// fakeURLValidator はURLValidatorのテスト用フェイク。
type fakeURLValidator struct {
	err error
}

func (f *fakeURLValidator) ValidateURL(rawURL string) error {
	return f.err
}

// fakeImageStore はImageStoreInterfaceのテスト用フェイク。
type fakeImageStore struct {
	err error

	setNewsID int
	setURL    string
}

func (f *fakeImageStore) SetArticleImage(id string, newsID int, imageURL string) error {
	if f.err != nil {
		return f.err
	}
	f.setNewsID = newsID
	f.setURL = imageURL
	return nil
}

// setImageRequest はchiのidパラメータとJSONボディ付きの画像設定リクエストを生成する。
func setImageRequest(id, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPut, "/api/news/"+id+"/image", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	return req.WithContext(middleware.ContextWithSessionID(ctx, "test-session"))
}

// TestSearchImages_Success は画像検索成功時にレスポンスが返ることを検証する。
func TestSearchImages_Success(t *testing.T) {
	service := &fakeImageService{
		result: &imagesearch.SearchResult{
			Photos: []imagesearch.Photo{
				{ID: 100, Src: imagesearch.PhotoSource{Medium: "https://images.example.com/100-medium.jpg"}, Alt: "wind turbines"},
			},
			TotalCount: 1,
			Page:       1,
			PerPage:    15,
		},
	}
	h := NewImageHandler(service, &fakeURLValidator{}, &fakeImageStore{})

	req := newSessionRequest(http.MethodGet, "/api/images?query=renewable+energy")
	w := httptest.NewRecorder()

	h.SearchImages(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp imagesearch.SearchResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Photos) != 1 || resp.Photos[0].ID != 100 {
		t.Errorf("photos = %+v, want one photo with ID 100", resp.Photos)
	}

	if service.lastQuery != "renewable energy" {
		t.Errorf("query = %q, want %q", service.lastQuery, "renewable energy")
	}
	if service.lastPage != 1 {
		t.Errorf("page = %d, want 1", service.lastPage)
	}
	if service.lastPerPage != 15 {
		t.Errorf("per_page = %d, want 15", service.lastPerPage)
	}
}

// TestSearchImages_MissingQuery_Returns400 はquery未指定で400が返ることを検証する。
func TestSearchImages_MissingQuery_Returns400(t *testing.T) {
	h := NewImageHandler(&fakeImageService{}, &fakeURLValidator{}, &fakeImageStore{})

	req := newSessionRequest(http.MethodGet, "/api/images")
	w := httptest.NewRecorder()

	h.SearchImages(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// TestSearchImages_InvalidPagination_Returns400 は不正なページ指定で400が返ることを検証する。
func TestSearchImages_InvalidPagination_Returns400(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"pageが整数でない", "/api/images?query=esg&page=abc"},
		{"pageが0", "/api/images?query=esg&page=0"},
		{"per_pageが上限超過", "/api/images?query=esg&per_page=200"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewImageHandler(&fakeImageService{}, &fakeURLValidator{}, &fakeImageStore{})

			req := newSessionRequest(http.MethodGet, tt.target)
			w := httptest.NewRecorder()

			h.SearchImages(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}

// TestSearchImages_UpstreamError_Returns502 は画像検索APIエラーで502が返ることを検証する。
func TestSearchImages_UpstreamError_Returns502(t *testing.T) {
	service := &fakeImageService{err: model.NewImageAPIError(429)}
	h := NewImageHandler(service, &fakeURLValidator{}, &fakeImageStore{})

	req := newSessionRequest(http.MethodGet, "/api/images?query=esg")
	w := httptest.NewRecorder()

	h.SearchImages(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadGateway)
	}

	var resp apiErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Code != model.ErrCodeImageAPIError {
		t.Errorf("code = %q, want %q", resp.Code, model.ErrCodeImageAPIError)
	}
}

// TestSearchImages_CredentialsMissing_Returns503 はAPIキー未設定で503が返ることを検証する。
func TestSearchImages_CredentialsMissing_Returns503(t *testing.T) {
	service := &fakeImageService{err: model.NewCredentialsMissingError("画像検索API")}
	h := NewImageHandler(service, &fakeURLValidator{}, &fakeImageStore{})

	req := newSessionRequest(http.MethodGet, "/api/images?query=esg")
	w := httptest.NewRecorder()

	h.SearchImages(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

// TestSetArticleImage_Success_Returns204 は画像設定成功で204が返ることを検証する。
func TestSetArticleImage_Success_Returns204(t *testing.T) {
	store := &fakeImageStore{}
	h := NewImageHandler(&fakeImageService{}, &fakeURLValidator{}, store)

	w := httptest.NewRecorder()
	h.SetArticleImage(w, setImageRequest("42", `{"image_url": "https://images.example.com/photo.jpg"}`))

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusNoContent, w.Body.String())
	}
	if store.setNewsID != 42 {
		t.Errorf("newsID = %d, want 42", store.setNewsID)
	}
	if store.setURL != "https://images.example.com/photo.jpg" {
		t.Errorf("imageURL = %q, want the requested URL", store.setURL)
	}
}

// TestSetArticleImage_EmptyURL_Returns400 は空URLで400が返ることを検証する。
func TestSetArticleImage_EmptyURL_Returns400(t *testing.T) {
	h := NewImageHandler(&fakeImageService{}, &fakeURLValidator{}, &fakeImageStore{})

	w := httptest.NewRecorder()
	h.SetArticleImage(w, setImageRequest("42", `{"image_url": ""}`))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	var resp apiErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Code != model.ErrCodeInvalidURL {
		t.Errorf("code = %q, want %q", resp.Code, model.ErrCodeInvalidURL)
	}
}

// TestSetArticleImage_BlockedURL_Returns403 はSSRFガードに拒否されたURLで403が返ることを検証する。
func TestSetArticleImage_BlockedURL_Returns403(t *testing.T) {
	validator := &fakeURLValidator{err: fmt.Errorf("blocked IP address: 169.254.169.254")}
	store := &fakeImageStore{}
	h := NewImageHandler(&fakeImageService{}, validator, store)

	w := httptest.NewRecorder()
	h.SetArticleImage(w, setImageRequest("42", `{"image_url": "http://169.254.169.254/latest/meta-data"}`))

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
	}

	var resp apiErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Code != model.ErrCodeSSRFBlocked {
		t.Errorf("code = %q, want %q", resp.Code, model.ErrCodeSSRFBlocked)
	}

	if store.setURL != "" {
		t.Error("blocked URL should not be stored")
	}
}

// TestSetArticleImage_UnknownArticle_Returns404 はキャッシュにない記事への画像設定で404が返ることを検証する。
func TestSetArticleImage_UnknownArticle_Returns404(t *testing.T) {
	store := &fakeImageStore{err: model.NewArticleNotFoundError(42)}
	h := NewImageHandler(&fakeImageService{}, &fakeURLValidator{}, store)

	w := httptest.NewRecorder()
	h.SetArticleImage(w, setImageRequest("42", `{"image_url": "https://images.example.com/photo.jpg"}`))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// TestSetArticleImage_NonIntegerID_Returns400 は整数でない記事IDで400が返ることを検証する。
func TestSetArticleImage_NonIntegerID_Returns400(t *testing.T) {
	h := NewImageHandler(&fakeImageService{}, &fakeURLValidator{}, &fakeImageStore{})

	w := httptest.NewRecorder()
	h.SetArticleImage(w, setImageRequest("abc", `{"image_url": "https://images.example.com/photo.jpg"}`))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
