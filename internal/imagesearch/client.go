// Package imagesearch はPexels互換の画像検索APIクライアントを提供する。
// 記事に添付する画像の候補検索に使用する。
package imagesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/model"
)

// defaultEndpoint はPexels検索APIのエンドポイント。
const defaultEndpoint = "https://api.pexels.com/v1/search"

// PhotoSource は1枚の写真の各サイズのURL。
type PhotoSource struct {
	Original string `json:"original"`
	Large    string `json:"large"`
	Medium   string `json:"medium"`
	Small    string `json:"small"`
}

// Photo は検索結果の写真1件を表す。
type Photo struct {
	ID  int         `json:"id"`
	Src PhotoSource `json:"src"`
	Alt string      `json:"alt"`
}

// SearchResult は画像検索のレスポンス。
type SearchResult struct {
	Photos     []Photo `json:"photos"`
	TotalCount int     `json:"total_results"`
	Page       int     `json:"page"`
	PerPage    int     `json:"per_page"`
}

// Client は画像検索APIのクライアント。
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	apiKey     string
	endpoint   string // テスト用にエンドポイントを差し替え可能
}

// NewClient はClientの新しいインスタンスを生成する。
func NewClient(httpClient *http.Client, logger *slog.Logger, apiKey string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		apiKey:     apiKey,
		endpoint:   defaultEndpoint,
	}
}

// Search はクエリに一致する写真を検索する。
// APIキーが未設定の場合はネットワーク呼び出しを行わずにエラーを返す。
func (c *Client) Search(ctx context.Context, query string, page, perPage int) (*SearchResult, error) {
	if c.apiKey == "" {
		return nil, model.NewCredentialsMissingError("画像検索API")
	}

	reqURL, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("エンドポイントURLのパースに失敗しました: %w", err)
	}

	q := reqURL.Query()
	q.Set("query", query)
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("画像検索APIの呼び出しに失敗しました",
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("画像検索APIの呼び出しに失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("画像検索APIがエラーステータスを返しました",
			slog.Int("http_status", resp.StatusCode),
		)
		return nil, model.NewImageAPIError(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("レスポンスボディの読み取りに失敗しました: %w", err)
	}

	var result SearchResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("レスポンスJSONのパースに失敗しました: %w", err)
	}
	return &result, nil
}
