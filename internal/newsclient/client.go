// Package newsclient はバックエンドニュースAPIへの薄いプロキシクライアントを
// 提供する。検索と記事詳細取得のみを行い、ドメインロジックは持たない。
package newsclient

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

// detailPathShapes は記事詳細エンドポイントの歴史的に使われてきた
// パス形式。順に試行し、最初に成功したレスポンスを採用する。
var detailPathShapes = []string{
	"/api/news/%d",
	"/news/%d",
	"/api/v1/news/%d",
}

// UpstreamMetrics は上流APIのHTTPステータス記録に必要なインターフェース。
// nilの場合は記録をスキップする。
type UpstreamMetrics interface {
	RecordUpstreamHTTPStatus(statusCode int)
}

// Client はバックエンドニュースAPIのクライアント。
// サーバー側で保持する2つのシークレット（Bearerトークン・APIキー）を
// リクエストヘッダーに付与する。
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	metrics    UpstreamMetrics
	baseURL    string
	token      string
	apiKey     string
}

// NewClient はClientの新しいインスタンスを生成する。
// 認証情報の有無はリクエスト時に検証する（起動は妨げない）。
// metricsはnilでもよい。
func NewClient(httpClient *http.Client, logger *slog.Logger, metrics UpstreamMetrics, baseURL, token, apiKey string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		metrics:    metrics,
		baseURL:    baseURL,
		token:      token,
		apiKey:     apiKey,
	}
}

// recordUpstreamStatus は上流レスポンスのステータスコードをメトリクスに記録する。
func (c *Client) recordUpstreamStatus(statusCode int) {
	if c.metrics != nil {
		c.metrics.RecordUpstreamHTTPStatus(statusCode)
	}
}

// SearchParams はニュース検索の条件を表す。
// ゼロ値のフィールドはクエリに含めない。
type SearchParams struct {
	Query           string
	Page            int
	Limit           int
	TypeID          int
	JurisdictionID  int
	PublishedAtFrom string // YYYY-MM-DD
	PublishedAtTo   string
	UpdatedAtFrom   string
	UpdatedAtTo     string
}

// searchResponse / detailResponse はAPIレスポンスのエンベロープ。
type searchResponse struct {
	Data []model.Article `json:"data"`
}

type detailResponse struct {
	Data model.Article `json:"data"`
}

// checkCredentials は認証情報の事前チェックを行う。
// いずれかが未設定の場合、ネットワーク呼び出しを行わずにエラーを返す。
func (c *Client) checkCredentials() error {
	if c.token == "" || c.apiKey == "" {
		return model.NewCredentialsMissingError("ニュースAPI")
	}
	return nil
}

// setAuthHeaders は認証ヘッダーを付与する。
func (c *Client) setAuthHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("x-api-key", c.apiKey)
}

// Search は検索条件に一致する記事リストを取得する。
func (c *Client) Search(ctx context.Context, params SearchParams) ([]model.Article, error) {
	if err := c.checkCredentials(); err != nil {
		return nil, err
	}

	reqURL, err := url.Parse(c.baseURL + "/api/news")
	if err != nil {
		return nil, fmt.Errorf("検索URLの構築に失敗しました: %w", err)
	}

	q := reqURL.Query()
	if params.Query != "" {
		q.Set("query", params.Query)
	}
	q.Set("page", strconv.Itoa(params.Page))
	q.Set("limit", strconv.Itoa(params.Limit))
	if params.TypeID != 0 {
		q.Set("type_id", strconv.Itoa(params.TypeID))
	}
	if params.JurisdictionID != 0 {
		q.Set("jurisdiction_id", strconv.Itoa(params.JurisdictionID))
	}
	if params.PublishedAtFrom != "" {
		q.Set("published_at_from", params.PublishedAtFrom)
	}
	if params.PublishedAtTo != "" {
		q.Set("published_at_to", params.PublishedAtTo)
	}
	if params.UpdatedAtFrom != "" {
		q.Set("updated_at_from", params.UpdatedAtFrom)
	}
	if params.UpdatedAtTo != "" {
		q.Set("updated_at_to", params.UpdatedAtTo)
	}
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	c.setAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("ニュースAPIの呼び出しに失敗しました",
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("ニュースAPIの呼び出しに失敗しました: %w", err)
	}
	defer resp.Body.Close()
	c.recordUpstreamStatus(resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("ニュースAPIがエラーステータスを返しました",
			slog.Int("http_status", resp.StatusCode),
		)
		return nil, model.NewNewsAPIError(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("レスポンスボディの読み取りに失敗しました: %w", err)
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("レスポンスJSONのパースに失敗しました: %w", err)
	}
	return result.Data, nil
}

// Detail は記事詳細を取得する。
// 詳細エンドポイントは複数のパス形式が歴史的に使われてきたため、
// 既知の形式を順に試行し、最初に成功したレスポンスを返す。
// すべて失敗した場合は最後のステータスに基づくエラーを返す。
func (c *Client) Detail(ctx context.Context, newsID int) (*model.Article, error) {
	if err := c.checkCredentials(); err != nil {
		return nil, err
	}

	lastStatus := 0
	for _, shape := range detailPathShapes {
		path := fmt.Sprintf(shape, newsID)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
		}
		c.setAuthHeaders(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn("記事詳細の取得に失敗しました。次のパス形式を試行します",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
			continue
		}

		c.recordUpstreamStatus(resp.StatusCode)
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastStatus = resp.StatusCode
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("レスポンスボディの読み取りに失敗しました: %w", err)
		}

		var result detailResponse
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, fmt.Errorf("レスポンスJSONのパースに失敗しました: %w", err)
		}
		return &result.Data, nil
	}

	if lastStatus == http.StatusNotFound {
		return nil, model.NewArticleNotFoundError(newsID)
	}
	if lastStatus != 0 {
		return nil, model.NewNewsAPIError(lastStatus)
	}
	return nil, fmt.Errorf("記事詳細エンドポイントに到達できませんでした")
}
