// Package llm はOpenAI互換の補完APIを使ったコンテンツ生成クライアントを
// 提供する。generate.ContentClientの実装。
package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/generate"
	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/model"
)

// defaultModel は生成に使用する既定モデル。
const defaultModel = openai.ChatModelGPT4oMini

// OpenAIClient はチャット補完APIのクライアント。
type OpenAIClient struct {
	client *openai.Client
	model  openai.ChatModel
	apiKey string
	logger *slog.Logger
}

// ClientConfig はOpenAIClientの設定。
type ClientConfig struct {
	// APIKey は補完APIの認証キー。
	// 未設定の場合、生成リクエスト時に認証情報未設定エラーを返す
	// （起動は妨げない）。
	APIKey string
	// Model は使用するモデル名。空の場合は既定モデルを使う。
	Model string
	// BaseURL はAPIのベースURL。空の場合は公式エンドポイントを使う。
	// テストおよびOpenAI互換プロキシでの差し替え用。
	BaseURL string
}

// NewOpenAIClient は新しいOpenAIClientを生成する。
func NewOpenAIClient(cfg ClientConfig, logger *slog.Logger) *OpenAIClient {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)

	model := openai.ChatModel(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	return &OpenAIClient{
		client: &client,
		model:  model,
		apiKey: cfg.APIKey,
		logger: logger,
	}
}

// Generate はシステムプロンプトと記事コンテキストから生成テキストを返す。
// 選択肢が空、または本文が空のレスポンスはエラーとして扱う。
// タイムアウトはコンテキスト経由で呼び出し側が制御する。
func (c *OpenAIClient) Generate(ctx context.Context, req generate.Request) (string, error) {
	if c.apiKey == "" {
		return "", model.NewCredentialsMissingError("補完API")
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
	})
	if err != nil {
		c.logger.Error("補完APIの呼び出しに失敗しました",
			slog.String("type", string(req.Type)),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("補完APIの呼び出しに失敗しました: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("補完APIが選択肢を返しませんでした")
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("補完APIが空の本文を返しました")
	}
	return content, nil
}
