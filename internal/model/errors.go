package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: session, validation, news, generation, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeSessionNotFound      = "SESSION_NOT_FOUND"
	ErrCodeInvalidRequest       = "INVALID_REQUEST"
	ErrCodeEmptySelection       = "EMPTY_SELECTION"
	ErrCodeCredentialsMissing   = "CREDENTIALS_MISSING"
	ErrCodeNewsAPIError         = "NEWS_API_ERROR"
	ErrCodeArticleNotFound      = "ARTICLE_NOT_FOUND"
	ErrCodeGenerationFailed     = "GENERATION_FAILED"
	ErrCodeImageAPIError        = "IMAGE_API_ERROR"
	ErrCodeInvalidTheme         = "INVALID_THEME"
	ErrCodeInvalidSlot          = "INVALID_SLOT"
	ErrCodeInvalidURL           = "INVALID_URL"
	ErrCodeSSRFBlocked          = "SSRF_BLOCKED"
	ErrCodeBulletinNotAssembled = "BULLETIN_NOT_ASSEMBLED"
)

// NewSessionNotFoundError はセッション未検出エラーを生成する。
func NewSessionNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeSessionNotFound,
		Message:  "セッションが見つかりません。期限切れの可能性があります。",
		Category: "session",
		Action:   "新しいセッションを作成してやり直してください。",
	}
}

// NewInvalidRequestError はリクエスト形式エラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("リクエストが不正です: %s", reason),
		Category: "validation",
		Action:   "リクエスト内容を確認してください。",
	}
}

// NewEmptySelectionError は記事未選択でのブレティン生成エラーを生成する。
func NewEmptySelectionError() *APIError {
	return &APIError{
		Code:     ErrCodeEmptySelection,
		Message:  "記事が選択されていません。",
		Category: "validation",
		Action:   "ブレティンを生成する前に1件以上の記事を選択してください。",
	}
}

// NewCredentialsMissingError は外部サービスの認証情報未設定エラーを生成する。
// リクエスト送信前の事前チェックで使用し、リトライ対象にはならない。
func NewCredentialsMissingError(service string) *APIError {
	return &APIError{
		Code:     ErrCodeCredentialsMissing,
		Message:  fmt.Sprintf("%s の認証情報が設定されていません。", service),
		Category: "system",
		Action:   "サーバーの環境変数設定を確認してください。",
	}
}

// NewNewsAPIError はニュースAPIのHTTPエラーを生成する。
func NewNewsAPIError(statusCode int) *APIError {
	return &APIError{
		Code:     ErrCodeNewsAPIError,
		Message:  fmt.Sprintf("ニュースAPIがエラーを返しました（ステータス %d）。", statusCode),
		Category: "news",
		Action:   "しばらく待ってから再度検索してください。",
	}
}

// NewArticleNotFoundError は記事未検出エラーを生成する。
func NewArticleNotFoundError(newsID int) *APIError {
	return &APIError{
		Code:     ErrCodeArticleNotFound,
		Message:  fmt.Sprintf("指定された記事が見つかりません: %d", newsID),
		Category: "news",
		Action:   "記事を再検索してから選択してください。",
	}
}

// NewGenerationFailedError はコンテンツ生成失敗エラーを生成する。
// スロット単位の失敗は非致命的で、他スロットの生成は継続される。
func NewGenerationFailedError(slot string) *APIError {
	return &APIError{
		Code:     ErrCodeGenerationFailed,
		Message:  fmt.Sprintf("コンテンツ生成に失敗しました: %s", slot),
		Category: "generation",
		Action:   "該当スロットの再生成を実行してください。既存の内容は保持されています。",
	}
}

// NewImageAPIError は画像検索APIのHTTPエラーを生成する。
func NewImageAPIError(statusCode int) *APIError {
	return &APIError{
		Code:     ErrCodeImageAPIError,
		Message:  fmt.Sprintf("画像検索APIがエラーを返しました（ステータス %d）。", statusCode),
		Category: "news",
		Action:   "しばらく待ってから再度検索してください。",
	}
}

// NewInvalidThemeError は無効なテーマエラーを生成する。
func NewInvalidThemeError(theme string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidTheme,
		Message:  fmt.Sprintf("無効なテーマです: %s", theme),
		Category: "validation",
		Action:   "テーマには blue、green、red のいずれかを指定してください。",
	}
}

// NewInvalidSlotError は無効な生成スロットエラーを生成する。
func NewInvalidSlotError(slot string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidSlot,
		Message:  fmt.Sprintf("無効な生成スロットです: %s", slot),
		Category: "validation",
		Action:   "スロット名を確認してください。",
	}
}

// NewInvalidURLError は無効なURLエラーを生成する。
func NewInvalidURLError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidURL,
		Message:  fmt.Sprintf("無効なURLです: %s", reason),
		Category: "validation",
		Action:   "正しいURL形式（http:// または https:// で始まるURL）を入力してください。",
	}
}

// NewSSRFBlockedError はSSRFブロックエラーを生成する。
func NewSSRFBlockedError() *APIError {
	return &APIError{
		Code:     ErrCodeSSRFBlocked,
		Message:  "セキュリティポリシーにより、指定されたURLへのアクセスがブロックされました。",
		Category: "validation",
		Action:   "公開されているWebサイトのURLを入力してください。ローカルネットワークやプライベートIPへのアクセスは許可されていません。",
	}
}

// NewBulletinNotAssembledError はブレティン未生成エラーを生成する。
func NewBulletinNotAssembledError() *APIError {
	return &APIError{
		Code:     ErrCodeBulletinNotAssembled,
		Message:  "ブレティンがまだ生成されていません。",
		Category: "validation",
		Action:   "先に記事を選択してブレティンを生成してください。",
	}
}
