package model

// Theme はブレティンの配色テーマを表す。
// Regulatory/Disclosure/Litigationの内容フォーカスに対応する。
type Theme string

const (
	// ThemeBlue は規制（Regulatory）フォーカスのテーマ。
	ThemeBlue Theme = "blue"
	// ThemeGreen は開示（Disclosure）フォーカスのテーマ。
	ThemeGreen Theme = "green"
	// ThemeRed は訴訟（Litigation）フォーカスのテーマ。
	ThemeRed Theme = "red"
)

// ParseTheme は文字列をThemeに変換する。
// 未知の値の場合はfalseを返す。
func ParseTheme(s string) (Theme, bool) {
	switch Theme(s) {
	case ThemeBlue, ThemeGreen, ThemeRed:
		return Theme(s), true
	default:
		return "", false
	}
}

// SectionConfig は地域セクション（EU/US/Global）ごとの編集状態を表す。
type SectionConfig struct {
	Enabled       bool   `json:"enabled"`
	Title         string `json:"title"`
	Introduction  string `json:"introduction"`
	Trends        string `json:"trends"`
	ShowKeyTrends bool   `json:"show_key_trends"`
}

// GeneratedContent はLLM生成テキストをスロット名で保持するバッグ。
// 空文字列は「未生成または生成失敗」を意味し、それ自体はエラーではない。
type GeneratedContent struct {
	KeyTrends        string `json:"key_trends"`
	ExecutiveSummary string `json:"executive_summary"`
	KeyTakeaways     string `json:"key_takeaways"`
	EuTrends         string `json:"eu_trends"`
	UsTrends         string `json:"us_trends"`
	GlobalTrends     string `json:"global_trends"`
}

// BulletinConfig はブレティンの編集可能な構成全体を表す。
// セッション内でのみ保持され、永続化されない。
type BulletinConfig struct {
	HeaderText     string `json:"header_text"`
	HeaderImageURL string `json:"header_image_url"`
	LogoURL        string `json:"logo_url"`
	FooterImageURL string `json:"footer_image_url"`
	IssueNumber    string `json:"issue_number"`
	// PublicationDate はYYYY-MM-DD形式の発行日。
	PublicationDate string `json:"publication_date"`

	ShowTableOfContents  bool `json:"show_table_of_contents"`
	ShowKeyTrends        bool `json:"show_key_trends"`
	ShowExecutiveSummary bool `json:"show_executive_summary"`
	ShowKeyTakeaways     bool `json:"show_key_takeaways"`
	ShowInteractiveMap   bool `json:"show_interactive_map"`
	ShowCalendar         bool `json:"show_calendar"`

	Greeting           string `json:"greeting"`
	CustomInstructions string `json:"custom_instructions"`

	EuSection     SectionConfig `json:"eu_section"`
	UsSection     SectionConfig `json:"us_section"`
	GlobalSection SectionConfig `json:"global_section"`

	GeneratedContent GeneratedContent `json:"generated_content"`
}

// DefaultBulletinConfig は新規セッション用の初期構成を返す。
// 全セクションは有効、オプションセクションは表示オンで開始する。
func DefaultBulletinConfig() BulletinConfig {
	section := SectionConfig{Enabled: true, ShowKeyTrends: true}
	return BulletinConfig{
		ShowTableOfContents:  true,
		ShowKeyTrends:        true,
		ShowExecutiveSummary: true,
		ShowKeyTakeaways:     true,
		ShowInteractiveMap:   true,
		EuSection:            section,
		UsSection:            section,
		GlobalSection:        section,
	}
}

// Clone はBulletinConfigのディープコピーを返す。
// 現状すべて値型フィールドのためシャローコピーで完結するが、
// スナップショット境界を明示するためメソッドとして提供する。
func (c BulletinConfig) Clone() BulletinConfig {
	return c
}

// BulletinData はレンダラーに渡す確定済みスナップショット。
// Generate操作ごとに一貫した選択状態から一括構築され、部分構築されない。
type BulletinData struct {
	Theme    Theme     `json:"theme"`
	Articles []Article `json:"articles"`
	// ArticlesByCountry は表示用国名ごとの記事リスト。
	// 各バケット内の順序は記事の選択順を保持する。
	ArticlesByCountry map[string][]Article `json:"articles_by_country"`
	// CountryOrder はArticlesByCountryのキーを初出順で保持する。
	// 地図凡例と目次の表示順に使用する。
	CountryOrder []string       `json:"country_order"`
	Config       BulletinConfig `json:"config"`
}

// Clone はBulletinDataのディープコピーを返す。
func (b *BulletinData) Clone() *BulletinData {
	if b == nil {
		return nil
	}
	c := &BulletinData{
		Theme:    b.Theme,
		Articles: CloneArticles(b.Articles),
		Config:   b.Config.Clone(),
	}
	if b.ArticlesByCountry != nil {
		c.ArticlesByCountry = make(map[string][]Article, len(b.ArticlesByCountry))
		for country, articles := range b.ArticlesByCountry {
			c.ArticlesByCountry[country] = CloneArticles(articles)
		}
	}
	if b.CountryOrder != nil {
		c.CountryOrder = make([]string, len(b.CountryOrder))
		copy(c.CountryOrder, b.CountryOrder)
	}
	return c
}
