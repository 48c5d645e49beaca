// Package generate はLLMによるブレティンコンテンツ生成の
// オーケストレーションを提供する。
package generate

import (
	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/model"
	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/region"
)

// GenerationType はLLMに依頼するコンテンツ種別を表す閉じた列挙。
// プロンプトの選択に使用する。
type GenerationType string

const (
	TypeKeyTrends        GenerationType = "key_trends"
	TypeExecutiveSummary GenerationType = "executive_summary"
	TypeKeyTakeaways     GenerationType = "key_takeaways"
	TypeSectionTitle     GenerationType = "section_title"
	TypeSectionTrends    GenerationType = "section_trends"
	TypeHeaderText       GenerationType = "header_text"
	TypeIssueNumber      GenerationType = "issue_number"
	TypeGreeting         GenerationType = "greeting"
)

// Slot は生成テキストの格納先を表す。コンテンツ種別と地域の組に対応し、
// 実行時文字列でのconfigアクセスを排除するための閉じた列挙。
type Slot string

const (
	SlotKeyTrends        Slot = "key_trends"
	SlotExecutiveSummary Slot = "executive_summary"
	SlotKeyTakeaways     Slot = "key_takeaways"
	SlotEuTitle          Slot = "eu_title"
	SlotEuTrends         Slot = "eu_trends"
	SlotUsTitle          Slot = "us_title"
	SlotUsTrends         Slot = "us_trends"
	SlotGlobalTitle      Slot = "global_title"
	SlotGlobalTrends     Slot = "global_trends"
	SlotHeaderText       Slot = "header_text"
	SlotIssueNumber      Slot = "issue_number"
	SlotGreeting         Slot = "greeting"
)

// AllSlots は全スロットを固定順で返す。
func AllSlots() []Slot {
	return []Slot{
		SlotKeyTrends, SlotExecutiveSummary, SlotKeyTakeaways,
		SlotEuTitle, SlotEuTrends, SlotUsTitle, SlotUsTrends,
		SlotGlobalTitle, SlotGlobalTrends,
		SlotHeaderText, SlotIssueNumber, SlotGreeting,
	}
}

// ParseSlot は文字列をSlotに変換する。未知の値の場合はfalseを返す。
func ParseSlot(s string) (Slot, bool) {
	switch Slot(s) {
	case SlotKeyTrends, SlotExecutiveSummary, SlotKeyTakeaways,
		SlotEuTitle, SlotEuTrends, SlotUsTitle, SlotUsTrends,
		SlotGlobalTitle, SlotGlobalTrends,
		SlotHeaderText, SlotIssueNumber, SlotGreeting:
		return Slot(s), true
	default:
		return "", false
	}
}

// Read はスロットに対応する構成フィールドの現在値を返す。
func (s Slot) Read(cfg *model.BulletinConfig) string {
	switch s {
	case SlotKeyTrends:
		return cfg.GeneratedContent.KeyTrends
	case SlotExecutiveSummary:
		return cfg.GeneratedContent.ExecutiveSummary
	case SlotKeyTakeaways:
		return cfg.GeneratedContent.KeyTakeaways
	case SlotEuTitle:
		return cfg.EuSection.Title
	case SlotEuTrends:
		return cfg.EuSection.Trends
	case SlotUsTitle:
		return cfg.UsSection.Title
	case SlotUsTrends:
		return cfg.UsSection.Trends
	case SlotGlobalTitle:
		return cfg.GlobalSection.Title
	case SlotGlobalTrends:
		return cfg.GlobalSection.Trends
	case SlotHeaderText:
		return cfg.HeaderText
	case SlotIssueNumber:
		return cfg.IssueNumber
	case SlotGreeting:
		return cfg.Greeting
	default:
		return ""
	}
}

// Write は生成テキストをスロットに対応する構成フィールドへ書き込む。
// 地域トレンドはセクションと生成コンテンツバッグの両方に記録される
// （バッグはLLM出力の記録、セクションは編集可能な表示状態）。
func (s Slot) Write(cfg *model.BulletinConfig, text string) {
	switch s {
	case SlotKeyTrends:
		cfg.GeneratedContent.KeyTrends = text
	case SlotExecutiveSummary:
		cfg.GeneratedContent.ExecutiveSummary = text
	case SlotKeyTakeaways:
		cfg.GeneratedContent.KeyTakeaways = text
	case SlotEuTitle:
		cfg.EuSection.Title = text
	case SlotEuTrends:
		cfg.EuSection.Trends = text
		cfg.GeneratedContent.EuTrends = text
	case SlotUsTitle:
		cfg.UsSection.Title = text
	case SlotUsTrends:
		cfg.UsSection.Trends = text
		cfg.GeneratedContent.UsTrends = text
	case SlotGlobalTitle:
		cfg.GlobalSection.Title = text
	case SlotGlobalTrends:
		cfg.GlobalSection.Trends = text
		cfg.GeneratedContent.GlobalTrends = text
	case SlotHeaderText:
		cfg.HeaderText = text
	case SlotIssueNumber:
		cfg.IssueNumber = text
	case SlotGreeting:
		cfg.Greeting = text
	}
}

// generationType はスロットに対応するコンテンツ種別を返す。
func (s Slot) generationType() GenerationType {
	switch s {
	case SlotKeyTrends:
		return TypeKeyTrends
	case SlotExecutiveSummary:
		return TypeExecutiveSummary
	case SlotKeyTakeaways:
		return TypeKeyTakeaways
	case SlotEuTitle, SlotUsTitle, SlotGlobalTitle:
		return TypeSectionTitle
	case SlotEuTrends, SlotUsTrends, SlotGlobalTrends:
		return TypeSectionTrends
	case SlotHeaderText:
		return TypeHeaderText
	case SlotIssueNumber:
		return TypeIssueNumber
	case SlotGreeting:
		return TypeGreeting
	default:
		return ""
	}
}

// slotRegion はスロットが紐づく地域を返す。
// 地域スロット以外はfalseを返す。
func (s Slot) slotRegion() (region.Region, bool) {
	switch s {
	case SlotEuTitle, SlotEuTrends:
		return region.RegionEU, true
	case SlotUsTitle, SlotUsTrends:
		return region.RegionUS, true
	case SlotGlobalTitle, SlotGlobalTrends:
		return region.RegionGlobal, true
	default:
		return "", false
	}
}

// titleSlotFor は地域に対応するタイトルスロットを返す。
func titleSlotFor(r region.Region) Slot {
	switch r {
	case region.RegionEU:
		return SlotEuTitle
	case region.RegionUS:
		return SlotUsTitle
	default:
		return SlotGlobalTitle
	}
}

// trendsSlotFor は地域に対応するトレンドスロットを返す。
func trendsSlotFor(r region.Region) Slot {
	switch r {
	case region.RegionEU:
		return SlotEuTrends
	case region.RegionUS:
		return SlotUsTrends
	default:
		return SlotGlobalTrends
	}
}
