// Package region は記事の管轄メタデータから地域バケット（EU/US/Global）を
// 導出する分類器を提供する。
package region

import (
	"strings"

	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/model"
)

// Region は記事が属する地域バケットを表す。
// 閉じた集合 {EU, US, Global} であり、実行時文字列による
// 動的なキーアクセスを排除するための型。
type Region string

const (
	// RegionEU は欧州連合関連の記事バケット。
	RegionEU Region = "eu"
	// RegionUS は米国関連の記事バケット。
	RegionUS Region = "us"
	// RegionGlobal はEU/USいずれにも該当しない記事バケット。
	// 管轄情報を持たない記事もここに分類される。
	RegionGlobal Region = "global"
)

// All は全地域を生成処理の固定順（EU → US → Global）で返す。
func All() []Region {
	return []Region{RegionEU, RegionUS, RegionGlobal}
}

// ParseRegion は文字列をRegionに変換する。
// 未知の値の場合はfalseを返す。
func ParseRegion(s string) (Region, bool) {
	switch Region(s) {
	case RegionEU, RegionUS, RegionGlobal:
		return Region(s), true
	default:
		return "", false
	}
}

// euKeywords / usKeywords は管轄名・コードの小文字部分一致で評価される。
// 部分一致のため "Austria" や "Russia" が "us" にマッチする既知の癖があるが、
// 移行前実装とのバケット内容の同一性を優先して維持している。
// ルールを厳格化するかはドメインオーナーの確認待ち。
var (
	euKeywords = []string{"eu", "europe", "european"}
	usKeywords = []string{"us", "united states", "america"}
)

// Classify は記事を地域バケットに分類する。
// 全管轄の名前とコードを小文字化し、EUキーワード → USキーワードの順で
// 部分一致を評価する。EU判定がUS判定より先に行われるため、両方に
// マッチする記事はEUに分類される（優先順位は明示的な仕様）。
// 管轄が0件の記事はGlobalに分類される。
// 純粋関数であり、同一入力に対して常に同一の結果を返す。
func Classify(article model.Article) Region {
	for _, j := range article.Jurisdictions {
		if matchesAny(j, euKeywords) {
			return RegionEU
		}
	}
	for _, j := range article.Jurisdictions {
		if matchesAny(j, usKeywords) {
			return RegionUS
		}
	}
	return RegionGlobal
}

// matchesAny は管轄の名前またはコードがキーワードのいずれかを含むか判定する。
func matchesAny(j model.Jurisdiction, keywords []string) bool {
	name := strings.ToLower(j.Name)
	code := strings.ToLower(j.Code)
	for _, kw := range keywords {
		if strings.Contains(name, kw) || (code != "" && strings.Contains(code, kw)) {
			return true
		}
	}
	return false
}
