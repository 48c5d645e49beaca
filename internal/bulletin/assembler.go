// Package bulletin はブレティンの組み立てとセッション状態管理を提供する。
package bulletin

import (
	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/model"
	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/region"
)

// Assemble は選択済み記事と構成からレンダラー用のBulletinDataを構築する。
//
// 処理内容:
//  1. 各記事を表示用国名（先頭管轄名、なければ "International"）で
//     グルーピングする。バケット内の順序は選択順を保持し、ソートしない。
//  2. 記事と構成をディープコピーし、以後の出力側編集が検索結果リストへ
//     波及しないスナップショットを作る。
//
// ネットワーク呼び出しは行わない純粋な同期変換であり、同一入力に対して
// 構造的に等しい結果を返す（冪等）。
// 選択が空の場合はエラーを返す。空選択での生成は呼び出し側の誤りであり、
// 暗黙の空ブレティンは作らない。
func Assemble(selected []model.Article, cfg model.BulletinConfig, theme model.Theme) (*model.BulletinData, error) {
	if len(selected) == 0 {
		return nil, model.NewEmptySelectionError()
	}

	articles := model.CloneArticles(selected)

	byCountry := make(map[string][]model.Article, len(articles))
	var order []string
	for _, a := range articles {
		country := a.DisplayCountry()
		if _, seen := byCountry[country]; !seen {
			order = append(order, country)
		}
		byCountry[country] = append(byCountry[country], a)
	}

	return &model.BulletinData{
		Theme:             theme,
		Articles:          articles,
		ArticlesByCountry: byCountry,
		CountryOrder:      order,
		Config:            cfg.Clone(),
	}, nil
}

// SubsetsByRegion は選択済み記事を地域バケットごとの部分集合に分割する。
// 各部分集合内の順序は入力順を保持する。空の部分集合も有効な結果であり、
// 該当地域の生成ステップがスキップされることを意味する。
func SubsetsByRegion(selected []model.Article) map[region.Region][]model.Article {
	subsets := make(map[region.Region][]model.Article, 3)
	for _, r := range region.All() {
		subsets[r] = nil
	}
	for _, a := range selected {
		r := region.Classify(a)
		subsets[r] = append(subsets[r], a)
	}
	return subsets
}
