package generate

import (
	"strings"

	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/model"
)

const (
	// DefaultCharBudget は予算打ち切り方式のコンテキストの文字数上限。
	// 補完APIの入力トークン上限に収めるための値。
	DefaultCharBudget = 6000
	// DefaultDetailedArticleLimit は詳細プロンプトに含める記事数の上限。
	DefaultDetailedArticleLimit = 5

	// truncationSafetyMargin は境界記事を切り詰める際に残す余白。
	// 文の途中で切れた末尾にマーカーを付けても予算を超えないようにする。
	truncationSafetyMargin = 50
	ellipsisMarker         = "..."
)

// articleBlock は記事1件分のプロンプト用テキストを組み立てる。
func articleBlock(a model.Article) string {
	var b strings.Builder
	b.WriteString("Title: ")
	b.WriteString(a.Title)
	b.WriteString("\nSummary: ")
	b.WriteString(a.Summary)
	b.WriteString("\n\n")
	return b.String()
}

// BuildDetailedContext は先頭から最大limit件の記事のタイトルと要約を
// 連結したコンテキストを返す。
func BuildDetailedContext(articles []model.Article, limit int) string {
	if limit <= 0 {
		limit = DefaultDetailedArticleLimit
	}
	if len(articles) > limit {
		articles = articles[:limit]
	}

	var b strings.Builder
	for _, a := range articles {
		b.WriteString(articleBlock(a))
	}
	return strings.TrimRight(b.String(), "\n")
}

// BuildBudgetedContext は文字数予算内に収まるコンテキストを構築する。
//
// 記事を入力順に走査し、丸ごと収まる記事を予算まで追加する。
// 予算を超える最初の記事（境界記事）は、残り予算から安全余白と
// 省略マーカー分を引いた長さまで切り詰めて追加する。余白が確保できない
// 場合は境界記事を含めない。境界記事より後の記事は一切含めない。
//
// 保証: 戻り値の文字数（rune数）は予算を超えない。記事の包含は
// 前方保存的であり、後方の記事が先行記事より先に含まれることはない。
func BuildBudgetedContext(articles []model.Article, budget int) string {
	if budget <= 0 {
		budget = DefaultCharBudget
	}

	var b strings.Builder
	used := 0
	for _, a := range articles {
		block := []rune(articleBlock(a))

		if used+len(block) <= budget {
			b.WriteString(string(block))
			used += len(block)
			continue
		}

		// 境界記事: 残り予算の範囲で切り詰めて打ち切る
		remaining := budget - used - truncationSafetyMargin - len([]rune(ellipsisMarker))
		if remaining > 0 {
			b.WriteString(string(block[:remaining]))
			b.WriteString(ellipsisMarker)
		}
		break
	}
	return strings.TrimRight(b.String(), "\n")
}
