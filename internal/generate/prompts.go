package generate

import (
	"fmt"
	"strings"

	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/region"
)

// regionLabel はプロンプトに埋め込む地域の英語表記を返す。
func regionLabel(r region.Region) string {
	switch r {
	case region.RegionEU:
		return "the European Union"
	case region.RegionUS:
		return "the United States"
	default:
		return "global and international jurisdictions"
	}
}

// PromptContext はプロンプト構築に使う補助情報。
type PromptContext struct {
	Region             region.Region
	CurrentDate        string
	PreviousGreeting   string
	CustomInstructions string
}

// systemPrompt はコンテンツ種別ごとのシステムプロンプトを構築する。
// トーン・長さの指示を含み、カスタム指示があれば末尾に付加する。
func systemPrompt(genType GenerationType, pc PromptContext) string {
	var b strings.Builder
	b.WriteString("You are an ESG regulatory analyst writing for a professional news bulletin. ")

	switch genType {
	case TypeKeyTrends:
		b.WriteString("Identify 3 to 5 key ESG trends across the provided articles. " +
			"Write one short paragraph per trend in a neutral, analytical tone. " +
			"Keep the whole output under 250 words. Do not invent facts that are not in the articles.")
	case TypeExecutiveSummary:
		b.WriteString("Write an executive summary of the provided articles in 2 to 3 paragraphs. " +
			"Lead with the most consequential regulatory developments. " +
			"Formal tone, under 300 words.")
	case TypeKeyTakeaways:
		b.WriteString("Write 4 to 6 concise key takeaways from the provided articles as short bullet points. " +
			"Each bullet states one actionable implication for compliance teams. Under 150 words total.")
	case TypeSectionTitle:
		b.WriteString(fmt.Sprintf("Write a short, punchy section title (at most 8 words) summarizing "+
			"the ESG developments in %s covered by the provided articles. "+
			"Return only the title, no quotes.", regionLabel(pc.Region)))
	case TypeSectionTrends:
		b.WriteString(fmt.Sprintf("Summarize the notable ESG regulatory trends in %s "+
			"based on the provided articles. One paragraph, neutral tone, under 150 words.", regionLabel(pc.Region)))
	case TypeHeaderText:
		b.WriteString("Write a one-line bulletin header strapline (at most 12 words) capturing " +
			"the overall theme of the provided articles. Return only the strapline.")
	case TypeIssueNumber:
		b.WriteString("Suggest a short issue label for this bulletin edition " +
			"(for example \"Issue 14\" or \"Q3 Edition\"). Return only the label.")
	case TypeGreeting:
		b.WriteString("Write a brief reader greeting (2 to 3 sentences) for the opening of the bulletin. " +
			"Warm but professional.")
		if pc.PreviousGreeting != "" {
			b.WriteString(" The previous edition opened with: \"")
			b.WriteString(pc.PreviousGreeting)
			b.WriteString("\". Write something fresh, do not repeat it.")
		}
	}

	if pc.CurrentDate != "" {
		b.WriteString(fmt.Sprintf(" Today's date is %s.", pc.CurrentDate))
	}
	if pc.CustomInstructions != "" {
		b.WriteString(" Additional instructions from the editor: ")
		b.WriteString(pc.CustomInstructions)
	}
	return b.String()
}
