// Package model はドメインモデルを定義する。
package model

import "time"

// InternationalCountry は管轄情報を持たない記事の表示用国名。
// 国別グルーピングと地図凡例の両方でこのラベルを使用する。
const InternationalCountry = "International"

// Jurisdiction は記事に付与された管轄（国・地域・規制主体）を表す。
type Jurisdiction struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// Source は記事の出典情報を表す。
// バックエンドニュースAPIは複数件を返しうるが、UIでは実質先頭1件のみ使用される。
type Source struct {
	SourceAlias   string `json:"source_alias"`
	SourceURL     string `json:"source_url"`
	SourceFileKey string `json:"source_file_key,omitempty"`
}

// Article はバックエンドニュースAPIから取得した記事を表す。
// ImageURLのみ検索結果には含まれず、オペレーターの編集操作で設定される。
type Article struct {
	NewsID        int            `json:"news_id"`
	Title         string         `json:"title"`
	Summary       string         `json:"summary"`
	Content       string         `json:"content,omitempty"`
	TypeValue     string         `json:"type_value"`
	PublishedAt   time.Time      `json:"published_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	Jurisdictions []Jurisdiction `json:"jurisdictions"`
	Source        []Source       `json:"source,omitempty"`
	ImageURL      string         `json:"image_url,omitempty"`
}

// DisplayCountry は記事の表示用国名を返す。
// 先頭の管轄名を使用し、管轄が空または先頭の名前が空の場合は
// InternationalCountry を返す。
func (a *Article) DisplayCountry() string {
	if len(a.Jurisdictions) == 0 || a.Jurisdictions[0].Name == "" {
		return InternationalCountry
	}
	return a.Jurisdictions[0].Name
}

// Clone は記事のディープコピーを返す。
// 選択スナップショット作成後に元の検索結果リストへの編集が
// 波及しないことを保証するために使用する。
func (a Article) Clone() Article {
	c := a
	if a.Jurisdictions != nil {
		c.Jurisdictions = make([]Jurisdiction, len(a.Jurisdictions))
		copy(c.Jurisdictions, a.Jurisdictions)
	}
	if a.Source != nil {
		c.Source = make([]Source, len(a.Source))
		copy(c.Source, a.Source)
	}
	return c
}

// CloneArticles は記事スライスのディープコピーを返す。
func CloneArticles(articles []Article) []Article {
	if articles == nil {
		return nil
	}
	cloned := make([]Article, len(articles))
	for i, a := range articles {
		cloned[i] = a.Clone()
	}
	return cloned
}
