package generate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/bulletin"
	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/model"
	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/region"
)

// Request はLLMクライアントへの1回の生成依頼を表す。
type Request struct {
	Type   GenerationType
	System string
	User   string
}

// ContentClient はコンテンツ生成クライアントのインターフェース。
// 実装はinternal/llmが提供する。テストではフェイクに差し替える。
type ContentClient interface {
	// Generate は生成テキストを返す。空のテキストはエラーとして扱われる。
	Generate(ctx context.Context, req Request) (string, error)
}

// Sanitizer は生成テキストのサニタイズに必要なインターフェース。
// security.ContentSanitizerServiceの部分集合として定義する。
type Sanitizer interface {
	Sanitize(raw string) string
}

// MetricsRecorder は生成メトリクスの記録に必要なインターフェース。
// nilの場合は記録をスキップする。
type MetricsRecorder interface {
	RecordGenerationSuccess(slot string)
	RecordGenerationFailure(slot string)
	RecordGenerationLatency(duration time.Duration)
}

// Config はオーケストレーターの動作設定。
type Config struct {
	// SlotTimeout はスロット1件あたりの生成タイムアウト。
	SlotTimeout time.Duration
	// CharBudget は予算打ち切りコンテキストの文字数上限。
	CharBudget int
	// DetailedArticleLimit は詳細コンテキストに含める記事数上限。
	DetailedArticleLimit int
}

// Orchestrator はブレティンの各テキストスロットの生成を統括する。
//
// スロットは固定順（キートレンド → エグゼクティブサマリー → キー
// テイクアウェイ → 地域ごとのタイトル・トレンド）で逐次生成される。
// 各スロットは独立したネットワーク往復であり、後続スロットは先行
// スロットの出力に依存しない。失敗はスロット単位で隔離され、失敗した
// スロットの既存値は変更されず、残りのスロットの生成は継続される。
type Orchestrator struct {
	client    ContentClient
	sanitizer Sanitizer
	metrics   MetricsRecorder
	logger    *slog.Logger

	timeout       time.Duration
	charBudget    int
	detailedLimit int
}

// NewOrchestrator は新しいOrchestratorを生成する。
// metricsはnilでもよい。Configのゼロ値にはデフォルトが適用される。
func NewOrchestrator(client ContentClient, sanitizer Sanitizer, metrics MetricsRecorder, logger *slog.Logger, cfg Config) *Orchestrator {
	if cfg.SlotTimeout <= 0 {
		cfg.SlotTimeout = 30 * time.Second
	}
	if cfg.CharBudget <= 0 {
		cfg.CharBudget = DefaultCharBudget
	}
	if cfg.DetailedArticleLimit <= 0 {
		cfg.DetailedArticleLimit = DefaultDetailedArticleLimit
	}
	return &Orchestrator{
		client:        client,
		sanitizer:     sanitizer,
		metrics:       metrics,
		logger:        logger,
		timeout:       cfg.SlotTimeout,
		charBudget:    cfg.CharBudget,
		detailedLimit: cfg.DetailedArticleLimit,
	}
}

// SlotFailure は1スロットの生成失敗を表す。非致命的な警告として
// 呼び出し側に返される。
type SlotFailure struct {
	Slot Slot
	Err  error
}

// GenerateAll は必要な全スロットを固定順で生成し、構成に書き込む。
//
// 順序: キートレンド、エグゼクティブサマリー、キーテイクアウェイ、
// 次に地域ごと（EU → US → Global）にセクションタイトル、
// ShowKeyTrendsが有効ならセクショントレンド。
// 地域の部分集合が空の場合、その地域のスロットはLLM呼び出しなしで
// スキップされる。
//
// 失敗したスロットの一覧を返す。失敗スロットの既存値は保持される。
func (o *Orchestrator) GenerateAll(ctx context.Context, selected []model.Article, cfg *model.BulletinConfig) []SlotFailure {
	var failures []SlotFailure

	run := func(slot Slot, articles []model.Article) {
		if err := o.generateSlot(ctx, slot, articles, cfg); err != nil {
			o.logger.Warn("slot generation failed",
				slog.String("slot", string(slot)),
				slog.String("error", err.Error()),
			)
			failures = append(failures, SlotFailure{Slot: slot, Err: err})
		}
	}

	run(SlotKeyTrends, selected)
	run(SlotExecutiveSummary, selected)
	run(SlotKeyTakeaways, selected)

	subsets := bulletin.SubsetsByRegion(selected)
	for _, r := range region.All() {
		subset := subsets[r]
		if len(subset) == 0 {
			// 空の部分集合はスキップ（LLM呼び出しなし、失敗でもない）
			o.logger.Info("region skipped: no articles",
				slog.String("region", string(r)),
			)
			continue
		}

		run(titleSlotFor(r), subset)
		if o.sectionFor(cfg, r).ShowKeyTrends {
			run(trendsSlotFor(r), subset)
		}
	}

	return failures
}

// GenerateOne は指定スロットのみを再生成する。
// 他のスロットの値には一切触れない。地域スロットの場合は該当地域の
// 部分集合のみをコンテキストに使う。
func (o *Orchestrator) GenerateOne(ctx context.Context, slot Slot, selected []model.Article, cfg *model.BulletinConfig) error {
	articles := selected
	if r, ok := slot.slotRegion(); ok {
		articles = bulletin.SubsetsByRegion(selected)[r]
		if len(articles) == 0 {
			return model.NewInvalidRequestError(
				fmt.Sprintf("地域 %s に該当する記事が選択されていません", r))
		}
	}
	return o.generateSlot(ctx, slot, articles, cfg)
}

// generateSlot は1スロット分のコンテキスト構築・LLM呼び出し・書き込みを行う。
// 失敗時は構成を変更しない。
func (o *Orchestrator) generateSlot(ctx context.Context, slot Slot, articles []model.Article, cfg *model.BulletinConfig) error {
	genType := slot.generationType()

	pc := PromptContext{
		CurrentDate:        time.Now().Format("2006-01-02"),
		CustomInstructions: cfg.CustomInstructions,
	}
	if r, ok := slot.slotRegion(); ok {
		pc.Region = r
	}
	if genType == TypeGreeting {
		pc.PreviousGreeting = cfg.Greeting
	}

	// タイトル等の短文スロットは少数記事の詳細コンテキスト、
	// 本文系スロットは文字数予算で打ち切ったコンテキストを使う
	var user string
	switch genType {
	case TypeSectionTitle, TypeHeaderText, TypeIssueNumber, TypeGreeting:
		user = BuildDetailedContext(articles, o.detailedLimit)
	default:
		user = BuildBudgetedContext(articles, o.charBudget)
	}

	slotCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	text, err := o.client.Generate(slotCtx, Request{
		Type:   genType,
		System: systemPrompt(genType, pc),
		User:   user,
	})
	if o.metrics != nil {
		o.metrics.RecordGenerationLatency(time.Since(start))
	}
	if err == nil && strings.TrimSpace(text) == "" {
		err = fmt.Errorf("生成結果が空です")
	}
	if err != nil {
		if o.metrics != nil {
			o.metrics.RecordGenerationFailure(string(slot))
		}
		return fmt.Errorf("スロット %s の生成に失敗しました: %w", slot, err)
	}

	slot.Write(cfg, o.sanitizer.Sanitize(text))
	if o.metrics != nil {
		o.metrics.RecordGenerationSuccess(string(slot))
	}
	return nil
}

// sectionFor は地域に対応するセクション構成への参照を返す。
func (o *Orchestrator) sectionFor(cfg *model.BulletinConfig, r region.Region) *model.SectionConfig {
	switch r {
	case region.RegionEU:
		return &cfg.EuSection
	case region.RegionUS:
		return &cfg.UsSection
	default:
		return &cfg.GlobalSection
	}
}
