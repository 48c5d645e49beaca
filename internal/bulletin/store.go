package bulletin

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/model"
)

// session は1つの編集セッションの状態を保持する。
// 検索で取得した記事の累積キャッシュ、選択集合、ブレティン構成、
// 確定済みスナップショットを含む。すべてstoreのロック配下で更新される。
type session struct {
	id         string
	createdAt  time.Time
	lastAccess time.Time

	// articles は検索で取得した全記事の累積キャッシュ（newsIDキー）。
	articles map[int]model.Article
	// selected は選択中のnewsID集合。
	selected map[int]bool
	// selectionOrder は選択順を保持する。再選択時は末尾に移動しない。
	selectionOrder []int

	// searchSeq はこのセッションで発行した検索シーケンストークンの最新値。
	// 古い検索レスポンスが新しい結果を上書きしないためのガード。
	searchSeq int64

	config   model.BulletinConfig
	bulletin *model.BulletinData
}

// Store はセッション状態のインメモリストア。
// 永続化は行わず、TTLを超えてアクセスのないセッションは
// バックグラウンドのクリーンアップで破棄される。
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*session
	ttl      time.Duration
	logger   *slog.Logger
}

// NewStore は新しいStoreを生成する。
// ttlは最終アクセスからセッションを破棄するまでの時間。
func NewStore(ttl time.Duration, logger *slog.Logger) *Store {
	return &Store{
		sessions: make(map[string]*session),
		ttl:      ttl,
		logger:   logger,
	}
}

// Create は新しいセッションを作成し、セッションIDを返す。
// 構成は初期値で開始する。
func (s *Store) Create() string {
	id := uuid.NewString()
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[id] = &session{
		id:         id,
		createdAt:  now,
		lastAccess: now,
		articles:   make(map[int]model.Article),
		selected:   make(map[int]bool),
		config:     model.DefaultBulletinConfig(),
	}

	return id
}

// Touch はセッションの存在を確認し、最終アクセス時刻を更新する。
// セッションミドルウェアからリクエストごとに呼ばれる。
func (s *Store) Touch(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	sess.lastAccess = time.Now()
	return true
}

// Count は現在保持しているセッション数を返す。テストおよびメトリクス用。
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// BeginSearch は検索シーケンストークンを発行する。
// トークンはセッション内で単調増加し、CompleteSearchでの鮮度判定に使う。
func (s *Store) BeginSearch(id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return 0, model.NewSessionNotFoundError()
	}
	sess.searchSeq++
	return sess.searchSeq, nil
}

// CompleteSearch は検索レスポンスの記事をキャッシュに取り込む。
// seqが最新発行トークンと一致しない場合は古いレスポンスとして
// 破棄し、falseを返す（キャッシュは変更しない）。
func (s *Store) CompleteSearch(id string, seq int64, articles []model.Article) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return false, model.NewSessionNotFoundError()
	}
	if seq != sess.searchSeq {
		s.logger.Info("stale search response discarded",
			slog.String("session_id", id),
			slog.Int64("response_seq", seq),
			slog.Int64("latest_seq", sess.searchSeq),
		)
		return false, nil
	}
	for _, a := range articles {
		sess.articles[a.NewsID] = a.Clone()
	}
	return true, nil
}

// CacheArticle は記事1件をキャッシュに取り込む。
// 記事詳細の取得結果を選択可能にするために使用する。
// 検索シーケンストークンとは独立しており、単一記事の最新データとして
// 既存エントリを上書きする。
func (s *Store) CacheArticle(id string, article model.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return model.NewSessionNotFoundError()
	}
	sess.articles[article.NewsID] = article.Clone()
	return nil
}

// ToggleSelection は記事の選択状態を反転する。
// 対象記事がキャッシュに存在しない場合はエラーを返す。
// 戻り値は反転後の選択状態。
func (s *Store) ToggleSelection(id string, newsID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return false, model.NewSessionNotFoundError()
	}
	if _, ok := sess.articles[newsID]; !ok {
		return false, model.NewArticleNotFoundError(newsID)
	}

	if sess.selected[newsID] {
		delete(sess.selected, newsID)
		for i, sel := range sess.selectionOrder {
			if sel == newsID {
				sess.selectionOrder = append(sess.selectionOrder[:i], sess.selectionOrder[i+1:]...)
				break
			}
		}
		return false, nil
	}

	sess.selected[newsID] = true
	sess.selectionOrder = append(sess.selectionOrder, newsID)
	return true, nil
}

// ClearSelection は選択集合を空にする。キャッシュは保持される。
func (s *Store) ClearSelection(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return model.NewSessionNotFoundError()
	}
	sess.selected = make(map[int]bool)
	sess.selectionOrder = nil
	return nil
}

// ReplaceSelection は選択集合を指定のnewsIDリストで置き換える。
// リスト順が新しい選択順になる。キャッシュにない記事が含まれる場合は
// 何も変更せずエラーを返す。
func (s *Store) ReplaceSelection(id string, newsIDs []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return model.NewSessionNotFoundError()
	}
	for _, newsID := range newsIDs {
		if _, ok := sess.articles[newsID]; !ok {
			return model.NewArticleNotFoundError(newsID)
		}
	}

	sess.selected = make(map[int]bool, len(newsIDs))
	sess.selectionOrder = nil
	for _, newsID := range newsIDs {
		if sess.selected[newsID] {
			continue
		}
		sess.selected[newsID] = true
		sess.selectionOrder = append(sess.selectionOrder, newsID)
	}
	return nil
}

// SelectedArticles は選択中の記事を選択順で返す。
// 返却値はディープコピーであり、呼び出し側の編集はキャッシュに波及しない。
func (s *Store) SelectedArticles(id string) ([]model.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, model.NewSessionNotFoundError()
	}

	articles := make([]model.Article, 0, len(sess.selectionOrder))
	for _, newsID := range sess.selectionOrder {
		if a, ok := sess.articles[newsID]; ok {
			articles = append(articles, a.Clone())
		}
	}
	return articles, nil
}

// SetArticleImage は記事にオペレーターが選んだ画像URLを設定する。
// URLの安全性検証（SSRFガード）は呼び出し側で行う。
func (s *Store) SetArticleImage(id string, newsID int, imageURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return model.NewSessionNotFoundError()
	}
	a, ok := sess.articles[newsID]
	if !ok {
		return model.NewArticleNotFoundError(newsID)
	}
	a.ImageURL = imageURL
	sess.articles[newsID] = a
	return nil
}

// Config はブレティン構成のコピーを返す。
func (s *Store) Config(id string) (model.BulletinConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return model.BulletinConfig{}, model.NewSessionNotFoundError()
	}
	return sess.config.Clone(), nil
}

// UpdateConfig はブレティン構成を置き換える。
func (s *Store) UpdateConfig(id string, cfg model.BulletinConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return model.NewSessionNotFoundError()
	}
	sess.config = cfg.Clone()
	return nil
}

// MutateConfig は保持中の構成にロック下で変更を適用し、適用後のコピーを返す。
// UpdateConfigの全置き換えと異なり、変更対象外のフィールドへの並行更新を
// 巻き戻さない。生成結果のスロット単位の取り込みに使用する。
func (s *Store) MutateConfig(id string, mutate func(cfg *model.BulletinConfig)) (model.BulletinConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return model.BulletinConfig{}, model.NewSessionNotFoundError()
	}
	mutate(&sess.config)
	return sess.config.Clone(), nil
}

// SetBulletin は確定済みブレティンスナップショットを保存する。
func (s *Store) SetBulletin(id string, data *model.BulletinData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return model.NewSessionNotFoundError()
	}
	sess.bulletin = data.Clone()
	return nil
}

// Bulletin は確定済みブレティンスナップショットのコピーを返す。
// まだ生成されていない場合はエラーを返す。
func (s *Store) Bulletin(id string) (*model.BulletinData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, model.NewSessionNotFoundError()
	}
	if sess.bulletin == nil {
		return nil, model.NewBulletinNotAssembledError()
	}
	return sess.bulletin.Clone(), nil
}

// CleanupExpired は最終アクセスがTTLを超えたセッションを破棄し、
// 破棄件数を返す。
func (s *Store) CleanupExpired() int {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.lastAccess) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// RunCleanup は指定間隔で期限切れセッションのクリーンアップを実行する。
// コンテキストのキャンセルで停止する。バックグラウンドゴルーチンとして
// 起動することを想定している。
func (s *Store) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.CleanupExpired(); removed > 0 {
				s.logger.Info("expired sessions removed",
					slog.Int("count", removed),
				)
			}
		}
	}
}
