package moderation_service

import (
	"context"
	"sync"

	"civic-go-admin/model/admin_model"
	"civic-go-admin/model/app_model"
)

// stubRules 内存规则仓库
type stubRules struct {
	words    []admin_model.SensitiveWord
	keywords map[int][]admin_model.CategoryKeyword
	cats     []app_model.Category

	wordsErr    error
	keywordsErr error
	catsErr     error
}

func (s *stubRules) ActiveSensitiveWords(ctx context.Context) ([]admin_model.SensitiveWord, error) {
	return s.words, s.wordsErr
}

func (s *stubRules) ActiveCategoryKeywords(ctx context.Context) (map[int][]admin_model.CategoryKeyword, error) {
	return s.keywords, s.keywordsErr
}

func (s *stubRules) TopLevelCategories(ctx context.Context) ([]app_model.Category, error) {
	return s.cats, s.catsErr
}

// stubConfig 内存配置存储
type stubConfig struct {
	values map[string]string
}

func (s *stubConfig) Get(key string, defaultValue string) string {
	if v, ok := s.values[key]; ok {
		return v
	}
	return defaultValue
}

// stubProvider 外部服务桩实现
// chatReplies 按调用顺序依次返回，耗尽后复用最后一条。
type stubProvider struct {
	moderationResp *ModerationResponse
	moderationErr  error
	chatReplies    []string
	chatErr        error

	moderationCalls int
	chatCalls       int
	lastChatReq     *ChatRequest
}

func (s *stubProvider) Moderations(ctx context.Context, req *ModerationRequest) (*ModerationResponse, []byte, error) {
	s.moderationCalls++
	if s.moderationErr != nil {
		return nil, nil, s.moderationErr
	}
	return s.moderationResp, []byte("{}"), nil
}

func (s *stubProvider) ChatCompletion(ctx context.Context, req *ChatRequest) (string, []byte, error) {
	s.chatCalls++
	s.lastChatReq = req
	if s.chatErr != nil {
		return "", nil, s.chatErr
	}
	if len(s.chatReplies) == 0 {
		return "{}", []byte("{}"), nil
	}
	idx := s.chatCalls - 1
	if idx >= len(s.chatReplies) {
		idx = len(s.chatReplies) - 1
	}
	return s.chatReplies[idx], []byte("{}"), nil
}

// safeModeration 无任何问题类别的检测响应
func safeModeration() *ModerationResponse {
	return &ModerationResponse{
		Results: []ModerationOutcome{
			{Flagged: false, CategoryScores: map[string]float64{}},
		},
	}
}

// flaggedModeration 被标记且指定类别分数的检测响应
func flaggedModeration(category string, score float64) *ModerationResponse {
	return &ModerationResponse{
		Results: []ModerationOutcome{
			{
				Flagged:        true,
				Categories:     map[string]bool{category: true},
				CategoryScores: map[string]float64{category: score},
			},
		},
	}
}

// memLogs 内存审核日志仓库
type memLogs struct {
	mu      sync.Mutex
	entries []*admin_model.ModerationLog
}

func (m *memLogs) Append(ctx context.Context, entry *admin_model.ModerationLog) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
}

// lifecycleCall 意见状态流转的一次调用记录
type lifecycleCall struct {
	method      string
	opinionID   uint
	moderatorID uint
	autoStatus  string
	score       float64
	categoryID  *int
	reason      string
	needsReview bool
}

// stubLifecycle 记录全部状态流转调用
type stubLifecycle struct {
	mu    sync.Mutex
	calls []lifecycleCall
}

func (s *stubLifecycle) Approve(ctx context.Context, opinionID uint, moderatorID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, lifecycleCall{method: "approve", opinionID: opinionID, moderatorID: moderatorID})
	return nil
}

func (s *stubLifecycle) Reject(ctx context.Context, opinionID uint, moderatorID uint, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, lifecycleCall{method: "reject", opinionID: opinionID, moderatorID: moderatorID, reason: reason})
	return nil
}

func (s *stubLifecycle) SetModerationFields(ctx context.Context, opinionID uint, autoStatus string, score float64, categoryID *int, reason string, needsReview bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, lifecycleCall{
		method:      "set_fields",
		opinionID:   opinionID,
		autoStatus:  autoStatus,
		score:       score,
		categoryID:  categoryID,
		reason:      reason,
		needsReview: needsReview,
	})
	return nil
}

func (s *stubLifecycle) find(method string) *lifecycleCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.calls {
		if s.calls[i].method == method {
			return &s.calls[i]
		}
	}
	return nil
}
