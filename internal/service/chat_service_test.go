package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-salesbot-be/internal/dto"
	"ai-salesbot-be/internal/entity"
	"ai-salesbot-be/internal/pkg/logger"
	"ai-salesbot-be/internal/repository/memory"
	"ai-salesbot-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedLLM returns canned responses in order. It implements both
// LLMProvider and ToolCaller so the tool loop is exercisable.
type scriptedLLM struct {
	responses []*llm.ToolChatResponse
	err       error
	calls     int
}

func (s *scriptedLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	rsp, err := s.next()
	if err != nil {
		return "", err
	}
	return rsp.Content, nil
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, nil)
}

func (s *scriptedLLM) ChatWithTools(ctx context.Context, history []llm.Message, tools []llm.ToolSpec, opts ...llm.Option) (*llm.ToolChatResponse, error) {
	return s.next()
}

func (s *scriptedLLM) next() (*llm.ToolChatResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.calls >= len(s.responses) {
		return nil, errors.New("scripted llm exhausted")
	}
	rsp := s.responses[s.calls]
	s.calls++
	return rsp, nil
}

type fakeOrderRepo struct {
	created []*entity.OrderDraft
	nextId  int64
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *entity.OrderDraft) error {
	f.nextId++
	order.Id = f.nextId
	order.CreatedAt = time.Now()
	f.created = append(f.created, order)
	return nil
}

func (f *fakeOrderRepo) FindById(ctx context.Context, id int64) (*entity.OrderDraft, error) {
	for _, o := range f.created {
		if o.Id == id {
			return o, nil
		}
	}
	return nil, nil
}

func (f *fakeOrderRepo) FindByUserId(ctx context.Context, userId string) ([]*entity.OrderDraft, error) {
	var out []*entity.OrderDraft
	for _, o := range f.created {
		if o.UserId == userId {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, id int64, status, trackingNo string) error {
	return nil
}

func (f *fakeOrderRepo) Delete(ctx context.Context, id int64) error { return nil }

func newTestChatService(provider llm.LLMProvider, registry *ToolRegistry) (IChatService, *memory.SessionRepository) {
	sessionRepo := memory.NewSessionRepository(50, 24*time.Hour)
	svc := NewChatService(sessionRepo, provider, registry, "gpt-4o-mini", 3, logger.NewNopLogger())
	return svc, sessionRepo
}

func TestSendChatAssignsSessionId(t *testing.T) {
	provider := &scriptedLLM{responses: []*llm.ToolChatResponse{
		{Content: "สวัสดีค่ะ"},
	}}
	svc, _ := newTestChatService(provider, nil)

	rsp, err := svc.SendChat(context.Background(), &dto.SendChatRequest{Message: "สวัสดี"})
	require.NoError(t, err)
	assert.NotEmpty(t, rsp.SessionId)
	assert.Equal(t, "สวัสดีค่ะ", rsp.Reply)
	assert.Equal(t, 2, rsp.TurnCount)
}

func TestSendChatExtractsAndCapsImageMarkers(t *testing.T) {
	provider := &scriptedLLM{responses: []*llm.ToolChatResponse{
		{Content: "ครบทุกแบบค่ะ <<IMG:IMG_PROD_001>> <<IMG:IMG_PROD_002>> <<IMG:IMG_PROD_001>> <<IMG:IMG_PROD_003>> <<IMG:IMG_PROD_004>>"},
	}}
	svc, _ := newTestChatService(provider, nil)

	rsp, err := svc.SendChat(context.Background(), &dto.SendChatRequest{Message: "ขอดูรูป", SessionId: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "ครบทุกแบบค่ะ", rsp.Reply)
	assert.Equal(t, []string{"IMG_PROD_001", "IMG_PROD_002", "IMG_PROD_003"}, rsp.ImageIds)
}

func TestSendChatPersistsOnlyTextTurns(t *testing.T) {
	orderRepo := &fakeOrderRepo{}
	registry := NewToolRegistry(nil, nil, orderRepo, nil, logger.NewNopLogger())

	provider := &scriptedLLM{responses: []*llm.ToolChatResponse{
		{ToolCalls: []llm.ToolCall{{
			Id:        "call_1",
			Name:      "create_order",
			Arguments: `{"product_name": "ผงเครื่องเทศ 30g", "quantity": 2}`,
		}}},
		{Content: "สั่งซื้อเรียบร้อยค่ะ"},
	}}
	svc, sessionRepo := newTestChatService(provider, registry)

	rsp, err := svc.SendChat(context.Background(), &dto.SendChatRequest{
		Message:   "สั่ง 2 ซอง",
		SessionId: "s1",
		UserId:    "u1",
	})
	require.NoError(t, err)
	assert.Equal(t, "สั่งซื้อเรียบร้อยค่ะ", rsp.Reply)

	// The tool ran for the right user.
	require.Len(t, orderRepo.created, 1)
	assert.Equal(t, "u1", orderRepo.created[0].UserId)
	assert.Equal(t, 2, orderRepo.created[0].Quantity)

	// Only the user message and final assistant reply persist.
	session, err := sessionRepo.Get(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, session.Turns, 2)
	assert.Equal(t, "user", session.Turns[0].Role)
	assert.Equal(t, "assistant", session.Turns[1].Role)
}

func TestSendChatToolLoopBounded(t *testing.T) {
	registry := NewToolRegistry(nil, nil, &fakeOrderRepo{}, nil, logger.NewNopLogger())

	// A model that never stops asking for tools.
	responses := make([]*llm.ToolChatResponse, 10)
	for i := range responses {
		responses[i] = &llm.ToolChatResponse{ToolCalls: []llm.ToolCall{{
			Id:        "call",
			Name:      "get_order",
			Arguments: `{}`,
		}}}
	}
	provider := &scriptedLLM{responses: responses}
	svc, _ := newTestChatService(provider, registry)

	rsp, err := svc.SendChat(context.Background(), &dto.SendChatRequest{Message: "x", SessionId: "s1"})
	require.NoError(t, err)
	assert.Equal(t, ApologyMessage, rsp.Reply)
	assert.Equal(t, maxToolRounds, provider.calls)
}

func TestSendChatAgentFailureYieldsApologyAndKeepsHistory(t *testing.T) {
	good := &scriptedLLM{responses: []*llm.ToolChatResponse{{Content: "คำตอบแรก"}}}
	svc, sessionRepo := newTestChatService(good, nil)

	_, err := svc.SendChat(context.Background(), &dto.SendChatRequest{Message: "แรก", SessionId: "s1"})
	require.NoError(t, err)

	// Swap in a broken provider by building a second service over the same
	// store, as if the upstream went down between requests.
	broken := &scriptedLLM{err: errors.New("upstream down")}
	svc2 := NewChatService(sessionRepo, broken, nil, "gpt-4o-mini", 3, logger.NewNopLogger())

	rsp, err := svc2.SendChat(context.Background(), &dto.SendChatRequest{Message: "สอง", SessionId: "s1"})
	require.NoError(t, err)
	assert.Equal(t, ApologyMessage, rsp.Reply)
	assert.Empty(t, rsp.ImageIds)

	// The failed exchange must not be recorded.
	session, err := sessionRepo.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Len(t, session.Turns, 2)
}

func TestSendChatUnknownToolReportedToModel(t *testing.T) {
	registry := NewToolRegistry(nil, nil, &fakeOrderRepo{}, nil, logger.NewNopLogger())

	provider := &scriptedLLM{responses: []*llm.ToolChatResponse{
		{ToolCalls: []llm.ToolCall{{Id: "c1", Name: "no_such_tool", Arguments: `{}`}}},
		{Content: "ขอโทษค่ะ ลองใหม่"},
	}}
	svc, _ := newTestChatService(provider, registry)

	rsp, err := svc.SendChat(context.Background(), &dto.SendChatRequest{Message: "x", SessionId: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "ขอโทษค่ะ ลองใหม่", rsp.Reply)
}

func TestGetAllSessionsAndCount(t *testing.T) {
	provider := &scriptedLLM{responses: []*llm.ToolChatResponse{
		{Content: "a"}, {Content: "b"},
	}}
	svc, _ := newTestChatService(provider, nil)
	ctx := context.Background()

	_, err := svc.SendChat(ctx, &dto.SendChatRequest{Message: "x", SessionId: "s1"})
	require.NoError(t, err)
	_, err = svc.SendChat(ctx, &dto.SendChatRequest{Message: "y", SessionId: "s2"})
	require.NoError(t, err)

	count, err := svc.CountSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	sessions, err := svc.GetAllSessions(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}

func TestSessionLockEvictedWhenUncontended(t *testing.T) {
	provider := &scriptedLLM{responses: []*llm.ToolChatResponse{{Content: "สวัสดีค่ะ"}}}
	svc, _ := newTestChatService(provider, nil)

	_, err := svc.SendChat(context.Background(), &dto.SendChatRequest{Message: "สวัสดี", SessionId: "s1"})
	require.NoError(t, err)

	cs := svc.(*chatService)
	cs.locksMu.Lock()
	defer cs.locksMu.Unlock()
	assert.Empty(t, cs.sessionLocks)
}

func TestSessionLockSurvivesContention(t *testing.T) {
	cs := &chatService{sessionLocks: make(map[string]*sessionLock)}

	unlockFirst := cs.lockSession("s1")

	released := make(chan struct{})
	go func() {
		unlock := cs.lockSession("s1")
		unlock()
		close(released)
	}()

	// Wait for the second locker to register before releasing the first.
	require.Eventually(t, func() bool {
		cs.locksMu.Lock()
		defer cs.locksMu.Unlock()
		l, ok := cs.sessionLocks["s1"]
		return ok && l.refs == 2
	}, time.Second, time.Millisecond)

	unlockFirst()
	<-released

	cs.locksMu.Lock()
	defer cs.locksMu.Unlock()
	assert.Empty(t, cs.sessionLocks)
}
