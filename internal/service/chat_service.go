package service

import (
	"context"
	"strings"
	"sync"

	"ai-salesbot-be/internal/constant"
	"ai-salesbot-be/internal/dto"
	"ai-salesbot-be/internal/entity"
	"ai-salesbot-be/internal/pkg/apperror"
	"ai-salesbot-be/internal/pkg/logger"
	"ai-salesbot-be/internal/repository/contract"
	"ai-salesbot-be/pkg/llm"
	"ai-salesbot-be/pkg/markers"

	"github.com/google/uuid"
)

// maxToolRounds bounds the tool loop so a model that keeps requesting
// tools cannot spin a conversation turn forever.
const maxToolRounds = 6

// ApologyMessage is returned when the agent itself fails after the message
// already passed the guard. It is deliberately distinct from the guard's
// rejection message: "we broke" and "we refuse" must never be confused.
const ApologyMessage = "ขออภัย ระบบไม่สามารถประมวลผลได้ในขณะนี้ กรุณาลองใหม่อีกครั้ง"

type IChatService interface {
	SendChat(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
	GetAllSessions(ctx context.Context) ([]*dto.GetAllSessionsResponse, error)
	CountSessions(ctx context.Context) (int64, error)
}

type chatService struct {
	sessionRepo  contract.SessionRepository
	llmProvider  llm.LLMProvider
	toolRegistry *ToolRegistry
	agentModel   string
	maxImages    int
	log          logger.ILogger

	// sessionLocks serializes turns per session id: concurrent requests on
	// one session apply in arrival order, requests on different sessions
	// never contend. Entries are refcounted and removed once uncontended
	// so the table does not grow with every session ever seen.
	locksMu      sync.Mutex
	sessionLocks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewChatService(
	sessionRepo contract.SessionRepository,
	llmProvider llm.LLMProvider,
	toolRegistry *ToolRegistry,
	agentModel string,
	maxImages int,
	log logger.ILogger,
) IChatService {
	return &chatService{
		sessionRepo:  sessionRepo,
		llmProvider:  llmProvider,
		toolRegistry: toolRegistry,
		agentModel:   agentModel,
		maxImages:    maxImages,
		log:          log,
		sessionLocks: make(map[string]*sessionLock),
	}
}

func (s *chatService) lockSession(sessionId string) func() {
	s.locksMu.Lock()
	l, ok := s.sessionLocks[sessionId]
	if !ok {
		l = &sessionLock{}
		s.sessionLocks[sessionId] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.sessionLocks, sessionId)
		}
		s.locksMu.Unlock()
	}
}

func (s *chatService) SendChat(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	sessionId := req.SessionId
	if sessionId == "" {
		sessionId = uuid.NewString()
	}
	userId := req.UserId
	if userId == "" {
		userId = sessionId
	}

	unlock := s.lockSession(sessionId)
	defer unlock()

	// Storage failures surface: masking them would desynchronize the
	// conversation with no operator signal.
	session, err := s.sessionRepo.Get(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	var priorTurns []entity.Turn
	if session != nil {
		priorTurns = session.Turns
	}

	rawReply, err := s.runAgent(ctx, userId, priorTurns, req.Message)
	if err != nil {
		if apperror.IsStorage(err) {
			return nil, err
		}
		s.log.Error("chat", "agent run failed", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		return &dto.SendChatResponse{
			SessionId: sessionId,
			Reply:     ApologyMessage,
			ImageIds:  []string{},
			TurnCount: len(priorTurns),
		}, nil
	}

	// Only plain user/assistant turns persist. Tool call turns are dropped
	// so truncation can never orphan a tool result mid-exchange.
	newTurns := append(entity.CloneTurns(priorTurns),
		entity.Turn{Role: "user", Content: req.Message},
		entity.Turn{Role: "assistant", Content: rawReply},
	)
	if err := s.sessionRepo.Save(ctx, sessionId, newTurns); err != nil {
		return nil, err
	}

	cleanReply, imageIds := markers.Extract(rawReply, s.maxImages)

	return &dto.SendChatResponse{
		SessionId: sessionId,
		Reply:     cleanReply,
		ImageIds:  imageIds,
		TurnCount: len(newTurns),
	}, nil
}

// runAgent executes the tool loop: the model either answers or requests
// tool calls, whose results feed back as tool turns until it answers or
// the round limit is hit.
func (s *chatService) runAgent(ctx context.Context, userId string, priorTurns []entity.Turn, message string) (string, error) {
	history := s.buildHistory(priorTurns, message)

	toolCaller, hasTools := s.llmProvider.(llm.ToolCaller)
	if !hasTools || s.toolRegistry == nil {
		return s.llmProvider.Chat(ctx, history, llm.WithModel(s.agentModel))
	}

	specs := s.toolRegistry.Specs()
	for round := 0; round < maxToolRounds; round++ {
		rsp, err := toolCaller.ChatWithTools(ctx, history, specs, llm.WithModel(s.agentModel))
		if err != nil {
			return "", err
		}

		if len(rsp.ToolCalls) == 0 {
			if strings.TrimSpace(rsp.Content) == "" {
				return "", apperror.Newf(apperror.KindUpstream, "chat.agent", "model returned empty reply")
			}
			return rsp.Content, nil
		}

		history = append(history, llm.Message{
			Role:      "assistant",
			Content:   rsp.Content,
			ToolCalls: rsp.ToolCalls,
		})

		for _, call := range rsp.ToolCalls {
			result := s.toolRegistry.Execute(ctx, userId, call)
			history = append(history, llm.Message{
				Role:       "tool",
				Content:    result,
				ToolCallId: call.Id,
				Name:       call.Name,
			})
		}
	}

	return "", apperror.Newf(apperror.KindUpstream, "chat.agent", "tool loop exceeded %d rounds", maxToolRounds)
}

func (s *chatService) buildHistory(priorTurns []entity.Turn, message string) []llm.Message {
	history := make([]llm.Message, 0, len(priorTurns)+2)
	history = append(history, llm.Message{Role: "system", Content: constant.AgentInstructions})
	for _, turn := range priorTurns {
		history = append(history, llm.Message{Role: turn.Role, Content: turn.Content})
	}
	history = append(history, llm.Message{Role: "user", Content: message})
	return history
}

func (s *chatService) GetAllSessions(ctx context.Context) ([]*dto.GetAllSessionsResponse, error) {
	sessions, err := s.sessionRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.GetAllSessionsResponse, len(sessions))
	for i, sess := range sessions {
		out[i] = &dto.GetAllSessionsResponse{
			Id:        sess.Id,
			TurnCount: len(sess.Turns),
			CreatedAt: sess.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			UpdatedAt: sess.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}
	return out, nil
}

func (s *chatService) CountSessions(ctx context.Context) (int64, error) {
	return s.sessionRepo.Count(ctx)
}
