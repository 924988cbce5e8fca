package service

import (
	"context"

	"ai-salesbot-be/internal/dto"
	"ai-salesbot-be/internal/pkg/logger"
	"ai-salesbot-be/pkg/guard"
)

// IGuardService fronts the conversational agent: every inbound message is
// evaluated by the dual-channel gate, and only passing messages reach the
// chat service.
type IGuardService interface {
	Process(ctx context.Context, req *dto.GuardRequest) (*dto.GuardResponse, error)
}

type guardService struct {
	gate             *guard.Gate
	chatService      IChatService
	rejectionMessage string
	log              logger.ILogger
}

func NewGuardService(
	gate *guard.Gate,
	chatService IChatService,
	rejectionMessage string,
	log logger.ILogger,
) IGuardService {
	return &guardService{
		gate:             gate,
		chatService:      chatService,
		rejectionMessage: rejectionMessage,
		log:              log,
	}
}

// Process evaluates the gate and, on a pass, forwards the message to the
// agent. A blocked message gets the configured rejection text; the session
// history is untouched either way until the agent actually runs.
func (s *guardService) Process(ctx context.Context, req *dto.GuardRequest) (*dto.GuardResponse, error) {
	decision := s.gate.Evaluate(ctx, req.Message)

	rsp := &dto.GuardResponse{
		Allowed:     decision.Passed,
		VectorCheck: toCheckDTO(decision.VectorCheck),
		LLMCheck:    toCheckDTO(decision.LLMCheck),
		SessionId:   req.SessionId,
	}

	if !decision.Passed {
		rsp.Reply = s.rejectionMessage
		return rsp, nil
	}

	chatRsp, err := s.chatService.SendChat(ctx, &dto.SendChatRequest{
		Message:   req.Message,
		SessionId: req.SessionId,
		UserId:    req.UserId,
	})
	if err != nil {
		return nil, err
	}

	rsp.SessionId = chatRsp.SessionId
	rsp.Reply = chatRsp.Reply
	rsp.ImageIds = chatRsp.ImageIds
	return rsp, nil
}

func toCheckDTO(result guard.CheckResult) dto.GuardCheckDTO {
	return dto.GuardCheckDTO{
		Passed:    result.Passed,
		CheckName: result.CheckName,
		Score:     result.Score,
		Reason:    result.Reason,
	}
}
