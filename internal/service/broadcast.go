package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"engeybot/internal/repository"

	"go.uber.org/zap"
)

// ErrEmptyBroadcast is returned for a broadcast without text
var ErrEmptyBroadcast = errors.New("broadcast text is empty")

// BroadcastResult summarizes one broadcast run
type BroadcastResult struct {
	Total  int
	Sent   int
	Failed int
}

// BroadcastService sends a message to every chat in the registry
type BroadcastService struct {
	registry repository.ChatRegistry
	sender   MessageSender
	logger   *zap.Logger
}

// NewBroadcastService creates a new broadcast service
func NewBroadcastService(registry repository.ChatRegistry, sender MessageSender, logger *zap.Logger) *BroadcastService {
	return &BroadcastService{
		registry: registry,
		sender:   sender,
		logger:   logger,
	}
}

// Send delivers text to all known chats, continuing past individual failures
func (s *BroadcastService) Send(ctx context.Context, text string) (BroadcastResult, error) {
	if strings.TrimSpace(text) == "" {
		return BroadcastResult{}, ErrEmptyBroadcast
	}

	ids, err := s.registry.ListChatIDs(ctx)
	if err != nil {
		return BroadcastResult{}, fmt.Errorf("list chats: %w", err)
	}

	res := BroadcastResult{Total: len(ids)}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			res.Failed += res.Total - res.Sent - res.Failed
			return res, err
		}
		if err := s.sender.SendText(id, text); err != nil {
			s.logger.Warn("Broadcast delivery failed", zap.Int64("chat_id", id), zap.Error(err))
			res.Failed++
			continue
		}
		res.Sent++
	}

	s.logger.Info("Broadcast completed",
		zap.Int("total", res.Total),
		zap.Int("sent", res.Sent),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}

// Summary formats a result for the admin chat
func (r BroadcastResult) Summary() string {
	return fmt.Sprintf("Broadcast sent: %d ok, %d failed.", r.Sent, r.Failed)
}
