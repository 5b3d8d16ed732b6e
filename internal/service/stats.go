package service

import (
	"context"
	"fmt"

	"engeybot/internal/repository"

	"go.uber.org/zap"
)

// StatsService reports registry statistics
type StatsService struct {
	registry repository.ChatRegistry
	notifier Notifier
	logger   *zap.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(registry repository.ChatRegistry, notifier Notifier, logger *zap.Logger) *StatsService {
	return &StatsService{
		registry: registry,
		notifier: notifier,
		logger:   logger,
	}
}

// Summary returns a one-line description of the registry
func (s *StatsService) Summary(ctx context.Context) (string, error) {
	ids, err := s.registry.ListChatIDs(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Known chats: %d", len(ids)), nil
}

// Report posts the summary to the admin chat
func (s *StatsService) Report(ctx context.Context) error {
	summary, err := s.Summary(ctx)
	if err != nil {
		s.logger.Error("Failed to build stats report", zap.Error(err))
		return err
	}

	s.notifier.Notify("#stats " + summary)
	s.logger.Info("Stats report sent")
	return nil
}
