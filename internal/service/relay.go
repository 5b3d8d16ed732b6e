package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"engeybot/internal/domain"
	"engeybot/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SpeechMode controls when replies are also sent as audio
type SpeechMode string

const (
	SpeechOff       SpeechMode = "off"
	SpeechAlways    SpeechMode = "always"
	SpeechOnRequest SpeechMode = "request"
)

const (
	audioCaptionLimit = 1024
	audioFileName     = "voice.mp3"
)

// RelayConfig tunes the per-message pipeline
type RelayConfig struct {
	MaxPromptLength   int
	CompletionTimeout time.Duration
	SpeechMode        SpeechMode
	SpeechMarker      string
	SpeechPerformer   string
	SpeechTimeout     time.Duration
}

// RelayService handles one inbound message at a time: filter, complete, reply
type RelayService struct {
	filter      *TriggerFilter
	completer   Completer
	moderator   Moderator
	synthesizer Synthesizer
	notifier    Notifier
	cfg         RelayConfig
	logger      *zap.Logger
	newID       func() string
}

// NewRelayService creates a new relay service
func NewRelayService(
	filter *TriggerFilter,
	completer Completer,
	notifier Notifier,
	cfg RelayConfig,
	logger *zap.Logger,
) *RelayService {
	return &RelayService{
		filter:    filter,
		completer: completer,
		notifier:  notifier,
		cfg:       cfg,
		logger:    logger,
		newID:     uuid.NewString,
	}
}

// SetModerator enables prompt moderation
func (s *RelayService) SetModerator(m Moderator) { s.moderator = m }

// SetSynthesizer enables voice replies
func (s *RelayService) SetSynthesizer(sy Synthesizer) { s.synthesizer = sy }

// Handle runs the pipeline for msg. It never fails: every error is logged,
// reported to the admin chat and reflected in the returned outcome.
func (s *RelayService) Handle(ctx context.Context, msg domain.ChatMessage, r Replier) domain.Outcome {
	outcome := s.handle(ctx, msg, r)
	metrics.ObserveOutcome(string(outcome))
	return outcome
}

func (s *RelayService) handle(ctx context.Context, msg domain.ChatMessage, r Replier) domain.Outcome {
	if !s.filter.ShouldRespond(msg) {
		return domain.OutcomeIgnored
	}

	prompt := s.filter.Prompt(msg.Text)
	wantSpeech := s.speechRequested(msg.Text)
	if s.filter.Strips() && s.cfg.SpeechMode == SpeechOnRequest && s.cfg.SpeechMarker != "" {
		prompt = strings.TrimSpace(strings.ReplaceAll(prompt, s.cfg.SpeechMarker, ""))
	}
	if strings.TrimSpace(prompt) == "" {
		return domain.OutcomeIgnored
	}

	id := s.newID()
	log := s.logger.With(
		zap.String("interaction_id", id),
		zap.Int64("chat_id", msg.ChatID),
		zap.String("chat_type", string(msg.ChatType)),
	)

	if limit := s.cfg.MaxPromptLength; limit > 0 && utf8.RuneCountInString(prompt) >= limit {
		log.Info("Prompt rejected as too long", zap.Int("length", utf8.RuneCountInString(prompt)))
		if err := r.Reply(fmt.Sprintf("Your question is too long (it must be under %d characters).", limit)); err != nil {
			log.Warn("Failed to send length notice", zap.Error(err))
		}
		return domain.OutcomeRejected
	}

	s.notifier.Notify(fmt.Sprintf("#%s %s from %s in %s: %s", msg.ChatType, id, msg.SenderLabel(), msg.ChatLabel(), prompt))

	if s.moderator != nil {
		flagged, err := s.moderate(ctx, prompt)
		if err != nil {
			s.fail(log, id, metrics.KindModeration, err)
			return domain.OutcomeFailed
		}
		if flagged {
			log.Info("Prompt flagged by moderation")
			if err := r.Reply("Your request was flagged!"); err != nil {
				log.Warn("Failed to send moderation notice", zap.Error(err))
			}
			s.notifier.Notify(fmt.Sprintf("#flagged %s: %s", id, prompt))
			return domain.OutcomeFlagged
		}
	}

	if err := r.Typing(); err != nil {
		log.Debug("Failed to send typing action", zap.Error(err))
	}

	reply, err := s.complete(ctx, domain.CompletionRequest{Prompt: prompt, SenderName: msg.SenderName})
	if err != nil {
		s.fail(log, id, metrics.KindCompletion, err)
		return domain.OutcomeFailed
	}

	if err := r.Reply(reply); err != nil {
		s.fail(log, id, metrics.KindPlatform, fmt.Errorf("%w: send reply: %v", domain.ErrPlatform, err))
		return domain.OutcomeFailed
	}

	if wantSpeech && s.synthesizer != nil {
		s.speak(ctx, log, id, prompt, reply, r)
	}

	s.notifier.Notify(fmt.Sprintf("#%s #BotResponse %s: %s", msg.ChatType, id, reply))
	log.Info("Reply sent", zap.Int("reply_length", utf8.RuneCountInString(reply)))
	return domain.OutcomeReplied
}

func (s *RelayService) speechRequested(text string) bool {
	switch s.cfg.SpeechMode {
	case SpeechAlways:
		return true
	case SpeechOnRequest:
		return s.cfg.SpeechMarker != "" && strings.Contains(text, s.cfg.SpeechMarker)
	default:
		return false
	}
}

func (s *RelayService) moderate(ctx context.Context, prompt string) (bool, error) {
	ctx, cancel := withTimeout(ctx, s.cfg.CompletionTimeout)
	defer cancel()
	return s.moderator.Flagged(ctx, prompt)
}

func (s *RelayService) complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	ctx, cancel := withTimeout(ctx, s.cfg.CompletionTimeout)
	defer cancel()

	start := time.Now()
	reply, err := s.completer.Complete(ctx, req)
	metrics.ObserveCompletion(time.Since(start))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply) == "" {
		return "", fmt.Errorf("%w: empty completion", domain.ErrUpstream)
	}
	return reply, nil
}

// speak sends the reply as audio; the text reply already went out, so
// failures here only reach the admin chat
func (s *RelayService) speak(ctx context.Context, log *zap.Logger, id, prompt, reply string, r Replier) {
	ctx, cancel := withTimeout(ctx, s.cfg.SpeechTimeout)
	defer cancel()

	audio, err := s.synthesizer.Synthesize(ctx, reply)
	if err != nil {
		s.fail(log, id, metrics.KindSynthesis, err)
		return
	}

	caption := truncateRunes(prompt, audioCaptionLimit)
	err = r.ReplyAudio(domain.Audio{
		Data:      audio,
		FileName:  audioFileName,
		Title:     caption,
		Performer: s.cfg.SpeechPerformer,
		Caption:   caption,
	})
	if err != nil {
		s.fail(log, id, metrics.KindPlatform, fmt.Errorf("%w: send audio: %v", domain.ErrPlatform, err))
	}
}

func (s *RelayService) fail(log *zap.Logger, id, kind string, err error) {
	log.Error("Message handling failed", zap.String("kind", kind), zap.Error(err))
	metrics.ObserveFailure(kind)
	s.notifier.Notify(fmt.Sprintf("#error %s %s: %v", kind, id, err))
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
