// Package poller provides a long poller that backs off after failed
// getUpdates calls instead of retrying in a tight loop.
package poller

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"engeybot/internal/domain"
	"engeybot/internal/metrics"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

var allowedUpdates = []string{"message"}

// RetryPoller implements tele.Poller
type RetryPoller struct {
	timeout      time.Duration
	retryDelay   time.Duration
	logger       *zap.Logger
	lastUpdateID int
}

// NewRetryPoller creates a poller that waits retryDelay after every failed poll
func NewRetryPoller(timeout, retryDelay time.Duration, logger *zap.Logger) *RetryPoller {
	return &RetryPoller{
		timeout:    timeout,
		retryDelay: retryDelay,
		logger:     logger,
	}
}

// Poll fetches updates until stop is closed
func (p *RetryPoller) Poll(b *tele.Bot, dest chan tele.Update, stop chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}

		updates, err := p.fetch(b)
		if err != nil {
			metrics.ObservePollError()
			p.logger.Warn("Failed to get updates, retrying",
				zap.Duration("retry_delay", p.retryDelay),
				zap.Error(err),
			)
			if !p.sleep(stop) {
				return
			}
			continue
		}

		for _, update := range updates {
			p.lastUpdateID = update.ID
			select {
			case dest <- update:
			case <-stop:
				return
			}
		}
	}
}

func (p *RetryPoller) fetch(b *tele.Bot) ([]tele.Update, error) {
	allowed, _ := json.Marshal(allowedUpdates)
	params := map[string]string{
		"offset":          strconv.Itoa(p.lastUpdateID + 1),
		"timeout":         strconv.Itoa(int(p.timeout / time.Second)),
		"allowed_updates": string(allowed),
	}

	data, err := b.Raw("getUpdates", params)
	if err != nil {
		return nil, fmt.Errorf("%w: getUpdates: %v", domain.ErrPlatform, err)
	}

	var resp struct {
		Result []tele.Update `json:"result"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode updates: %v", domain.ErrPlatform, err)
	}
	return resp.Result, nil
}

// sleep waits out the retry delay; false means stop was closed meanwhile
func (p *RetryPoller) sleep(stop chan struct{}) bool {
	timer := time.NewTimer(p.retryDelay)
	defer timer.Stop()
	select {
	case <-stop:
		return false
	case <-timer.C:
		return true
	}
}
