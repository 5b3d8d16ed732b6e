// Package speech turns reply text into audio for voice answers.
package speech

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"engeybot/internal/domain"

	openai "github.com/sashabaranov/go-openai"
)

// maxInputRunes is the speech endpoint's input limit
const maxInputRunes = 4096

// OpenAISynthesizer implements service.Synthesizer with the OpenAI speech API
type OpenAISynthesizer struct {
	client *openai.Client
	model  openai.SpeechModel
	voice  openai.SpeechVoice
}

// NewOpenAISynthesizer creates a synthesizer; an empty baseURL keeps the public endpoint
func NewOpenAISynthesizer(apiKey, baseURL, model, voice string) *OpenAISynthesizer {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAISynthesizer{
		client: openai.NewClientWithConfig(cfg),
		model:  openai.SpeechModel(model),
		voice:  openai.SpeechVoice(voice),
	}
}

// Synthesize returns mp3 audio for text
func (s *OpenAISynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          s.model,
		Input:          truncate(text),
		Voice:          s.voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create speech: %v", domain.ErrSynthesis, err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: read audio: %v", domain.ErrSynthesis, err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: empty audio", domain.ErrSynthesis)
	}
	return audio, nil
}

func truncate(text string) string {
	if utf8.RuneCountInString(text) <= maxInputRunes {
		return text
	}
	return string([]rune(text)[:maxInputRunes])
}
