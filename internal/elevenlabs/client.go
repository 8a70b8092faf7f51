// Package elevenlabs turns text into MP3 audio through the ElevenLabs
// text-to-speech API: one request in, one MP3 out.
package elevenlabs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	elsdk "github.com/haguro/elevenlabs-go"
)

// DefaultTimeout bounds one synthesis request.
const DefaultTimeout = 30 * time.Second

var (
	// ErrMissingAPIKey is returned when the client has no API key.
	ErrMissingAPIKey = errors.New("elevenlabs: missing API key")

	// ErrMissingVoice is returned when no voice is selected.
	ErrMissingVoice = errors.New("elevenlabs: missing voice id")

	// ErrEmptyText is returned when asked to synthesize nothing.
	ErrEmptyText = errors.New("elevenlabs: empty text")

	// ErrEmptyAudio is returned when the API answers with no audio.
	ErrEmptyAudio = errors.New("elevenlabs: empty audio response")
)

// SynthesizeOpts selects the voice and model for one request.
type SynthesizeOpts struct {
	// VoiceID is the ElevenLabs voice identifier.
	VoiceID string

	// ModelID is the synthesis model.
	ModelID string
}

// Synthesizer converts text to encoded audio.
type Synthesizer interface {
	// Synthesize returns the audio for text, encoded as MP3.
	Synthesize(ctx context.Context, text string,
		opts SynthesizeOpts) ([]byte, error)
}

// ttsAPI is the part of the ElevenLabs SDK client we call.
type ttsAPI interface {
	TextToSpeech(voiceID string, req elsdk.TextToSpeechRequest,
		queries ...elsdk.QueryFunc) ([]byte, error)
}

// Config configures a Client.
type Config struct {
	// APIKey authenticates every request.
	APIKey string

	// Timeout overrides DefaultTimeout.
	Timeout time.Duration
}

// Client synthesizes speech with the ElevenLabs SDK.
type Client struct {
	apiKey  string
	timeout time.Duration

	// newAPI builds the SDK client for one request. The SDK binds a
	// context at construction, so a fresh one is made per call.
	newAPI func(ctx context.Context, apiKey string,
		timeout time.Duration) ttsAPI
}

// NewClient creates a Client. The API key is required.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		apiKey:  cfg.APIKey,
		timeout: timeout,
		newAPI: func(ctx context.Context, apiKey string,
			timeout time.Duration) ttsAPI {

			return elsdk.NewClient(ctx, apiKey, timeout)
		},
	}, nil
}

// Synthesize requests speech for text in the given voice and returns the MP3
// bytes.
func (c *Client) Synthesize(ctx context.Context, text string,
	opts SynthesizeOpts) ([]byte, error) {

	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if opts.VoiceID == "" {
		return nil, ErrMissingVoice
	}

	log.DebugS(ctx, "Requesting speech synthesis",
		"voice_id", opts.VoiceID, "model_id", opts.ModelID,
		"chars", len(text))

	api := c.newAPI(ctx, c.apiKey, c.timeout)
	audio, err := api.TextToSpeech(opts.VoiceID, elsdk.TextToSpeechRequest{
		Text:    text,
		ModelID: opts.ModelID,
	})
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: text to speech: %w", err)
	}
	if len(audio) == 0 {
		return nil, ErrEmptyAudio
	}

	log.DebugS(ctx, "Speech synthesized", "bytes", len(audio))

	return audio, nil
}

// Ensure Client implements Synthesizer at compile time.
var _ Synthesizer = (*Client)(nil)
