package liveapi

import (
	"context"

	"google.golang.org/genai"
)

// Client opens live sessions against the Gemini API. It is a thin layer
// over the vendor SDK: model inference, speech encoding, and the streaming
// transport all stay on the vendor side.
type Client struct {
	config *Config
	genai  *genai.Client
	logger *Logger
}

// NewClient creates a client from the given config. A nil config uses
// NewConfig(), which reads GEMINI_KEY from the environment (and .env).
func NewClient(ctx context.Context, config *Config) (*Client, error) {
	if config == nil {
		config = NewConfig()
	}
	if config.APIKey == "" {
		return nil, NewLiveError("GEMINI_KEY is not set; create a .env file with your key", ErrCodeAPIKeyMissing)
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, WrapError(err, ErrCodeConnectFailed)
	}

	return &Client{
		config: config,
		genai:  gc,
		logger: GetGlobalLogger().WithComponent("Client"),
	}, nil
}

// ConnectText opens a live session with the text model; responses arrive
// as streamed text parts.
func (c *Client) ConnectText(ctx context.Context) (*Session, error) {
	return c.connect(ctx, c.config.TextModel, genai.ModalityText)
}

// ConnectAudio opens a live session with the native-audio model; responses
// arrive as 24 kHz PCM16 blobs.
func (c *Client) ConnectAudio(ctx context.Context) (*Session, error) {
	return c.connect(ctx, c.config.AudioModel, genai.ModalityAudio)
}

func (c *Client) connect(ctx context.Context, model string, modality genai.Modality) (*Session, error) {
	cfg := &genai.LiveConnectConfig{
		ResponseModalities: []genai.Modality{modality},
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: c.config.SystemInstruction}},
		},
	}

	c.logger.WithField("model", model).Debug("Opening live session")
	stream, err := c.genai.Live.Connect(ctx, model, cfg)
	if err != nil {
		return nil, WrapError(err, ErrCodeConnectFailed).AddDetail("model", model)
	}

	return newSession(stream, c.config, c.logger.WithComponent("Session").WithField("model", model)), nil
}

// Config returns the configuration the client was built with.
func (c *Client) Config() *Config {
	return c.config
}
