package liveapi

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"
)

// liveStream is the slice of the vendor session this package uses. Narrow
// on purpose so the receive logic can be exercised with a canned fake.
type liveStream interface {
	SendClientContent(input genai.LiveClientContentInput) error
	SendRealtimeInput(input genai.LiveRealtimeInput) error
	Receive() (*genai.LiveServerMessage, error)
	Close() error
}

type receiveResult struct {
	msg *genai.LiveServerMessage
	err error
}

// Session wraps one live connection. Receiving runs on a single pump
// goroutine feeding a channel, so turn collection can apply a timeout to
// the first server message without racing the vendor SDK.
type Session struct {
	stream liveStream
	config *Config
	logger *Logger

	recv     chan receiveResult
	pumpOnce sync.Once

	mu    sync.Mutex
	state SessionState
}

func newSession(stream liveStream, config *Config, logger *Logger) *Session {
	return &Session{
		stream: stream,
		config: config,
		logger: logger,
		recv:   make(chan receiveResult, 8),
		state:  SessionOpen,
	}
}

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(state SessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// SendText submits a complete user turn.
func (s *Session) SendText(text string) error {
	err := s.stream.SendClientContent(genai.LiveClientContentInput{
		Turns: []*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: text}},
		}},
		TurnComplete: genai.Ptr(true),
	})
	if err != nil {
		return WrapError(err, ErrCodeSendFailed)
	}
	return nil
}

// SendAudio streams raw PCM16 input audio into the session.
func (s *Session) SendAudio(pcm []byte) error {
	if len(pcm) == 0 {
		return nil
	}
	err := s.stream.SendRealtimeInput(genai.LiveRealtimeInput{
		Media: &genai.Blob{
			Data:     pcm,
			MIMEType: fmt.Sprintf("audio/pcm;rate=%d", s.config.InputSampleRate),
		},
	})
	if err != nil {
		return WrapError(err, ErrCodeSendFailed)
	}
	return nil
}

// Close shuts the underlying connection down.
func (s *Session) Close() error {
	s.setState(SessionClosed)
	return s.stream.Close()
}

// startPump launches the single receive goroutine. It exits when the
// vendor stream errors out, which includes a normal close.
func (s *Session) startPump() {
	s.pumpOnce.Do(func() {
		go func() {
			for {
				msg, err := s.stream.Receive()
				s.recv <- receiveResult{msg: msg, err: err}
				if err != nil {
					return
				}
			}
		}()
	})
}

// StreamText receives one model turn, invoking onChunk for every text part
// as it arrives, and returns the accumulated response.
func (s *Session) StreamText(ctx context.Context, onChunk TextChunkHandler) (string, error) {
	s.startPump()
	s.setState(SessionReceiving)
	defer s.setState(SessionOpen)

	var sb strings.Builder
	for {
		select {
		case <-ctx.Done():
			return sb.String(), WrapError(ctx.Err(), ErrCodeReceiveFailed)
		case res := <-s.recv:
			if res.err != nil {
				// The turn is over when the server closes after sending
				// everything; treat an error after content as end-of-turn.
				if sb.Len() > 0 {
					return sb.String(), nil
				}
				return "", WrapError(res.err, ErrCodeReceiveFailed)
			}
			text, _ := modelTurnParts(res.msg)
			if text != "" {
				sb.WriteString(text)
				if onChunk != nil {
					onChunk(text)
				}
			}
			if turnComplete(res.msg) {
				return sb.String(), nil
			}
		}
	}
}

// CollectAudioTurn receives one model turn of audio. The timeout applies
// only until the first server message arrives; once the model has started
// responding the turn is drained to completion without a deadline.
func (s *Session) CollectAudioTurn(ctx context.Context, timeout time.Duration) (*AudioTurn, error) {
	s.startPump()
	s.setState(SessionReceiving)
	defer s.setState(SessionOpen)

	turn := &AudioTurn{SampleRate: s.config.OutputSampleRate}

	// Stage 1: wait for the first message under the timeout.
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, WrapError(ctx.Err(), ErrCodeReceiveFailed)
	case <-timer.C:
		return nil, NewTimeoutError(fmt.Sprintf("model did not respond within %s", timeout)).
			AddDetail("timeout_seconds", timeout.Seconds())
	case res := <-s.recv:
		if res.err != nil {
			return nil, WrapError(res.err, ErrCodeReceiveFailed)
		}
		if s.appendTurn(turn, res.msg) {
			return turn, nil
		}
	}

	// Stage 2: the response has started, read everything that remains.
	for {
		select {
		case <-ctx.Done():
			return nil, WrapError(ctx.Err(), ErrCodeReceiveFailed)
		case res := <-s.recv:
			if res.err != nil {
				if len(turn.PCM) > 0 || turn.Text != "" {
					return turn, nil
				}
				return nil, WrapError(res.err, ErrCodeReceiveFailed)
			}
			if s.appendTurn(turn, res.msg) {
				return turn, nil
			}
		}
	}
}

// appendTurn folds a server message into the turn and reports completion.
func (s *Session) appendTurn(turn *AudioTurn, msg *genai.LiveServerMessage) bool {
	text, pcm := modelTurnParts(msg)
	turn.Text += text
	turn.PCM = append(turn.PCM, pcm...)
	if len(pcm) > 0 {
		s.logger.WithField("bytes", len(pcm)).Debug("Received audio chunk")
	}
	return turnComplete(msg)
}

// modelTurnParts pulls text and inline PCM out of a server message.
func modelTurnParts(msg *genai.LiveServerMessage) (string, []byte) {
	if msg == nil || msg.ServerContent == nil || msg.ServerContent.ModelTurn == nil {
		return "", nil
	}
	var text string
	var pcm []byte
	for _, part := range msg.ServerContent.ModelTurn.Parts {
		if part == nil {
			continue
		}
		if part.Text != "" {
			text += part.Text
		}
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			pcm = append(pcm, part.InlineData.Data...)
		}
	}
	return text, pcm
}

func turnComplete(msg *genai.LiveServerMessage) bool {
	return msg != nil && msg.ServerContent != nil && msg.ServerContent.TurnComplete
}
