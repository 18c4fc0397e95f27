package liveapi

import (
	"fmt"
	"time"
)

// SessionState enum
type SessionState string

const (
	SessionIdle      SessionState = "idle"
	SessionOpen      SessionState = "open"
	SessionReceiving SessionState = "receiving"
	SessionClosed    SessionState = "closed"
	SessionError     SessionState = "error"
)

// CaptureState enum
type CaptureState string

const (
	IdleCapture      CaptureState = "idle"
	Capturing        CaptureState = "capturing"
	CompletedCapture CaptureState = "completed"
	ErrorCapture     CaptureState = "error"
)

// PlaybackState enum
type PlaybackState string

const (
	IdlePlayback    PlaybackState = "idle"
	PlayingPlayback PlaybackState = "playing"
	ErrorPlayback   PlaybackState = "error"
)

// LiveError struct
type LiveError struct {
	Message   string
	Code      string
	Timestamp time.Time
	err       error
	Details   map[string]interface{}
}

func (e *LiveError) Error() string {
	msg := e.Message
	if e.err != nil {
		msg = e.err.Error()
	}
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s", e.Code, msg)
	}
	return msg
}

func (e *LiveError) Unwrap() error {
	return e.err
}

func NewLiveError(message, code string) *LiveError {
	return &LiveError{
		Message:   message,
		Code:      code,
		Timestamp: time.Now(),
	}
}

// AudioTurn holds one complete model turn of an audio session: the
// concatenated inline PCM data plus any text parts that came with it.
type AudioTurn struct {
	PCM        []byte
	Text       string
	SampleRate int
}

// Duration reports the playback length of the collected PCM.
func (t *AudioTurn) Duration() time.Duration {
	if t.SampleRate <= 0 {
		return 0
	}
	samples := len(t.PCM) / 2 // 16-bit mono
	return time.Duration(float64(samples) / float64(t.SampleRate) * float64(time.Second))
}

// Handler types
type TextChunkHandler func(string)
type AudioChunkHandler func([]int16)
type ErrorHandler func(*LiveError)
type StateHandler func(SessionState)
