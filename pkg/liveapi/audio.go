package liveapi

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
)

// AudioConfig holds the device-side audio parameters. Input matches what
// the Live API accepts (16 kHz mono PCM16); output matches what it returns
// (24 kHz mono PCM16).
type AudioConfig struct {
	InputSampleRate  int
	OutputSampleRate int
	Channels         int
	FrameSize        int
}

func NewAudioConfig() *AudioConfig {
	return &AudioConfig{
		InputSampleRate:  DefaultInputSampleRate,
		OutputSampleRate: DefaultOutputSampleRate,
		Channels:         1,
		FrameSize:        1024,
	}
}

// AudioIO owns the PortAudio lifetime and the capture/playback streams.
type AudioIO struct {
	config *AudioConfig
	logger *Logger

	mu               sync.Mutex
	captureState     CaptureState
	playbackState    PlaybackState
	capturing        bool
	currentAmplitude float32
	stream           *portaudio.Stream
}

// NewAudioIO initializes PortAudio. Call Cleanup when done.
func NewAudioIO(config *AudioConfig) (*AudioIO, error) {
	if config == nil {
		config = NewAudioConfig()
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, WrapError(err, ErrCodeAudioDevice)
	}
	return &AudioIO{
		config:        config,
		logger:        GetGlobalLogger().WithComponent("AudioIO"),
		captureState:  IdleCapture,
		playbackState: IdlePlayback,
	}, nil
}

// StartCapture opens the default input device and invokes handler with
// every captured PCM16 frame. The handler runs on the PortAudio callback
// thread and must not block.
func (a *AudioIO) StartCapture(handler AudioChunkHandler) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.capturing {
		return NewCaptureError("already capturing")
	}

	stream, err := portaudio.OpenDefaultStream(
		a.config.Channels, 0,
		float64(a.config.InputSampleRate), a.config.FrameSize,
		func(in []int16) {
			a.updateAmplitude(in)
			if handler != nil {
				chunk := make([]int16, len(in))
				copy(chunk, in)
				handler(chunk)
			}
		})
	if err != nil {
		a.captureState = ErrorCapture
		return WrapError(err, ErrCodeCapture)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		a.captureState = ErrorCapture
		return WrapError(err, ErrCodeCapture)
	}

	a.stream = stream
	a.capturing = true
	a.captureState = Capturing
	a.logger.Debug("Capture started")
	return nil
}

// StopCapture stops and closes the input stream.
func (a *AudioIO) StopCapture() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.capturing {
		return nil
	}
	a.capturing = false
	a.captureState = CompletedCapture

	var firstErr error
	if a.stream != nil {
		if err := a.stream.Stop(); err != nil {
			firstErr = WrapError(err, ErrCodeCapture)
		}
		if err := a.stream.Close(); err != nil && firstErr == nil {
			firstErr = WrapError(err, ErrCodeCapture)
		}
		a.stream = nil
	}
	a.logger.Debug("Capture stopped")
	return firstErr
}

// RecordSeconds captures from the microphone for the given duration and
// returns the samples. Used by the mic test.
func (a *AudioIO) RecordSeconds(duration float64) ([]int16, error) {
	var (
		mu      sync.Mutex
		samples []int16
	)
	err := a.StartCapture(func(chunk []int16) {
		mu.Lock()
		samples = append(samples, chunk...)
		mu.Unlock()
	})
	if err != nil {
		return nil, err
	}

	time.Sleep(time.Duration(duration * float64(time.Second)))

	if err := a.StopCapture(); err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()
	return samples, nil
}

// Play writes PCM16 samples to the default output device and blocks until
// playback finishes or a 1.5x duration safety margin elapses.
func (a *AudioIO) Play(samples []int16, sampleRate int) error {
	if len(samples) == 0 {
		return nil
	}
	if sampleRate <= 0 {
		return NewPlaybackError(fmt.Sprintf("invalid sample rate: %d", sampleRate))
	}

	a.setPlaybackState(PlayingPlayback)
	defer a.setPlaybackState(IdlePlayback)

	done := make(chan struct{}, 1)
	var (
		mu  sync.Mutex
		pos int
	)

	stream, err := portaudio.OpenDefaultStream(
		0, a.config.Channels,
		float64(sampleRate), a.config.FrameSize,
		func(out []int16) {
			mu.Lock()
			defer mu.Unlock()
			for i := range out {
				if pos < len(samples) {
					out[i] = samples[pos]
					pos++
				} else {
					out[i] = 0
				}
			}
			if pos >= len(samples) {
				select {
				case done <- struct{}{}:
				default:
				}
			}
		})
	if err != nil {
		a.setPlaybackState(ErrorPlayback)
		return WrapError(err, ErrCodePlayback)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		a.setPlaybackState(ErrorPlayback)
		return WrapError(err, ErrCodePlayback)
	}

	playTime := float64(len(samples)) / float64(sampleRate)
	select {
	case <-done:
	case <-time.After(time.Duration(playTime*1.5*float64(time.Second)) + time.Second):
		a.logger.Warn("Playback timed out")
	}

	if err := stream.Stop(); err != nil {
		return WrapError(err, ErrCodePlayback)
	}
	return nil
}

// PlayPCM plays raw little-endian PCM16 bytes, the format audio turns
// arrive in.
func (a *AudioIO) PlayPCM(pcm []byte, sampleRate int) error {
	return a.Play(BytesToPCM(pcm), sampleRate)
}

// MicTest records for the given duration and plays the clip back so the
// user can verify both directions of their audio setup.
func (a *AudioIO) MicTest(duration float64) error {
	a.logger.Infof("Recording for %.1f seconds", duration)
	samples, err := a.RecordSeconds(duration)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return NewCaptureError("no audio captured from microphone")
	}
	a.logger.Info("Recording finished, playing back for verification")
	return a.Play(samples, a.config.InputSampleRate)
}

func (a *AudioIO) updateAmplitude(in []int16) {
	if len(in) == 0 {
		return
	}
	var sum float64
	for _, v := range in {
		sum += math.Abs(float64(v))
	}
	a.mu.Lock()
	a.currentAmplitude = float32(sum / float64(len(in)) / math.MaxInt16)
	a.mu.Unlock()
}

func (a *AudioIO) setPlaybackState(state PlaybackState) {
	a.mu.Lock()
	a.playbackState = state
	a.mu.Unlock()
}

// CurrentAmplitude returns the normalized mean amplitude of the last
// captured frame, in [0, 1].
func (a *AudioIO) CurrentAmplitude() float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.currentAmplitude
}

func (a *AudioIO) CaptureState() CaptureState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.captureState
}

func (a *AudioIO) PlaybackState() PlaybackState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.playbackState
}

func (a *AudioIO) IsCapturing() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.capturing
}

// Cleanup stops any capture in progress and terminates PortAudio.
func (a *AudioIO) Cleanup() {
	a.StopCapture()
	if err := portaudio.Terminate(); err != nil {
		a.logger.WithError(err).Error("Failed to terminate PortAudio")
	}
}
