package liveapi

import (
	"context"
	"time"
)

// ResponseTimeoutDuration converts the configured first-response timeout
// to a time.Duration.
func (c *Config) ResponseTimeoutDuration() time.Duration {
	return time.Duration(c.ResponseTimeout * float64(time.Second))
}

// TextChatOnce sends one prompt over a fresh text session and streams the
// reply through onChunk, returning the full response. Each prompt gets its
// own session, so turns are independent.
func TextChatOnce(ctx context.Context, client *Client, prompt string, onChunk TextChunkHandler) (string, error) {
	session, err := client.ConnectText(ctx)
	if err != nil {
		return "", err
	}
	defer session.Close()

	if err := session.SendText(prompt); err != nil {
		return "", err
	}
	return session.StreamText(ctx, onChunk)
}

// ExchangeAudioFile sends a mono PCM16 WAV file to the audio model and
// collects the spoken response. Input at other sample rates is resampled
// to the API's 16 kHz before sending. The returned turn may hold no PCM
// when the model answered with an empty turn; callers distinguish that
// from a timeout, which comes back as an ErrCodeTimeout error.
func ExchangeAudioFile(ctx context.Context, client *Client, inputPath string) (*AudioTurn, error) {
	samples, rate, err := ReadWAVFile(inputPath)
	if err != nil {
		return nil, err
	}

	cfg := client.Config()
	if rate != cfg.InputSampleRate {
		GetGlobalLogger().WithComponent("AudioExchange").
			Debugf("Resampling input from %d Hz to %d Hz", rate, cfg.InputSampleRate)
		samples = Resample(samples, rate, cfg.InputSampleRate)
	}

	session, err := client.ConnectAudio(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	if err := session.SendAudio(PCMToBytes(samples)); err != nil {
		return nil, err
	}
	return session.CollectAudioTurn(ctx, cfg.ResponseTimeoutDuration())
}

// SaveAudioTurn writes a collected turn to a WAV file. Empty turns are
// rejected so we never leave a zero-length recording on disk.
func SaveAudioTurn(turn *AudioTurn, path string) error {
	if turn == nil || len(turn.PCM) == 0 {
		return NewLiveError("no audio data in response", ErrCodeEmptyResponse)
	}
	return WriteWAVFile(path, BytesToPCM(turn.PCM), turn.SampleRate)
}
