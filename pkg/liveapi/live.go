package liveapi

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// LiveVoice runs the real-time voice loop: one goroutine streams captured
// microphone chunks into the session while the main flow waits for the
// user to stop recording; then the model's audio turn is collected and
// played through the speakers.
type LiveVoice struct {
	client *Client
	audio  *AudioIO
	logger *Logger
	in     io.Reader
	out    io.Writer
}

func NewLiveVoice(client *Client, audio *AudioIO) *LiveVoice {
	return &LiveVoice{
		client: client,
		audio:  audio,
		logger: GetGlobalLogger().WithComponent("LiveVoice"),
		in:     os.Stdin,
		out:    os.Stdout,
	}
}

// Run drives recording turns until the user types quit/exit or input ends.
func (lv *LiveVoice) Run(ctx context.Context) error {
	session, err := lv.client.ConnectAudio(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	theme := CurrentTheme()
	fmt.Fprintln(lv.out, theme.Status.Render("Starting real-time audio session..."))
	fmt.Fprintln(lv.out, theme.Status.Render(">> Type 'quit' or 'exit' to end the session."))

	reader := bufio.NewReader(lv.in)
	for {
		fmt.Fprintln(lv.out, theme.Prompt.Render(">> Press Enter to stop recording, type 'quit' or 'exit' to end the session."))

		line, readErr := lv.recordTurn(ctx, session, reader)
		if readErr == io.EOF && line == "" {
			return nil
		}
		if readErr != nil && readErr != io.EOF {
			return readErr
		}
		if IsQuitCommand(line) {
			fmt.Fprintln(lv.out, theme.Status.Render("Ending audio session."))
			return nil
		}

		fmt.Fprintln(lv.out, theme.Status.Render("Recording stopped. Receiving response from model..."))
		turn, err := session.CollectAudioTurn(ctx, lv.client.Config().ResponseTimeoutDuration())
		if err != nil {
			if IsErrorCode(err, ErrCodeTimeout) {
				fmt.Fprintln(lv.out, theme.Error.Render(fmt.Sprintf(
					"Model did not provide any response within %.0f seconds.",
					lv.client.Config().ResponseTimeout)))
				continue
			}
			return err
		}
		if len(turn.PCM) == 0 {
			fmt.Fprintln(lv.out, theme.Status.Render("No audio data was received in the response."))
			continue
		}

		fmt.Fprintln(lv.out, theme.Status.Render(fmt.Sprintf(
			"Audio response received (%s). Playing now...", turn.Duration().Round(10*time.Millisecond))))
		if err := lv.audio.PlayPCM(turn.PCM, turn.SampleRate); err != nil {
			return err
		}
		fmt.Fprintln(lv.out, theme.Status.Render("Playback finished."))
	}
}

// recordTurn captures the microphone and streams it to the session until
// the user finishes the line. Returns what they typed.
func (lv *LiveVoice) recordTurn(ctx context.Context, session *Session, reader *bufio.Reader) (string, error) {
	chunks := make(chan []int16, 64)

	if err := lv.audio.StartCapture(func(chunk []int16) {
		// Runs on the PortAudio callback thread; drop instead of blocking
		// when the sender falls behind.
		select {
		case chunks <- chunk:
		default:
			lv.logger.Debug("Dropping mic chunk, sender is behind")
		}
	}); err != nil {
		return "", err
	}

	senderDone := make(chan error, 1)
	go func() {
		for chunk := range chunks {
			if err := session.SendAudio(PCMToBytes(chunk)); err != nil {
				senderDone <- err
				for range chunks {
					// discard until the channel closes
				}
				return
			}
		}
		senderDone <- nil
	}()

	line, readErr := reader.ReadString('\n')

	stopErr := lv.audio.StopCapture()
	close(chunks)
	sendErr := <-senderDone

	if sendErr != nil {
		return line, sendErr
	}
	if stopErr != nil {
		return line, stopErr
	}
	return line, readErr
}
