package liveapi

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"google.golang.org/genai"
)

// fakeStream scripts server messages for the receive logic. Receive blocks
// on the msgs channel; closing it ends the stream with io.EOF.
type fakeStream struct {
	mu           sync.Mutex
	sentContent  []genai.LiveClientContentInput
	sentRealtime []genai.LiveRealtimeInput
	msgs         chan *genai.LiveServerMessage
	closed       bool
}

func newFakeStream() *fakeStream {
	return &fakeStream{msgs: make(chan *genai.LiveServerMessage, 16)}
}

func (f *fakeStream) SendClientContent(input genai.LiveClientContentInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sentContent = append(f.sentContent, input)
	return nil
}

func (f *fakeStream) SendRealtimeInput(input genai.LiveRealtimeInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sentRealtime = append(f.sentRealtime, input)
	return nil
}

func (f *fakeStream) Receive() (*genai.LiveServerMessage, error) {
	msg, ok := <-f.msgs
	if !ok {
		return nil, io.EOF
	}
	return msg, nil
}

func (f *fakeStream) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func textMsg(text string, complete bool) *genai.LiveServerMessage {
	return &genai.LiveServerMessage{
		ServerContent: &genai.LiveServerContent{
			ModelTurn:    &genai.Content{Parts: []*genai.Part{{Text: text}}},
			TurnComplete: complete,
		},
	}
}

func audioMsg(pcm []byte, complete bool) *genai.LiveServerMessage {
	return &genai.LiveServerMessage{
		ServerContent: &genai.LiveServerContent{
			ModelTurn: &genai.Content{Parts: []*genai.Part{
				{InlineData: &genai.Blob{Data: pcm, MIMEType: "audio/pcm;rate=24000"}},
			}},
			TurnComplete: complete,
		},
	}
}

func testSession(stream liveStream) *Session {
	cfg := NewConfig()
	return newSession(stream, cfg, GetGlobalLogger().WithComponent("test"))
}

func TestSendTextMarksTurnComplete(t *testing.T) {
	fake := newFakeStream()
	s := testSession(fake)

	if err := s.SendText("hello"); err != nil {
		t.Fatalf("SendText failed: %v", err)
	}

	if len(fake.sentContent) != 1 {
		t.Fatalf("Expected 1 client content message, got %d", len(fake.sentContent))
	}
	input := fake.sentContent[0]
	if input.TurnComplete == nil || !*input.TurnComplete {
		t.Error("Expected TurnComplete to be set")
	}
	if len(input.Turns) != 1 || input.Turns[0].Role != "user" {
		t.Errorf("Expected a single user turn, got %+v", input.Turns)
	}
	if input.Turns[0].Parts[0].Text != "hello" {
		t.Errorf("Expected text 'hello', got %q", input.Turns[0].Parts[0].Text)
	}
}

func TestSendAudioMIMEType(t *testing.T) {
	fake := newFakeStream()
	s := testSession(fake)

	if err := s.SendAudio([]byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("SendAudio failed: %v", err)
	}

	if len(fake.sentRealtime) != 1 {
		t.Fatalf("Expected 1 realtime message, got %d", len(fake.sentRealtime))
	}
	blob := fake.sentRealtime[0].Media
	if blob == nil {
		t.Fatal("Expected media blob")
	}
	if blob.MIMEType != "audio/pcm;rate=16000" {
		t.Errorf("Expected PCM 16k MIME type, got %q", blob.MIMEType)
	}
}

func TestSendAudioSkipsEmptyChunks(t *testing.T) {
	fake := newFakeStream()
	s := testSession(fake)

	if err := s.SendAudio(nil); err != nil {
		t.Fatalf("SendAudio failed: %v", err)
	}
	if len(fake.sentRealtime) != 0 {
		t.Errorf("Expected no realtime messages for empty chunk, got %d", len(fake.sentRealtime))
	}
}

func TestStreamTextAccumulatesUntilTurnComplete(t *testing.T) {
	fake := newFakeStream()
	fake.msgs <- textMsg("Hello, ", false)
	fake.msgs <- textMsg("world!", false)
	fake.msgs <- textMsg("", true)

	s := testSession(fake)
	var chunks []string
	got, err := s.StreamText(context.Background(), func(chunk string) {
		chunks = append(chunks, chunk)
	})
	if err != nil {
		t.Fatalf("StreamText failed: %v", err)
	}
	if got != "Hello, world!" {
		t.Errorf("Expected 'Hello, world!', got %q", got)
	}
	if strings.Join(chunks, "") != "Hello, world!" {
		t.Errorf("Chunks do not reassemble the reply: %v", chunks)
	}
}

func TestStreamTextEndsOnStreamClose(t *testing.T) {
	fake := newFakeStream()
	fake.msgs <- textMsg("partial reply", false)
	close(fake.msgs)

	s := testSession(fake)
	got, err := s.StreamText(context.Background(), nil)
	if err != nil {
		t.Fatalf("Expected content received before close to be returned, got error: %v", err)
	}
	if got != "partial reply" {
		t.Errorf("Expected 'partial reply', got %q", got)
	}
}

func TestCollectAudioTurnTimesOutWithNoResponse(t *testing.T) {
	fake := newFakeStream()
	s := testSession(fake)

	_, err := s.CollectAudioTurn(context.Background(), 50*time.Millisecond)
	if err == nil {
		t.Fatal("Expected timeout error")
	}
	if !IsErrorCode(err, ErrCodeTimeout) {
		t.Errorf("Expected %s, got %v", ErrCodeTimeout, err)
	}
	close(fake.msgs)
}

func TestCollectAudioTurnNoDeadlineAfterFirstChunk(t *testing.T) {
	fake := newFakeStream()
	s := testSession(fake)

	// First chunk arrives within the timeout; the rest arrives well after
	// the timeout would have fired and must still be collected.
	go func() {
		fake.msgs <- audioMsg([]byte{1, 1}, false)
		time.Sleep(150 * time.Millisecond)
		fake.msgs <- audioMsg([]byte{2, 2}, false)
		fake.msgs <- audioMsg(nil, true)
	}()

	turn, err := s.CollectAudioTurn(context.Background(), 100*time.Millisecond)
	if err != nil {
		t.Fatalf("CollectAudioTurn failed: %v", err)
	}
	want := []byte{1, 1, 2, 2}
	if string(turn.PCM) != string(want) {
		t.Errorf("Expected PCM %v, got %v", want, turn.PCM)
	}
	if turn.SampleRate != DefaultOutputSampleRate {
		t.Errorf("Expected sample rate %d, got %d", DefaultOutputSampleRate, turn.SampleRate)
	}
}

func TestCollectAudioTurnEmptyModelTurn(t *testing.T) {
	fake := newFakeStream()
	fake.msgs <- textMsg("", true)

	s := testSession(fake)
	turn, err := s.CollectAudioTurn(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("CollectAudioTurn failed: %v", err)
	}
	if len(turn.PCM) != 0 {
		t.Errorf("Expected no PCM data, got %d bytes", len(turn.PCM))
	}
}

func TestCollectAudioTurnKeepsTextAlongsideAudio(t *testing.T) {
	fake := newFakeStream()
	fake.msgs <- &genai.LiveServerMessage{
		ServerContent: &genai.LiveServerContent{
			ModelTurn: &genai.Content{Parts: []*genai.Part{
				{Text: "spoken transcript"},
				{InlineData: &genai.Blob{Data: []byte{9, 9}}},
			}},
			TurnComplete: true,
		},
	}

	s := testSession(fake)
	turn, err := s.CollectAudioTurn(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("CollectAudioTurn failed: %v", err)
	}
	if turn.Text != "spoken transcript" {
		t.Errorf("Expected transcript text, got %q", turn.Text)
	}
	if len(turn.PCM) != 2 {
		t.Errorf("Expected 2 PCM bytes, got %d", len(turn.PCM))
	}
}

func TestSessionCloseUpdatesState(t *testing.T) {
	fake := newFakeStream()
	s := testSession(fake)

	if s.State() != SessionOpen {
		t.Errorf("Expected open state, got %s", s.State())
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if s.State() != SessionClosed {
		t.Errorf("Expected closed state, got %s", s.State())
	}
	if !fake.closed {
		t.Error("Expected underlying stream to be closed")
	}
}

func TestAudioTurnDuration(t *testing.T) {
	turn := &AudioTurn{PCM: make([]byte, 48000), SampleRate: 24000}
	if got := turn.Duration(); got != time.Second {
		t.Errorf("Expected 1s duration, got %v", got)
	}

	empty := &AudioTurn{}
	if got := empty.Duration(); got != 0 {
		t.Errorf("Expected zero duration, got %v", got)
	}
}
