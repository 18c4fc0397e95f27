package liveapi

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// TranscriptEntry is one line of the conversation.
type TranscriptEntry struct {
	Role string // "user" or "model"
	Text string
	At   time.Time
}

// Transcript keeps the conversation history of a CLI run. Text chat opens
// a fresh session per prompt, so history lives here rather than on the
// wire.
type Transcript struct {
	mu         sync.Mutex
	entries    []TranscriptEntry
	maxEntries int
}

// NewTranscript creates a transcript capped at maxEntries lines; zero
// means unlimited.
func NewTranscript(maxEntries int) *Transcript {
	return &Transcript{maxEntries: maxEntries}
}

func (t *Transcript) AddUser(text string) {
	t.add("user", text)
}

func (t *Transcript) AddModel(text string) {
	t.add("model", text)
}

func (t *Transcript) add(role, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, TranscriptEntry{Role: role, Text: text, At: time.Now()})
	if t.maxEntries > 0 && len(t.entries) > t.maxEntries {
		t.entries = t.entries[len(t.entries)-t.maxEntries:]
	}
}

// Entries returns a copy of the history.
func (t *Transcript) Entries() []TranscriptEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	entries := make([]TranscriptEntry, len(t.entries))
	copy(entries, t.entries)
	return entries
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Clear drops the history.
func (t *Transcript) Clear() {
	t.mu.Lock()
	t.entries = nil
	t.mu.Unlock()
}

// String renders the history one "role: text" line at a time.
func (t *Transcript) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var sb strings.Builder
	for _, e := range t.entries {
		fmt.Fprintf(&sb, "%s: %s\n", e.Role, e.Text)
	}
	return sb.String()
}
