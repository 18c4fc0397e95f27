package liveapi

import (
	"strings"
	"testing"
)

func TestTranscriptAddAndEntries(t *testing.T) {
	tr := NewTranscript(0)
	tr.AddUser("hello")
	tr.AddModel("hi there")

	if tr.Len() != 2 {
		t.Fatalf("Expected 2 entries, got %d", tr.Len())
	}

	entries := tr.Entries()
	if entries[0].Role != "user" || entries[0].Text != "hello" {
		t.Errorf("Unexpected first entry: %+v", entries[0])
	}
	if entries[1].Role != "model" || entries[1].Text != "hi there" {
		t.Errorf("Unexpected second entry: %+v", entries[1])
	}

	// Mutating the returned slice must not affect the transcript.
	entries[0].Text = "changed"
	if tr.Entries()[0].Text != "hello" {
		t.Error("Entries returned a live reference instead of a copy")
	}
}

func TestTranscriptCap(t *testing.T) {
	tr := NewTranscript(2)
	tr.AddUser("one")
	tr.AddModel("two")
	tr.AddUser("three")

	if tr.Len() != 2 {
		t.Fatalf("Expected capped length 2, got %d", tr.Len())
	}
	entries := tr.Entries()
	if entries[0].Text != "two" || entries[1].Text != "three" {
		t.Errorf("Expected oldest entry dropped, got %+v", entries)
	}
}

func TestTranscriptClear(t *testing.T) {
	tr := NewTranscript(0)
	tr.AddUser("hello")
	tr.Clear()
	if tr.Len() != 0 {
		t.Errorf("Expected empty transcript after Clear, got %d entries", tr.Len())
	}
}

func TestTranscriptString(t *testing.T) {
	tr := NewTranscript(0)
	tr.AddUser("hello")
	tr.AddModel("hi")

	got := tr.String()
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d: %q", len(lines), got)
	}
	if lines[0] != "user: hello" || lines[1] != "model: hi" {
		t.Errorf("Unexpected rendering: %q", got)
	}
}
