package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func apply(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestRowLifecycle(t *testing.T) {
	m := apply(t, NewModel(),
		startMsg{ID: "track-1"},
		totalMsg{ID: "track-1", Total: 1000},
		positionMsg{ID: "track-1", Position: 500},
		messageMsg{ID: "track-1", Text: "Artist - Song.flac"},
	)

	if len(m.rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(m.rows))
	}
	r := m.rows[0]
	if r.total != 1000 || r.position != 500 || r.done {
		t.Errorf("unexpected row state: %+v", r)
	}
	if !strings.Contains(m.View(), "Artist - Song.flac") {
		t.Error("view does not show the track label")
	}
}

func TestFinishMarksRowDone(t *testing.T) {
	m := apply(t, NewModel(),
		startMsg{ID: "track-1"},
		finishMsg{ID: "track-1", Text: "Downloaded Artist - Song.flac"},
	)

	if !m.rows[0].done {
		t.Error("row not marked done")
	}
	if !strings.Contains(m.View(), "Downloaded Artist - Song.flac") {
		t.Error("view does not show the closing message")
	}
}

func TestUpdatesForUnknownTrackAreIgnored(t *testing.T) {
	m := apply(t, NewModel(), positionMsg{ID: "nope", Position: 10})
	if len(m.rows) != 0 {
		t.Errorf("rows = %d, want 0", len(m.rows))
	}
}

func TestRowsKeepStartOrder(t *testing.T) {
	m := apply(t, NewModel(),
		startMsg{ID: "b"},
		startMsg{ID: "a"},
		finishMsg{ID: "b", Text: "done b"},
	)

	if m.rows[0].id != "b" || m.rows[1].id != "a" {
		t.Errorf("row order = %q, %q; want b, a", m.rows[0].id, m.rows[1].id)
	}
}
