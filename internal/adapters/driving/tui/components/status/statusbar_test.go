package status

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aditya-mahendru/docMgr/internal/adapters/driving/tui/keymap"
)

func TestBar_States(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		message string
		count   int
		want    string
	}{
		{"ready", StateReady, "", 0, "Ready"},
		{"searching", StateSearching, "", 0, "Searching..."},
		{"working default", StateWorking, "", 0, "Working..."},
		{"working message", StateWorking, "Reprocessing doc-1", 0, "Reprocessing doc-1"},
		{"error", StateError, "store offline", 0, "Error: store offline"},
		{"bare error", StateError, "", 0, "Error"},
		{"one result", StateResults, "", 1, "1 result"},
		{"results", StateResults, "", 4, "4 results"},
		{"results message", StateResults, "Deleted doc-1", 0, "Deleted doc-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil)
			bar.SetWidth(100)
			bar.SetState(tt.state)
			bar.SetMessage(tt.message)
			bar.SetResultCount(tt.count)

			assert.Contains(t, bar.View(), tt.want)
		})
	}
}

func TestBar_Hints(t *testing.T) {
	km := keymap.DefaultKeyMap()
	bar := NewBar(nil)
	bar.SetWidth(120)
	bar.SetHints(km.ResultsHelp())

	view := bar.View()

	assert.Contains(t, view, "n: new search")
	assert.Contains(t, view, "esc: back")
}

func TestBar_Clear(t *testing.T) {
	bar := NewBar(nil)
	bar.SetState(StateError)
	bar.SetMessage("boom")
	bar.SetResultCount(3)

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Zero(t, bar.ResultCount())
}
