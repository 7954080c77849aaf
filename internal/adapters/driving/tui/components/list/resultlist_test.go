package list

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
)

func sampleResults() []domain.SearchResult {
	return []domain.SearchResult{
		{
			DocumentID: "doc-1",
			ChunkIndex: 2,
			Text:       "The ferry leaves\nat nine.",
			Score:      0.91,
			Metadata:   domain.RecordMetadata{Filename: "ferry.txt"},
		},
		{DocumentID: "doc-2", ChunkIndex: 0, Text: "Winter timetable", Score: 0.62},
	}
}

func TestResultList_Empty(t *testing.T) {
	l := NewResultList(nil)

	assert.Equal(t, 0, l.Count())
	assert.Nil(t, l.SelectedResult())
	assert.Contains(t, l.View(), "No chunks above the threshold")
}

func TestResultList_View(t *testing.T) {
	l := NewResultList(nil)
	l.SetDimensions(80, 20)
	l.SetResults(sampleResults())

	view := l.View()

	assert.Contains(t, view, "Results (2)")
	assert.Contains(t, view, "ferry.txt #2")
	assert.Contains(t, view, "doc-2 #0")
	assert.Contains(t, view, "0.91")
	assert.Contains(t, view, "The ferry leaves at nine.")
}

func TestResultList_Navigation(t *testing.T) {
	l := NewResultList(nil)
	l.SetResults(sampleResults())

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, l.Selected())

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 1, l.Selected(), "stops at the last result")

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 0, l.Selected())

	l.MoveUp()
	assert.Equal(t, 0, l.Selected())

	selected := l.SelectedResult()
	require.NotNil(t, selected)
	assert.Equal(t, "doc-1", selected.DocumentID)
}

func TestResultList_SetResultsResetsSelection(t *testing.T) {
	l := NewResultList(nil)
	l.SetResults(sampleResults())
	l.SetSelected(1)

	l.SetResults(sampleResults()[:1])

	assert.Equal(t, 0, l.Selected())
	l.SetSelected(5)
	assert.Equal(t, 0, l.Selected())
}

func TestResultList_ScrollsToSelection(t *testing.T) {
	results := make([]domain.SearchResult, 10)
	for i := range results {
		results[i] = domain.SearchResult{DocumentID: "doc", ChunkIndex: i, Score: 0.7}
	}
	l := NewResultList(nil)
	l.SetDimensions(80, 6)
	l.SetResults(results)
	l.SetSelected(9)

	view := l.View()

	assert.Contains(t, view, "doc #9")
	assert.NotContains(t, view, "doc #0")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "harbo...", Truncate("harbour ferry", 8))
	assert.Equal(t, "ünï...", Truncate("ünïcode text", 6))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
}
