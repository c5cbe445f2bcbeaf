package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstVerseSkipsMarkersAndBlanks(t *testing.T) {
	lyrics := &Lyrics{
		Title: "Rain",
		Lines: []string{
			"[Verse 1]",
			"Rain falls on the window",
			"",
			"Soft light in the hall",
			"I hear you in the silence",
			"Waiting for your call",
			"[Chorus]",
			"And we run, we run",
		},
	}

	verse := lyrics.FirstVerse()
	assert.Equal(t, []string{
		"Rain falls on the window",
		"Soft light in the hall",
		"I hear you in the silence",
		"Waiting for your call",
	}, verse)
}

func TestFirstVerseShortLyrics(t *testing.T) {
	lyrics := &Lyrics{Lines: []string{"One lonely line"}}
	assert.Equal(t, []string{"One lonely line"}, lyrics.FirstVerse())

	empty := &Lyrics{Lines: []string{"[Verse]", "  "}}
	assert.Empty(t, empty.FirstVerse())
}

func TestVerseWordsFlattensInOrder(t *testing.T) {
	lyrics := &Lyrics{
		Lines: []string{
			"Rain falls down",
			"on my street",
		},
	}
	assert.Equal(t, []string{"Rain", "falls", "down", "on", "my", "street"}, lyrics.VerseWords())
}

func TestLyricsText(t *testing.T) {
	lyrics := &Lyrics{Lines: []string{"line one", "line two"}}
	assert.Equal(t, "line one\nline two", lyrics.Text())
}
