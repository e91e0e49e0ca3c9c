package structure

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const plainReply = `{"slides":[{"layout_name":"Title Slide","content":{"title":"Q3","subtitle":"Review"}},{"layout_name":"Title and Content","content":{"title":"Numbers","points":["a","b","c"]}}]}`

func TestParseFencedMatchesPlain(t *testing.T) {
	want, err := Parse(plainReply)
	require.NoError(t, err)
	require.Len(t, want.Slides, 2)

	replies := map[string]string{
		"json fence":          "```json\n" + plainReply + "\n```",
		"bare fence":          "```\n" + plainReply + "\n```",
		"inline fence":        "```" + plainReply + "```",
		"surrounding prose":   "Here you go:\n```json\n" + plainReply + "\n```\nEnjoy!",
		"surrounding spaces":  "  \n" + plainReply + "\n\n",
		"uppercase lang text": "```JSON\n" + plainReply + "\n```",
	}
	for name, reply := range replies {
		t.Run(name, func(t *testing.T) {
			got, err := Parse(reply)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  error
	}{
		{"not json", "Sorry, I cannot help with that.", ErrNotJSON},
		{"empty", "", ErrNotJSON},
		{"array at top level", `[{"layout_name":"Title Slide"}]`, ErrNotJSON},
		{"missing slides", `{"deck":[]}`, ErrMissingSlides},
		{"null slides", `{"slides":null}`, ErrMissingSlides},
		{"slides not a list", `{"slides":"Title Slide"}`, ErrMissingSlides},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.reply)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestParseLenientSlides(t *testing.T) {
	s, err := Parse(`{"slides":[
		{"layout_name": 7, "content": {"title": "x"}},
		{"layout_name": "Title Only", "content": "just text"},
		"not an object",
		{"layout_name": "Title Only"},
		{"layout_name": "Title and Content", "content": {"title": 2024, "points": ["a", 1, true], "extra": "kept"}},
		{"content": {"title": "no layout"}},
		{"layout_name": null},
		{"layout_name": ""}
	]}`)
	require.NoError(t, err)
	require.Len(t, s.Slides, 8)

	assert.Equal(t, "", s.Slides[0].LayoutName)
	assert.False(t, s.Slides[0].NamesLayout())
	assert.Equal(t, "Title Only", s.Slides[1].LayoutName)
	assert.True(t, s.Slides[1].NamesLayout())
	assert.Empty(t, s.Slides[1].Content)
	assert.Empty(t, s.Slides[2].LayoutName)
	assert.Empty(t, s.Slides[2].Content)
	assert.False(t, s.Slides[2].NamesLayout())
	assert.Empty(t, s.Slides[3].Content)
	assert.False(t, s.Slides[5].NamesLayout())
	assert.False(t, s.Slides[6].NamesLayout())
	assert.True(t, s.Slides[7].NamesLayout())

	c := s.Slides[4].Content
	title, ok := c.Text("title")
	assert.True(t, ok)
	assert.Equal(t, "2024", title)
	points, ok := c.Points()
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "1", "true"}, points)
	assert.Equal(t, "kept", c["extra"])
}

func TestContent(t *testing.T) {
	c := Content{
		"title":    "Plan",
		"subtitle": []any{"line one", "line two"},
		"points":   "not a list",
		"nothing":  nil,
	}
	got, ok := c.Text("title")
	assert.True(t, ok)
	assert.Equal(t, "Plan", got)

	got, ok = c.Text("subtitle")
	assert.True(t, ok)
	assert.Equal(t, "line one\nline two", got)

	got, ok = c.Text("nothing")
	assert.True(t, ok)
	assert.Equal(t, "", got)

	_, ok = c.Text("missing")
	assert.False(t, ok)

	_, ok = c.Points()
	assert.False(t, ok)

	points, ok := Content{"points": []any{}}.Points()
	assert.True(t, ok)
	assert.Empty(t, points)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripFences(`  {"a":1}  `))
	assert.Equal(t, "first", StripFences("```\nfirst\n```\n```\nsecond\n```"))
}
