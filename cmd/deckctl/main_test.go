package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"decksmith/internal/app"
	"decksmith/internal/deck"
	"decksmith/internal/generator"
	"decksmith/internal/llm"
	"decksmith/internal/pptx"
	"decksmith/internal/pptx/pptxtest"
	"decksmith/internal/structure"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestLayoutsCmd(t *testing.T) {
	tmpl := writeFile(t, "template.pptx", pptxtest.Default())
	want := []string{"Title Slide", "Title and Content", "Section Header", "Title Only", "Blank"}

	t.Run("text", func(t *testing.T) {
		out, err := run(t, "layouts", tmpl)
		require.NoError(t, err)
		assert.Equal(t, strings.Join(want, "\n")+"\n", out)
	})

	t.Run("json", func(t *testing.T) {
		out, err := run(t, "layouts", tmpl, "--format", "json")
		require.NoError(t, err)
		var got layoutsOutput
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, want, got.Layouts)
	})

	t.Run("yaml", func(t *testing.T) {
		out, err := run(t, "layouts", tmpl, "--format", "yaml")
		require.NoError(t, err)
		var got layoutsOutput
		require.NoError(t, yaml.Unmarshal([]byte(out), &got))
		assert.Equal(t, want, got.Layouts)
		assert.Equal(t, tmpl, got.Template)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := run(t, "layouts", tmpl, "--format", "xml")
		assert.Error(t, err)
	})

	t.Run("not a template", func(t *testing.T) {
		_, err := run(t, "layouts", writeFile(t, "notes.txt", []byte("hello")))
		assert.ErrorIs(t, err, pptx.ErrNotPresentation)
	})

	t.Run("missing argument", func(t *testing.T) {
		_, err := run(t, "layouts")
		assert.Error(t, err)
	})
}

func TestGenerateCmd(t *testing.T) {
	factory := new(llm.MockFactory)
	client := new(llm.MockClient)
	factory.On("New", mock.Anything, "sk-env").Return(client, nil).Once()
	client.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "Quarterly numbers") && strings.Contains(p, "Appendix text")
	})).Return(`{"slides":[{"layout_name":"Title Slide","content":{"title":"Q3"}},{"layout_name":"Nope"}]}`, nil).Once()

	orig := buildDeps
	buildDeps = func(io.Writer) (app.Deps, error) {
		log := slog.New(slog.NewTextHandler(io.Discard, nil))
		return app.Deps{
			Log:       log,
			Generator: generator.New(factory, structure.NewRequester(nil, log), deck.NewAssembler(log), log),
		}, nil
	}
	t.Cleanup(func() { buildDeps = orig })
	t.Setenv(apiKeyEnv, "sk-env")

	tmpl := writeFile(t, "template.pptx", pptxtest.Default())
	text := writeFile(t, "text.txt", []byte("Quarterly numbers"))
	src := writeFile(t, "appendix.txt", []byte("Appendix text"))
	outPath := filepath.Join(t.TempDir(), "deck.pptx")

	out, err := run(t, "generate", "--template", tmpl, "--text-file", text, "--source", src, "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "1 slides (1 skipped)")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	p, err := pptx.Open(data)
	require.NoError(t, err)
	assert.Len(t, p.Slides(), 1)

	factory.AssertExpectations(t)
	client.AssertExpectations(t)
}

func TestGenerateCmdRequiresAPIKey(t *testing.T) {
	t.Setenv(apiKeyEnv, "")
	tmpl := writeFile(t, "template.pptx", pptxtest.Default())
	text := writeFile(t, "text.txt", []byte("hello"))

	_, err := run(t, "generate", "--template", tmpl, "--text-file", text)
	assert.ErrorContains(t, err, "API key")

	_, err = run(t, "generate", "--text-file", text, "--api-key", "k")
	assert.Error(t, err, "--template is required")
}

func TestOutlineCmd(t *testing.T) {
	p, err := pptx.Open(pptxtest.Default())
	require.NoError(t, err)
	l, _ := p.Layout("Title and Content")
	s := p.AddSlide(l)
	s.Placeholders()[0].SetText("Highlights")
	s.Placeholders()[1].SetParagraphs([]string{"one", "two"})
	data, err := p.Bytes()
	require.NoError(t, err)

	out, err := run(t, "outline", writeFile(t, "deck.pptx", data))
	require.NoError(t, err)
	assert.Equal(t, "1. Title and Content\n"+
		"   Title 1 [title]\n"+
		"     - Highlights\n"+
		"   Content Placeholder 2 [obj]\n"+
		"     - one\n"+
		"     - two\n", out)
}

func TestPreviewCmdValidatesInput(t *testing.T) {
	_, err := run(t, "preview", "deck.pptx", "--width", "0")
	assert.ErrorContains(t, err, "--width")

	_, err = run(t, "preview", filepath.Join(t.TempDir(), "missing.pptx"), "--out", t.TempDir())
	assert.Error(t, err)
}
