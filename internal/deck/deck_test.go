package deck

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"decksmith/internal/pptx"
	"decksmith/internal/pptx/pptxtest"
	"decksmith/internal/structure"
)

func newTestAssembler() *Assembler {
	return NewAssembler(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestInspect(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    []string
		wantErr error
	}{
		{
			name: "declaration order",
			data: pptxtest.Default(),
			want: []string{"Title Slide", "Title and Content", "Section Header", "Title Only", "Blank"},
		},
		{
			name: "potx",
			data: pptxtest.MustBuild(pptxtest.Builder{
				Layouts:    []pptxtest.Layout{{Name: "Only"}},
				AsTemplate: true,
			}),
			want: []string{"Only"},
		},
		{
			name:    "no layouts",
			data:    pptxtest.MustBuild(pptxtest.Builder{}),
			wantErr: ErrNoLayouts,
		},
		{
			name:    "garbage",
			data:    []byte("%PDF-1.4"),
			wantErr: pptx.ErrNotPresentation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Inspect(tt.data)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func slide(layout string, content structure.Content) structure.SlideSpec {
	return structure.SlideSpec{LayoutName: layout, Content: content}
}

func TestAssembleSlideOrder(t *testing.T) {
	s := structure.Structure{Slides: []structure.SlideSpec{
		slide("Title Slide", structure.Content{"title": "Deck"}),
		slide("Missing Layout", structure.Content{"title": "dropped"}),
		slide("Title Only", structure.Content{"title": "Agenda"}),
		slide("", nil),
		slide("Title and Content", structure.Content{"title": "Details"}),
		slide("title only", structure.Content{"title": "case matters"}),
	}}

	out, report, err := newTestAssembler().Assemble(pptxtest.Default(), s)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Added)
	assert.Equal(t, []string{"Missing Layout", "", "title only"}, report.Skipped)

	p, err := pptx.Open(out)
	require.NoError(t, err)
	var layouts, titles []string
	for _, sl := range p.Slides() {
		layouts = append(layouts, sl.LayoutName())
		titles = append(titles, sl.Placeholders()[0].Text())
	}
	assert.Equal(t, []string{"Title Slide", "Title Only", "Title and Content"}, layouts)
	assert.Equal(t, []string{"Deck", "Agenda", "Details"}, titles)
}

func TestAssembleUnnamedLayout(t *testing.T) {
	template := pptxtest.MustBuild(pptxtest.Builder{Layouts: []pptxtest.Layout{
		{Name: "Title Only", Placeholders: []pptxtest.Placeholder{{Type: "title"}}},
		{Name: "", Placeholders: []pptxtest.Placeholder{{Type: "title"}}},
	}})

	tests := []struct {
		name      string
		reply     string
		wantAdded int
	}{
		{
			name:      "non-string and missing layout names are skipped",
			reply:     `{"slides":[{"layout_name":42,"content":{}},{"content":{}},{"layout_name":null}]}`,
			wantAdded: 0,
		},
		{
			name:      "explicit empty name matches the unnamed layout",
			reply:     `{"slides":[{"layout_name":"","content":{"title":"x"}}]}`,
			wantAdded: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := structure.Parse(tt.reply)
			require.NoError(t, err)

			out, report, err := newTestAssembler().Assemble(template, s)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAdded, report.Added)
			assert.Len(t, report.Skipped, len(s.Slides)-tt.wantAdded)

			p, err := pptx.Open(out)
			require.NoError(t, err)
			assert.Len(t, p.Slides(), tt.wantAdded)
		})
	}
}

func TestAssemblePlaceholders(t *testing.T) {
	tests := []struct {
		name string
		spec structure.SlideSpec
		want [][]string
	}{
		{
			name: "title and subtitle",
			spec: slide("Title Slide", structure.Content{"title": "Q3 Review", "subtitle": "Finance"}),
			want: [][]string{{"Q3 Review"}, {"Finance"}},
		},
		{
			name: "title only content leaves subtitle empty",
			spec: slide("Title Slide", structure.Content{"title": "Q3 Review"}),
			want: [][]string{{"Q3 Review"}, {""}},
		},
		{
			name: "points become paragraphs",
			spec: slide("Title and Content", structure.Content{
				"title":  "Highlights",
				"points": []any{"one", "two", "three", "four"},
			}),
			want: [][]string{{"Highlights"}, {"one", "two", "three", "four"}},
		},
		{
			name: "single point",
			spec: slide("Title and Content", structure.Content{"points": []any{"only"}}),
			want: [][]string{{""}, {"only"}},
		},
		{
			name: "empty points clear the body",
			spec: slide("Title and Content", structure.Content{"title": "T", "points": []any{}}),
			want: [][]string{{"T"}, {""}},
		},
		{
			name: "points that are not a list are ignored",
			spec: slide("Title and Content", structure.Content{"title": "T", "points": "a, b"}),
			want: [][]string{{"T"}, {""}},
		},
		{
			name: "unmatched keys are dropped",
			spec: slide("Title Only", structure.Content{"title": "T", "notes": "n", "points": []any{"x"}}),
			want: [][]string{{"T"}},
		},
		{
			name: "multi-line title",
			spec: slide("Title Only", structure.Content{"title": "first\nsecond"}),
			want: [][]string{{"first", "second"}},
		},
		{
			name: "text placeholder is not a body match",
			spec: slide("Section Header", structure.Content{"title": "Part 1", "points": []any{"x"}}),
			want: [][]string{{"Part 1"}, {""}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, report, err := newTestAssembler().Assemble(pptxtest.Default(), structure.Structure{
				Slides: []structure.SlideSpec{tt.spec},
			})
			require.NoError(t, err)
			assert.Equal(t, 1, report.Added)

			p, err := pptx.Open(out)
			require.NoError(t, err)
			require.Len(t, p.Slides(), 1)
			var got [][]string
			for _, ph := range p.Slides()[0].Placeholders() {
				got = append(got, ph.Paragraphs())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAssembleKeepsTemplateSlides(t *testing.T) {
	tmpl := pptxtest.MustBuild(pptxtest.Builder{
		Layouts: pptxtest.DefaultLayouts(),
		Slides:  []pptxtest.Slide{{Layout: 3, Title: "Existing"}},
	})
	out, _, err := newTestAssembler().Assemble(tmpl, structure.Structure{Slides: []structure.SlideSpec{
		slide("Title Only", structure.Content{"title": "New"}),
	}})
	require.NoError(t, err)
	p, err := pptx.Open(out)
	require.NoError(t, err)
	require.Len(t, p.Slides(), 2)
	assert.Equal(t, "Existing", p.Slides()[0].Placeholders()[0].Text())
	assert.Equal(t, "New", p.Slides()[1].Placeholders()[0].Text())
}

func TestAssembleEmptyStructure(t *testing.T) {
	out, report, err := newTestAssembler().Assemble(pptxtest.Default(), structure.Structure{})
	require.NoError(t, err)
	assert.Zero(t, report.Added)
	p, err := pptx.Open(out)
	require.NoError(t, err)
	assert.Empty(t, p.Slides())
}

func TestAssembleInvalidTemplate(t *testing.T) {
	_, _, err := newTestAssembler().Assemble([]byte("nope"), structure.Structure{})
	assert.ErrorIs(t, err, pptx.ErrNotPresentation)
}
