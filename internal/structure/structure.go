// Package structure asks a language model for a slide-by-slide outline of a
// presentation and parses the reply.
package structure

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrNotJSON means the reply could not be parsed as JSON after fence stripping.
	ErrNotJSON = errors.New("structure: reply is not JSON")
	// ErrMissingSlides means the reply parsed but has no "slides" array.
	ErrMissingSlides = errors.New(`structure: reply has no "slides" array`)
)

// Structure is the outline returned by the model.
type Structure struct {
	Slides []SlideSpec `json:"slides"`
}

// SlideSpec describes one slide: the layout to use and placeholder content.
type SlideSpec struct {
	LayoutName string  `json:"layout_name"`
	Content    Content `json:"content"`

	// unnamed is set when the decoded entry had no string layout_name.
	unnamed bool
}

// NamesLayout reports whether the spec carries a layout name at all. Decoded
// entries whose layout_name was missing or not a string never match a layout,
// not even one without a name.
func (s SlideSpec) NamesLayout() bool {
	return !s.unnamed
}

// UnmarshalJSON accepts whatever the model produced. A layout name that is not a
// string leaves the spec unnamed and content that is not an object becomes
// empty, so such slides are skipped or left blank instead of failing the whole
// outline.
func (s *SlideSpec) UnmarshalJSON(data []byte) error {
	*s = SlideSpec{unnamed: true}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	if v, ok := raw["layout_name"]; ok {
		var name string
		if json.Unmarshal(v, &name) == nil {
			s.LayoutName = name
			s.unnamed = false
		}
	}
	if v, ok := raw["content"]; ok {
		var c Content
		if json.Unmarshal(v, &c) == nil {
			s.Content = c
		}
	}
	return nil
}

// Content holds the placeholder values of a slide keyed by "title", "subtitle"
// and "points". Other keys are carried but never rendered.
type Content map[string]any

// Text returns the value of key as display text. Lists are joined with newlines.
func (c Content) Text(key string) (string, bool) {
	v, ok := c[key]
	if !ok {
		return "", false
	}
	return stringify(v), true
}

// Points returns the "points" entry when it is a list.
func (c Content) Points() ([]string, bool) {
	v, ok := c["points"].([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, len(v))
	for i, item := range v {
		out[i] = stringify(item)
	}
	return out, true
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = stringify(item)
		}
		return strings.Join(parts, "\n")
	case map[string]any:
		b, _ := json.Marshal(t)
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}

var fenceRe = regexp.MustCompile("(?s)```[A-Za-z0-9_-]*[ \t]*\r?\n?(.*?)```")

// StripFences returns the body of the first fenced code block in reply, or the
// trimmed reply when it has none.
func StripFences(reply string) string {
	if m := fenceRe.FindStringSubmatch(reply); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(reply)
}

// Parse decodes a model reply into a Structure.
func Parse(reply string) (Structure, error) {
	body := []byte(StripFences(reply))

	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return Structure{}, fmt.Errorf("%w: %v", ErrNotJSON, err)
	}
	raw, ok := top["slides"]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return Structure{}, ErrMissingSlides
	}
	var s Structure
	if err := json.Unmarshal(raw, &s.Slides); err != nil {
		return Structure{}, fmt.Errorf("%w: %v", ErrMissingSlides, err)
	}
	return s, nil
}
