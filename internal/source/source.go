// Package source extracts plain text from an optional source attachment.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

// ErrUnsupported is returned for attachments that are neither PDF nor text.
var ErrUnsupported = errors.New("source: unsupported file type")

// Extract returns the text of a PDF or plain-text attachment.
func Extract(content []byte) (string, error) {
	if len(content) == 0 {
		return "", nil
	}
	mt := mimetype.Detect(content)
	switch {
	case mt.Is("application/pdf"):
		text, err := extractPDF(content)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnsupported, err)
		}
		return text, nil
	case isText(mt):
		if !utf8.Valid(content) {
			return "", fmt.Errorf("%w: text is not valid UTF-8", ErrUnsupported)
		}
		return string(content), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, mt.String())
	}
}

func isText(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

func extractPDF(content []byte) (text string, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf: %v", r)
		}
	}()

	pdfReader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}

	var textBuilder strings.Builder
	numPages := pdfReader.NumPage()

	for pageNum := 1; pageNum <= numPages; pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() || page.V.Key("Contents").Kind() == pdf.Null {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages that fail to extract
			continue
		}
		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n")
	}

	return textBuilder.String(), nil
}
