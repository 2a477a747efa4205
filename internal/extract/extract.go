// Package extract pulls plain text out of uploaded resume documents.
package extract

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	MIMEPDF   = "application/pdf"
	MIMEDocx  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEPlain = "text/plain"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrEmptyDocument   = errors.New("empty document")
)

// Extractor converts a document into text. It holds no state.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// Text returns the document text. PDF pages and DOCX paragraphs are joined
// with newlines.
func (e *Extractor) Text(mime string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyDocument
	}
	switch mime {
	case MIMEPlain:
		return string(data), nil
	case MIMEPDF:
		return extractPDFText(data)
	case MIMEDocx:
		return extractDocxText(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mime)
	}
}

func extractPDFText(data []byte) (text string, err error) {
	// The pdf package panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to read pdf: %v", r)
		}
	}()

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}
	numPages := pdfReader.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read pdf page %d: %w", i, err)
		}
		// Every text object starts on a new line, so pages carry a leading
		// newline of their own.
		if pageText = strings.TrimSpace(pageText); pageText != "" {
			pages = append(pages, pageText)
		}
	}
	return strings.Join(pages, "\n"), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return documentXMLText(doc.Editable().GetContent())
}

// documentXMLText flattens WordprocessingML body markup: text runs are kept,
// tabs and breaks become whitespace and each paragraph ends a line.
func documentXMLText(content string) (string, error) {
	var b strings.Builder
	dec := xml.NewDecoder(strings.NewReader(content))
	inText := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse docx body: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteByte('\t')
			case "br", "cr":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// MIMEFromName maps a file name to one of the supported MIME types, or ""
// when the extension is unknown.
func MIMEFromName(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".pdf"):
		return MIMEPDF
	case strings.HasSuffix(lower, ".docx"):
		return MIMEDocx
	case strings.HasSuffix(lower, ".txt"):
		return MIMEPlain
	default:
		return ""
	}
}
