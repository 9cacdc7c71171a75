package loader

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Real-world docx files are frequently produced by generators that cut
// corners on the XML spec, so the decoders run in non-strict mode.
func newLenientDecoder(r io.Reader) *xml.Decoder {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	return dec
}

// extractDocxDocument parses word/document.xml from the OOXML package.
// Text runs (w:t) concatenate within a paragraph (w:p); paragraphs become
// lines. Tolerant of schema details we never need, intolerant of a missing
// or malformed document part.
func extractDocxDocument(_ context.Context, data []byte) (string, int, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("open docx package: %w", err)
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", 0, errors.New("word/document.xml missing from package")
	}

	rc, err := doc.Open()
	if err != nil {
		return "", 0, fmt.Errorf("open document part: %w", err)
	}
	defer rc.Close()

	text, err := paragraphText(rc)
	if err != nil {
		return "", 0, err
	}
	return text, 0, nil
}

func paragraphText(r io.Reader) (string, error) {
	dec := newLenientDecoder(r)
	var b strings.Builder
	var inText bool
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode document xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
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
	return b.String(), nil
}

// scanPackagedXML is the last-resort word strategy: walk every XML part
// under word/ and collect any character data found, losing all structure
// but salvaging text from packages the paragraph parser rejects.
func scanPackagedXML(_ context.Context, data []byte) (string, int, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("open package: %w", err)
	}

	var b strings.Builder
	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, "word/") || !strings.HasSuffix(f.Name, ".xml") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			continue
		}
		dec := newLenientDecoder(rc)
		for {
			tok, err := dec.Token()
			if err != nil {
				break
			}
			if cd, ok := tok.(xml.CharData); ok {
				if s := strings.TrimSpace(string(cd)); s != "" {
					b.WriteString(s)
					b.WriteByte(' ')
				}
			}
		}
		rc.Close()
	}

	if b.Len() == 0 {
		return "", 0, errors.New("no character data in packaged xml")
	}
	return b.String(), 0, nil
}
