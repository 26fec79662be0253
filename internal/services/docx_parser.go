package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	docxBodyPart = "word/document.xml"
	// maxDocxBodySize bounds the decompressed body read from the archive.
	maxDocxBodySize = 32 << 20
)

var errDocxTooLarge = errors.New("docx body exceeds size limit")

// parseDOCX returns the paragraph texts of word/document.xml joined by newlines,
// in document order. Only w:t runs contribute text; w:tab and w:br inside a
// run map to whitespace. Tab stops declared in paragraph properties are not text.
func parseDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open docx archive: %w", err)
	}

	for _, file := range zr.File {
		if file.Name != docxBodyPart {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open %s: %w", docxBodyPart, err)
		}
		defer rc.Close()

		return readParagraphs(io.LimitReader(rc, maxDocxBodySize+1))
	}

	return "", fmt.Errorf("%s not found", docxBodyPart)
}

func readParagraphs(r io.Reader) (string, error) {
	counter := &countingReader{r: r}
	decoder := xml.NewDecoder(counter)

	var (
		paragraphs []string
		current    strings.Builder
		inPara     bool
		inRun      bool
		inText     bool
	)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			if counter.n > maxDocxBodySize {
				return "", errDocxTooLarge
			}
			return "", fmt.Errorf("failed to decode %s: %w", docxBodyPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inPara = true
				current.Reset()
			case "r":
				inRun = true
			case "t":
				inText = inRun
			case "tab":
				if inPara && inRun {
					current.WriteByte('\t')
				}
			case "br", "cr":
				if inPara && inRun {
					current.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				paragraphs = append(paragraphs, current.String())
				inPara = false
			case "r":
				inRun = false
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	if counter.n > maxDocxBodySize {
		return "", errDocxTooLarge
	}

	return strings.Join(paragraphs, "\n"), nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
