package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pactlens/pactlens/constants"
)

// docxToText pulls text out of a .docx container (a zip holding
// WordprocessingML). Paragraph ends become newlines, tabs become tabs;
// everything else in the markup is dropped.
func docxToText(data []byte) (Result, error) {
	body, err := zipEntry(data, "word/document.xml")
	if err != nil {
		return Result{}, &ExtractionError{Format: constants.DOCX, Cause: err}
	}
	text, paras, err := wordMLText(body, "p", "tab", "br")
	if err != nil {
		return Result{}, &ExtractionError{Format: constants.DOCX, Cause: err}
	}
	return Result{
		Text:     text,
		Metadata: map[string]string{"paragraphs": strconv.Itoa(paras), "decoder": "docx"},
	}, nil
}

// odtToText does the same for OpenDocument text: content.xml inside the zip.
func odtToText(data []byte) (Result, error) {
	body, err := zipEntry(data, "content.xml")
	if err != nil {
		return Result{}, &ExtractionError{Format: constants.ODT, Cause: err}
	}
	text, paras, err := wordMLText(body, "p", "tab", "line-break")
	if err != nil {
		return Result{}, &ExtractionError{Format: constants.ODT, Cause: err}
	}
	return Result{
		Text:     text,
		Metadata: map[string]string{"paragraphs": strconv.Itoa(paras), "decoder": "odt"},
	}, nil
}

func zipEntry(data []byte, name string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open container: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%s not found in container", name)
}

// wordMLText walks the XML token stream collecting character data, ending a
// paragraph on </paraTag> and mapping tabTag/brTag elements to whitespace.
func wordMLText(body []byte, paraTag, tabTag, brTag string) (string, int, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	var b strings.Builder
	paras := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", 0, fmt.Errorf("parse xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			switch t.Name.Local {
			case tabTag:
				b.WriteByte('\t')
			case brTag:
				b.WriteByte('\n')
			}
		case xml.EndElement:
			if t.Name.Local == paraTag {
				b.WriteByte('\n')
				paras++
			}
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n", paras, nil
}
