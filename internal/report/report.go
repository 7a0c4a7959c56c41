// Package report builds export artifacts (CSV or a printable document) from
// a user's records over a date range.
package report

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFormat is returned for unknown export formats.
var ErrInvalidFormat = errors.New("invalid report format")

// Format is the export encoding.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatPrint Format = "pdf"
)

// ParseFormat accepts "csv", "pdf" and "html". The last two both produce the
// printable document.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "csv":
		return FormatCSV, nil
	case "pdf", "html", "print":
		return FormatPrint, nil
	}
	return "", ErrInvalidFormat
}

func (f Format) extension() string {
	if f == FormatPrint {
		return "html"
	}
	return "csv"
}

func (f Format) mimeType() string {
	if f == FormatPrint {
		return "text/html; charset=utf-8"
	}
	return "text/csv; charset=utf-8"
}

// Artifact is a rendered export ready to be downloaded or stored.
type Artifact struct {
	Filename string
	MIMEType string
	Bytes    []byte
	RowCount int
}

// Filename returns relatorio_<categories>_<start>_a_<end>.<ext>.
func Filename(rng Range, cats []Category, f Format) string {
	loc := rng.Location()
	return fmt.Sprintf("relatorio_%s_%s_a_%s.%s",
		categorySlug(cats),
		rng.Start.In(loc).Format(dateLayout),
		rng.End.In(loc).Format(dateLayout),
		f.extension(),
	)
}

// Build validates the category selection and renders the artifact. The
// category check runs before anything else so an empty selection never
// produces output.
func Build(data Dataset, rng Range, cats []Category, f Format) (*Artifact, error) {
	cats, err := normalizeCategories(cats)
	if err != nil {
		return nil, err
	}
	if rng.Start.After(rng.End) {
		return nil, ErrInvalidRange
	}
	if f != FormatCSV && f != FormatPrint {
		return nil, ErrInvalidFormat
	}

	rows := Rows(data, rng, cats)

	var body []byte
	switch f {
	case FormatCSV:
		body = EncodeCSV(rows)
	case FormatPrint:
		body, err = RenderDocument(rows, rng, cats)
		if err != nil {
			return nil, fmt.Errorf("render report document: %w", err)
		}
	}

	return &Artifact{
		Filename: Filename(rng, cats, f),
		MIMEType: f.mimeType(),
		Bytes:    body,
		RowCount: len(rows),
	}, nil
}
