// Package numbering issues the human-readable, year-scoped numbers carried by
// quotes, sales orders and service contracts, e.g. P2025-0001.
//
// A number is <PREFIX><YYYY>-<NNNN+>: the type prefix, the four-digit year of
// issuance, a dash, and the sequence zero-padded to at least four digits.
package numbering

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"crmapi/internal/model"
)

var (
	ErrUnknownDocumentType = errors.New("unknown document type")
	ErrMalformedNumber     = errors.New("malformed document number")
)

var prefixes = map[model.DocumentType]string{
	model.DocumentQuote:           "P",
	model.DocumentSalesOrder:      "OV",
	model.DocumentServiceContract: "SC",
}

var trailingDigits = regexp.MustCompile(`(\d+)$`)

// Prefix returns the type code of t.
func Prefix(t model.DocumentType) (string, error) {
	p, ok := prefixes[t]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDocumentType, t)
	}
	return p, nil
}

// SeriesPrefix returns "<PREFIX><YYYY>-", the part shared by every number of
// one (type, year) sequence.
func SeriesPrefix(t model.DocumentType, year int) (string, error) {
	p, err := Prefix(t)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d-", p, year), nil
}

// Format renders sequence n of a series. Sequences past 9999 widen without
// truncation.
func Format(series string, n int) string {
	return fmt.Sprintf("%s%04d", series, n)
}

// ParseSequence extracts the sequence of a number issued in series.
// Numbers outside the series or without a trailing digit run are rejected
// with ErrMalformedNumber rather than treated as an empty sequence.
func ParseSequence(number, series string) (int, error) {
	rest, ok := strings.CutPrefix(number, series)
	if !ok || rest == "" {
		return 0, fmt.Errorf("%w: %q is not in series %q", ErrMalformedNumber, number, series)
	}
	m := trailingDigits.FindString(rest)
	if m == "" || m != rest {
		return 0, fmt.Errorf("%w: %q", ErrMalformedNumber, number)
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrMalformedNumber, number, err)
	}
	return n, nil
}
