package numbering

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"crmapi/internal/model"
)

// DBTX is satisfied by *sql.DB and *sql.Tx. Next must be given the
// transaction that also inserts the numbered document.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var tables = map[model.DocumentType]string{
	model.DocumentQuote:           "quotes",
	model.DocumentSalesOrder:      "sales_orders",
	model.DocumentServiceContract: "service_contracts",
}

// Table returns the table holding documents of type t.
func Table(t model.DocumentType) (string, error) {
	tbl, ok := tables[t]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDocumentType, t)
	}
	return tbl, nil
}

// Sequencer hands out numbers from the per-(prefix, year) rows of
// document_counters. The counter UPDATE takes a row lock held until the
// surrounding transaction ends, so concurrent issuers of one series are
// serialised and never read the same value.
type Sequencer struct {
	tracer trace.Tracer
	loc    *time.Location
}

// NewSequencer creates a Sequencer that reads the year of issuance in loc.
// A nil loc means UTC.
func NewSequencer(loc *time.Location) *Sequencer {
	if loc == nil {
		loc = time.UTC
	}
	return &Sequencer{tracer: otel.Tracer("crmapi/numbering"), loc: loc}
}

// Next issues the next number of type t for the year now falls in, as seen
// from the Sequencer's location.
//
// A series without a counter row is seeded from the highest number already
// stored in the document table, so data written before counters existed
// keeps its sequence. An unparsable stored number aborts with
// ErrMalformedNumber.
func (s *Sequencer) Next(ctx context.Context, q DBTX, t model.DocumentType, now time.Time) (string, error) {
	year := now.In(s.loc).Year()
	ctx, span := s.tracer.Start(ctx, "numbering.Next",
		trace.WithAttributes(attribute.String("document.type", string(t)), attribute.Int("document.year", year)))
	defer span.End()

	number, err := s.next(ctx, q, t, year)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetAttributes(attribute.String("document.number", number))
	return number, nil
}

func (s *Sequencer) next(ctx context.Context, q DBTX, t model.DocumentType, year int) (string, error) {
	prefix, err := Prefix(t)
	if err != nil {
		return "", err
	}
	series, err := SeriesPrefix(t, year)
	if err != nil {
		return "", err
	}

	n, err := increment(ctx, q, prefix, year)
	if errors.Is(err, sql.ErrNoRows) {
		last, lerr := lastIssued(ctx, q, t, series)
		if lerr != nil {
			return "", lerr
		}
		const seed = `
			INSERT INTO document_counters (prefix, year, last_value)
			VALUES ($1, $2, $3)
			ON CONFLICT (prefix, year) DO NOTHING
		`
		if _, err := q.ExecContext(ctx, seed, prefix, year, last); err != nil {
			return "", fmt.Errorf("seed counter %s: %w", series, err)
		}
		n, err = increment(ctx, q, prefix, year)
	}
	if err != nil {
		return "", fmt.Errorf("increment counter %s: %w", series, err)
	}
	return Format(series, n), nil
}

func increment(ctx context.Context, q DBTX, prefix string, year int) (int, error) {
	const upd = `
		UPDATE document_counters
		SET last_value = last_value + 1
		WHERE prefix = $1 AND year = $2
		RETURNING last_value
	`
	var n int
	if err := q.QueryRowContext(ctx, upd, prefix, year).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// lastIssued returns the highest sequence stored for series, or 0.
// Ordering by length first keeps 10000 above 9999.
func lastIssued(ctx context.Context, q DBTX, t model.DocumentType, series string) (int, error) {
	tbl, err := Table(t)
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf(`
		SELECT number FROM %s
		WHERE number LIKE $1
		ORDER BY length(number) DESC, number DESC
		LIMIT 1
	`, tbl)

	var number string
	if err := q.QueryRowContext(ctx, query, series+"%").Scan(&number); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("read last %s number: %w", t, err)
	}
	return ParseSequence(number, series)
}
