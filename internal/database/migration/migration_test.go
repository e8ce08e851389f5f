package migration

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmapi/internal/logging"
)

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		out = append(out, m)
	}
	return out
}

func TestEnsureMigrated_Skip(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var buf bytes.Buffer
	mock.ExpectQuery(regexp.QuoteMeta("SELECT to_regclass('public.idx_ticket_attachments_ticket') IS NOT NULL")).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err = EnsureMigrated(context.Background(), db, logging.New(&buf, time.UTC), "db.local")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	lines := logLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "db_migration_skip", lines[1]["msg"])
	assert.Equal(t, "db.local", lines[1]["db_host"])
}

func TestEnsureMigrated_RunsAllSteps(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var buf bytes.Buffer
	mock.ExpectQuery("SELECT to_regclass").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	for _, step := range steps {
		mock.ExpectExec(regexp.QuoteMeta(step.SQL)).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	err = EnsureMigrated(context.Background(), db, logging.New(&buf, time.UTC), "db.local")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	lines := logLines(t, &buf)
	assert.Equal(t, "db_migration_success", lines[len(lines)-1]["msg"])
}

func TestEnsureMigrated_StepFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var buf bytes.Buffer
	mock.ExpectQuery("SELECT to_regclass").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta(steps[0].SQL)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(steps[1].SQL)).WillReturnError(errors.New("permission denied"))

	err = EnsureMigrated(context.Background(), db, logging.New(&buf, time.UTC), "db.local")

	assert.ErrorContains(t, err, "migration step create_table_projects failed: permission denied")

	lines := logLines(t, &buf)
	last := lines[len(lines)-1]
	assert.Equal(t, "error", last["level"])
	assert.Equal(t, "create_table_projects", last["migration_step"])
}

func TestEnsureMigrated_SentinelError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT to_regclass").WillReturnError(errors.New("connection reset"))

	err = EnsureMigrated(context.Background(), db, logging.New(&bytes.Buffer{}, time.UTC), "db.local")

	assert.ErrorContains(t, err, "failed to check sentinel relation")
}

func TestStepsCoverSchema(t *testing.T) {
	names := map[string]bool{}
	for _, s := range steps {
		assert.False(t, names[s.Name], "duplicate step %s", s.Name)
		names[s.Name] = true
	}
	for _, table := range []string{"contacts", "projects", "quotes", "sales_orders", "service_contracts", "document_counters", "calendar_events", "tasks", "tickets", "ticket_attachments"} {
		assert.True(t, names["create_table_"+table], table)
	}
	assert.Contains(t, salesDocumentTable("quotes"), "number       TEXT          NOT NULL UNIQUE")
}

func TestSentinelIsCreatedLast(t *testing.T) {
	last := steps[len(steps)-1]
	name := strings.TrimPrefix(sentinel, "public.")

	assert.Contains(t, last.SQL, "CREATE INDEX IF NOT EXISTS "+name+" ")
	for _, s := range steps[:len(steps)-1] {
		assert.NotContains(t, s.SQL, name, "sentinel created early by %s", s.Name)
	}
}
