// Package migration creates the CRM schema. Every step is idempotent, so the
// full list can be replayed against a partially migrated database.
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinel is the relation created by the final step; its presence means
// every earlier step has run.
const sentinel = "public.idx_ticket_attachments_ticket"

func salesDocumentTable(name string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
  id           UUID          PRIMARY KEY,
  number       TEXT          NOT NULL UNIQUE,
  contact_id   UUID          NOT NULL REFERENCES contacts (id),
  title        TEXT          NOT NULL,
  amount       NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (amount >= 0),
  status       TEXT          NOT NULL,
  start_date   TIMESTAMPTZ,
  completed_at TIMESTAMPTZ,
  created_at   TIMESTAMPTZ   NOT NULL DEFAULT now()
);`, name)
}

var steps = []migrationStep{
	{
		Name: "create_table_contacts",
		SQL: `CREATE TABLE IF NOT EXISTS contacts (
  id         UUID        PRIMARY KEY,
  name       TEXT        NOT NULL,
  email      TEXT        NOT NULL DEFAULT '',
  phone      TEXT        NOT NULL DEFAULT '',
  company    TEXT        NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_projects",
		SQL: `CREATE TABLE IF NOT EXISTS projects (
  id           UUID          PRIMARY KEY,
  name         TEXT          NOT NULL,
  contact_id   UUID          NOT NULL REFERENCES contacts (id),
  budget       NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (budget >= 0),
  start_date   TIMESTAMPTZ   NOT NULL,
  completed_at TIMESTAMPTZ,
  created_at   TIMESTAMPTZ   NOT NULL DEFAULT now()
);`,
	},
	{Name: "create_table_quotes", SQL: salesDocumentTable("quotes")},
	{Name: "create_table_sales_orders", SQL: salesDocumentTable("sales_orders")},
	{Name: "create_table_service_contracts", SQL: salesDocumentTable("service_contracts")},
	{
		Name: "create_table_document_counters",
		SQL: `CREATE TABLE IF NOT EXISTS document_counters (
  prefix     TEXT    NOT NULL,
  year       INTEGER NOT NULL,
  last_value INTEGER NOT NULL CHECK (last_value >= 0),
  PRIMARY KEY (prefix, year)
);`,
	},
	{
		Name: "create_table_calendar_events",
		SQL: `CREATE TABLE IF NOT EXISTS calendar_events (
  id              UUID        PRIMARY KEY,
  contact_id      UUID        NOT NULL REFERENCES contacts (id),
  title           TEXT        NOT NULL,
  start_date_time TIMESTAMPTZ NOT NULL,
  end_date_time   TIMESTAMPTZ NOT NULL,
  is_all_day      BOOLEAN     NOT NULL DEFAULT false,
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_tasks",
		SQL: `CREATE TABLE IF NOT EXISTS tasks (
  id              UUID             PRIMARY KEY,
  contact_id      UUID             NOT NULL REFERENCES contacts (id),
  title           TEXT             NOT NULL,
  estimated_hours DOUBLE PRECISION CHECK (estimated_hours >= 0),
  actual_hours    DOUBLE PRECISION CHECK (actual_hours >= 0),
  created_at      TIMESTAMPTZ      NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_tickets",
		SQL: `CREATE TABLE IF NOT EXISTS tickets (
  id          UUID        PRIMARY KEY,
  contact_id  UUID        NOT NULL REFERENCES contacts (id),
  subject     TEXT        NOT NULL,
  description TEXT        NOT NULL DEFAULT '',
  status      TEXT        NOT NULL,
  priority    TEXT        NOT NULL,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_ticket_attachments",
		SQL: `CREATE TABLE IF NOT EXISTS ticket_attachments (
  id           UUID        PRIMARY KEY,
  ticket_id    UUID        NOT NULL REFERENCES tickets (id) ON DELETE CASCADE,
  filename     TEXT        NOT NULL,
  storage_path TEXT        NOT NULL UNIQUE,
  size         BIGINT      NOT NULL CHECK (size >= 0),
  content_type TEXT        NOT NULL,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_calendar_events_contact_start",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_calendar_events_contact_start ON calendar_events (contact_id, start_date_time);`,
	},
	{
		Name: "create_index_tasks_contact_created",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_tasks_contact_created ON tasks (contact_id, created_at);`,
	},
	{
		Name: "create_index_tickets_contact_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_tickets_contact_status ON tickets (contact_id, status, updated_at DESC);`,
	},
	{
		Name: "create_index_ticket_attachments_ticket",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_ticket_attachments_ticket ON ticket_attachments (ticket_id, created_at);`,
	},
}

// EnsureMigrated runs the migration only when the sentinel table is missing.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *slog.Logger, dbHost string) error {
	start := time.Now()
	log = log.With("component", "database", "db_host", dbHost)
	log.Info("db_migration_check", "status", "starting")

	var exists bool
	query := fmt.Sprintf("SELECT to_regclass('%s') IS NOT NULL", sentinel)
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			"status", "error",
			"error_message", fmt.Sprintf("failed to check sentinel relation: %v", err),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("failed to check sentinel relation: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			"status", "success",
			"reason", "schema already exists",
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}
	return run(ctx, db, log, start)
}

// Migrate replays every step unconditionally.
func Migrate(ctx context.Context, db *sql.DB, log *slog.Logger, dbHost string) error {
	return run(ctx, db, log.With("component", "database", "db_host", dbHost), time.Now())
}

func run(ctx context.Context, db *sql.DB, log *slog.Logger, start time.Time) error {
	log.Info("db_migration_start", "status", "in_progress", "steps", len(steps))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				"status", "error",
				"migration_step", step.Name,
				"error_message", err.Error(),
				"duration_ms", time.Since(start).Milliseconds(),
				"step_duration_ms", time.Since(stepStart).Milliseconds(),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Info("db_migration_step",
			"status", "success",
			"migration_step", step.Name,
			"step_duration_ms", time.Since(stepStart).Milliseconds(),
		)
	}

	log.Info("db_migration_success",
		"status", "success",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
