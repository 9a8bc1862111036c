// ABOUTME: Database schema definitions and migrations
// ABOUTME: Handles SQLite table creation for CRM credentials and the update audit log
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS crm_credentials (
	id TEXT PRIMARY KEY,
	provider TEXT NOT NULL UNIQUE,
	access_token TEXT NOT NULL,
	refresh_token TEXT,
	metadata TEXT NOT NULL DEFAULT '{}',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS crm_update_log (
	id TEXT PRIMARY KEY,
	provider TEXT NOT NULL,
	contact_id TEXT NOT NULL,
	payload TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('applied', 'partial', 'failed')),
	error_message TEXT,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_crm_update_log_contact ON crm_update_log(contact_id);
CREATE INDEX IF NOT EXISTS idx_crm_update_log_created_at ON crm_update_log(created_at DESC);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
