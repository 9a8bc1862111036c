// ABOUTME: Database operations for the CRM update audit log
// ABOUTME: Records every attempt to push reviewed field changes and lists recent attempts
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/crmbridge/models"
	"github.com/oklog/ulid/v2"
)

// CreateUpdateLog stores entry, assigning a time-ordered id and timestamp.
func CreateUpdateLog(db *sql.DB, entry *models.UpdateLog) error {
	entry.CreatedAt = time.Now()
	entry.ID = ulid.MustNew(ulid.Timestamp(entry.CreatedAt), ulid.DefaultEntropy()).String()

	payload, err := json.Marshal(entry.Payload)
	if err != nil {
		return fmt.Errorf("failed to encode update payload: %w", err)
	}

	var errorMsg sql.NullString
	if entry.ErrorMessage != nil {
		errorMsg = sql.NullString{String: *entry.ErrorMessage, Valid: true}
	}

	_, err = db.Exec(`
		INSERT INTO crm_update_log (id, provider, contact_id, payload, status, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Provider, entry.ContactID, string(payload), entry.Status, errorMsg, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create update log: %w", err)
	}

	return nil
}

// ListUpdateLogs returns the newest entries first. An empty contactID lists
// entries for every contact.
func ListUpdateLogs(db *sql.DB, contactID string, limit int) ([]models.UpdateLog, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows *sql.Rows
	var err error
	if contactID != "" {
		rows, err = db.Query(`
			SELECT id, provider, contact_id, payload, status, error_message, created_at
			FROM crm_update_log
			WHERE contact_id = ?
			ORDER BY id DESC
			LIMIT ?
		`, contactID, limit)
	} else {
		rows, err = db.Query(`
			SELECT id, provider, contact_id, payload, status, error_message, created_at
			FROM crm_update_log
			ORDER BY id DESC
			LIMIT ?
		`, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query update log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []models.UpdateLog
	for rows.Next() {
		var entry models.UpdateLog
		var payload string
		var errorMsg sql.NullString

		if err := rows.Scan(&entry.ID, &entry.Provider, &entry.ContactID, &payload, &entry.Status, &errorMsg, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan update log: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &entry.Payload); err != nil {
			return nil, fmt.Errorf("failed to decode update payload: %w", err)
		}
		if errorMsg.Valid {
			entry.ErrorMessage = &errorMsg.String
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating update log: %w", err)
	}

	return entries, nil
}

// UpdateLogStore adapts the database to the pusher's audit contract.
type UpdateLogStore struct {
	DB *sql.DB
}

func (s UpdateLogStore) RecordUpdate(entry *models.UpdateLog) error {
	return CreateUpdateLog(s.DB, entry)
}
