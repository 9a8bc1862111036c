// ABOUTME: CRM credential persistence
// ABOUTME: Stores OAuth tokens and org metadata per provider and updates them after refresh
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/crmbridge/models"
)

// SaveCredential inserts or replaces the credential for cred.Provider. An
// existing row for the provider keeps its id.
func SaveCredential(db *sql.DB, cred *models.Credential) error {
	existing, err := GetCredential(db, cred.Provider)
	if err != nil {
		return err
	}

	now := time.Now()
	if existing != nil {
		cred.ID = existing.ID
		cred.CreatedAt = existing.CreatedAt
	} else {
		if cred.ID == uuid.Nil {
			cred.ID = uuid.New()
		}
		cred.CreatedAt = now
	}
	cred.UpdatedAt = now

	if cred.Metadata == nil {
		cred.Metadata = map[string]string{}
	}
	metadata, err := json.Marshal(cred.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode credential metadata: %w", err)
	}

	var refreshToken *string
	if cred.RefreshToken != "" {
		refreshToken = &cred.RefreshToken
	}

	_, err = db.Exec(`
		INSERT INTO crm_credentials (id, provider, access_token, refresh_token, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at
	`, cred.ID.String(), cred.Provider, cred.AccessToken, refreshToken, string(metadata), cred.CreatedAt, cred.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}

	return nil
}

// GetCredential returns the credential for provider, or nil when none is stored.
func GetCredential(db *sql.DB, provider string) (*models.Credential, error) {
	var cred models.Credential
	var refreshToken sql.NullString
	var metadata string

	err := db.QueryRow(`
		SELECT id, provider, access_token, refresh_token, metadata, created_at, updated_at
		FROM crm_credentials WHERE provider = ?
	`, provider).Scan(
		&cred.ID,
		&cred.Provider,
		&cred.AccessToken,
		&refreshToken,
		&metadata,
		&cred.CreatedAt,
		&cred.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}

	if refreshToken.Valid {
		cred.RefreshToken = refreshToken.String
	}
	if err := json.Unmarshal([]byte(metadata), &cred.Metadata); err != nil {
		return nil, fmt.Errorf("failed to decode credential metadata: %w", err)
	}
	if cred.Metadata == nil {
		cred.Metadata = map[string]string{}
	}

	return &cred, nil
}

// UpdateCredentialTokens replaces the access token and, when instanceURL is
// non-empty, the stored instance URL. Other fields are left untouched.
func UpdateCredentialTokens(ctx context.Context, db *sql.DB, id uuid.UUID, accessToken, instanceURL string) error {
	res, err := db.ExecContext(ctx, `
		UPDATE crm_credentials
		SET access_token = ?,
			metadata = CASE WHEN ? = '' THEN metadata ELSE json_set(metadata, '$.instance_url', ?) END,
			updated_at = ?
		WHERE id = ?
	`, accessToken, instanceURL, instanceURL, time.Now(), id.String())
	if err != nil {
		return fmt.Errorf("failed to update credential tokens: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated credential: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("credential %s not found", id)
	}

	return nil
}

// DeleteCredential removes the stored credential for provider.
func DeleteCredential(db *sql.DB, provider string) error {
	_, err := db.Exec(`DELETE FROM crm_credentials WHERE provider = ?`, provider)
	if err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}

// CredentialStore adapts the database to the refresher's store contract.
type CredentialStore struct {
	DB *sql.DB
}

func (s CredentialStore) UpdateCredentialTokens(ctx context.Context, id uuid.UUID, accessToken, instanceURL string) error {
	return UpdateCredentialTokens(ctx, s.DB, id, accessToken, instanceURL)
}
