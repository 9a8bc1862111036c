// ABOUTME: Shared wiring for CLI commands and the MCP server
// ABOUTME: Chooses the REST or mock Salesforce client and loads the stored credential
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"github.com/harperreed/crmbridge/db"
	"github.com/harperreed/crmbridge/logger"
	"github.com/harperreed/crmbridge/models"
	"github.com/harperreed/crmbridge/salesforce"
	"github.com/harperreed/crmbridge/suggest"
	"github.com/harperreed/crmbridge/sync"
	"github.com/harperreed/crmbridge/tui"
)

// ReviewFunc shows suggestions to the user and returns their choices.
type ReviewFunc func(contact models.ContactRecord, suggestions []models.Suggestion) ([]models.Suggestion, bool, error)

// Env carries everything a command needs.
type Env struct {
	Config    *salesforce.Config
	DB        *sql.DB
	Client    salesforce.ContactClient
	Generator suggest.Generator
	Pusher    *sync.Pusher
	Out       io.Writer

	// Interactive is true when stdin is a terminal and the review screen can run.
	Interactive bool
	Review      ReviewFunc
}

// NewEnv wires the Salesforce client for cfg. In mock mode the client is an
// in-memory org seeded with sample contacts.
func NewEnv(cfg *salesforce.Config, database *sql.DB) *Env {
	var client salesforce.ContactClient
	if cfg.UseMock {
		client = newSeededMock(cfg.AddressOptions())
	} else {
		refresher := salesforce.NewTokenRefresher(cfg, db.CredentialStore{DB: database}, nil).WithLogger(logger.L)
		client = salesforce.NewClient(refresher, salesforce.NewCapabilityCache(), salesforce.ClientOptions{
			APIVersion: cfg.APIVersion,
			Address:    cfg.AddressOptions(),
			Logger:     logger.L,
		})
	}

	suggestionsPath := cfg.SuggestionsPath
	if suggestionsPath == "" {
		suggestionsPath = filepath.Join(salesforce.ConfigDir(), "suggestions")
	}

	return &Env{
		Config:      cfg,
		DB:          database,
		Client:      client,
		Generator:   suggest.FileGenerator{Path: suggestionsPath},
		Pusher:      sync.NewPusher(client, db.UpdateLogStore{DB: database}, logger.L),
		Out:         os.Stdout,
		Interactive: term.IsTerminal(int(os.Stdin.Fd())),
		Review:      tui.Run,
	}
}

// Credential returns the stored Salesforce credential.
func (e *Env) Credential(ctx context.Context) (models.Credential, error) {
	if e.Config.UseMock {
		return models.Credential{
			Provider: models.ProviderSalesforce,
			Metadata: map[string]string{models.MetaInstanceURL: "mock://salesforce"},
		}, nil
	}

	cred, err := db.GetCredential(e.DB, models.ProviderSalesforce)
	if err != nil {
		return models.Credential{}, err
	}
	if cred == nil {
		return models.Credential{}, fmt.Errorf("not connected to Salesforce. Run 'crmbridge connect' first")
	}
	return *cred, nil
}

func newSeededMock(address salesforce.AddressOptions) *salesforce.MockClient {
	mock := salesforce.NewMockClient(true, address)
	mock.AddContact(map[string]string{
		salesforce.FieldFirstName:      "Ada",
		salesforce.FieldLastName:       "Lovelace",
		salesforce.FieldEmail:          "ada@example.com",
		salesforce.FieldTitle:          "Analyst",
		salesforce.FieldMailingCity:    "London",
		salesforce.FieldMailingCountry: "GB",
	})
	mock.AddContact(map[string]string{
		salesforce.FieldFirstName: "Grace",
		salesforce.FieldLastName:  "Hopper",
		salesforce.FieldEmail:     "grace@example.com",
		salesforce.FieldTitle:     "Rear Admiral",
		salesforce.FieldPhone:     "555-0142",
	})
	return mock
}
