// ABOUTME: Contact CLI commands
// ABOUTME: Commands for searching, showing, and updating Salesforce contacts
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/harperreed/crmbridge/models"
	"github.com/harperreed/crmbridge/salesforce"
	"github.com/harperreed/crmbridge/sync"
)

// SearchCommand lists contacts whose name or email contains the query
func SearchCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		return fmt.Errorf("search query is required")
	}

	ctx := context.Background()
	cred, err := env.Credential(ctx)
	if err != nil {
		return err
	}

	contacts, err := env.Client.SearchContacts(ctx, cred, query)
	if err != nil {
		return fmt.Errorf("failed to search contacts: %w", err)
	}

	if len(contacts) == 0 {
		_, _ = fmt.Fprintf(env.Out, "No contacts match %q\n", query)
		return nil
	}

	w := tabwriter.NewWriter(env.Out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tEMAIL\tTITLE")
	_, _ = fmt.Fprintln(w, "--\t----\t-----\t-----")
	for _, c := range contacts {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, value(c, "name"), value(c, "email"), value(c, "title"))
	}
	return w.Flush()
}

// ShowCommand prints every known field of one contact
func ShowCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: crmbridge show <contact-id>")
	}

	ctx := context.Background()
	cred, err := env.Credential(ctx)
	if err != nil {
		return err
	}

	contact, err := env.Client.GetContact(ctx, cred, fs.Arg(0))
	if err != nil {
		return fmt.Errorf("failed to get contact: %w", err)
	}

	printContact(env.Out, contact)
	return nil
}

// UpdateCommand writes Field=Value pairs to a contact
func UpdateCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("usage: crmbridge update <contact-id> Field=Value [Field=Value...]")
	}

	contactID := fs.Arg(0)
	suggestions, err := parseAssignments(fs.Args()[1:])
	if err != nil {
		return err
	}

	ctx := context.Background()
	cred, err := env.Credential(ctx)
	if err != nil {
		return err
	}

	report, err := env.Pusher.Push(ctx, cred, contactID, suggestions)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	printReport(env.Out, report)
	return nil
}

func parseAssignments(pairs []string) ([]models.Suggestion, error) {
	suggestions := make([]models.Suggestion, 0, len(pairs))
	for _, pair := range pairs {
		name, val, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("expected Field=Value, got %q", pair)
		}
		apiName, known := salesforce.ResolveUpdatableField(strings.TrimSpace(name))
		if !known {
			return nil, fmt.Errorf("unknown or read-only contact field: %s", name)
		}
		suggestions = append(suggestions, models.Suggestion{
			Field:     apiName,
			Label:     salesforce.LabelFor(apiName),
			NewValue:  val,
			Apply:     true,
			HasChange: true,
		})
	}
	return suggestions, nil
}

// resolveContact returns the contact to act on: by ID when given, otherwise
// the search hit matching email (or a unique name).
func resolveContact(ctx context.Context, env *Env, cred models.Credential, id, email, name string) (models.ContactRecord, error) {
	if id != "" {
		return env.Client.GetContact(ctx, cred, id)
	}

	query := email
	if query == "" {
		query = name
	}
	if query == "" {
		return models.ContactRecord{}, fmt.Errorf("a contact ID, email, or name is required")
	}

	results, err := env.Client.SearchContacts(ctx, cred, query)
	if err != nil {
		return models.ContactRecord{}, fmt.Errorf("failed to search contacts: %w", err)
	}

	contact, found := sync.NewContactMatcher(results).FindMatch(email, name)
	if !found {
		return models.ContactRecord{}, fmt.Errorf("no single contact matches %q", query)
	}
	return contact, nil
}

func printContact(w io.Writer, contact models.ContactRecord) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "ID\t%s\n", contact.ID)
	for _, f := range salesforce.ContactFields() {
		if v := contact.Value(f.Key); v != nil && *v != "" {
			_, _ = fmt.Fprintf(tw, "%s\t%s\n", f.Label, *v)
		}
	}
	_ = tw.Flush()
}

func printReport(w io.Writer, report *sync.PushReport) {
	if len(report.Submitted) == 0 && report.AddressError == nil && len(report.Dropped) == 0 && len(report.Skipped) == 0 {
		_, _ = fmt.Fprintln(w, "Nothing to update.")
		return
	}

	if len(report.Submitted) > 0 {
		fields := make([]string, 0, len(report.Submitted))
		for k := range report.Submitted {
			fields = append(fields, k)
		}
		sort.Strings(fields)

		_, _ = fmt.Fprintf(w, "✓ Updated %s (%s)\n", report.ContactID, report.Status)
		for _, f := range fields {
			_, _ = fmt.Fprintf(w, "  %s = %s\n", f, report.Submitted[f])
		}
	} else {
		_, _ = fmt.Fprintf(w, "Nothing was written to %s.\n", report.ContactID)
	}
	if report.AddressError != nil {
		_, _ = fmt.Fprintf(w, "⚠ Address not updated: %v\n", report.AddressError)
	}
	if len(report.Dropped) > 0 {
		_, _ = fmt.Fprintf(w, "⚠ Salesforce rejected %s; other fields were saved\n", strings.Join(report.Dropped, ", "))
	}
	if len(report.Skipped) > 0 {
		_, _ = fmt.Fprintf(w, "⚠ Skipped unknown or read-only fields: %s\n", strings.Join(report.Skipped, ", "))
	}
}

func value(c models.ContactRecord, key string) string {
	if v := c.Value(key); v != nil {
		return *v
	}
	return ""
}
