// ABOUTME: Suggestion review CLI command
// ABOUTME: Merges meeting suggestions with the live contact, lets the user pick, then pushes the selection
package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/harperreed/crmbridge/suggest"
)

// ReviewCommand walks through AI-suggested updates for one contact
func ReviewCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("review", flag.ContinueOnError)
	contactID := fs.String("contact", "", "Salesforce Contact ID")
	email := fs.String("email", "", "Find the contact by email instead of ID")
	name := fs.String("name", "", "Find the contact by full name instead of ID")
	meetingID := fs.String("meeting", "", "Meeting ID the suggestions were generated for")
	title := fs.String("title", "", "Meeting title")
	path := fs.String("suggestions", "", "Suggestions file or directory (overrides config)")
	yes := fs.Bool("yes", false, "Apply every suggested change without prompting")
	if err := fs.Parse(args); err != nil {
		return err
	}

	generator := env.Generator
	if *path != "" {
		generator = suggest.FileGenerator{Path: *path}
	}

	ctx := context.Background()
	cred, err := env.Credential(ctx)
	if err != nil {
		return err
	}

	contact, err := resolveContact(ctx, env, cred, *contactID, *email, *name)
	if err != nil {
		return err
	}

	raw, err := generator.Generate(ctx, suggest.Meeting{ID: *meetingID, Title: *title})
	if err != nil {
		return fmt.Errorf("failed to load suggestions: %w", err)
	}

	suggestions := suggest.Merge(suggest.FromRaw(raw), contact)
	if len(suggestions) == 0 {
		_, _ = fmt.Fprintf(env.Out, "No changes suggested for %s.\n", contact.ID)
		return nil
	}

	switch {
	case *yes:
	case env.Interactive:
		reviewed, confirmed, err := env.Review(contact, suggestions)
		if err != nil {
			return err
		}
		if !confirmed {
			_, _ = fmt.Fprintln(env.Out, "Review cancelled; nothing was written.")
			return nil
		}
		suggestions = reviewed
	default:
		w := tabwriter.NewWriter(env.Out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "FIELD\tCURRENT\tSUGGESTED\tCONTEXT")
		for _, s := range suggestions {
			current := ""
			if s.CurrentValue != nil {
				current = *s.CurrentValue
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Label, current, s.NewValue, s.Context)
		}
		_ = w.Flush()
		_, _ = fmt.Fprintln(env.Out, "\nNot a terminal; re-run with --yes to apply these changes.")
		return nil
	}

	// the lookup may have refreshed the stored token
	if cred, err = env.Credential(ctx); err != nil {
		return err
	}

	report, err := env.Pusher.Push(ctx, cred, contact.ID, suggestions)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	printReport(env.Out, report)
	return nil
}
