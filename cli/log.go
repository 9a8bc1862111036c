// ABOUTME: Update history CLI command
// ABOUTME: Lists recent pushes to the CRM from the local audit log
package cli

import (
	"flag"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/harperreed/crmbridge/db"
)

// LogCommand prints the most recent contact updates
func LogCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("log", flag.ContinueOnError)
	contactID := fs.String("contact", "", "Only show updates for this contact")
	limit := fs.Int("limit", 20, "Maximum number of entries to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	entries, err := db.ListUpdateLogs(env.DB, *contactID, *limit)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		_, _ = fmt.Fprintln(env.Out, "No updates recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(env.Out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TIME\tCONTACT\tSTATUS\tFIELDS\tERROR")
	_, _ = fmt.Fprintln(w, "----\t-------\t------\t------\t-----")

	for _, e := range entries {
		fields := make([]string, 0, len(e.Payload))
		for k := range e.Payload {
			fields = append(fields, k)
		}
		sort.Strings(fields)

		errMsg := ""
		if e.ErrorMessage != nil {
			errMsg = *e.ErrorMessage
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04"), e.ContactID, e.Status, strings.Join(fields, ","), errMsg)
	}

	return w.Flush()
}
