// ABOUTME: Entry point for the crmbridge CLI and MCP server
// ABOUTME: Routes to Salesforce contact commands or the MCP server based on arguments
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/harperreed/crmbridge/cli"
	"github.com/harperreed/crmbridge/db"
	"github.com/harperreed/crmbridge/logger"
	"github.com/harperreed/crmbridge/salesforce"
)

const version = "0.1.0"

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/crmbridge/crmbridge.db)")
	mock := flag.Bool("mock", false, "Use the in-memory mock CRM instead of Salesforce")
	flag.Usage = printUsage

	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("crmbridge version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	cfg, err := salesforce.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *mock {
		cfg.UseMock = true
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	finalDBPath := *dbPath
	if finalDBPath == "" {
		finalDBPath = salesforce.DatabasePath()
	}
	database, err := db.OpenDatabase(finalDBPath)
	if err != nil {
		logger.L.Error("failed to open database", "path", finalDBPath, "error", err)
		os.Exit(1)
	}

	env := cli.NewEnv(cfg, database)

	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "mcp":
		err = cli.MCPCommand(env, version)
	case "connect":
		err = cli.ConnectCommand(env, commandArgs)
	case "search":
		err = cli.SearchCommand(env, commandArgs)
	case "show":
		err = cli.ShowCommand(env, commandArgs)
	case "review":
		err = cli.ReviewCommand(env, commandArgs)
	case "update":
		err = cli.UpdateCommand(env, commandArgs)
	case "log":
		err = cli.LogCommand(env, commandArgs)
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		_ = database.Close()
		os.Exit(1)
	}

	_ = database.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`crmbridge v%s - Salesforce contact updates from meeting notes

USAGE:
  crmbridge [global flags] <command> [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       Database path (default: ~/.local/share/crmbridge/crmbridge.db)
  --mock                 Use the in-memory mock CRM (also CRMBRIDGE_MOCK_CRM=1)

COMMANDS:
  connect                Log in to Salesforce and store the credential
    --client-id <key>      Connected app consumer key (saved to config)
    --client-secret <s>    Connected app consumer secret (saved to config)
    --sandbox              Use test.salesforce.com
    --no-browser           Print the login URL only

  search <query>         Find contacts by name or email

  show <contact-id>      Print a contact's fields

  review                 Review AI-suggested updates for a contact, then apply them
    --contact <id>         Salesforce Contact ID
    --email <email>        Or find the contact by email
    --name <name>          Or find the contact by full name
    --meeting <id>         Meeting ID (selects <id>.json in a suggestions directory)
    --title <title>        Meeting title
    --suggestions <path>   Suggestions file or directory
    --yes                  Apply every change without prompting

  update <contact-id> Field=Value...
                         Write field values directly; State and Country are
                         normalized to the org's address format

  log                    Show recent updates written to Salesforce
    --contact <id>         Only this contact
    --limit <n>            Max entries (default: 20)

  mcp                    Start MCP server on stdio

CONFIGURATION:
  ~/.local/share/crmbridge/salesforce-config.json, overridden by a local .env and
  SALESFORCE_CLIENT_ID, SALESFORCE_CLIENT_SECRET, SALESFORCE_SANDBOX,
  SALESFORCE_LOGIN_URL, SALESFORCE_API_VERSION, SALESFORCE_DEFAULT_COUNTRY,
  CRMBRIDGE_SUGGESTIONS, CRMBRIDGE_LOG_LEVEL, CRMBRIDGE_LOG_FORMAT

`, version)
}
