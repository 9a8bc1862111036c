// ABOUTME: Salesforce connect CLI command
// ABOUTME: Runs the OAuth authorization-code flow through a local callback server and stores the credential
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os/exec"
	"runtime"
	"time"

	"github.com/harperreed/crmbridge/db"
	"github.com/harperreed/crmbridge/models"
	"github.com/harperreed/crmbridge/salesforce"
	"github.com/harperreed/crmbridge/sync"
)

const callbackTimeout = 5 * time.Minute

// ConnectCommand handles OAuth setup
func ConnectCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("connect", flag.ContinueOnError)
	clientID := fs.String("client-id", "", "Connected app consumer key")
	clientSecret := fs.String("client-secret", "", "Connected app consumer secret")
	sandbox := fs.Bool("sandbox", false, "Log in to a sandbox org")
	noBrowser := fs.Bool("no-browser", false, "Print the login URL instead of opening a browser")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := env.Config
	if cfg.UseMock {
		_, _ = fmt.Fprintln(env.Out, "Mock CRM mode is on; nothing to connect.")
		return nil
	}

	if *clientID != "" || *clientSecret != "" || *sandbox {
		if *clientID != "" {
			cfg.ClientID = *clientID
		}
		if *clientSecret != "" {
			cfg.ClientSecret = *clientSecret
		}
		cfg.Sandbox = cfg.Sandbox || *sandbox
		if err := salesforce.SaveConfig(cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
	}

	if !cfg.IsConfigured() {
		return fmt.Errorf("salesforce OAuth credentials not configured. Pass --client-id and --client-secret or set SALESFORCE_CLIENT_ID and SALESFORCE_CLIENT_SECRET")
	}

	redirect, err := url.Parse(cfg.RedirectURL)
	if err != nil {
		return fmt.Errorf("invalid redirect URL %q: %w", cfg.RedirectURL, err)
	}

	ln, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return fmt.Errorf("failed to listen for OAuth callback on %s: %w", redirect.Host, err)
	}

	state := sync.NewState()
	authURL := sync.AuthCodeURL(cfg, state)

	_, _ = fmt.Fprintln(env.Out, "Opening browser for Salesforce login...")
	_, _ = fmt.Fprintf(env.Out, "\nIf browser doesn't open, visit this URL:\n%s\n\n", authURL)
	if !*noBrowser {
		_ = openBrowser(authURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), callbackTimeout)
	defer cancel()

	code, err := waitForCode(ctx, ln, redirect.Path, state)
	if err != nil {
		return fmt.Errorf("OAuth flow failed: %w", err)
	}

	cred, err := sync.ExchangeCode(ctx, cfg, code, nil)
	if err != nil {
		return err
	}

	if err := db.SaveCredential(env.DB, cred); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(env.Out, "\n✓ Connected to %s\n", cred.InstanceURL())
	if org := cred.Metadata[models.MetaOrgID]; org != "" {
		_, _ = fmt.Fprintf(env.Out, "✓ Org %s\n", org)
	}
	_, _ = fmt.Fprintln(env.Out, "Ready! Run 'crmbridge search <name>' to find a contact.")
	return nil
}

// waitForCode serves the OAuth callback on ln until one request arrives with
// a matching state, then shuts the server down.
func waitForCode(ctx context.Context, ln net.Listener, path, state string) (string, error) {
	if path == "" {
		path = "/"
	}

	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if e := q.Get("error"); e != "" {
			http.Error(w, "Authorization failed: "+e, http.StatusBadRequest)
			sendErr(errChan, fmt.Errorf("authorization denied: %s %s", e, q.Get("error_description")))
			return
		}
		if q.Get("state") != state {
			http.Error(w, "State mismatch", http.StatusBadRequest)
			sendErr(errChan, errors.New("state mismatch in OAuth callback"))
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(w, "Missing code", http.StatusBadRequest)
			sendErr(errChan, errors.New("no authorization code received"))
			return
		}

		_, _ = fmt.Fprintf(w, "Authorization successful! You can close this window.")
		select {
		case codeChan <- code:
		default:
		}
	})

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			sendErr(errChan, err)
		}
	}()
	defer func() { _ = server.Shutdown(context.Background()) }()

	select {
	case code := <-codeChan:
		return code, nil
	case err := <-errChan:
		return "", err
	case <-ctx.Done():
		return "", fmt.Errorf("timed out waiting for OAuth callback: %w", ctx.Err())
	}
}

func sendErr(ch chan<- error, err error) {
	select {
	case ch <- err:
	default:
	}
}

// openBrowser attempts to open URL in default browser
func openBrowser(url string) error {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		cmd = "xdg-open"
		args = []string{url}
	}

	command := exec.Command(cmd, args...)
	return command.Start()
}
