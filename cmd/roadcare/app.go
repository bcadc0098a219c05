package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"roadcare/internal/adapters/persistence/repositories"
	"roadcare/internal/config"
	"roadcare/internal/core/domain"
	"roadcare/internal/core/services"
	"roadcare/internal/core/session"
	"roadcare/internal/pkg/apiclient"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// credentialKey is the fixed key the credential is persisted under
const credentialKey = "accessToken"

var (
	errNotLoggedIn  = errors.New("not logged in, run `roadcare login`")
	errAccessDenied = errors.New("access denied")
	errStillLoading = errors.New("session is still loading")
)

// cli carries the flags and the session shared by every command
type cli struct {
	apiURL         string
	credentialFile string
	jsonOutput     bool
	verbose        bool

	in     *bufio.Reader
	out    io.Writer
	stdin  *os.File
	cfg    *config.Config
	store  *session.Store
	client *apiclient.Client
}

func rootCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	c := &cli{
		in:  bufio.NewReader(stdin),
		out: stdout,
	}
	if f, ok := stdin.(*os.File); ok {
		c.stdin = f
	}

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Report and track road-surface issues",
		Long:          `roadcare reports road-surface issues to the Gomel public utilities and tracks their status.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return c.open(cmd.Context())
		},
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)

	cmd.PersistentFlags().StringVar(&c.apiURL, "api-url", "", "Backend API base URL (default from API_BASE_URL)")
	cmd.PersistentFlags().StringVar(&c.credentialFile, "credential-file", "", "Credential file (default from CREDENTIAL_FILE)")
	cmd.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "Print JSON instead of tables")
	cmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Log requests and session events to stderr")

	cmd.AddCommand(
		c.loginCmd(),
		c.registerCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.issuesCmd(),
		c.adminCmd(),
		c.responsesCmd(),
		c.suggestCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)

	return cmd
}

// open loads configuration and bootstraps the session from the credential file
func (c *cli) open(ctx context.Context) error {
	if !c.verbose {
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(os.Stderr)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	c.cfg = cfg

	if c.apiURL == "" {
		c.apiURL = cfg.API.BaseURL
	}
	if c.credentialFile == "" {
		c.credentialFile = cfg.Credential.File
	}

	creds := repositories.Scoped(repositories.NewFileCredentialRepository(c.credentialFile), credentialKey)
	c.client = apiclient.New(c.apiURL,
		apiclient.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		apiclient.WithTokenSource(creds),
	)
	c.store = session.NewStore(creds, c.client)

	if ctx == nil {
		ctx = context.Background()
	}
	c.store.Initialize(ctx)
	return nil
}

// gate applies the route guard to a command
func (c *cli) gate(allowedRoles ...domain.Role) error {
	switch session.NewGuard(allowedRoles...).Evaluate(c.store) {
	case session.Granted:
		return nil
	case session.RedirectLogin:
		return errNotLoggedIn
	case session.RedirectLanding:
		return errAccessDenied
	default:
		return errStillLoading
	}
}

func (c *cli) issueService() *services.IssueService {
	return services.NewIssueService(c.client, c.store)
}

// prompt reads one line, printing label to stderr first
func (c *cli) prompt(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("reading %s: %w", strings.TrimSuffix(strings.TrimSpace(label), ":"), err)
	}
	return strings.TrimSpace(line), nil
}

// readPassword reads a secret from passwordFile, or from the terminal with echo disabled
func (c *cli) readPassword(passwordFile, label string) (string, error) {
	if passwordFile != "" && passwordFile != "-" {
		data, err := os.ReadFile(passwordFile)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", passwordFile, err)
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}

	if c.stdin == nil || !term.IsTerminal(int(c.stdin.Fd())) {
		return "", errors.New("no terminal available for interactive password prompt (use --password-file)")
	}

	fmt.Fprint(os.Stderr, label)
	passwordBytes, err := term.ReadPassword(int(c.stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(passwordBytes), nil
}

// printJSON writes v as indented JSON
func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
