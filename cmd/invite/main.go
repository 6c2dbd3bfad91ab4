// Command invite sends and previews invitation emails.
//
// Configuration is read from the environment, optionally seeded from a .env
// file in the working directory.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/invitations/internal/invitation"
	"github.com/dmitrymomot/invitations/pkg/logger"
)

const (
	expiresLayout  = "2006-01-02"
	sentryFlushMax = 2 * time.Second
)

var rootCmd = &cobra.Command{
	Use:           "invite",
	Short:         "Send invitation emails",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send an invitation email",
	RunE:  runSend,
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render an invitation email without sending it",
	RunE:  runPreview,
}

type recordFlags struct {
	to       string
	fromName string
	message  string
	code     string
	expires  string
}

var (
	flags         recordFlags
	sendJSON      bool
	sendTimeout   time.Duration
	previewFormat string
)

func init() {
	for _, cmd := range []*cobra.Command{sendCmd, previewCmd} {
		f := cmd.Flags()
		f.StringVar(&flags.to, "to", "", "recipient email address")
		f.StringVar(&flags.fromName, "from-name", "", "name of the inviting user")
		f.StringVar(&flags.message, "message", "", "personal message from the inviting user")
		f.StringVar(&flags.code, "code", "", "connection code")
		f.StringVar(&flags.expires, "expires", "", "expiration date (YYYY-MM-DD)")
	}

	sendCmd.Flags().BoolVar(&sendJSON, "json", false, "print the delivery result as JSON")
	sendCmd.Flags().DurationVar(&sendTimeout, "timeout", 30*time.Second, "overall send timeout")
	previewCmd.Flags().StringVar(&previewFormat, "format", "html", "body to print: html or text")

	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(previewCmd)
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (f recordFlags) record() (invitation.Record, error) {
	rec := invitation.Record{
		ToEmail:         f.to,
		FromUserName:    f.fromName,
		PersonalMessage: f.message,
		ConnectionCode:  f.code,
	}
	if f.expires != "" {
		expires, err := time.Parse(expiresLayout, f.expires)
		if err != nil {
			return invitation.Record{}, fmt.Errorf("invalid --expires value %q: %w", f.expires, err)
		}
		rec.ExpiresAt = expires
	}
	return rec, nil
}

func setup() (*invitation.Gateway, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.Logger, invitation.DeliveryIDExtractor)
	return newGateway(cfg, log)
}

func runSend(cmd *cobra.Command, args []string) error {
	defer logger.Flush(sentryFlushMax)

	gw, err := setup()
	if err != nil {
		return err
	}

	rec, err := flags.record()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	res := gw.Deliver(ctx, rec)
	if err := printResult(cmd.OutOrStdout(), res, sendJSON); err != nil {
		return err
	}

	if !res.OK() {
		return fmt.Errorf("invitation not delivered: %s", res.Outcome)
	}
	return nil
}

func printResult(w io.Writer, res invitation.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	_, err := fmt.Fprintf(w, "%s (delivery %s)\n", res.Outcome, res.DeliveryID)
	return err
}

func runPreview(cmd *cobra.Command, args []string) error {
	gw, err := setup()
	if err != nil {
		return err
	}

	rec, err := flags.record()
	if err != nil {
		return err
	}

	email, err := gw.Compose(rec)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch previewFormat {
	case "html":
		_, err = io.WriteString(out, email.HTML)
	case "text":
		_, err = fmt.Fprintf(out, "Subject: %s\n\n%s", email.Subject, email.Text)
	default:
		return fmt.Errorf("unknown preview format %q", previewFormat)
	}
	return err
}
