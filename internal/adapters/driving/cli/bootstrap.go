package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/meridian-labs/brokerauth-cli/internal/adapters/driving/oauth"
	"github.com/meridian-labs/brokerauth-cli/internal/logger"
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Exchange an authorization code for the initial token pair",
	Long: `Perform the one-time authorization-code exchange and persist the
resulting token pair. Required once per deployment, and again whenever
the refresh token itself becomes invalid.

The authorization code can be supplied three ways:

  brokerauth bootstrap --code ABC123         # non-interactive
  brokerauth bootstrap                       # prompt for the code
  brokerauth bootstrap --listen              # capture it via the redirect

With --listen, a local HTTP server is started on the redirect URI
registered with the broker and the code is captured automatically after
you authorize in the browser.`,
	RunE: runBootstrap,
}

var (
	bootstrapCode    string
	bootstrapListen  bool
	bootstrapTimeout time.Duration
)

func init() {
	bootstrapCmd.Flags().StringVar(
		&bootstrapCode, "code", "", "Authorization code from the broker redirect")
	bootstrapCmd.Flags().BoolVar(
		&bootstrapListen, "listen", false, "Capture the code with a local callback server")
	bootstrapCmd.Flags().DurationVar(
		&bootstrapTimeout, "timeout", 5*time.Minute, "How long to wait for the authorization callback")
	rootCmd.AddCommand(bootstrapCmd)
}

func runBootstrap(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	authURL, err := lifecycle.AuthorizationURL(ctx)
	if err != nil {
		return err
	}

	code := bootstrapCode
	if code == "" {
		cmd.Println("Visit this URL in your browser and authorize the application:")
		cmd.Println()
		cmd.Printf("  %s\n", authURL)
		cmd.Println()

		if bootstrapListen {
			code, err = waitForCallback(ctx)
		} else {
			cmd.Println("After authorizing you will be redirected; copy the 'code' parameter from the redirect URL.")
			code, err = readSecret("Authorization code: ")
		}
		if err != nil {
			return err
		}
	}

	cred, err := lifecycle.Bootstrap(ctx, code)
	if err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}

	cmd.Println("Tokens initialized and saved.")
	cmd.Printf("  Access token:  %s\n", maskSecret(cred.AccessToken))
	cmd.Printf("  Refresh token: %s\n", maskSecret(cred.RefreshToken))
	cmd.Println()
	cmd.Println("Run 'brokerauth service' to keep the token renewed.")
	return nil
}

// waitForCallback captures the authorization code on the redirect URI.
func waitForCallback(ctx context.Context) (string, error) {
	id, _, err := credStore.Load(ctx)
	if err != nil {
		return "", err
	}

	srv, err := oauth.NewCallbackServer(id.RedirectURI, "")
	if err != nil {
		return "", err
	}
	if err := srv.Start(); err != nil {
		return "", err
	}
	defer srv.Stop()

	logger.Info("callback server listening on %s", srv.Addr())
	return srv.WaitForCode(bootstrapTimeout)
}
