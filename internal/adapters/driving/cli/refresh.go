package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meridian-labs/brokerauth-cli/internal/core/domain"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the access token once and exit",
	RunE:  runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	cred, err := lifecycle.Refresh(cmd.Context())
	if err != nil {
		if errors.Is(err, domain.ErrRefreshTokenMissing) || errors.Is(err, domain.ErrInvalidRefreshToken) {
			return fmt.Errorf("%w\nrerun 'brokerauth bootstrap' with a fresh authorization code", err)
		}
		return err
	}

	cmd.Println("Token refreshed.")
	cmd.Printf("  Access token:  %s\n", maskSecret(cred.AccessToken))
	cmd.Printf("  Refresh token: %s\n", maskSecret(cred.RefreshToken))
	return nil
}
