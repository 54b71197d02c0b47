package cli

import (
	"github.com/spf13/cobra"
)

var authurlCmd = &cobra.Command{
	Use:   "authurl",
	Short: "Print the broker authorization URL",
	Long: `Print the URL where the operator authorizes the application and
obtains the one-time authorization code used by 'brokerauth bootstrap'.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		url, err := lifecycle.AuthorizationURL(cmd.Context())
		if err != nil {
			return err
		}
		cmd.Println(url)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authurlCmd)
}
