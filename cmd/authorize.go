package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ejack923/gmail-dashboard-backend/internal/config"
)

func newAuthorizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authorize",
		Short: "Run the OAuth authorization flow from the terminal",
		Long: `Print the Google consent URL, then exchange the pasted authorization
code for a token and store it.

This is an alternative to the browser flow on /authorize for headless
setups. For the code to appear in the browser after consent, the OAuth
client's redirect URI must point somewhere you can read it from.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			service, err := buildService(cfg)
			if err != nil {
				return err
			}

			fmt.Printf("Visit this URL in your browser and authorize access:\n\n%s\n\n", service.StartAuthorization())
			fmt.Print("Enter authorization code: ")

			reader := bufio.NewReader(os.Stdin)
			code, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read authorization code: %w", err)
			}

			if err := service.CompleteAuthorization(cmd.Context(), strings.TrimSpace(code)); err != nil {
				return err
			}

			fmt.Println("Authorization complete, token stored.")
			return nil
		},
	}

	return cmd
}
