package cmd

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"
)

// apikeyCmd generates a client API key.
var apikeyCmd = &cobra.Command{
	Use:   "apikey",
	Short: "Generate a client API key",
	Long: `Generates a random key for the X-API-Key header.
Put it in the SERVER_API_KEY environment variable (or .env) and restart the
server; clients must send the same key on every request.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return fmt.Errorf("failed to gather randomness: %w", err)
		}
		key := base64.RawURLEncoding.EncodeToString(buf)

		fmt.Println("Generated API key:")
		fmt.Printf("\n  %s\n\n", key)
		fmt.Println("Add this to your .env file:")
		fmt.Printf("  SERVER_API_KEY=%s\n", key)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(apikeyCmd)
}
