package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/veritrust/mcpf-go/pkg/vc"
)

var flagVerifyJSON bool

func init() {
	verifyCmd.Flags().BoolVar(&flagVerifyJSON, "json", false, "Output the verification result as JSON")

	rootCmd.AddCommand(verifyCmd)
}

var verifyCmd = &cobra.Command{
	Use:   "verify [credential-file-or-url]",
	Short: "Verify a Verifiable Credential",
	Long: `Verify a Verifiable Credential from a local file or URL: structure,
issuer proof, validity window, and revocation status.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		m := newFacade()
		ctx := context.Background()
		input := args[0]

		var result *vc.VerificationResult
		if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
			var err error
			result, err = m.Verifier.VerifyCredentialURL(ctx, input)
			if err != nil {
				return fmt.Errorf("failed to fetch credential: %w", err)
			}
		} else {
			data, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			var cred vc.Credential
			if err := json.Unmarshal(data, &cred); err != nil {
				return fmt.Errorf("failed to parse credential JSON: %w", err)
			}
			result = m.Verifier.VerifyCredential(ctx, &cred)
		}

		if flagVerifyJSON {
			if err := printJSON(result); err != nil {
				return err
			}
		} else {
			fmt.Printf("Issuer:  %s\n", result.Issuer)
			fmt.Printf("Subject: %s\n", result.Subject)
			if result.Valid {
				fmt.Println("Result:  valid")
			} else {
				fmt.Printf("Result:  INVALID (%s)\n", result.Error)
			}
		}

		if !result.Valid {
			os.Exit(1)
		}
		return nil
	},
}
