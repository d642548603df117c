package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/veritrust/mcpf-go/pkg/ans"
	"github.com/veritrust/mcpf-go/pkg/mcpf"
)

var (
	flagResolveVersion string
	flagResolveJSON    bool
	flagVerifyCard     bool
)

func init() {
	resolveCmd.Flags().StringVar(&flagResolveVersion, "version", "", "Resolve a specific card version")
	resolveCmd.Flags().BoolVar(&flagResolveJSON, "json", false, "Output the resolved card as JSON")
	resolveCmd.Flags().BoolVar(&flagVerifyCard, "verify-card", false, "Also verify the card's JWS signature")

	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [agent-name]",
	Short: "Resolve an agent name to its Agent Card",
	Long: `Resolve an agent name through the ANS directory. When the card
references an external credential it is fetched and verified; the outcome is
attached to the output.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		m := newFacade()
		ctx := context.Background()

		resolved, err := m.ResolveAndVerify(ctx, args[0], flagResolveVersion)
		if err != nil {
			return err
		}

		var cardCheck *ans.CardVerification
		if flagVerifyCard {
			cardCheck = ans.NewCardVerifier(m.DID).VerifyCard(ctx, &resolved.AgentCard)
		}

		if flagResolveJSON {
			out := struct {
				*mcpf.ResolvedCard
				CardSignature *ans.CardVerification `json:"cardSignature,omitempty"`
			}{resolved, cardCheck}
			return printJSON(out)
		}

		fmt.Printf("Name:     %s\n", resolved.Name)
		fmt.Printf("DID:      %s\n", resolved.DID)
		fmt.Printf("Version:  %s\n", resolved.Version)
		fmt.Printf("Status:   %s\n", resolved.Status)
		if resolved.Verification != nil {
			if resolved.Verification.Valid {
				fmt.Println("Credential: valid")
			} else {
				fmt.Printf("Credential: INVALID (%s)\n", resolved.Verification.Error)
			}
		} else {
			fmt.Println("Credential: none referenced")
		}
		if cardCheck != nil {
			switch {
			case !cardCheck.Signed:
				fmt.Println("Card signature: unsigned")
			case cardCheck.Valid:
				fmt.Printf("Card signature: valid (kid %s)\n", cardCheck.KeyID)
			default:
				fmt.Printf("Card signature: INVALID (%s)\n", cardCheck.Error)
				os.Exit(1)
			}
		}
		return nil
	},
}
