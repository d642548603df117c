package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/veritrust/mcpf-go/pkg/a2a"
)

var (
	flagDelegateJSON bool
	flagAuditFrom    string
	flagAuditTo      string
	flagAuditAction  string
	flagAuditStart   string
	flagAuditEnd     string
)

func init() {
	delegateCheckCmd.Flags().BoolVar(&flagDelegateJSON, "json", false, "Output the decision as JSON")

	delegateAuditCmd.Flags().StringVar(&flagAuditFrom, "from", "", "Filter on delegating agent DID")
	delegateAuditCmd.Flags().StringVar(&flagAuditTo, "to", "", "Filter on delegate agent DID")
	delegateAuditCmd.Flags().StringVar(&flagAuditAction, "action", "", "Filter on action")
	delegateAuditCmd.Flags().StringVar(&flagAuditStart, "start-date", "", "Filter on entries at or after this date (RFC 3339)")
	delegateAuditCmd.Flags().StringVar(&flagAuditEnd, "end-date", "", "Filter on entries at or before this date (RFC 3339)")

	delegateCmd.AddCommand(delegateCheckCmd)
	delegateCmd.AddCommand(delegateAuditCmd)
	rootCmd.AddCommand(delegateCmd)
}

var delegateCmd = &cobra.Command{
	Use:   "delegate",
	Short: "Agent-to-agent delegation policy operations",
}

var delegateCheckCmd = &cobra.Command{
	Use:   "check [from-did] [to-did] [action]",
	Short: "Check whether one agent may delegate to another",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(_ *cobra.Command, args []string) error {
		m := newFacade()
		if m.A2A == nil {
			return fmt.Errorf("delegation requires --a2a-url")
		}

		action := ""
		if len(args) == 3 {
			action = args[2]
		}

		result, err := m.A2A.CheckDelegation(context.Background(), args[0], args[1], action)
		if err != nil {
			return err
		}

		if flagDelegateJSON {
			if err := printJSON(result); err != nil {
				return err
			}
		} else if result.Allowed {
			fmt.Printf("ALLOWED: %s\n", result.Reason)
		} else {
			fmt.Printf("DENIED: %s\n", result.Reason)
		}

		if !result.Allowed {
			os.Exit(1)
		}
		return nil
	},
}

var delegateAuditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Query the delegation audit trail",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		m := newFacade()
		if m.A2A == nil {
			return fmt.Errorf("delegation requires --a2a-url")
		}

		entries, err := m.A2A.AuditLog(context.Background(), a2a.AuditFilter{
			From:      flagAuditFrom,
			To:        flagAuditTo,
			Action:    flagAuditAction,
			StartDate: flagAuditStart,
			EndDate:   flagAuditEnd,
		})
		if err != nil {
			return err
		}
		return printJSON(entries)
	},
}
