package main

import (
	"context"

	"github.com/spf13/cobra"
)

func init() {
	didCmd.AddCommand(didResolveCmd)
	rootCmd.AddCommand(didCmd)
}

var didCmd = &cobra.Command{
	Use:   "did",
	Short: "DID operations",
}

var didResolveCmd = &cobra.Command{
	Use:   "resolve [did]",
	Short: "Resolve a DID to its DID Document",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		m := newFacade()
		doc, err := m.DID.Resolve(context.Background(), args[0])
		if err != nil {
			return err
		}
		return printJSON(doc)
	},
}
