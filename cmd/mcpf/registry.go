package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/veritrust/mcpf-go/pkg/registry"
)

var (
	flagSearchCapability string
	flagSearchTag        string
	flagSearchOrg        string
	flagSearchCountry    string
	flagListPage         int
	flagListLimit        int
)

func init() {
	registrySearchCmd.Flags().StringVar(&flagSearchCapability, "capability", "", "Filter on capability")
	registrySearchCmd.Flags().StringVar(&flagSearchTag, "tag", "", "Filter on tag")
	registrySearchCmd.Flags().StringVar(&flagSearchOrg, "organization", "", "Filter on organization")
	registrySearchCmd.Flags().StringVar(&flagSearchCountry, "country", "", "Filter on country code")

	registryListCmd.Flags().IntVar(&flagListPage, "page", registry.DefaultPage, "Page number")
	registryListCmd.Flags().IntVar(&flagListLimit, "limit", registry.DefaultLimit, "Page size")

	registryCmd.AddCommand(registrySearchCmd)
	registryCmd.AddCommand(registryListCmd)
	registryCmd.AddCommand(registryGetCmd)
	rootCmd.AddCommand(registryCmd)
}

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "MCP server directory operations",
}

var registrySearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the server directory",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		m := newFacade()
		list, err := m.FindMCPServer(context.Background(), registry.SearchFilters{
			Capability:   flagSearchCapability,
			Tag:          flagSearchTag,
			Organization: flagSearchOrg,
			Country:      flagSearchCountry,
		})
		if err != nil {
			return err
		}
		return printJSON(list)
	},
}

var registryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List directory servers",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		m := newFacade()
		list, err := m.Registry.ListServers(context.Background(), flagListPage, flagListLimit)
		if err != nil {
			return err
		}
		return printJSON(list)
	},
}

var registryGetCmd = &cobra.Command{
	Use:   "get [did]",
	Short: "Fetch a server record by DID",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		m := newFacade()
		server, err := m.Registry.GetServer(context.Background(), args[0])
		if err != nil {
			return err
		}
		return printJSON(server)
	},
}
