package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spaceandtimelabs/ignite-go/cmd/caches"
	"github.com/spaceandtimelabs/ignite-go/cmd/kv"
	"github.com/spaceandtimelabs/ignite-go/cmd/query"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "ignite",
		Short: "thin client for cluster nodes",
		Long: fmt.Sprintf(`ignite (v%s)

A thin client for the binary cache protocol of cluster nodes. Connects
to a single node over TCP or TLS and exposes cache administration,
key-value and query operations.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of ignite",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ignite v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(caches.CacheCommands)
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(query.QueryCommands)
	RootCmd.AddCommand(versionCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
