package caches

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/spaceandtimelabs/ignite-go/client"
	"github.com/spaceandtimelabs/ignite-go/cmd/util"
	"github.com/spaceandtimelabs/ignite-go/protocol/object"
)

var (
	conn *client.Client

	// CacheCommands represents the cache administration command group
	CacheCommands = &cobra.Command{
		Use:               "caches",
		Short:             "Manage caches on the cluster",
		PersistentPreRunE: setupClient,
		PersistentPostRun: teardownClient,
	}

	lsCmd = &cobra.Command{
		Use:   "ls",
		Short: "Lists all caches of the cluster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := conn.CacheNames()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}

	createCmd = &cobra.Command{
		Use:   "create [name]",
		Short: "Creates a cache with default configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := client.CreateCache[object.String, object.String](conn, args[0]); err != nil {
				return err
			}
			fmt.Println("created successfully")
			return nil
		},
	}

	destroyCmd = &cobra.Command{
		Use:   "destroy [name]",
		Short: "Destroys a cache and all its data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := conn.DestroyCache(args[0]); err != nil {
				return err
			}
			fmt.Println("destroyed successfully")
			return nil
		},
	}

	configCmd = &cobra.Command{
		Use:   "config [name]",
		Short: "Prints the configuration of a cache as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := conn.CacheConfiguration(args[0])
			if err != nil {
				return err
			}
			out, err := sonic.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common connection flags to the caches command
	util.SetupClientFlags(CacheCommands)

	// Add subcommands
	CacheCommands.AddCommand(lsCmd)
	CacheCommands.AddCommand(createCmd)
	CacheCommands.AddCommand(destroyCmd)
	CacheCommands.AddCommand(configCmd)
}

// setupClient connects to the configured node
func setupClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	c, err := util.NewClient()
	if err != nil {
		return err
	}
	conn = c
	return nil
}

func teardownClient(_ *cobra.Command, _ []string) {
	if conn != nil {
		_ = conn.Close()
	}
}
