package kv

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spaceandtimelabs/ignite-go/client"
	"github.com/spaceandtimelabs/ignite-go/cmd/util"
	"github.com/spaceandtimelabs/ignite-go/protocol/object"
)

var (
	conn  *client.Client
	cache *client.Cache[object.String, object.String]

	// KeyValueCommands represents the KV command group
	KeyValueCommands = &cobra.Command{
		Use:               "kv",
		Short:             "Perform key-value operations on a cache",
		PersistentPreRunE: setupKVClient,
		PersistentPostRun: teardownKVClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common connection flags to the KV command
	util.SetupClientFlags(KeyValueCommands)

	// All KV operations run against one cache, keys and values are strings
	KeyValueCommands.PersistentFlags().String("cache", "default", util.WrapString("Name of the cache to operate on"))

	// Add subcommands
	KeyValueCommands.AddCommand(putCmd)
	KeyValueCommands.AddCommand(putIfAbsentCmd)
	KeyValueCommands.AddCommand(getCmd)
	KeyValueCommands.AddCommand(delCmd)
	KeyValueCommands.AddCommand(hasCmd)
	KeyValueCommands.AddCommand(sizeCmd)
	KeyValueCommands.AddCommand(clearCmd)
	KeyValueCommands.AddCommand(perfTestCmd)
}

// setupKVClient connects to the node and resolves the target cache
func setupKVClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	c, err := util.NewClient()
	if err != nil {
		return err
	}

	ch, err := client.GetOrCreateCache[object.String, object.String](c, viper.GetString("cache"))
	if err != nil {
		_ = c.Close()
		return err
	}

	conn = c
	cache = ch
	return nil
}

func teardownKVClient(_ *cobra.Command, _ []string) {
	if conn != nil {
		_ = conn.Close()
	}
}
