package query

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spaceandtimelabs/ignite-go/client"
	"github.com/spaceandtimelabs/ignite-go/cmd/util"
	"github.com/spaceandtimelabs/ignite-go/protocol/object"
)

var (
	conn  *client.Client
	cache *client.Cache[object.String, object.String]

	// QueryCommands represents the query command group
	QueryCommands = &cobra.Command{
		Use:               "query",
		Short:             "Run scan and SQL queries against a cache",
		PersistentPreRunE: setupQueryClient,
		PersistentPostRun: teardownQueryClient,
	}

	scanCmd = &cobra.Command{
		Use:   "scan",
		Short: "Streams all entries of the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			count := 0
			err := cache.QueryScanFunc(int32(viper.GetInt("page-size")), func(p client.Pair[object.String, object.String]) (bool, error) {
				fmt.Printf("%s=%s\n", p.Key, p.Value)
				count++
				return true, nil
			})
			if err != nil {
				return err
			}
			fmt.Printf("%d entries\n", count)
			return nil
		},
	}

	sqlCmd = &cobra.Command{
		Use:   "sql [table] [query]",
		Short: "Runs an SQL query against a table of the cache",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, err := cache.QuerySQL(args[0], args[1], int32(viper.GetInt("page-size")))
			if err != nil {
				return err
			}
			for _, p := range pairs {
				fmt.Printf("%s=%s\n", p.Key, p.Value)
			}
			fmt.Printf("%d entries\n", len(pairs))
			return nil
		},
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common connection flags to the query command
	util.SetupClientFlags(QueryCommands)

	QueryCommands.PersistentFlags().String("cache", "default", util.WrapString("Name of the cache to query"))
	QueryCommands.PersistentFlags().Int("page-size", 100, util.WrapString("Number of entries fetched per cursor page"))

	// Add subcommands
	QueryCommands.AddCommand(scanCmd)
	QueryCommands.AddCommand(sqlCmd)
}

// setupQueryClient connects to the node and resolves the target cache
func setupQueryClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	c, err := util.NewClient()
	if err != nil {
		return err
	}

	conn = c
	cache = client.GetCache[object.String, object.String](c, viper.GetString("cache"))
	return nil
}

func teardownQueryClient(_ *cobra.Command, _ []string) {
	if conn != nil {
		_ = conn.Close()
	}
}
