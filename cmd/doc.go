// Package cmd implements the command-line interface for the ignite thin
// client. It provides a hierarchical command structure with operations for
// managing and querying caches on a cluster node.
//
// The package is organized into several subpackages:
//
//   - caches: Commands for cache administration (ls, create, destroy, config)
//   - kv: Commands for key-value operations (get, put, del, etc.)
//   - query: Commands for scan and SQL queries
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See ignite -help for a list of all commands.
package cmd
