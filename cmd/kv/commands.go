package kv

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spaceandtimelabs/ignite-go/protocol/object"
)

var (
	putCmd = &cobra.Command{
		Use:   "put [key] [value]",
		Short: "Stores the value for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cache.Put(object.String(args[0]), object.String(args[1])); err != nil {
				return err
			} else {
				fmt.Println("put successfully")
			}
			return nil
		},
	}
	putIfAbsentCmd = &cobra.Command{
		Use:   "putIfAbsent [key] [value]",
		Short: "Stores the value only if the key is not already set",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ok, err := cache.PutIfAbsent(object.String(args[0]), object.String(args[1])); err != nil {
				return err
			} else {
				fmt.Printf("stored=%v\n", ok)
			}
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if resp, ok, err := cache.Get(object.String(key)); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, found=%v, resp=%s\n", key, ok, resp)
			}
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [key]",
		Short: "Deletes a key value pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ok, err := cache.RemoveKey(object.String(args[0])); err != nil {
				return err
			} else {
				fmt.Printf("removed=%v\n", ok)
			}
			return nil
		},
	}
	hasCmd = &cobra.Command{
		Use:   "has [key]",
		Short: "Checks if a key is present",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ok, err := cache.ContainsKey(object.String(args[0])); err != nil {
				return err
			} else {
				fmt.Printf("found=%v\n", ok)
			}
			return nil
		},
	}
	sizeCmd = &cobra.Command{
		Use:   "size",
		Short: "Prints the number of entries in the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if n, err := cache.Size(); err != nil {
				return err
			} else {
				fmt.Printf("size=%d\n", n)
			}
			return nil
		},
	}
	clearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Removes all entries from the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cache.Clear(); err != nil {
				return err
			} else {
				fmt.Println("cleared successfully")
			}
			return nil
		},
	}
)
