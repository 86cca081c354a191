package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var removePrefix bool

func newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <key>...",
		Aliases: []string{"remove"},
		Short:   "Remove keys, or every key under a prefix with --prefix",
		Args:    cobra.MinimumNArgs(1),
		RunE:    runRemove,
	}
	cmd.Flags().BoolVar(&removePrefix, "prefix", false, "treat arguments as key prefixes")
	return cmd
}

func runRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Cleanup()

	keys := args
	if removePrefix {
		keys = nil
		for _, p := range args {
			matched, err := store.List(ctx, p)
			if err != nil {
				return err
			}
			keys = append(keys, matched...)
		}
	}

	for _, key := range keys {
		if err := store.Delete(ctx, key); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %d keys\n", len(keys))
	return nil
}
