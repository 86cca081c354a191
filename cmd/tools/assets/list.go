package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mousey-app/dashboard/edge/cachepolicy"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ls [prefix]",
		Aliases: []string{"list"},
		Short:   "List stored keys with size, age and cache tier",
		Args:    cobra.MaximumNArgs(1),
		RunE:    runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	prefix := ""
	if len(args) == 1 {
		prefix = args[0]
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Cleanup()

	keys, err := store.List(ctx, prefix)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	var total uint64
	for _, key := range keys {
		a, err := store.Get(ctx, key)
		if err != nil {
			return err
		}
		total += uint64(len(a.Data))
		age := "-"
		if !a.Modified.IsZero() {
			age = humanize.Time(a.Modified)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", key, humanize.Bytes(uint64(len(a.Data))), age, cachepolicy.ForPath("/"+key).Tier)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s keys, %s\n", humanize.Comma(int64(len(keys))), humanize.Bytes(total))
	return nil
}
