package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mazi76erX2/trac8-frontend/client"
	"github.com/mazi76erX2/trac8-frontend/internal/record"
)

func printRecords(a *app, rs []record.Record) {
	for _, r := range rs {
		_, _ = fmt.Fprintln(a.out, r.String())
	}
}

func resourceArg(cmd *cobra.Command, args []string) error {
	if err := cobra.MinimumNArgs(1)(cmd, args); err != nil {
		return err
	}
	for _, n := range client.ResourceNames() {
		if n == args[0] {
			return nil
		}
	}
	return fmt.Errorf("unknown resource %q (one of: %s)", args[0], strings.Join(client.ResourceNames(), ", "))
}

func newListCmd(a *app) *cobra.Command {
	var (
		opts client.ListOptions
		all  bool
	)
	cmd := &cobra.Command{
		Use:   "list RESOURCE",
		Short: "List records, one JSON object per line, then the match total",
		Args:  cobra.MatchAll(cobra.ExactArgs(1), resourceArg),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			if !cmd.Flags().Changed("page-size") {
				opts.PageSize = a.cfg.PageSize
			}

			ctx := cmd.Context()
			lister, err := c.Resource(args[0])
			if err != nil {
				return err
			}
			var resp *client.ListResponse
			if all {
				resp, err = lister.All(ctx, opts)
			} else {
				resp, err = lister.Get(ctx, opts)
			}
			if err != nil {
				return err
			}
			cnt, err := lister.Count(ctx, client.CountOptions{SearchQuery: opts.SearchQuery})
			if err != nil {
				return err
			}
			printRecords(a, resp.Data)
			_, _ = fmt.Fprintf(a.out, "total: %s\n", cnt.Data)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.SortField, "sort", "s", "", "field to sort by")
	cmd.Flags().StringVarP(&opts.SortMethod, "order", "o", "DESC", "ASC or DESC")
	cmd.Flags().StringVarP(&opts.SearchQuery, "search", "q", "", "case-insensitive text filter")
	cmd.Flags().IntVarP(&opts.Page, "page", "p", 1, "page number, from 1")
	cmd.Flags().IntVarP(&opts.PageSize, "page-size", "n", 10, "records per page (default $TRAC8_PAGE_SIZE)")
	cmd.Flags().BoolVar(&all, "all", false, "return every match, ignoring paging")
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "get RESOURCE ID",
		Short: "Print one record; nothing when it does not exist",
		Args:  cobra.MatchAll(cobra.ExactArgs(2), resourceArg),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			lister, err := c.Resource(args[0])
			if err != nil {
				return err
			}
			resp, err := lister.Get(cmd.Context(), client.ListOptions{ID: args[1], SearchQuery: search})
			if err != nil {
				return err
			}
			printRecords(a, resp.Data)
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "q", "", "only print the record if it matches")
	return cmd
}

func newCountCmd(a *app) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "count RESOURCE",
		Short: "Print how many records match",
		Args:  cobra.MatchAll(cobra.ExactArgs(1), resourceArg),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			lister, err := c.Resource(args[0])
			if err != nil {
				return err
			}
			cnt, err := lister.Count(cmd.Context(), client.CountOptions{SearchQuery: search})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(a.out, cnt.Data)
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "q", "", "case-insensitive text filter")
	return cmd
}
