package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mazi76erX2/trac8-frontend/client"
)

func newReadersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "readers", Short: "Reader status and commands"}

	var opts client.ListOptions
	status := &cobra.Command{
		Use:   "status",
		Short: "Show a page of readers with their connection state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			if !cmd.Flags().Changed("page-size") {
				opts.PageSize = a.cfg.PageSize
			}
			page, err := c.Readers().PageWithStatus(cmd.Context(), opts)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tNAME\tCONNECTED")
			for _, r := range page.Items {
				id, _ := r.ID()
				name, _ := r.Get("name")
				up, _ := r.Get(client.ConnectedField)
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", id, name.Text(), up.Text())
			}
			_ = tw.Flush()
			_, _ = fmt.Fprintf(a.out, "total: %d\n", page.TotalMatching)
			return nil
		},
	}
	status.Flags().StringVarP(&opts.SortField, "sort", "s", "", "field to sort by (default name)")
	status.Flags().StringVarP(&opts.SortMethod, "order", "o", "ASC", "ASC or DESC")
	status.Flags().StringVarP(&opts.SearchQuery, "search", "q", "", "case-insensitive text filter")
	status.Flags().IntVarP(&opts.Page, "page", "p", 1, "page number, from 1")
	status.Flags().IntVarP(&opts.PageSize, "page-size", "n", 10, "readers per page")
	cmd.AddCommand(status)

	for _, rc := range []client.ReaderCommand{client.ReaderConnect, client.ReaderDisconnect, client.ReaderStopAlarm} {
		cmd.AddCommand(newReaderCommandCmd(a, rc))
	}
	return cmd
}

// newReaderCommandCmd runs cmd synchronously, or with --async through the
// client's command queue, waiting for it to drain before exiting.
func newReaderCommandCmd(a *app, rc client.ReaderCommand) *cobra.Command {
	var async bool
	cmd := &cobra.Command{
		Use:   string(rc) + " READER_ID...",
		Short: "Send " + string(rc) + " to readers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx := cmd.Context()

			for _, id := range args {
				if !async {
					if err := c.Readers().Command(ctx, id, rc); err != nil {
						return fmt.Errorf("reader %s: %w", id, err)
					}
					_, _ = fmt.Fprintf(a.out, "%s %s: ok\n", rc, id)
					continue
				}
				ack, err := c.SubmitReaderCommand(ctx, id, rc)
				if err != nil {
					return fmt.Errorf("reader %s: %w", id, err)
				}
				_, _ = fmt.Fprintf(a.out, "%s %s: %s\n", ack.Command, ack.ReaderID, ack.Status)
			}
			if async {
				for _, id := range args {
					if err := c.AwaitReader(ctx, id); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&async, "async", false, "queue the commands and retry transient failures")
	return cmd
}
