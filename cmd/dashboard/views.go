package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gdpdash/internal/formatter"
)

func newRankCmd(opts *options) *cobra.Command {
	var showReport bool

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Show the top countries for the selected year and metric",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}

			sel := opts.selection(e)

			ranked, err := e.state.Ranking(sel)
			if err != nil {
				return err
			}

			if len(ranked) > sel.TopN {
				ranked = ranked[:sel.TopN]
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.Ranking(ranked, sel.Year, sel.Metric))

			if showReport {
				snap, err := e.state.Snapshot()
				if err != nil {
					return err
				}

				fmt.Fprintln(out)
				fmt.Fprint(out, formatter.LoadReport(snap))
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&showReport, "report", false, "Print the per-country load report")

	return cmd
}

func newStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show global totals for the selected year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}

			summary, err := e.state.Summary(opts.selection(e).Year)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.Summary(summary))

			return nil
		},
	}
}

func newShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one country's figures, rank, growth and history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}

			detail, err := e.state.Detail(strings.ToLower(args[0]), opts.selection(e).Year)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.Detail(detail))

			return nil
		},
	}
}

func newSearchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Find countries by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}

			res, err := e.state.Search(strings.Join(args, " "))
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.SearchResults(res.Query, res.Results, res.Suggestions))

			return nil
		},
	}
}

func newChartCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "chart",
		Short: "Draw the top-N bar chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}

			series, err := e.state.Chart(opts.selection(e))
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.Chart(series))

			return nil
		},
	}
}
