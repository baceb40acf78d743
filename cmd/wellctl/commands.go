package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"drilling-dashboard/internal/backend"
	"drilling-dashboard/internal/config"
	"drilling-dashboard/internal/logger"
	"drilling-dashboard/internal/services"
)

var (
	backendURL string
	token      string
	wellID     string
	sortBy     string
	desc       bool
	wellsSort  string
	wellsDesc  bool
)

// newDashboard dibuat per command supaya flag --backend dibaca setelah parse.
var newDashboard = func() (*services.Dashboard, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Init("warn", "text")
	url := backendURL
	if url == "" {
		url = cfg.Backend.DecideurURL
	}
	return services.NewDashboard(backend.New(url, backend.Options{Timeout: cfg.Backend.Timeout})), nil
}

var rootCmd = &cobra.Command{
	Use:           "wellctl",
	Short:         "Inspect drilling wells and planned-vs-actual reconciliation",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var wellsCmd = &cobra.Command{
	Use:   "wells",
	Short: "List wells with their current phase",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDashboard()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		wells, err := d.WellList(ctx)
		if err != nil {
			return err
		}
		return printWells(cmd.OutOrStdout(), services.SortWells(wells, wellsSort, wellsDesc))
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Print a well's reports joined with phase forecasts",
	Long: `Fetch one well's daily reports and per-phase forecasts, then print
planned vs actual cost and delay for every report.

Sort keys: date (default), phase, cost, delay, operation, id.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if wellID == "" {
			return fmt.Errorf("--well is required")
		}
		d, err := newDashboard()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		det, err := d.WellDetails(ctx, wellID)
		if err != nil {
			return err
		}
		for k, v := range det.Errors {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %s\n", k, v)
		}
		return printRows(cmd.OutOrStdout(), services.SortRows(det.Rows, services.ParseSortKey(sortBy), desc))
	},
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize LABEL...",
	Short: "Print the canonical phase key of each label",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, a := range args {
			fmt.Fprintf(out, "%s\t%s\n", a, services.NormalizePhase(a))
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "backend base URL (default DECIDEUR_BACKEND_URL)")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token forwarded to the backend")

	reconcileCmd.Flags().StringVar(&wellID, "well", "", "well id")
	reconcileCmd.Flags().StringVar(&sortBy, "sort", "date", "sort key")
	reconcileCmd.Flags().BoolVar(&desc, "desc", false, "descending order")
	wellsCmd.Flags().StringVar(&wellsSort, "sort", "name", "sort key: name, status, phase")
	wellsCmd.Flags().BoolVar(&wellsDesc, "desc", false, "descending order")

	rootCmd.AddCommand(wellsCmd, reconcileCmd, normalizeCmd)
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if token != "" {
		ctx = backend.WithToken(ctx, token)
	}
	return context.WithTimeout(ctx, 60*time.Second)
}

func printWells(w io.Writer, wells []services.WellView) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tPHASE")
	for _, x := range wells {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", x.ID, x.Name, x.Status, x.Phase)
	}
	return tw.Flush()
}

func printRows(w io.Writer, rows []services.Row) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tPHASE\tCOST PLAN\tCOST ACT\tDELAY PLAN\tDELAY ACT\tCOST\tDELAY")
	for _, r := range rows {
		date := "-"
		if !r.Date.IsZero() {
			date = r.Date.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, date, r.Phase, r.PlannedCost, r.ActualCost, r.PlannedDelay, r.ActualDelay, r.CostStatus, r.DelayStatus)
	}
	return tw.Flush()
}
