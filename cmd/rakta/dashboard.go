package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"rakta/internal/client"
)

const maxBarWidth = 30

var dashboardRefresh bool

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show recent donation activity and lives saved",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			return runDashboard(ctx, cmd.OutOrStdout(), s, dashboardRefresh, time.Now())
		})
	},
}

func init() {
	dashboardCmd.Flags().BoolVar(&dashboardRefresh, "refresh", false, "ask the server to recompute before showing")
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(ctx context.Context, out io.Writer, s *session, refresh bool, now time.Time) error {
	d, err := s.api.Dashboard(ctx, refresh)
	switch {
	case err == nil:
		if err := s.cache.PutJSON(ctx, cacheKeyDashboard, d); err != nil {
			return err
		}
	case offline(err):
		var cached client.Dashboard
		at, cacheErr := s.cache.GetJSON(ctx, cacheKeyDashboard, &cached)
		if cacheErr != nil {
			return fmt.Errorf("server unreachable and no cached dashboard: %w", err)
		}
		fmt.Fprintf(out, "(offline, showing dashboard cached %s)\n", humanize.RelTime(at, now, "ago", "from now"))
		d = &cached
	default:
		return authError(err)
	}
	printDashboard(out, d)
	return nil
}

func printDashboard(out io.Writer, d *client.Dashboard) {
	peak := 0
	for _, v := range d.Series.Data {
		peak = max(peak, v)
	}
	for i, label := range d.Series.Labels {
		v := 0
		if i < len(d.Series.Data) {
			v = d.Series.Data[i]
		}
		width := 0
		if peak > 0 {
			width = v * maxBarWidth / peak
		}
		fmt.Fprintf(out, "%6s %s %d\n", label, strings.Repeat("#", width), v)
	}
	fmt.Fprintf(out, "Lives saved: %s\n", humanize.Comma(int64(d.LivesSaved)))
	fmt.Fprintf(out, "Last updated: %s\n", d.LastUpdatedHuman)
	for _, n := range d.Notifications {
		fmt.Fprintf(out, "! %s\n", n.Message)
	}
}
