package main

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"rakta/internal/client"
)

var donateInput client.DonationInput

var donateCmd = &cobra.Command{
	Use:     "donate",
	Short:   "Record a blood donation",
	Example: `  rakta donate --group A+ --location "Central Blood Transfusion Service" --amount 450`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			return runDonate(ctx, cmd.OutOrStdout(), s, donateInput)
		})
	},
}

func init() {
	donateCmd.Flags().StringVar(&donateInput.BloodGroup, "group", "", "blood group donated, e.g. O+")
	donateCmd.Flags().StringVar(&donateInput.Location, "location", "", "where you donated")
	donateCmd.Flags().IntVar(&donateInput.AmountML, "amount", 0, "amount in ml")
	rootCmd.AddCommand(donateCmd)
}

func runDonate(ctx context.Context, out io.Writer, s *session, in client.DonationInput) error {
	d, err := s.api.Donate(ctx, in)
	if err != nil {
		return authError(err)
	}
	// the cached profile totals are stale now
	if err := s.cache.Delete(ctx, cacheKeyProfile); err != nil {
		return err
	}
	fmt.Fprintln(out, d.Message)
	fmt.Fprintf(out, "Recorded %s ml at %s\n", humanize.Comma(int64(d.AmountML)), d.Location)
	return nil
}
