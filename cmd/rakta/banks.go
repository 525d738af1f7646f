package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var (
	banksCountry string
	banksCity    string
)

var banksCmd = &cobra.Command{
	Use:   "banks",
	Short: "List blood banks near you",
	Long: `Lists blood banks. Without --country the server picks the country from
your locale or network address; use --country all to list every bank.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			return runBanks(ctx, cmd.OutOrStdout(), s, banksCountry, banksCity)
		})
	},
}

func init() {
	banksCmd.Flags().StringVar(&banksCountry, "country", "", "ISO country code, or all")
	banksCmd.Flags().StringVar(&banksCity, "city", "", "filter by city")
	rootCmd.AddCommand(banksCmd)
}

func runBanks(ctx context.Context, out io.Writer, s *session, country, city string) error {
	list, err := s.api.BloodBanks(ctx, country, city)
	if err != nil {
		return err
	}
	if len(list.Items) == 0 {
		fmt.Fprintln(out, "No blood banks found")
		return nil
	}
	for _, b := range list.Items {
		fmt.Fprintf(out, "%s\n  %s, %s %s\n", b.Name, b.Address, b.City, b.CountryCode)
		if b.Phone != "" || b.OpenHours != "" {
			fmt.Fprintf(out, "  %s  %s\n", b.Phone, b.OpenHours)
		}
	}
	return nil
}
