package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"rakta/internal/client"
)

var (
	requestInput client.BloodRequestInput
	requestLimit int
)

var requestCmd = &cobra.Command{
	Use:     "request",
	Short:   "Request blood; available donors of the group are notified",
	Example: `  rakta request --group O- --units 2 --hospital "Bir Hospital" --location Kathmandu --urgency urgent`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			return runRequest(ctx, cmd.OutOrStdout(), s, requestInput)
		})
	},
}

var requestListCmd = &cobra.Command{
	Use:   "list",
	Short: "List open blood requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			return runRequestList(ctx, cmd.OutOrStdout(), s, requestLimit, time.Now())
		})
	},
}

func init() {
	requestCmd.Flags().StringVar(&requestInput.BloodGroup, "group", "", "blood group needed, e.g. AB-")
	requestCmd.Flags().IntVar(&requestInput.Units, "units", 1, "units needed")
	requestCmd.Flags().StringVar(&requestInput.Hospital, "hospital", "", "hospital name")
	requestCmd.Flags().StringVar(&requestInput.Location, "location", "", "city or address")
	requestCmd.Flags().StringVar(&requestInput.Urgency, "urgency", "", "normal, urgent or critical")
	requestCmd.Flags().StringVar(&requestInput.Note, "note", "", "extra details for donors")
	requestListCmd.Flags().IntVar(&requestLimit, "limit", 20, "maximum requests to show")
	requestCmd.AddCommand(requestListCmd)
	rootCmd.AddCommand(requestCmd)
}

func runRequest(ctx context.Context, out io.Writer, s *session, in client.BloodRequestInput) error {
	r, err := s.api.RequestBlood(ctx, in)
	if err != nil {
		return authError(err)
	}
	fmt.Fprintf(out, "Requested %d unit(s) of %s at %s (%s)\n", r.Units, r.BloodType, r.Hospital, r.Urgency)
	fmt.Fprintf(out, "Request %s is %s\n", r.ID, r.Status)
	return nil
}

func runRequestList(ctx context.Context, out io.Writer, s *session, limit int, now time.Time) error {
	items, err := s.api.ListRequests(ctx, limit)
	if err != nil {
		return authError(err)
	}
	if len(items) == 0 {
		fmt.Fprintln(out, "No open requests")
		return nil
	}
	for _, r := range items {
		age := r.CreatedAt
		if created, err := time.Parse(time.RFC3339, r.CreatedAt); err == nil {
			age = humanize.RelTime(created, now, "ago", "from now")
		}
		fmt.Fprintf(out, "%-4s %2d unit(s)  %-9s %-10s %s, %s (%s)\n",
			r.BloodType, r.Units, r.Urgency, r.Status, r.Hospital, r.Location, age)
	}
	return nil
}
