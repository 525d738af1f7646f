package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"rakta/internal/client"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your donor profile",
	Long:  `Shows your profile. When the server cannot be reached the last cached copy is shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			return runProfile(ctx, cmd.OutOrStdout(), s, time.Now())
		})
	},
}

var availableCmd = &cobra.Command{
	Use:       "available on|off",
	Short:     "Set whether you can be asked to donate",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			return runAvailable(ctx, cmd.OutOrStdout(), s, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(profileCmd, availableCmd)
}

func runProfile(ctx context.Context, out io.Writer, s *session, now time.Time) error {
	p, err := s.api.Me(ctx)
	switch {
	case err == nil:
		if err := s.cache.PutJSON(ctx, cacheKeyProfile, p); err != nil {
			return err
		}
	case offline(err):
		var cached client.Profile
		at, cacheErr := s.cache.GetJSON(ctx, cacheKeyProfile, &cached)
		if cacheErr != nil {
			return fmt.Errorf("server unreachable and no cached profile: %w", err)
		}
		fmt.Fprintf(out, "(offline, showing profile cached %s)\n", humanize.RelTime(at, now, "ago", "from now"))
		p = &cached
	default:
		return authError(err)
	}
	printProfile(out, p)
	return nil
}

func runAvailable(ctx context.Context, out io.Writer, s *session, arg string) error {
	var available bool
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "on", "yes", "true":
		available = true
	case "off", "no", "false":
	default:
		return errors.New("expected on or off")
	}
	p, err := s.api.SetAvailability(ctx, available)
	if err != nil {
		return authError(err)
	}
	if err := s.cache.PutJSON(ctx, cacheKeyProfile, p); err != nil {
		return err
	}
	if p.AvailableToDonate {
		fmt.Fprintln(out, "You are now available to donate")
	} else {
		fmt.Fprintln(out, "You are no longer available to donate")
	}
	return nil
}

func printProfile(out io.Writer, p *client.Profile) {
	fmt.Fprintf(out, "%-18s %s\n", "Name:", p.FullName)
	fmt.Fprintf(out, "%-18s %s\n", "Email:", p.Email)
	bloodType := p.BloodGroup + p.RH
	if p.BloodType != nil && *p.BloodType != "" {
		bloodType = *p.BloodType
	}
	if bloodType != "" {
		fmt.Fprintf(out, "%-18s %s\n", "Blood type:", bloodType)
	}
	if p.AgeYears != nil {
		fmt.Fprintf(out, "%-18s %d\n", "Age:", *p.AgeYears)
	}
	if p.CountryRegion != "" {
		fmt.Fprintf(out, "%-18s %s\n", "Country:", p.CountryRegion)
	}
	fmt.Fprintf(out, "%-18s %s ml over %s\n", "Donated:",
		humanize.Comma(int64(p.TotalBloodDonated)), pluralize(p.DonationCount, "donation"))
	fmt.Fprintf(out, "%-18s %s\n", "Requests made:", humanize.Comma(int64(p.RequestCount)))
	availability := "no"
	if p.AvailableToDonate {
		availability = "yes"
	}
	fmt.Fprintf(out, "%-18s %s\n", "Available:", availability)
	if len(p.ChronicDiseases) > 0 {
		fmt.Fprintf(out, "%-18s %s\n", "Chronic diseases:", strings.Join(p.ChronicDiseases, ", "))
	}
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return humanize.Comma(int64(n)) + " " + noun + "s"
}
