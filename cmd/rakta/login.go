package main

import (
	"bufio"
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

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and remember the session",
	Long: `Signs in with email and password. The password is read from --password
or, when omitted, from the first line of standard input.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			return runLogin(ctx, cmd.OutOrStdout(), cmd.InOrStdin(), s, loginEmail, loginPassword)
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the local cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			return runLogout(ctx, cmd.OutOrStdout(), s)
		})
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email (defaults to the last one used)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password")
	rootCmd.AddCommand(loginCmd, logoutCmd)
}

func runLogin(ctx context.Context, out io.Writer, in io.Reader, s *session, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		email = s.cfg.Email
	}
	if email == "" {
		return errors.New("--email is required")
	}
	if password == "" {
		fmt.Fprint(out, "Password: ")
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("reading password: %w", err)
		}
		fmt.Fprintln(out)
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		return errors.New("password is required")
	}

	sess, err := s.api.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	s.cfg.Email = email
	s.cfg.ExpiresAt = sess.ExpiresAt
	if err := s.save(); err != nil {
		return err
	}
	if err := s.cache.PutJSON(ctx, cacheKeyProfile, sess.User); err != nil {
		return err
	}

	fmt.Fprintf(out, "Signed in as %s (%s)\n", sess.User.FullName, sess.User.Email)
	if exp, err := time.Parse(time.RFC3339, sess.ExpiresAt); err == nil {
		fmt.Fprintf(out, "Session expires %s\n", humanize.Time(exp))
	}
	return nil
}

func runLogout(ctx context.Context, out io.Writer, s *session) error {
	if s.cfg.SignedIn() {
		if err := s.api.SignOut(ctx); err != nil && !offline(err) && !client.IsUnauthorized(err) {
			return err
		}
	}
	s.api.SetToken("")
	s.cfg.ClearSession()
	if err := s.save(); err != nil {
		return err
	}
	if err := s.cache.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "Signed out")
	return nil
}
