package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"rakta/internal/client"
	"rakta/internal/config"
	"rakta/internal/localcache"
)

const (
	cacheKeyProfile   = "profile"
	cacheKeyDashboard = "dashboard"
)

var (
	cfgFile   string
	serverURL string
)

var rootCmd = &cobra.Command{
	Use:   "rakta",
	Short: "Command line client for the rakta blood donation service",
	Long: `rakta signs you in to a rakta server, shows your donor profile and the
donation activity dashboard, and lets you record donations or request blood.
Your profile and dashboard are cached locally so they remain readable offline.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.config/rakta/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "server url (overrides the config file)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultPath()
}

// session bundles what every command needs: stored settings, an API client
// carrying the saved token, and the offline cache.
type session struct {
	path  string
	cfg   *config.Config
	api   *client.Client
	cache *localcache.Store
}

func openSession() (*session, error) {
	return newSession(getConfigPath(), serverURL)
}

func newSession(path, server string) (*session, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if server = strings.TrimSpace(server); server != "" {
		cfg.ServerURL = server
	}
	api, err := client.NewClient(client.Options{
		BaseURL: cfg.ServerURL,
		Token:   cfg.Token,
		Locale:  cfg.Locale,
	})
	if err != nil {
		return nil, err
	}
	cache, err := localcache.Open(cfg.CachePath)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	return &session{path: path, cfg: cfg, api: api, cache: cache}, nil
}

func (s *session) Close() error {
	return s.cache.Close()
}

func (s *session) save() error {
	s.cfg.Token = s.api.Token()
	return config.Save(s.path, s.cfg)
}

// withSession opens a session for the duration of fn.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(cmd.Context(), s)
}

// offline reports whether err means the server could not be reached, as
// opposed to the server answering with an error.
func offline(err error) bool {
	if err == nil || errors.Is(err, client.ErrMissingToken) || errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *client.APIError
	return !errors.As(err, &apiErr)
}

func authError(err error) error {
	if client.IsUnauthorized(err) {
		return errors.New("not signed in or session expired, run `rakta login`")
	}
	return err
}
