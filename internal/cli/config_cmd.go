package cli

import (
	"errors"
	"net/url"

	"fraudlabs-cli/internal/config"
	"fraudlabs-cli/internal/fraudlabs"

	"github.com/spf13/cobra"
)

var errNoConfigOptions = errors.New("no options provided: use --api-key, --base-url or --history-dsn")

func (a *App) newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
	}
	cmd.AddCommand(a.newConfigSetCommand(), a.newConfigShowCommand())
	return cmd
}

func (a *App) newConfigSetCommand() *cobra.Command {
	var apiKey, baseURL, historyDSN string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set configuration values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			updates := []struct {
				key, value, done string
			}{
				{config.KeyAPIKey, apiKey, "API key set"},
				{config.KeyBaseURL, baseURL, "Base URL set"},
				{config.KeyHistoryDSN, historyDSN, "History store set"},
			}

			changed := 0
			for _, u := range updates {
				if u.value == "" {
					continue
				}
				if err := a.store.Set(u.key, u.value); err != nil {
					return err
				}
				a.out.Success(u.done)
				changed++
			}
			if changed == 0 {
				return errNoConfigOptions
			}
			a.log.Info().Str("path", a.store.Path()).Int("changed", changed).Msg("configuration saved")
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&apiKey, "api-key", "", "FraudLabs Pro API key")
	f.StringVar(&baseURL, "base-url", "", "API base URL (default "+fraudlabs.DefaultBaseURL+")")
	f.StringVar(&historyDSN, "history-dsn", "", "history store: SQLite path or postgres:// URL")
	return cmd
}

func (a *App) newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := a.out
			p.Title("FraudLabs Pro CLI Configuration")

			key := a.store.Get(config.KeyAPIKey)
			if key == "" {
				p.Row("API Key:", p.red.Sprint("not set"))
			} else {
				p.Row("API Key:", p.green.Sprint(config.Mask(key))+a.envNote(config.KeyAPIKey))
			}

			base := a.store.Get(config.KeyBaseURL)
			if base == "" {
				p.Row("Base URL:", fraudlabs.DefaultBaseURL+p.gray.Sprint(" (default)"))
			} else {
				p.Row("Base URL:", base+a.envNote(config.KeyBaseURL))
			}

			dsn := a.store.Get(config.KeyHistoryDSN)
			if dsn == "" {
				p.Row("History Store:", p.gray.Sprint("not set"))
			} else {
				p.Row("History Store:", redactDSN(dsn)+a.envNote(config.KeyHistoryDSN))
			}

			p.Row("Config File:", a.store.Path())
			p.Blank()
			return nil
		},
	}
}

func (a *App) envNote(key string) string {
	if a.store.FromEnv(key) {
		return a.out.gray.Sprint(" (env)")
	}
	return ""
}

// redactDSN hides the password of a postgres URL.
func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	return u.Redacted()
}
