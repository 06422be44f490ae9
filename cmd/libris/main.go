package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"libris/internal/config"
	"libris/internal/util"
	"libris/pkg/browse"
	"libris/pkg/circulation"
	"libris/pkg/client"
	"libris/pkg/session"
)

// app carries the wired-up pieces shared by all commands.
type app struct {
	cfg     config.FileConfig
	client  *client.Client
	browser *browse.Browser
}

func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	util.InitLogger(cfg.LogLevel)

	timeout, err := config.ParseRequestTimeout(cfg.RequestTimeout)
	if err != nil {
		return nil, err
	}
	c := client.NewClient(cfg.BaseURL, timeout)

	var cache browse.Cache
	if cfg.RedisAddr != "" {
		ttl, err := config.ParseCacheTTL(cfg.CacheTTL)
		if err != nil {
			return nil, err
		}
		cache = browse.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, ttl)
	}

	return &app{
		cfg:     cfg,
		client:  c,
		browser: browse.New(c, cache, cfg.PageSize),
	}, nil
}

// requireSession loads the stored session, rejects expired ones, and
// attaches the token to the client.
func (a *app) requireSession() (session.Session, error) {
	sess, err := session.Load(a.cfg.SessionFile)
	if err != nil {
		return session.Session{}, err
	}
	if sess.Expired(time.Now()) {
		return session.Session{}, fmt.Errorf("session expired, log in again")
	}
	a.client.SetToken(sess.Token)
	return sess, nil
}

// loanService builds the lifecycle manager for the session user.
func (a *app) loanService(sess session.Session) *circulation.Service {
	return circulation.NewService(a.client, sess.User, *a.cfg.PenaltyDailyRate)
}

func main() {
	var configPath string
	var a *app

	root := &cobra.Command{
		Use:           "libris",
		Short:         "Browse the library catalog and manage your loans",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = newApp(configPath)
			return err
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", config.ConfigPath, "config file path")

	root.AddCommand(
		newLoginCmd(&a),
		newLogoutCmd(&a),
		newSignupCmd(&a),
		newBrowseCmd(&a),
		newGenresCmd(&a),
		newFiltersCmd(&a),
		newBorrowCmd(&a),
		newReturnCmd(&a),
		newLoansCmd(&a),
		newLoanAdminCmd(&a),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
