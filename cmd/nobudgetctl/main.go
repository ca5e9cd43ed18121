package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"nobudget/internal/client"
)

const (
	defaultServer  = "http://localhost:5001"
	defaultTimeout = 10 * time.Second
)

// app carries the settings shared by every subcommand.
type app struct {
	v       *viper.Viper
	cfgFile string
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	root := &cobra.Command{
		Use:   "nobudgetctl",
		Short: "Command line client for a nobudget server",
		Long: `nobudgetctl talks to a running nobudget server: check its health, read the
dashboard summary, list a day's transactions, download charts and manage
expenses and categories.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.initConfig,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.config/nobudget/config.yaml)")
	root.PersistentFlags().String("server", defaultServer, "base URL of the nobudget server")
	root.PersistentFlags().Duration("timeout", defaultTimeout, "request timeout")
	_ = a.v.BindPFlag("server", root.PersistentFlags().Lookup("server"))
	_ = a.v.BindPFlag("timeout", root.PersistentFlags().Lookup("timeout"))

	root.AddCommand(a.healthCmd())
	root.AddCommand(a.summaryCmd())
	root.AddCommand(a.dayCmd())
	root.AddCommand(a.chartCmd())
	root.AddCommand(a.expensesCmd())
	root.AddCommand(a.categoriesCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func (a *app) initConfig(_ *cobra.Command, _ []string) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(filepath.Join(home, ".config", "nobudget"))
		}
		a.v.AddConfigPath(".")
		a.v.SetConfigName("nobudgetctl")
		a.v.SetConfigType("yaml")
	}

	a.v.SetEnvPrefix("NOBUDGET")
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

func (a *app) client() *client.Client {
	timeout := a.v.GetDuration("timeout")
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	server := a.v.GetString("server")
	if server == "" {
		server = defaultServer
	}
	return client.New(server, &http.Client{Timeout: timeout})
}
