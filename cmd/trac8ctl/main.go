// Command trac8ctl lists and inspects trac8 resources, drives readers and
// runs a local dev server.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mazi76erX2/trac8-frontend/client"
	"github.com/mazi76erX2/trac8-frontend/internal/config"
)

// app carries the resolved settings to every subcommand.
type app struct {
	out io.Writer
	cfg *config.Config

	apiURL string
	token  string
	debug  bool
}

func (a *app) client() (*client.Client, error) {
	return client.New(a.apiURL, a.token,
		client.WithHTTPTimeout(a.cfg.HTTPTimeout),
		client.WithProbeConcurrency(a.cfg.ProbeConcurrency),
		client.WithDebugLogging(a.debug),
	)
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}
	root := &cobra.Command{
		Use:           "trac8ctl",
		Short:         "CLI client for the trac8 asset-tracking API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New()
			if err != nil {
				return err
			}
			a.cfg = cfg
			if !cmd.Flags().Changed("api-url") {
				a.apiURL = cfg.APIURL
			}
			if !cmd.Flags().Changed("token") {
				a.token = cfg.APIToken
			}
			level := cfg.LogLevel
			if a.debug {
				level = "debug"
			}
			config.SetLogLevel(level)
			return nil
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVarP(&a.apiURL, "api-url", "a", "", "API base URL (default $TRAC8_API_URL)")
	root.PersistentFlags().StringVarP(&a.token, "token", "t", "", "bearer token (default $TRAC8_API_TOKEN)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "log HTTP traffic")

	root.AddCommand(
		newListCmd(a),
		newGetCmd(a),
		newCountCmd(a),
		newReadersCmd(a),
		newServeDevCmd(a),
	)
	return root
}

func main() {
	config.InitLogger("info")
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		log.Debug().Err(err).Msg("command failed")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
