// Package cmd builds the personnel command tree: one-shot record commands
// that print to stdout, and the interactive screen started by the bare command.
package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"personnel/internal/client/api"
	"personnel/internal/client/config"
	"personnel/internal/shared/logging"
)

// ownsTerminal marks commands that draw on the terminal; they never log to stderr.
const ownsTerminal = "owns-terminal"

// cliContext is shared by every subcommand and filled in before each run.
type cliContext struct {
	serverURL string
	verbose   bool

	cfg    config.Config
	logger *zap.Logger
	client *api.Client
	loc    *time.Location
}

// NewRootCmd returns the personnel root command. version and buildDate are
// stamped at link time and shown by the version subcommand.
func NewRootCmd(version, buildDate string) *cobra.Command {
	cc := &cliContext{}
	root := &cobra.Command{
		Use:          "personnel",
		Short:        "Personnel records client",
		Long:         "Manage personnel records on a personnel REST backend. Without a subcommand the interactive screen starts.",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		Annotations:  map[string]string{ownsTerminal: "true"},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return cc.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if cc.logger != nil {
				_ = cc.logger.Sync()
			}
		},
		RunE: cc.runTUI,
	}
	root.PersistentFlags().StringVar(&cc.serverURL, "server", "", "Personnel collection URL (default $PERSONNEL_API_URL or "+config.DefaultAPIURL+")")
	root.PersistentFlags().BoolVarP(&cc.verbose, "verbose", "v", false, "Log request failures in detail")

	root.AddCommand(newVersionCmd(version, buildDate))
	root.AddCommand(newTUICmd(cc))
	root.AddCommand(newListCmd(cc))
	root.AddCommand(newGetCmd(cc))
	root.AddCommand(newAddCmd(cc))
	root.AddCommand(newUpdateCmd(cc))
	root.AddCommand(newDeleteCmd(cc))
	return root
}

func (cc *cliContext) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cc.cfg = cfg
	if cc.serverURL == "" {
		cc.serverURL = cfg.APIURL
	}
	if cc.loc, err = cfg.Location(); err != nil {
		return err
	}

	opts := logging.Options{Level: cfg.LogLevel, Development: true, Verbose: cc.verbose}
	switch {
	case cfg.LogFile != "":
		opts.OutputPaths = []string{cfg.LogFile}
	case cmd.Annotations[ownsTerminal] == "true":
		cc.logger = zap.NewNop()
	}
	if cc.logger == nil {
		logger, err := logging.New(opts)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		cc.logger = logger
	}

	cc.client = api.New(cc.serverURL,
		api.WithLogger(cc.logger.Named("api")),
		api.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	)
	cc.logger.Debug("client configured", zap.String("server", cc.serverURL), zap.Duration("timeout", cfg.Timeout))
	return nil
}
