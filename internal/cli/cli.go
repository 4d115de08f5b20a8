package cli

import (
	"errors"
	"io"
	"log/slog"

	"github.com/specialistvlad/paragrid/internal/app"
	"github.com/spf13/cobra"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

type options struct {
	configFile string
	envFile    string
	logLevel   string
	logFormat  string
	cacheSize  int

	queries []string

	healthcheckPort int
	viewURL         string
	viewNamespace   string
	viewEvents      []string
	viewInsecure    bool
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var config *app.Config
	root := newRootCommand(func(c *app.Config) { config = c })
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	root.SetOut(output)
	root.SetErr(output)

	if err := root.Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return nil, false, exitErr
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if config == nil {
		// Help or version output was printed.
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

func newRootCommand(done func(*app.Config)) *cobra.Command {
	o := &options{}

	root := &cobra.Command{
		Use:   "paragrid",
		Short: "Parametric model engine",
		Long: `Paragrid - loads parametric models from HCL files, updates every
object in dependency order and reports the results.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&o.configFile, "config", "", "Path to a YAML config file.")
	pf.StringVar(&o.envFile, "env-file", "", "Path to a .env file with PARAGRID_* variables.")
	pf.StringVar(&o.logLevel, "log-level", "", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'. (default \"info\")")
	pf.StringVar(&o.logFormat, "log-format", "", "Log output format. Options: 'text' or 'json'. (default \"text\")")
	pf.IntVar(&o.cacheSize, "cache-size", 0, "Number of parsed expressions kept in memory. 0 uses the built-in default.")

	update := &cobra.Command{
		Use:   "update MODEL...",
		Short: "Load and update a model, then print the queried values",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.build(cmd, args, func(*app.Config) {})
			if err != nil {
				return err
			}
			done(cfg)
			return nil
		},
	}
	update.Flags().StringArrayVarP(&o.queries, "query", "q", nil, "Dotted path to print after the update. Repeatable.")

	order := &cobra.Command{
		Use:   "order MODEL...",
		Short: "Load and update a model, then print every namespace's update order",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.build(cmd, args, func(c *app.Config) { c.PrintOrder = true })
			if err != nil {
				return err
			}
			done(cfg)
			return nil
		},
	}

	serve := &cobra.Command{
		Use:   "serve MODEL...",
		Short: "Load and update a model, then serve it over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.build(cmd, args, func(c *app.Config) { c.Serve = true })
			if err != nil {
				return err
			}
			done(cfg)
			return nil
		},
	}
	sf := serve.Flags()
	sf.IntVar(&o.healthcheckPort, "healthcheck-port", 0, "Port for the HTTP server. 0 picks a free port.")
	sf.StringVar(&o.viewURL, "view-url", "", "socket.io server that receives model events.")
	sf.StringVar(&o.viewNamespace, "view-namespace", "", "socket.io namespace for model events. (default \"/\")")
	sf.StringSliceVar(&o.viewEvents, "view-events", nil, "Event kinds sent to the view. Empty sends all.")
	sf.BoolVar(&o.viewInsecure, "view-insecure", false, "Skip TLS verification when connecting the view.")

	root.AddCommand(update, order, serve)
	return root
}
