package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Konsultn-Engineering/antisqli"
	"github.com/Konsultn-Engineering/antisqli/config"
	"github.com/Konsultn-Engineering/antisqli/dialect"
	"github.com/Konsultn-Engineering/antisqli/logging"
	"github.com/Konsultn-Engineering/antisqli/param"
	"github.com/Konsultn-Engineering/antisqli/relational"
)

type globalFlags struct {
	configPath string
	dialect    string
	strict     bool
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:   "antisqli",
		Short: "Turn query templates into parameter-bound queries",
		Long: `antisqli rewrites positional placeholders ({0}, {1}, ...) in a query
template into generated parameter references and binds the arguments as
parameters, so argument values never become part of the query text.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "YAML configuration file")
	pf.StringVarP(&flags.dialect, "dialect", "d", "", "reference style: "+fmt.Sprint(dialect.Names()))
	pf.BoolVar(&flags.strict, "strict", false, "reject arguments no placeholder references")
	pf.StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(newParameterizeCmd(flags), newExecCmd(flags))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration, applies flag overrides and builds the logger
// and engine.
func setup(cmd *cobra.Command, flags *globalFlags) (config.Config, *zap.Logger, *antisqli.Engine, error) {
	cfg := config.Default()
	if flags.configPath != "" {
		var err error
		if cfg, err = config.Load(flags.configPath); err != nil {
			return cfg, nil, nil, err
		}
	}
	if flags.dialect != "" {
		cfg.Dialect = flags.dialect
	}
	if cmd.Flags().Changed("strict") {
		cfg.Strict = flags.strict
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, nil, err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return cfg, nil, nil, err
	}

	d, err := dialect.Lookup(cfg.Dialect)
	if err != nil {
		return cfg, nil, nil, err
	}
	e := antisqli.New(
		antisqli.WithDialect(d),
		antisqli.WithInferrer(inferrerFor(d)),
		antisqli.WithStrict(cfg.Strict),
		antisqli.WithLogger(logger),
	)
	return cfg, logger, e, nil
}

func inferrerFor(d dialect.Dialect) param.Inferrer {
	switch d.Name() {
	case "postgres", "pgx":
		return relational.PgxInferrer{}
	case "cosmos":
		return param.UntypedInferrer{}
	case "sqlserver":
		return param.KindInferrer{}
	default:
		return relational.SQLInferrer{}
	}
}
