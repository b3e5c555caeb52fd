package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Konsultn-Engineering/antisqli"
	"github.com/Konsultn-Engineering/antisqli/connector"
	"github.com/Konsultn-Engineering/antisqli/database"
	"github.com/Konsultn-Engineering/antisqli/relational"
)

// statementFor parameterizes template and binds it the way the engine's
// dialect expects arguments.
func statementFor(e *antisqli.Engine, template string, args []any) (database.Statement, error) {
	switch e.Dialect().Name() {
	case "cosmos":
		return nil, errors.New("cosmos queries cannot run against a relational database")
	case "pgx":
		var stmt relational.PgxStatement
		if err := e.Load(&stmt, template, args...); err != nil {
			return nil, err
		}
		return &stmt, nil
	case "postgres", "mysql", "tidb":
		cmd, err := relational.Prepare(e, relational.Positional, template, args...)
		if err != nil {
			return nil, err
		}
		return cmd, nil
	default:
		cmd, err := relational.Prepare(e, relational.NamedArg, template, args...)
		if err != nil {
			return nil, err
		}
		return cmd, nil
	}
}

func newExecCmd(flags *globalFlags) *cobra.Command {
	var (
		argsJSON string
		query    bool
	)
	cmd := &cobra.Command{
		Use:     "exec <template>",
		Short:   "Parameterize a template and run it against the configured database",
		Example: `  antisqli exec -c antisqli.yaml --query --args '[42]' 'SELECT name FROM users WHERE age > {0}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, positional []string) error {
			cfg, logger, e, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			defer logger.Sync()

			if cfg.Database.Driver == "" {
				return errors.New("no database configured: set database.driver and database.dsn")
			}

			args, err := parseArgs(argsJSON)
			if err != nil {
				return err
			}
			stmt, err := statementFor(e, positional[0], args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			db, err := connector.Open(ctx, cfg.Database, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			if cfg.Database.QueryTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.Database.QueryTimeout)
				defer cancel()
			}

			if !query {
				res, err := db.ExecContext(ctx, stmt)
				if err != nil {
					return err
				}
				n, err := res.RowsAffected()
				if err != nil {
					return err
				}
				logger.Debug("statement executed", zap.Int64("rows_affected", n))
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "rows affected: %d\n", n)
				return err
			}

			rows, err := db.QueryContext(ctx, stmt)
			if err != nil {
				return err
			}
			return writeRows(cmd, rows)
		},
	}
	cmd.Flags().StringVarP(&argsJSON, "args", "a", "[]", "arguments as a JSON array")
	cmd.Flags().BoolVarP(&query, "query", "q", false, "print result rows as JSON lines")
	return cmd
}

func writeRows(cmd *cobra.Command, rows database.Rows) error {
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return err
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				row[c] = string(b)
				continue
			}
			row[c] = vals[i]
		}
		if err := enc.Encode(row); err != nil {
			return err
		}
	}
	return rows.Err()
}
