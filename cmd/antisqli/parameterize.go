package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/Konsultn-Engineering/antisqli"
	"github.com/Konsultn-Engineering/antisqli/document"
	"github.com/Konsultn-Engineering/antisqli/param"
)

type parameterOutput struct {
	Name  string       `json:"name"`
	Type  param.DBType `json:"type"`
	Value any          `json:"value"`
}

type queryOutput struct {
	Dialect    string            `json:"dialect"`
	Query      string            `json:"query"`
	Parameters []parameterOutput `json:"parameters"`
	// Bindings is the per-occurrence binding order of positional dialects.
	Bindings []string `json:"bindings,omitempty"`
}

func newQueryOutput(dialect string, q *antisqli.Query) queryOutput {
	out := queryOutput{Dialect: dialect, Query: q.Text}
	for _, p := range q.Parameters {
		out.Parameters = append(out.Parameters, parameterOutput{Name: p.Name, Type: p.Type, Value: p.Value.Any()})
	}
	if q.Positional() {
		out.Bindings = q.Bindings().Names()
	}
	return out
}

func newParameterizeCmd(flags *globalFlags) *cobra.Command {
	var argsJSON string
	cmd := &cobra.Command{
		Use:   "parameterize <template>",
		Short: "Print the parameterized query and its parameters as JSON",
		Example: `  antisqli parameterize --args '["O''Brien", 42]' 'SELECT * FROM users WHERE name={0} AND age={1}'
  antisqli parameterize -d cosmos --args '["x"]' 'SELECT * FROM c WHERE c.id = {0}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, positional []string) error {
			_, logger, e, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			defer logger.Sync()

			args, err := parseArgs(argsJSON)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			if e.Dialect().Name() == "cosmos" {
				def, err := document.Create(e, positional[0], args...)
				if err != nil {
					return err
				}
				return enc.Encode(def)
			}

			q, err := e.Parameterize(positional[0], args...)
			if err != nil {
				return err
			}
			return enc.Encode(newQueryOutput(e.Dialect().Name(), q))
		},
	}
	cmd.Flags().StringVarP(&argsJSON, "args", "a", "[]", "arguments as a JSON array")
	return cmd
}
