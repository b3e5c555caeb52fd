// Package dialect describes how each backend spells a parameter reference
// inside query text and how it binds arguments to those references.
package dialect

import (
	"fmt"
	"sort"
	"strings"
)

type Dialect interface {
	// Name is the registry key, e.g. "postgres".
	Name() string
	// Reference returns the text written in place of placeholder index for
	// the parameter called name.
	Reference(index int, name string) string
	// Positional reports whether arguments bind by occurrence order, so a
	// parameter referenced twice must be supplied twice.
	Positional() bool
	// MaxParameters is the most parameters one statement may carry, or 0
	// when the backend sets no limit. For positional dialects it bounds
	// placeholder occurrences, since each occurrence binds separately.
	MaxParameters() int
}

var registry = map[string]func() Dialect{
	"sqlserver": NewSQLServerDialect,
	"postgres":  NewPostgresDialect,
	"pgx":       NewPgxDialect,
	"mysql":     NewMySQLDialect,
	"tidb":      NewTiDBDialect,
	"sqlite":    NewSQLiteDialect,
	"cosmos":    NewCosmosDialect,
}

// Lookup returns the dialect registered under name (case-insensitive).
func Lookup(name string) (Dialect, error) {
	ctor, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown dialect %q (known: %s)", name, strings.Join(Names(), ", "))
	}
	return ctor(), nil
}

// Names lists the registered dialect names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// atSign spells references as @name. SQL Server, SQLite, pgx named
// arguments and Cosmos DB all accept it.
func atSign(_ int, name string) string {
	return "@" + name
}
