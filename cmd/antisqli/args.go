package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// parseArgs decodes a JSON array of arguments. Integral numbers become
// int64 and other numbers decimal.Decimal, so no precision is lost.
func parseArgs(data string) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.UseNumber()

	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("arguments must be a JSON array: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("arguments must be a single JSON array")
	}

	args := make([]any, len(raw))
	for i, v := range raw {
		n, ok := v.(json.Number)
		if !ok {
			args[i] = v
			continue
		}
		if iv, err := n.Int64(); err == nil {
			args[i] = iv
			continue
		}
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		args[i] = d
	}
	return args, nil
}
