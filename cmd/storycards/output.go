// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Output formats accepted by --format.
const (
	formatTable = "table"
	formatYAML  = "yaml"
	formatJSON  = "json"
)

// writeFormatted encodes v as YAML or JSON, or calls table for the
// human-readable form.
func writeFormatted(w io.Writer, format string, v any, table func(io.Writer)) error {
	switch strings.ToLower(format) {
	case "", formatTable:
		table(w)
		return nil
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q: use table, yaml or json", format)
	}
}

// truncate shortens s to n runes for table columns.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
