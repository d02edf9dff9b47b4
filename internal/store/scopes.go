// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

package store

import (
	"fmt"
	"strings"
)

// scopeScanner scans a Postgres text[] literal (e.g. {read,write})
// into a string slice. Scope names are plain identifiers, so the
// simple quote-free array syntax is the only shape we ever see.
type scopeScanner []string

// Scan implements sql.Scanner.
func (s *scopeScanner) Scan(src any) error {
	var literal string
	switch v := src.(type) {
	case nil:
		*s = nil
		return nil
	case string:
		literal = v
	case []byte:
		literal = string(v)
	default:
		return fmt.Errorf("scan scopes: unsupported type %T", src)
	}

	literal = strings.TrimPrefix(literal, "{")
	literal = strings.TrimSuffix(literal, "}")
	if literal == "" {
		*s = []string{}
		return nil
	}

	parts := strings.Split(literal, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.Trim(strings.TrimSpace(p), `"`))
	}
	*s = out
	return nil
}
