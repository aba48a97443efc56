// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads and stores credentials in a directory of plain-text
// files. Each file is one secret: the filename is the key name and the
// trimmed file contents are the value.
//
// Supported key files: trello-api-key, trello-token.
package secrets

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

// Key file names.
const (
	KeyTrelloAPIKey = "trello-api-key"
	KeyTrelloToken  = "trello-token"
)

// ErrMissing is returned by Require when a key has no value.
var ErrMissing = errors.New("missing secret")

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory is not an error; Load returns an empty map.
// Unreadable files are logged and skipped.
func Load(dir string, logger *slog.Logger) (map[string]string, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", "name", name, "error", err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Save writes value to dir/key with owner-only permissions, creating dir
// if needed.
func Save(dir, key, value string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating secrets directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, key)
	if err := atomic.WriteFile(path, strings.NewReader(strings.TrimSpace(value)+"\n")); err != nil {
		return fmt.Errorf("writing secret %s: %w", key, err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("restricting secret %s: %w", key, err)
	}
	return nil
}

// Require returns the values for keys, or an error wrapping ErrMissing
// that names every absent key.
func Require(secrets map[string]string, keys ...string) ([]string, error) {
	values := make([]string, len(keys))
	var missing []string
	for i, k := range keys {
		v := secrets[k]
		if v == "" {
			missing = append(missing, k)
		}
		values[i] = v
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissing, strings.Join(missing, ", "))
	}
	return values, nil
}
