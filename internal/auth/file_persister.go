package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fivetwenty-io/spotify-client/internal/constants"
)

// FilePersister keeps the token in a JSON file readable only by its owner.
type FilePersister struct {
	path string
}

// NewFilePersister creates a persister for path.
func NewFilePersister(path string) *FilePersister {
	return &FilePersister{path: path}
}

// Path returns the cache file location.
func (p *FilePersister) Path() string {
	return p.path
}

// Load reads the cached token. A missing file is not an error.
func (p *FilePersister) Load(_ context.Context) (*Token, error) {
	data, err := os.ReadFile(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading token cache: %w", err)
	}

	var token Token

	err = json.Unmarshal(data, &token)
	if err != nil {
		return nil, fmt.Errorf("parsing token cache: %w", err)
	}

	return &token, nil
}

// Save writes token atomically with owner-only permissions.
func (p *FilePersister) Save(_ context.Context, token *Token) error {
	dir := filepath.Dir(p.path)

	err := os.MkdirAll(dir, constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("creating token cache directory: %w", err)
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".token-*")
	if err != nil {
		return fmt.Errorf("creating temporary token file: %w", err)
	}

	defer func() { _ = os.Remove(tmp.Name()) }()

	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("writing token cache: %w", err)
	}

	err = os.Chmod(tmp.Name(), constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("setting token cache permissions: %w", err)
	}

	err = os.Rename(tmp.Name(), p.path)
	if err != nil {
		return fmt.Errorf("replacing token cache: %w", err)
	}

	return nil
}
