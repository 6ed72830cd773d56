package files

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// LocalStorage reads test data from a directory, used when validating problems offline.
type LocalStorage struct {
	Root string
}

func (s LocalStorage) GetFile(_ context.Context, filename string) (io.Reader, error) {
	path := filepath.Join(s.Root, filepath.FromSlash(filename))
	rel, err := filepath.Rel(s.Root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, errors.Errorf("%s is outside of %s", filename, s.Root)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return file, nil
}
