//go:build !unix

package corpus

import (
	"os"

	"github.com/conneroisu/toke/pkg/toke"
	"github.com/pkg/errors"
)

// mapping holds a whole file in memory on platforms without mmap support.
type mapping struct {
	data []byte
}

func mapFile(path string) (*mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(toke.ErrFileNotFound, "%s", path)
		}
		return nil, errors.Wrapf(toke.ErrFileIO, "reading %s: %v", path, err)
	}
	return &mapping{data: data}, nil
}

func (m *mapping) close() error {
	m.data = nil
	return nil
}
