//go:build unix

package corpus

import (
	"os"

	"github.com/conneroisu/toke/pkg/toke"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// mapping is a read-only view of a whole file.
type mapping struct {
	data []byte
}

func mapFile(path string) (*mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(toke.ErrFileNotFound, "%s: %v", path, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(toke.ErrFileIO, "stat %s: %v", path, err)
	}
	size := info.Size()
	if size == 0 {
		return &mapping{}, nil
	}
	if int64(int(size)) != size {
		return nil, errors.Wrapf(toke.ErrFileIO, "%s: size %d exceeds address space", path, size)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, errors.Wrapf(toke.ErrFileNotFound, "mmap %s: %v", path, err)
	}
	return &mapping{data: data}, nil
}

func (m *mapping) close() error {
	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	if err != nil {
		return errors.Wrapf(toke.ErrFileIO, "munmap: %v", err)
	}
	return nil
}
