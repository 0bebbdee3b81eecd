package corpus

import (
	"bytes"

	"github.com/charmbracelet/log"
	"github.com/conneroisu/toke/pkg/toke"
	"github.com/pkg/errors"
)

const (
	// BlockSize is the size of an archive header or data block.
	BlockSize = 512

	sizeOffset  = 124
	sizeDigits  = 11
	typeOffset  = 156
	magicOffset = 257
)

// Magic is the header signature every archive entry must carry.
var Magic = []byte("ustar\x00")

// Archive is a read-only memory-mapped tar archive whose regular files are
// the documents of a corpus.
type Archive struct {
	path   string
	mapped *mapping
	logger *log.Logger
}

// OpenArchive maps the archive at path.
func OpenArchive(path string) (*Archive, error) {
	m, err := mapFile(path)
	if err != nil {
		return nil, err
	}
	return &Archive{path: path, mapped: m, logger: log.Default()}, nil
}

// Len returns the size of the mapped archive in bytes.
func (a *Archive) Len() int {
	if a.mapped == nil {
		return 0
	}
	return len(a.mapped.data)
}

// Close unmaps the archive. Document slices handed out by Walk are invalid
// afterwards.
func (a *Archive) Close() error {
	if a.mapped == nil {
		return nil
	}
	err := a.mapped.close()
	a.mapped = nil
	return err
}

// Walk scans the archive from the start and visits every regular file,
// maxJobs documents at a time. A malformed header aborts the walk.
func (a *Archive) Walk(maxJobs int, v Visitor) error {
	if a.mapped == nil {
		return errors.Wrapf(toke.ErrFileNotFound, "%s is not open", a.path)
	}
	data := a.mapped.data
	b := newBatch(maxJobs, v)
	fileIndex := 0
	for offset := 0; len(data)-offset >= BlockSize; {
		header := data[offset : offset+BlockSize]
		if isZeroBlock(header) {
			// end-of-archive marker
			break
		}
		if !bytes.Equal(header[magicOffset:magicOffset+len(Magic)], Magic) {
			return errors.Wrapf(toke.ErrFileIO, "%s: bad magic at offset %d", a.path, offset)
		}
		size, err := parseSize(header[sizeOffset : sizeOffset+sizeDigits])
		if err != nil {
			return errors.Wrapf(toke.ErrFileIO, "%s: header at offset %d: %v", a.path, offset, err)
		}
		numBlocks := (size + BlockSize - 1) / BlockSize
		start := offset + BlockSize
		if end := start + size; end > len(data) {
			return errors.Wrapf(toke.ErrFileIO, "%s: entry at offset %d runs past end of archive", a.path, offset)
		}

		if typ := header[typeOffset]; typ == 0 || typ == '0' {
			a.logger.Debug("queue document", "index", fileIndex, "size", size)
			if err := b.add(job{doc: data[start : start+size : start+size], index: fileIndex}); err != nil {
				return err
			}
			fileIndex++
		}
		offset = start + numBlocks*BlockSize
	}
	return b.flush()
}

// parseSize decodes the octal size field of a header.
func parseSize(field []byte) (int, error) {
	size := 0
	for _, c := range field {
		if c < '0' || c > '7' {
			return 0, errors.Errorf("invalid size field %q", field)
		}
		size = size*8 + int(c-'0')
	}
	return size, nil
}

func isZeroBlock(block []byte) bool {
	for _, c := range block {
		if c != 0 {
			return false
		}
	}
	return true
}
