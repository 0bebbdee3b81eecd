package corpus

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/conneroisu/toke/pkg/toke"
	"github.com/dlclark/regexp2"
	"github.com/pkg/errors"
	"github.com/yargevad/filepathx"
	"golang.org/x/exp/slices"
)

// Directory is a corpus made of the regular files below a root directory.
// Files are visited in lexical path order.
type Directory struct {
	root   string
	paths  []string
	cache  [][]byte
	logger *log.Logger
}

// OpenDirectory lists the regular files below root. With opts.Preload every
// file is read once up front; otherwise files are read by the walk workers.
func OpenDirectory(root string, opts Options) (*Directory, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	var include *regexp2.Regexp
	if opts.Include != "" {
		re, err := regexp2.Compile(opts.Include, regexp2.None)
		if err != nil {
			return nil, errors.Wrapf(err, "include pattern %q", opts.Include)
		}
		include = re
	}

	// A single-element Globs walks everything below the root without
	// matching discovered paths against a further pattern.
	matches, err := filepathx.Globs{escapeGlob(filepath.Clean(root))}.Expand()
	if err != nil {
		return nil, errors.Wrapf(toke.ErrFileIO, "listing %s: %v", root, err)
	}
	d := &Directory{root: root, logger: logger}
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if include != nil {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				rel = path
			}
			ok, err := include.MatchString(filepath.ToSlash(rel))
			if err != nil {
				return nil, errors.Wrapf(err, "matching %s", rel)
			}
			if !ok {
				continue
			}
		}
		d.paths = append(d.paths, path)
	}
	slices.Sort(d.paths)
	logger.Debug("listed corpus directory", "root", root, "files", len(d.paths))

	if opts.Preload {
		d.cache = make([][]byte, len(d.paths))
		for i, path := range d.paths {
			if d.cache[i], err = readDocument(path); err != nil {
				return nil, err
			}
		}
	}
	return d, nil
}

// escapeGlob quotes the glob metacharacters of a literal path.
func escapeGlob(path string) string {
	if runtime.GOOS == "windows" {
		return path
	}
	var b strings.Builder
	for _, r := range path {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Len returns the number of files in the corpus.
func (d *Directory) Len() int {
	return len(d.paths)
}

// Paths returns the corpus files in visiting order.
func (d *Directory) Paths() []string {
	return d.paths
}

// Walk visits every file, maxJobs at a time.
func (d *Directory) Walk(maxJobs int, v Visitor) error {
	b := newBatch(maxJobs, v)
	for i, path := range d.paths {
		j := job{index: i}
		if d.cache != nil {
			j.doc = d.cache[i]
		} else {
			path := path
			j.load = func() ([]byte, error) { return readDocument(path) }
		}
		if err := b.add(j); err != nil {
			return err
		}
	}
	return b.flush()
}

// Close drops any preloaded documents.
func (d *Directory) Close() error {
	d.cache = nil
	return nil
}

func readDocument(path string) ([]byte, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(toke.ErrFileNotFound, "%s", path)
		}
		return nil, errors.Wrapf(toke.ErrFileIO, "reading %s: %v", path, err)
	}
	return doc, nil
}
