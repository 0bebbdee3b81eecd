package corpus

import (
	"archive/tar"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/conneroisu/toke/pkg/toke"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	name string
	body string
	dir  bool
}

func writeArchive(t *testing.T, entries []entry) string {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, e := range entries {
		hdr := &tar.Header{
			Name:    e.name,
			Mode:    0o644,
			Size:    int64(len(e.body)),
			ModTime: time.Unix(1700000000, 0),
			Format:  tar.FormatUSTAR,
		}
		if e.dir {
			hdr.Typeflag = tar.TypeDir
			hdr.Mode = 0o755
		} else {
			hdr.Typeflag = tar.TypeReg
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if !e.dir {
			_, err := tw.Write([]byte(e.body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	path := filepath.Join(t.TempDir(), "corpus.tar")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

// recorder collects visited documents and batch sizes.
type recorder struct {
	mu      sync.Mutex
	docs    map[int]string
	slots   []int
	batches []int
}

func newRecorder() *recorder {
	return &recorder{docs: map[int]string{}}
}

func (r *recorder) VisitDocument(doc []byte, fileIndex, slot int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[fileIndex] = string(doc)
	r.slots = append(r.slots, slot)
}

func (r *recorder) EndBatch(n int) {
	r.batches = append(r.batches, n)
}

func TestArchiveWalk(t *testing.T) {
	path := writeArchive(t, []entry{
		{name: "docs/", dir: true},
		{name: "docs/a.txt", body: "alpha"},
		{name: "docs/b.txt", body: string(bytes.Repeat([]byte("b"), 1300))},
		{name: "docs/empty.txt", body: ""},
		{name: "docs/c.txt", body: "gamma"},
		{name: "docs/d.txt", body: "delta"},
	})
	a, err := OpenArchive(path)
	require.NoError(t, err)
	defer a.Close()

	rec := newRecorder()
	require.NoError(t, a.Walk(2, rec))
	assert.Equal(t, map[int]string{
		0: "alpha",
		1: string(bytes.Repeat([]byte("b"), 1300)),
		2: "",
		3: "gamma",
		4: "delta",
	}, rec.docs)
	assert.Equal(t, []int{2, 2, 1}, rec.batches)
	for _, slot := range rec.slots {
		assert.Less(t, slot, 2)
	}
}

func TestArchiveWalkFunc(t *testing.T) {
	path := writeArchive(t, []entry{{name: "a.txt", body: "x"}, {name: "b.txt", body: "y"}})
	a, err := OpenArchive(path)
	require.NoError(t, err)
	defer a.Close()

	var mu sync.Mutex
	total := 0
	require.NoError(t, a.Walk(8, VisitFunc(func(doc []byte, _, _ int) {
		mu.Lock()
		total += len(doc)
		mu.Unlock()
	})))
	assert.Equal(t, 2, total)
}

func header(size string, typ byte, magic string) []byte {
	block := make([]byte, BlockSize)
	copy(block, "doc.txt")
	copy(block[sizeOffset:], size)
	block[typeOffset] = typ
	copy(block[magicOffset:], magic)
	return block
}

func writeRaw(t *testing.T, blocks ...[]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "raw.tar")
	require.NoError(t, os.WriteFile(path, bytes.Join(blocks, nil), 0o644))
	return path
}

func dataBlock(body string) []byte {
	block := make([]byte, BlockSize)
	copy(block, body)
	return block
}

func TestArchiveRawHeaders(t *testing.T) {
	path := writeRaw(t,
		header("00000000005", 0, "ustar\x00"), dataBlock("hello"),
		header("00000000003", '5', "ustar\x00"), dataBlock("dir"),
		header("00000000005", '0', "ustar\x00"), dataBlock("world"),
		[]byte("trailing bytes shorter than a block"),
	)
	a, err := OpenArchive(path)
	require.NoError(t, err)
	defer a.Close()

	rec := newRecorder()
	require.NoError(t, a.Walk(4, rec))
	assert.Equal(t, map[int]string{0: "hello", 1: "world"}, rec.docs)
	assert.Equal(t, []int{2}, rec.batches)
}

func TestArchiveBadMagic(t *testing.T) {
	path := writeRaw(t, header("00000000005", '0', "gnutar"), dataBlock("hello"))
	a, err := OpenArchive(path)
	require.NoError(t, err)
	defer a.Close()
	err = a.Walk(1, newRecorder())
	assert.True(t, errors.Is(err, toke.ErrFileIO))
}

func TestArchiveBadSize(t *testing.T) {
	path := writeRaw(t, header("0000000000x", '0', "ustar\x00"), dataBlock("hello"))
	a, err := OpenArchive(path)
	require.NoError(t, err)
	defer a.Close()
	err = a.Walk(1, newRecorder())
	assert.True(t, errors.Is(err, toke.ErrFileIO))
}

func TestArchiveTruncatedEntry(t *testing.T) {
	path := writeRaw(t, header("00000002000", '0', "ustar\x00"), dataBlock("short"))
	a, err := OpenArchive(path)
	require.NoError(t, err)
	defer a.Close()
	err = a.Walk(1, newRecorder())
	assert.True(t, errors.Is(err, toke.ErrFileIO))
}

func TestArchiveMalformedEntryAbortsAfterEarlierBatches(t *testing.T) {
	path := writeRaw(t,
		header("00000000001", '0', "ustar\x00"), dataBlock("a"),
		header("00000000001", '0', "nope!!"), dataBlock("b"),
	)
	a, err := OpenArchive(path)
	require.NoError(t, err)
	defer a.Close()
	rec := newRecorder()
	err = a.Walk(1, rec)
	assert.True(t, errors.Is(err, toke.ErrFileIO))
	assert.Equal(t, map[int]string{0: "a"}, rec.docs)
}

func TestArchiveEmptyFile(t *testing.T) {
	path := writeRaw(t)
	a, err := OpenArchive(path)
	require.NoError(t, err)
	assert.Equal(t, 0, a.Len())
	rec := newRecorder()
	require.NoError(t, a.Walk(4, rec))
	assert.Empty(t, rec.docs)
	require.NoError(t, a.Close())
}

func TestOpenArchiveMissing(t *testing.T) {
	_, err := OpenArchive(filepath.Join(t.TempDir(), "missing.tar"))
	assert.True(t, errors.Is(err, toke.ErrFileNotFound))
}

func TestArchiveClosed(t *testing.T) {
	path := writeArchive(t, []entry{{name: "a.txt", body: "x"}})
	a, err := OpenArchive(path)
	require.NoError(t, err)
	require.NoError(t, a.Close())
	assert.True(t, errors.Is(a.Walk(1, newRecorder()), toke.ErrFileNotFound))
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return root
}

func TestDirectoryWalk(t *testing.T) {
	root := writeTree(t, map[string]string{
		"b.txt":         "bravo",
		"a.txt":         "alpha",
		"nested/c.txt":  "charlie",
		"nested/d.json": "{}",
	})
	for _, preload := range []bool{false, true} {
		t.Run(fmt.Sprintf("preload=%v", preload), func(t *testing.T) {
			d, err := OpenDirectory(root, Options{Preload: preload})
			require.NoError(t, err)
			defer d.Close()
			assert.Equal(t, 4, d.Len())

			rec := newRecorder()
			require.NoError(t, d.Walk(3, rec))
			assert.Equal(t, map[int]string{0: "alpha", 1: "bravo", 2: "charlie", 3: "{}"}, rec.docs)
			assert.Equal(t, []int{3, 1}, rec.batches)
		})
	}
}

func TestDirectoryInclude(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.txt":         "alpha",
		"nested/c.txt":  "charlie",
		"nested/d.json": "{}",
	})
	d, err := OpenDirectory(root, Options{Include: `^(?!nested/d)`})
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())

	_, err = OpenDirectory(root, Options{Include: `(`})
	assert.Error(t, err)
}

func TestDirectoryGlobMetaRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file names cannot contain * or ?")
	}
	root := filepath.Join(t.TempDir(), "data[2024]*?")
	for name, body := range map[string]string{
		"a.txt":         "alpha",
		"sub[x]/b.txt":  "bravo",
		"sub[x]/c?.txt": "charlie",
	} {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	d, err := OpenDirectory(root, Options{Include: `^sub`})
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())

	d, err = OpenDirectory(root+string(filepath.Separator), Options{Preload: true})
	require.NoError(t, err)
	defer d.Close()
	require.Equal(t, 3, d.Len())
	rec := newRecorder()
	require.NoError(t, d.Walk(2, rec))
	assert.Equal(t, map[int]string{0: "alpha", 1: "bravo", 2: "charlie"}, rec.docs)
}

func TestDirectoryEmpty(t *testing.T) {
	d, err := OpenDirectory(t.TempDir(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, d.Len())
	rec := newRecorder()
	require.NoError(t, d.Walk(2, rec))
	assert.Empty(t, rec.batches)
}

func TestOpen(t *testing.T) {
	root := writeTree(t, map[string]string{"a.txt": "alpha"})
	src, err := Open(root, Options{})
	require.NoError(t, err)
	assert.IsType(t, &Directory{}, src)
	require.NoError(t, src.Close())

	src, err = Open(writeArchive(t, []entry{{name: "a.txt", body: "x"}}), Options{})
	require.NoError(t, err)
	assert.IsType(t, &Archive{}, src)
	require.NoError(t, src.Close())

	_, err = Open(filepath.Join(root, "missing"), Options{})
	assert.True(t, errors.Is(err, toke.ErrFileNotFound))
}
