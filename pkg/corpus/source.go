// Package corpus streams documents out of a packed archive or a directory
// tree and hands them to visitors in parallel batches.
package corpus

import (
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/conneroisu/toke/pkg/toke"
	"github.com/pkg/errors"
)

// Visitor receives documents during a walk.
//
// VisitDocument is called concurrently for the documents of one batch. slot
// is the position of the document within its batch, in [0, maxJobs), and is
// unique within the batch, so a visitor can keep per-slot state without
// locking. doc must not be retained after the walk's source is closed.
type Visitor interface {
	VisitDocument(doc []byte, fileIndex, slot int)
}

// BatchVisitor is a Visitor that is told when a batch has finished. EndBatch
// runs on the walking goroutine after every VisitDocument call of the batch
// has returned; n is the number of documents in the batch.
type BatchVisitor interface {
	Visitor
	EndBatch(n int)
}

// VisitFunc adapts a function to the Visitor interface.
type VisitFunc func(doc []byte, fileIndex, slot int)

// VisitDocument calls f(doc, fileIndex, slot).
func (f VisitFunc) VisitDocument(doc []byte, fileIndex, slot int) {
	f(doc, fileIndex, slot)
}

// Source is a walkable collection of documents.
type Source interface {
	// Walk visits every document in order, maxJobs at a time.
	Walk(maxJobs int, v Visitor) error
	Close() error
}

// Options configure how a corpus is opened.
type Options struct {
	// Include, when set, is a regular expression a file path relative to a
	// directory root must match. Archives ignore it.
	Include string
	// Preload reads every file of a directory before the first walk.
	Preload bool
	// Logger defaults to log.Default().
	Logger *log.Logger
}

// Open opens path as a Directory if it is a directory and as an Archive
// otherwise.
func Open(path string, opts Options) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(toke.ErrFileNotFound, "%s", path)
		}
		return nil, errors.Wrapf(toke.ErrFileIO, "stat %s: %v", path, err)
	}
	if info.IsDir() {
		return OpenDirectory(path, opts)
	}
	a, err := OpenArchive(path)
	if err != nil {
		return nil, err
	}
	if opts.Logger != nil {
		a.logger = opts.Logger
	}
	return a, nil
}

// job is one document of a batch. Either doc is set or load produces it
// inside the worker.
type job struct {
	doc   []byte
	index int
	load  func() ([]byte, error)
}

// batch collects jobs and runs them maxJobs at a time.
type batch struct {
	jobs    []job
	maxJobs int
	visitor Visitor
}

func newBatch(maxJobs int, v Visitor) *batch {
	if maxJobs < 1 {
		maxJobs = 1
	}
	return &batch{jobs: make([]job, 0, maxJobs), maxJobs: maxJobs, visitor: v}
}

// add queues j and runs the batch once it is full.
func (b *batch) add(j job) error {
	b.jobs = append(b.jobs, j)
	if len(b.jobs) == b.maxJobs {
		return b.flush()
	}
	return nil
}

// flush runs the queued jobs in parallel and waits for all of them.
func (b *batch) flush() error {
	if len(b.jobs) == 0 {
		return nil
	}
	errs := make([]error, len(b.jobs))
	var wg sync.WaitGroup
	for slot := range b.jobs {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			j := b.jobs[slot]
			doc := j.doc
			if j.load != nil {
				var err error
				if doc, err = j.load(); err != nil {
					errs[slot] = err
					return
				}
			}
			b.visitor.VisitDocument(doc, j.index, slot)
		}(slot)
	}
	wg.Wait()

	n := len(b.jobs)
	b.jobs = b.jobs[:0]
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	if bv, ok := b.visitor.(BatchVisitor); ok {
		bv.EndBatch(n)
	}
	return nil
}
