// Package filesystem scans and watches a local directory for documents
// that docmgr can ingest.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
	"github.com/aditya-mahendru/docMgr/internal/logger"
)

// ErrClosed is returned by Watch after Close.
var ErrClosed = errors.New("connector closed")

// ChangeType is the kind of change observed on a file.
type ChangeType int

const (
	ChangeCreated ChangeType = iota
	ChangeUpdated
	ChangeDeleted
)

func (c ChangeType) String() string {
	switch c {
	case ChangeCreated:
		return "created"
	case ChangeUpdated:
		return "updated"
	case ChangeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// File is a supported document found under the root.
type File struct {
	Path        string
	ContentType string

	// Content is nil for deleted files.
	Content []byte
}

// Change is a file event.
type Change struct {
	Type ChangeType
	File File
}

// Connector reads documents from a directory tree. Hidden files and
// directories, and files of unsupported formats, are skipped.
type Connector struct {
	root string

	mu      sync.Mutex
	closed  bool
	watcher *fsnotify.Watcher
}

// New creates a connector rooted at root.
func New(root string) *Connector {
	return &Connector{root: root}
}

// Root returns the directory the connector reads.
func (c *Connector) Root() string {
	return c.root
}

// Validate checks that the root is an existing directory.
func (c *Connector) Validate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(c.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("path does not exist: %s", c.root)
		}
		return fmt.Errorf("cannot access path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", c.root)
	}
	return nil
}

// Scan walks the tree and sends every supported file. Both channels are
// closed when the walk ends.
func (c *Connector) Scan(ctx context.Context) (<-chan File, <-chan error) {
	files := make(chan File)
	errs := make(chan error, 1)

	go func() {
		defer close(files)
		defer close(errs)

		if _, err := os.Stat(c.root); err != nil {
			errs <- fmt.Errorf("root path error: %w", err)
			return
		}

		err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				logger.Warn("Skipping %s: %v", path, err)
				return nil
			}
			if path != c.root && isHidden(d.Name()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			file, ok := readFile(path)
			if !ok {
				return nil
			}
			select {
			case files <- file:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			errs <- err
		}
	}()

	return files, errs
}

// Watch reports changes under the root until ctx is done. Directories
// created after the call are watched too.
func (c *Connector) Watch(ctx context.Context) (<-chan Change, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}
	if _, err := os.Stat(c.root); err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := addTree(watcher, c.root); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	c.watcher = watcher

	changes := make(chan Change)
	go func() {
		defer close(changes)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !isHidden(info.Name()) {
						if err := addTree(watcher, event.Name); err != nil {
							logger.Warn("Cannot watch %s: %v", event.Name, err)
						}
						continue
					}
				}
				change := c.handleFsEvent(event)
				if change == nil {
					continue
				}
				select {
				case changes <- *change:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Watcher error: %v", err)
			}
		}
	}()

	return changes, nil
}

// Close stops any watch. It is safe to call more than once.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	if c.watcher != nil {
		return c.watcher.Close()
	}
	return nil
}

// handleFsEvent converts a filesystem event into a change, or nil when
// the event is irrelevant.
func (c *Connector) handleFsEvent(event fsnotify.Event) *Change {
	rel, err := filepath.Rel(c.root, event.Name)
	if err != nil {
		rel = event.Name
	}
	if isHidden(rel) || !Supported(event.Name) {
		return nil
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return &Change{
			Type: ChangeDeleted,
			File: File{Path: event.Name, ContentType: contentType(event.Name)},
		}
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		file, ok := readFile(event.Name)
		if !ok {
			return nil
		}
		typ := ChangeUpdated
		if event.Has(fsnotify.Create) {
			typ = ChangeCreated
		}
		return &Change{Type: typ, File: file}
	default:
		return nil
	}
}

// Supported reports whether path has an extension docmgr can ingest.
func Supported(path string) bool {
	return domain.FormatOf(contentType(path)) != domain.FormatUnknown
}

func contentType(path string) string {
	return domain.ResolveContentType(filepath.Base(path), "")
}

// readFile loads a supported regular file.
func readFile(path string) (File, bool) {
	if !Supported(path) {
		return File{}, false
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return File{}, false
	}
	content, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Cannot read %s: %v", path, err)
		return File{}, false
	}
	return File{Path: path, ContentType: contentType(path), Content: content}, true
}

// addTree watches dir and every non-hidden directory below it.
func addTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// isHidden reports whether any element of path starts with a dot.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if len(part) > 1 && strings.HasPrefix(part, ".") && part != ".." {
			return true
		}
	}
	return false
}
