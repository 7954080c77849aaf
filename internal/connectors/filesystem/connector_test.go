package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
)

func collect(t *testing.T, c *Connector) []File {
	t.Helper()
	filesChan, errsChan := c.Scan(context.Background())

	var files []File
	for f := range filesChan {
		files = append(files, f)
	}
	for err := range errsChan {
		require.NoError(t, err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

func TestConnector_Scan(t *testing.T) {
	t.Run("finds supported files", func(t *testing.T) {
		tempDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "a.txt"), []byte("alpha"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "b.md"), []byte("# Beta"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "c.zip"), []byte("PK"), 0644))
		require.NoError(t, os.MkdirAll(filepath.Join(tempDir, "nested", "deep"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "nested", "deep", "d.html"), []byte("<p>d</p>"), 0644))

		files := collect(t, New(tempDir))

		require.Len(t, files, 3)
		assert.Equal(t, filepath.Join(tempDir, "a.txt"), files[0].Path)
		assert.Equal(t, domain.MIMEText, files[0].ContentType)
		assert.Equal(t, []byte("alpha"), files[0].Content)
		assert.Equal(t, domain.MIMEMarkdown, files[1].ContentType)
		assert.Equal(t, domain.MIMEHTML, files[2].ContentType)
	})

	t.Run("skips hidden files and directories", func(t *testing.T) {
		tempDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "visible.txt"), []byte("visible"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, ".hidden.txt"), []byte("hidden"), 0644))
		require.NoError(t, os.MkdirAll(filepath.Join(tempDir, ".git"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, ".git", "notes.txt"), []byte("git"), 0644))

		files := collect(t, New(tempDir))

		require.Len(t, files, 1)
		assert.Contains(t, files[0].Path, "visible.txt")
	})

	t.Run("empty directory", func(t *testing.T) {
		assert.Empty(t, collect(t, New(t.TempDir())))
	})

	t.Run("non-existent directory", func(t *testing.T) {
		filesChan, errsChan := New("/non/existent/path").Scan(context.Background())
		for range filesChan {
		}
		err := <-errsChan
		require.Error(t, err)
		assert.Contains(t, err.Error(), "root path error")
	})
}

func TestConnector_Validate(t *testing.T) {
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "file.txt")
	require.NoError(t, os.WriteFile(filePath, []byte("content"), 0644))

	tests := []struct {
		name          string
		path          string
		errorContains string
	}{
		{"valid directory", tempDir, ""},
		{"missing path", "/non/existent/path/12345", "does not exist"},
		{"file instead of directory", filePath, "not a directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.path).Validate(context.Background())
			if tt.errorContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}

	t.Run("context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.Equal(t, context.Canceled, New(tempDir).Validate(ctx))
	})
}

func TestHandleFsEvent(t *testing.T) {
	tests := []struct {
		name           string
		file           string
		create         bool
		operation      fsnotify.Op
		expectedChange bool
		expectedType   ChangeType
	}{
		{"create file", "test.txt", true, fsnotify.Create, true, ChangeCreated},
		{"write file", "test.txt", true, fsnotify.Write, true, ChangeUpdated},
		{"write and chmod", "test.txt", true, fsnotify.Write | fsnotify.Chmod, true, ChangeUpdated},
		{"remove file", "removed.txt", false, fsnotify.Remove, true, ChangeDeleted},
		{"rename file", "renamed.txt", false, fsnotify.Rename, true, ChangeDeleted},
		{"chmod only", "test.txt", true, fsnotify.Chmod, false, 0},
		{"hidden file", ".hidden.txt", true, fsnotify.Create, false, 0},
		{"unsupported format", "archive.zip", true, fsnotify.Create, false, 0},
		{"create vanished file", "gone.txt", false, fsnotify.Create, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			eventPath := filepath.Join(tempDir, tt.file)
			if tt.create {
				require.NoError(t, os.WriteFile(eventPath, []byte("content"), 0644))
			}

			change := New(tempDir).handleFsEvent(fsnotify.Event{Name: eventPath, Op: tt.operation})

			if !tt.expectedChange {
				assert.Nil(t, change)
				return
			}
			require.NotNil(t, change)
			assert.Equal(t, tt.expectedType, change.Type)
			assert.Equal(t, eventPath, change.File.Path)
			assert.Equal(t, domain.MIMEText, change.File.ContentType)
			if tt.expectedType == ChangeDeleted {
				assert.Nil(t, change.File.Content)
			} else {
				assert.Equal(t, []byte("content"), change.File.Content)
			}
		})
	}

	t.Run("directory create is ignored", func(t *testing.T) {
		tempDir := t.TempDir()
		dir := filepath.Join(tempDir, "sub.txt")
		require.NoError(t, os.Mkdir(dir, 0755))
		assert.Nil(t, New(tempDir).handleFsEvent(fsnotify.Event{Name: dir, Op: fsnotify.Create}))
	})
}

func waitChange(t *testing.T, changes <-chan Change, path string) Change {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case change, ok := <-changes:
			require.True(t, ok, "channel closed")
			if change.File.Path == path {
				return change
			}
		case <-deadline:
			t.Fatalf("timeout waiting for change to %s", path)
		}
	}
}

func TestConnector_Watch(t *testing.T) {
	t.Run("reports created and deleted files", func(t *testing.T) {
		tempDir := t.TempDir()
		connector := New(tempDir)
		defer connector.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := connector.Watch(ctx)
		require.NoError(t, err)

		testFile := filepath.Join(tempDir, "new-file.txt")
		require.NoError(t, os.WriteFile(testFile, []byte("content"), 0644))
		change := waitChange(t, changes, testFile)
		assert.Contains(t, []ChangeType{ChangeCreated, ChangeUpdated}, change.Type)

		require.NoError(t, os.Remove(testFile))
		for change.Type != ChangeDeleted {
			change = waitChange(t, changes, testFile)
		}
	})

	t.Run("watches new subdirectories", func(t *testing.T) {
		tempDir := t.TempDir()
		connector := New(tempDir)
		defer connector.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := connector.Watch(ctx)
		require.NoError(t, err)

		sub := filepath.Join(tempDir, "sub")
		require.NoError(t, os.Mkdir(sub, 0755))
		time.Sleep(100 * time.Millisecond)

		testFile := filepath.Join(sub, "inner.txt")
		require.NoError(t, os.WriteFile(testFile, []byte("inner"), 0644))
		waitChange(t, changes, testFile)
	})

	t.Run("closes channel when context is cancelled", func(t *testing.T) {
		connector := New(t.TempDir())
		defer connector.Close()

		ctx, cancel := context.WithCancel(context.Background())
		changes, err := connector.Watch(ctx)
		require.NoError(t, err)
		cancel()

		select {
		case _, ok := <-changes:
			if ok {
				for range changes {
				}
			}
		case <-time.After(time.Second):
			t.Fatal("channel did not close after context cancellation")
		}
	})

	t.Run("errors", func(t *testing.T) {
		_, err := New("/non/existent/path").Watch(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "root path error")

		connector := New(t.TempDir())
		require.NoError(t, connector.Close())
		require.NoError(t, connector.Close())
		_, err = connector.Watch(context.Background())
		assert.ErrorIs(t, err, ErrClosed)
	})
}

func TestIsHidden(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{".hidden", true},
		{"path/to/.hidden", true},
		{"dir/.git/config", true},
		{"visible.txt", false},
		{"path/to/file.txt", false},
		{"../sibling/file.txt", false},
		{".", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, isHidden(tt.path))
		})
	}
}

func TestChangeType_String(t *testing.T) {
	assert.Equal(t, "created", ChangeCreated.String())
	assert.Equal(t, "updated", ChangeUpdated.String())
	assert.Equal(t, "deleted", ChangeDeleted.String())
	assert.Equal(t, "unknown", ChangeType(9).String())
}
