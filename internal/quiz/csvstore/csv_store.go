package csvstore

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gofrs/flock"

	"trivia-tracker/internal/quiz"
)

const DefaultPath = "data/quiz_history.csv"

const fileMode fs.FileMode = 0o644

var errCorrupt = errors.New("history file is corrupt")

// Store keeps the history as a CSV file with one row per session.
//
// Writers hold an exclusive lock on <path>.lock, copy the current file into a
// temp file next to it, add the row and rename the temp file over the
// original. Readers hold a shared lock. A reader therefore always sees a
// complete file, and concurrent appends from several processes are applied
// one after the other without losing rows.
type Store struct {
	path     string
	lockPath string
}

func New(path string) *Store {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	return &Store{
		path:     path,
		lockPath: path + ".lock",
	}
}

// Open creates the store and initializes the file if needed.
func Open(ctx context.Context, path string) (*Store, error) {
	store := New(path)
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return quiz.NewStoreError("init", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return quiz.NewStoreError("init", err)
	}

	unlock, err := s.lock(true)
	if err != nil {
		return quiz.NewStoreError("init", err)
	}
	defer unlock()

	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := s.replace(nil, nil); err != nil {
			return quiz.NewStoreError("init", err)
		}
		return nil
	case err != nil:
		return quiz.NewStoreError("init", err)
	}

	if blank(data) {
		if err := s.replace(nil, nil); err != nil {
			return quiz.NewStoreError("init", err)
		}
		return nil
	}
	if err := checkHeader(data); err != nil {
		return quiz.NewStoreError("init", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, summary quiz.Summary) error {
	if err := ctx.Err(); err != nil {
		return quiz.NewStoreError("append", err)
	}

	row, err := quiz.SummaryToRow(summary)
	if err != nil {
		return quiz.NewStoreError("append", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return quiz.NewStoreError("append", err)
	}

	unlock, err := s.lock(true)
	if err != nil {
		return quiz.NewStoreError("append", err)
	}
	defer unlock()

	data, err := os.ReadFile(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return quiz.NewStoreError("append", err)
	}
	if blank(data) {
		data = nil
	} else if err := checkHeader(data); err != nil {
		return quiz.NewStoreError("append", err)
	}

	if err := s.replace(data, row); err != nil {
		return quiz.NewStoreError("append", err)
	}
	return nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	all, err := s.readAll(ctx, "count")
	if err != nil {
		return 0, err
	}
	return len(all), nil
}

func (s *Store) Recent(ctx context.Context, n int) ([]quiz.Summary, error) {
	if n <= 0 {
		return []quiz.Summary{}, nil
	}
	all, err := s.readAll(ctx, "read")
	if err != nil {
		return nil, err
	}
	return quiz.MostRecent(all, n), nil
}

func (s *Store) All(ctx context.Context) ([]quiz.Summary, error) {
	return s.readAll(ctx, "read")
}

func (s *Store) Close() error { return nil }

func (s *Store) readAll(ctx context.Context, op string) ([]quiz.Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, quiz.NewStoreError(op, err)
	}

	unlock, err := s.lock(false)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []quiz.Summary{}, nil
		}
		return nil, quiz.NewStoreError(op, err)
	}
	defer unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []quiz.Summary{}, nil
	}
	if err != nil {
		return nil, quiz.NewStoreError(op, err)
	}

	summaries, err := parse(data)
	if err != nil {
		return nil, quiz.NewStoreError(op, err)
	}
	return summaries, nil
}

// lock takes the sidecar lock. A fresh flock.Flock per call keeps separate
// goroutines of one process excluding each other as well.
func (s *Store) lock(exclusive bool) (func(), error) {
	if !exclusive {
		if _, err := os.Stat(filepath.Dir(s.lockPath)); err != nil {
			return nil, err
		}
	}

	fileLock := flock.New(s.lockPath)
	var err error
	if exclusive {
		err = fileLock.Lock()
	} else {
		err = fileLock.RLock()
	}
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", s.lockPath, err)
	}
	return func() { _ = fileLock.Unlock() }, nil
}

// replace writes existing (or a fresh header) plus row to a temp file and
// renames it over the store path. The file keeps its current permissions, or
// gets fileMode when it is new.
func (s *Store) replace(existing []byte, row []string) error {
	mode := fileMode
	if info, err := os.Stat(s.path); err == nil {
		mode = info.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	writer := csv.NewWriter(tmp)
	if len(existing) == 0 {
		if err := writer.Write(quiz.HistoryColumns); err != nil {
			return err
		}
	} else {
		if _, err := tmp.Write(existing); err != nil {
			return err
		}
		if existing[len(existing)-1] != '\n' {
			if _, err := tmp.Write([]byte{'\n'}); err != nil {
				return err
			}
		}
	}
	if row != nil {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	if err := tmp.Chmod(mode); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return err
	}
	committed = true

	syncDir(dir)
	return nil
}

func syncDir(dir string) {
	handle, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = handle.Sync()
	_ = handle.Close()
}

func newReader(data []byte) *csv.Reader {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	return reader
}

func checkHeader(data []byte) error {
	header, err := newReader(data).Read()
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: missing header", errCorrupt)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", errCorrupt, err)
	}
	if !slices.Equal(trimBOM(header), quiz.HistoryColumns) {
		return fmt.Errorf("%w: unexpected header %v", errCorrupt, header)
	}
	return nil
}

// blank reports whether the file holds nothing but whitespace. Such a file is
// an empty store for reads and gets a fresh header on the next write.
func blank(data []byte) bool {
	return len(bytes.TrimSpace(data)) == 0
}

func parse(data []byte) ([]quiz.Summary, error) {
	if blank(data) {
		return []quiz.Summary{}, nil
	}
	if err := checkHeader(data); err != nil {
		return nil, err
	}

	reader := newReader(data)
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("%w: %v", errCorrupt, err)
	}

	summaries := make([]quiz.Summary, 0)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errCorrupt, err)
		}
		summary, err := quiz.RowToSummary(record)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", errCorrupt, line, err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func trimBOM(header []string) []string {
	if len(header) == 0 {
		return header
	}
	out := append([]string(nil), header...)
	out[0] = strings.TrimPrefix(out[0], "\ufeff")
	return out
}
