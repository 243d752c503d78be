package ledger

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/roach88/namerelay/internal/namechange"
)

const filePerm = 0o644

// Ledger reads and writes the submitted names log at Path.
type Ledger struct {
	fs   afero.Fs
	path string
}

// New returns a ledger for the file at path on the given filesystem.
func New(fs afero.Fs, path string) *Ledger {
	return &Ledger{fs: fs, path: path}
}

// Path returns the location of the backing file.
func (l *Ledger) Path() string {
	return l.path
}

// Load reads the whole log.
//
// A missing file is not an error and yields an empty, non-nil slice.
// Malformed JSON or an entry without both names is an error.
func (l *Ledger) Load() ([]namechange.Record, error) {
	data, err := afero.ReadFile(l.fs, l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []namechange.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load ledger %q: %w", l.path, err)
	}

	records := []namechange.Record{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("load ledger %q: %w", l.path, err)
	}
	if records == nil {
		// The file contained "null".
		records = []namechange.Record{}
	}
	if err := namechange.ValidateAll(records); err != nil {
		return nil, fmt.Errorf("load ledger %q: %w", l.path, err)
	}
	return records, nil
}

// Append writes previous ++ added as the new log contents.
//
// previous must be what Load returned for this run; the file is replaced
// atomically so a crash never leaves a truncated log behind.
func (l *Ledger) Append(previous, added []namechange.Record) error {
	all := make([]namechange.Record, 0, len(previous)+len(added))
	all = append(all, previous...)
	all = append(all, added...)
	return l.Save(all)
}

// Save replaces the log with records.
func (l *Ledger) Save(records []namechange.Record) error {
	data, err := Marshal(records)
	if err != nil {
		return fmt.Errorf("save ledger %q: %w", l.path, err)
	}

	if dir := filepath.Dir(l.path); dir != "." {
		if err := l.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("save ledger %q: %w", l.path, err)
		}
	}

	tmp := l.path + ".tmp"
	if err := afero.WriteFile(l.fs, tmp, data, filePerm); err != nil {
		return fmt.Errorf("save ledger %q: %w", l.path, err)
	}
	if err := l.fs.Rename(tmp, l.path); err != nil {
		_ = l.fs.Remove(tmp)
		return fmt.Errorf("save ledger %q: %w", l.path, err)
	}
	return nil
}

// Marshal encodes records the way they are stored on disk: a two-space
// indented JSON array, without HTML escaping and without a trailing newline.
// A nil slice is encoded as [].
func Marshal(records []namechange.Record) ([]byte, error) {
	if records == nil {
		records = []namechange.Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// OSFs returns the filesystem used outside of tests.
func OSFs() afero.Fs {
	return afero.NewOsFs()
}
