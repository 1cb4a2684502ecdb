package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
)

// errCorruptFile marks a container that exists but does not decode.
var errCorruptFile = errors.New("kv file: corrupt")

// File is a KV persisted as one JSON object ({"key": base64(value)}).
//
// No caching: every call opens the file, takes a flock, and reads or
// rewrites the whole object. That keeps concurrent processes consistent.
//
// Get reports an undecodable file as an error. Set and Remove copy it to
// <path>.corrupt and start over from an empty object.
type File struct {
	path   string
	logger *slog.Logger
}

// OpenFile creates the parent directory of path if needed.
// The file itself is created on first use.
func OpenFile(path string) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("open kv file: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("open kv file: create directory: %w", err)
	}
	return &File{path: path, logger: slog.Default()}, nil
}

func (f *File) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var value []byte
	err := f.withFileLock(os.O_RDONLY, syscall.LOCK_SH, func(file *os.File) error {
		values, err := f.readValues(file)
		if err != nil {
			return err
		}
		v, ok := values[key]
		if !ok {
			return ErrNotFound
		}
		value = v
		return nil
	})
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set rewrites the file with key set to value.
// Lock → Read all → Replace → Write → Unlock
func (f *File) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return f.withFileLock(os.O_RDWR|os.O_CREATE, syscall.LOCK_EX, func(file *os.File) error {
		values, _, err := f.readForWrite(file)
		if err != nil {
			return err
		}
		values[key] = value
		return f.writeValues(file, values)
	})
}

func (f *File) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := f.withFileLock(os.O_RDWR, syscall.LOCK_EX, func(file *os.File) error {
		values, recovered, err := f.readForWrite(file)
		if err != nil {
			return err
		}
		if _, ok := values[key]; !ok && !recovered {
			return nil
		}
		delete(values, key)
		return f.writeValues(file, values)
	})
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// withFileLock runs fn with the file opened with flag and locked with how
// (LOCK_SH or LOCK_EX).
func (f *File) withFileLock(flag, how int, fn func(*os.File) error) error {
	file, err := os.OpenFile(f.path, flag, 0o644)
	if err != nil {
		return fmt.Errorf("kv file: open: %w", err)
	}
	defer file.Close()

	if err := syscall.Flock(int(file.Fd()), how); err != nil {
		return fmt.Errorf("kv file: lock: %w", err)
	}
	defer syscall.Flock(int(file.Fd()), syscall.LOCK_UN)

	return fn(file)
}

// readValues decodes the whole file. An empty file is an empty object.
func (f *File) readValues(file *os.File) (map[string][]byte, error) {
	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("kv file: stat: %w", err)
	}
	values := map[string][]byte{}
	if info.Size() == 0 {
		return values, nil
	}

	data := make([]byte, info.Size())
	if _, err := file.ReadAt(data, 0); err != nil {
		return nil, fmt.Errorf("kv file: read: %w", err)
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", errCorruptFile, f.path, err)
	}
	if values == nil {
		values = map[string][]byte{}
	}
	return values, nil
}

// readForWrite is readValues for Set and Remove. A corrupt file is backed
// up and replaced by an empty object; recovered reports that case.
func (f *File) readForWrite(file *os.File) (values map[string][]byte, recovered bool, err error) {
	values, err = f.readValues(file)
	if !errors.Is(err, errCorruptFile) {
		return values, false, err
	}

	backup := f.path + ".corrupt"
	if err := f.backup(file, backup); err != nil {
		return nil, false, err
	}
	f.logger.Warn("kv file unreadable, starting over", "path", f.path, "backup", backup, "error", err)
	return map[string][]byte{}, true, nil
}

func (f *File) backup(file *os.File, path string) error {
	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("kv file: stat: %w", err)
	}
	data := make([]byte, info.Size())
	if _, err := file.ReadAt(data, 0); err != nil {
		return fmt.Errorf("kv file: read: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("kv file: back up corrupt file: %w", err)
	}
	return nil
}

// writeValues replaces the file contents with values.
func (f *File) writeValues(file *os.File, values map[string][]byte) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("kv file: encode: %w", err)
	}
	if err := file.Truncate(0); err != nil {
		return fmt.Errorf("kv file: truncate: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		return fmt.Errorf("kv file: seek: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("kv file: write: %w", err)
	}
	return file.Sync()
}
