// Package files keeps small pieces of user state in newline-delimited UTF-8
// text files, one entry per line.
package files

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Nazarious-ucu/weather-app/internal/models"
)

const (
	dirMode  = 0o755
	fileMode = 0o644
)

var errBadEntry = errors.New("entry must be a non-empty single line")

// lineFile is a text file read and written as a whole. A missing file reads
// as empty. Writes replace the file via rename so readers never see a
// partially written file.
type lineFile struct {
	path string
}

func (f lineFile) read() ([]string, error) {
	file, err := os.Open(filepath.Clean(f.path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, persistenceErr("open", f.path, err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, persistenceErr("read", f.path, err)
	}
	return lines, nil
}

// write rejects entries that would not read back unchanged.
func (f lineFile) write(lines []string) error {
	for _, line := range lines {
		if line == "" || strings.ContainsAny(line, "\r\n") {
			return persistenceErr("write", f.path, fmt.Errorf("%q: %w", line, errBadEntry))
		}
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return persistenceErr("mkdir", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*")
	if err != nil {
		return persistenceErr("create temp for", f.path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			tmp.Close()
			return persistenceErr("write", f.path, err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return persistenceErr("flush", f.path, err)
	}
	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		return persistenceErr("chmod", f.path, err)
	}
	if err := tmp.Close(); err != nil {
		return persistenceErr("close", f.path, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return persistenceErr("replace", f.path, err)
	}
	return nil
}

func persistenceErr(op, path string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", models.ErrPersistence, op, path, err)
}
