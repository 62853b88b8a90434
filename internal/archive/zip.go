// Package archive writes the .sb3 container: a zip file holding
// project.json and the asset files it references.
package archive

import (
	"archive/zip"
	"bufio"
	"errors"
	"fmt"
	"os"
)

// ZipFile is a write-only container on disk. Entries are written in call
// order; Close flushes the central directory and is safe to call twice.
type ZipFile struct {
	path   string
	file   *os.File
	buf    *bufio.Writer
	zw     *zip.Writer
	names  map[string]struct{}
	closed bool
}

// Create truncates path and opens it as a new container.
func Create(path string) (*ZipFile, error) {
	// #nosec G304 -- output path is chosen by the user
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	buf := bufio.NewWriter(f)
	return &ZipFile{
		path:  path,
		file:  f,
		buf:   buf,
		zw:    zip.NewWriter(buf),
		names: make(map[string]struct{}),
	}, nil
}

// Path returns the file the container is written to.
func (z *ZipFile) Path() string { return z.path }

// WriteFile adds one entry. Writing the same name twice is an error,
// Scratch would pick either copy.
func (z *ZipFile) WriteFile(name string, data []byte) error {
	if z.closed {
		return fmt.Errorf("write %s: %w", name, os.ErrClosed)
	}
	if _, dup := z.names[name]; dup {
		return fmt.Errorf("write %s: duplicate entry", name)
	}
	w, err := z.zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	z.names[name] = struct{}{}
	return nil
}

// Close finishes the archive. Errors from every layer are joined so a
// failed flush is not hidden behind a successful file close.
func (z *ZipFile) Close() error {
	if z.closed {
		return nil
	}
	z.closed = true
	return errors.Join(z.zw.Close(), z.buf.Flush(), z.file.Close())
}
