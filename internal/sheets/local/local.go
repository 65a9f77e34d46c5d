// Package local provides table sources backed by a file on disk or by an
// uploaded payload held in memory.
package local

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	ports "ventas/internal/sheets"
	"ventas/internal/table"
)

var (
	_ ports.TableReader = (*File)(nil)
	_ ports.TableReader = (*Upload)(nil)
)

// File reads a CSV or xlsx table from disk on every call, so edits to the file
// show up on the next load.
type File struct {
	path string
	opts table.Options
}

func NewFile(path string, opts table.Options) *File {
	return &File{path: path, opts: opts}
}

func (f *File) Name() string {
	return filepath.Base(f.path)
}

func (f *File) Path() string {
	return f.path
}

func (f *File) ReadTable(ctx context.Context) (table.Table, error) {
	if err := ctx.Err(); err != nil {
		return table.Table{}, err
	}
	fh, err := os.Open(f.path)
	if err != nil {
		return table.Table{}, fmt.Errorf("open %s: %w", f.path, err)
	}
	defer fh.Close()
	return table.Read(f.path, fh, f.opts)
}

// Upload is a table received over HTTP. The file name picks the reader.
type Upload struct {
	name string
	data []byte
	opts table.Options
}

func NewUpload(name string, data []byte, opts table.Options) *Upload {
	return &Upload{name: name, data: data, opts: opts}
}

func (u *Upload) Name() string {
	return u.name
}

// Size is the payload length in bytes.
func (u *Upload) Size() int {
	return len(u.data)
}

func (u *Upload) ReadTable(ctx context.Context) (table.Table, error) {
	if err := ctx.Err(); err != nil {
		return table.Table{}, err
	}
	return table.Read(u.name, bytes.NewReader(u.data), u.opts)
}
