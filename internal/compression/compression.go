// Package compression wraps log and report streams in gzip or snappy framing.
package compression

import (
	"compress/gzip"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
)

// Type defines the compression algorithm to use
type Type string

const (
	None   Type = "none"
	Gzip   Type = "gzip"
	Snappy Type = "snappy"
	// Auto picks the algorithm from the file extension. Only valid for reading.
	Auto Type = "auto"
)

// Parse validates a configured compression name. Empty means None.
func Parse(name string) (Type, error) {
	switch t := Type(strings.ToLower(name)); t {
	case "":
		return None, nil
	case None, Gzip, Snappy, Auto:
		return t, nil
	default:
		return "", fmt.Errorf("unsupported compression type: %s", name)
	}
}

// Detect guesses the compression of a file from its extension
func Detect(path string) Type {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return Gzip
	case ".sz", ".snappy":
		return Snappy
	default:
		return None
	}
}

// Resolve turns Auto into a concrete type for path
func Resolve(t Type, path string) Type {
	if t == Auto {
		return Detect(path)
	}
	if t == "" {
		return None
	}
	return t
}

// NewReader returns a reader that decompresses r. Closing it does not close r.
func NewReader(r io.Reader, t Type) (io.ReadCloser, error) {
	switch t {
	case None, "":
		return io.NopCloser(r), nil
	case Gzip:
		reader, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip reader creation failed: %w", err)
		}
		return reader, nil
	case Snappy:
		return io.NopCloser(snappy.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("unsupported compression type for reading: %s", t)
	}
}

// NewWriter returns a writer that compresses into w. Close flushes any
// buffered data but does not close w.
func NewWriter(w io.Writer, t Type) (io.WriteCloser, error) {
	switch t {
	case None, "":
		return nopWriteCloser{w}, nil
	case Gzip:
		return gzip.NewWriter(w), nil
	case Snappy:
		return snappy.NewBufferedWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported compression type for writing: %s", t)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
