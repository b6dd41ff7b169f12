// Package input opens access-log files and iterates over their lines.
package input

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/therealutkarshpriyadarshi/nginxstats/internal/compression"
)

// File is an opened, possibly compressed, input log
type File struct {
	path   string
	file   *os.File
	reader io.ReadCloser
}

// Open opens path for reading, decompressing it as ct dictates.
// compression.Auto picks the codec from the file extension.
func Open(path string, ct compression.Type) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	reader, err := compression.NewReader(f, compression.Resolve(ct, path))
	if err != nil {
		f.Close()
		return nil, err
	}

	return &File{path: path, file: f, reader: reader}, nil
}

// Path returns the path the file was opened from
func (f *File) Path() string {
	return f.path
}

// Read implements io.Reader over the decompressed content
func (f *File) Read(p []byte) (int, error) {
	return f.reader.Read(p)
}

// Close releases the decompressor and the underlying file
func (f *File) Close() error {
	rerr := f.reader.Close()
	ferr := f.file.Close()
	if rerr != nil {
		return rerr
	}
	return ferr
}

// maxLineSize bounds a single line only by what the process can allocate
const maxLineSize = math.MaxInt

// ForEachLine calls fn for every line in r, including a final unterminated
// one. "\n", "\r\n" and a lone "\r" all end a line and are stripped. Byte
// sequences that are not valid UTF-8 are dropped rather than reported.
func ForEachLine(r io.Reader, fn func(line string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	scanner.Split(scanLines)

	for scanner.Scan() {
		fn(strings.ToValidUTF8(scanner.Text(), ""))
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read line: %w", err)
	}
	return nil
}

// scanLines is bufio.ScanLines with universal newlines: a '\r' not followed
// by '\n' is a terminator of its own.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		// Need one more byte to tell "\r" from "\r\n".
		return 0, nil, nil
	}

	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
