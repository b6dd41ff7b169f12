// Package output renders aggregated visit statistics as a text report.
package output

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/therealutkarshpriyadarshi/nginxstats/internal/compression"
	"github.com/therealutkarshpriyadarshi/nginxstats/internal/stats"
)

// FileMode is the permission used when the report file is created
const FileMode = 0644

// WriteReport writes one "ADDRESS: OSLABEL: COUNT" line per entry, in the
// order given
func WriteReport(w io.Writer, entries []stats.Entry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%s: %s: %d\n", e.Key.Address, e.Key.OS, e.Count); err != nil {
			return fmt.Errorf("failed to write report line: %w", err)
		}
	}
	return nil
}

// WriteFile creates or truncates path and writes the report to it.
// A failure part way through leaves whatever was written in place.
func WriteFile(path string, entries []stats.Entry, ct compression.Type) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, FileMode)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close report file: %w", cerr)
		}
	}()

	buffered := bufio.NewWriter(f)

	cw, err := compression.NewWriter(buffered, ct)
	if err != nil {
		return err
	}

	if err := WriteReport(cw, entries); err != nil {
		return err
	}

	if err := cw.Close(); err != nil {
		return fmt.Errorf("failed to finish compressed report: %w", err)
	}

	if err := buffered.Flush(); err != nil {
		return fmt.Errorf("failed to flush report file: %w", err)
	}

	return nil
}
