// Package output writes a rendered document to its destination in one piece.
package output

import (
	"bytes"
	"fmt"
	"io"

	"github.com/natefinch/atomic"
)

// Stdout is the destination name that selects the stdout writer.
const Stdout = "-"

// Write sends doc to dest. An empty dest or Stdout writes doc to stdout with a
// single Write call. Any other dest is a file path that is replaced atomically,
// so a reader never observes a partially written document.
func Write(stdout io.Writer, dest string, doc []byte) error {
	if dest == "" || dest == Stdout {
		n, err := stdout.Write(doc)
		if err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		if n != len(doc) {
			return fmt.Errorf("write output: %w", io.ErrShortWrite)
		}
		return nil
	}

	if err := atomic.WriteFile(dest, bytes.NewReader(doc)); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return nil
}
