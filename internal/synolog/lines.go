package synolog

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// maxLineSize bounds a single log line.
const maxLineSize = 1024 * 1024

// lineReader splits a log into lines like bufio.Scanner, but skips lines
// longer than maxLineSize instead of stopping there.
type lineReader struct {
	r *bufio.Reader
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReaderSize(r, maxLineSize)}
}

// next returns the next line without its line ending. overlong reports a line
// that exceeded maxLineSize; its text is discarded. io.EOF ends the stream.
func (lr *lineReader) next() (line string, overlong bool, err error) {
	buf, err := lr.r.ReadSlice('\n')
	if errors.Is(err, bufio.ErrBufferFull) {
		for errors.Is(err, bufio.ErrBufferFull) {
			_, err = lr.r.ReadSlice('\n')
		}
		if errors.Is(err, io.EOF) {
			err = nil
		}
		return "", true, err
	}
	switch {
	case errors.Is(err, io.EOF):
		if len(buf) == 0 {
			return "", false, io.EOF
		}
	case err != nil:
		return "", false, err
	}
	line = strings.TrimSuffix(string(buf), "\n")
	return strings.TrimSuffix(line, "\r"), false, nil
}
