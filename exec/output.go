package exec

import (
	"bytes"
	"io"
)

// PrefixWriter adds a prefix to each line of output. Incomplete lines are
// held until the next newline or Flush.
type PrefixWriter struct {
	prefix string
	writer io.Writer
	buffer []byte
}

// NewPrefixWriter creates a writer that prefixes each line
func NewPrefixWriter(writer io.Writer, prefix string) *PrefixWriter {
	return &PrefixWriter{
		prefix: prefix,
		writer: writer,
	}
}

// Write adds prefix to each complete line
func (p *PrefixWriter) Write(data []byte) (int, error) {
	p.buffer = append(p.buffer, data...)

	for {
		i := bytes.IndexByte(p.buffer, '\n')
		if i < 0 {
			break
		}
		line := p.buffer[:i+1]
		if _, err := p.writer.Write(append([]byte(p.prefix), line...)); err != nil {
			return 0, err
		}
		p.buffer = p.buffer[i+1:]
	}

	return len(data), nil
}

// Flush writes any remaining partial line followed by a newline.
func (p *PrefixWriter) Flush() error {
	if len(p.buffer) == 0 {
		return nil
	}
	line := append([]byte(p.prefix), p.buffer...)
	p.buffer = p.buffer[:0]
	_, err := p.writer.Write(append(line, '\n'))
	return err
}
