package utils

import "io"

// FlushingWriter forwards writes to its destination and flushes it when the
// destination buffers, so publish progress lines appear as each step
// completes rather than when the run ends.
type FlushingWriter struct {
	destination io.Writer
}

type flushableWriter interface {
	Flush() error
}

// NewFlushingWriter wraps the provided writer. A nil destination yields a
// writer that discards everything.
func NewFlushingWriter(destination io.Writer) io.Writer {
	if destination == nil {
		return io.Discard
	}
	return &FlushingWriter{destination: destination}
}

// Write delegates to the destination and flushes it when supported.
func (writer *FlushingWriter) Write(data []byte) (int, error) {
	bytesWritten, writeError := writer.destination.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}

	if flushableDestination, canFlush := writer.destination.(flushableWriter); canFlush {
		if flushError := flushableDestination.Flush(); flushError != nil {
			return bytesWritten, flushError
		}
	}

	return bytesWritten, nil
}
