package utils_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/screenerbot/publisher/internal/utils"
)

const testProgressLineConstant = "PUBLISH-DONE: scan_results.csv\n"

type flushRecordingWriter struct {
	buffer     bytes.Buffer
	flushCalls int
}

func (writer *flushRecordingWriter) Write(data []byte) (int, error) {
	return writer.buffer.Write(data)
}

func (writer *flushRecordingWriter) Flush() error {
	writer.flushCalls++
	return nil
}

func TestFlushingWriterFlushesAfterEachWrite(testInstance *testing.T) {
	destination := &flushRecordingWriter{}
	writer := utils.NewFlushingWriter(destination)

	bytesWritten, writeError := writer.Write([]byte(testProgressLineConstant))
	require.NoError(testInstance, writeError)
	require.Equal(testInstance, len(testProgressLineConstant), bytesWritten)
	require.Equal(testInstance, testProgressLineConstant, destination.buffer.String())
	require.Equal(testInstance, 1, destination.flushCalls)
}

func TestFlushingWriterPassesThroughUnbufferedDestinations(testInstance *testing.T) {
	destination := &bytes.Buffer{}
	writer := utils.NewFlushingWriter(destination)

	_, writeError := writer.Write([]byte(testProgressLineConstant))
	require.NoError(testInstance, writeError)
	require.Equal(testInstance, testProgressLineConstant, destination.String())
}

func TestFlushingWriterDiscardsWithoutDestination(testInstance *testing.T) {
	writer := utils.NewFlushingWriter(nil)
	require.Equal(testInstance, io.Discard, writer)
}
