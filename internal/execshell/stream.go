package execshell

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

const (
	terseProgressMarkerConstant      = "."
	completionLineConstant           = "done."
	lineTerminatorConstant           = "\n"
	lineTerminatorCharactersConstant = "\r\n"
)

// StreamName labels the origin of a reported line.
type StreamName string

// Stream names reported to progress callbacks.
const (
	StreamStandardOutput StreamName = StreamName("stdout")
	StreamStandardError  StreamName = StreamName("stderr")
	StreamMain           StreamName = StreamName("main")
)

// ProgressFunc receives each output line along with the stream it came from.
// It is invoked from one goroutine per stream, so implementations must tolerate concurrent calls.
type ProgressFunc func(line string, stream StreamName)

// drainStream reads stream until end of input, reporting every line, then closes it.
func (runner *ProcessRunner) drainStream(stream io.ReadCloser, streamName StreamName) (int, error) {
	defer stream.Close()

	lineReader := bufio.NewReader(stream)
	lineCount := 0
	for {
		line, readError := lineReader.ReadString('\n')
		if len(line) > 0 {
			lineCount++
			if reportError := runner.reportLine(line, streamName); reportError != nil {
				return lineCount, reportError
			}
		}
		if readError != nil {
			if errors.Is(readError, io.EOF) {
				return lineCount, nil
			}
			return lineCount, readError
		}
	}
}

func (runner *ProcessRunner) reportLine(line string, streamName StreamName) error {
	if runner.progress != nil {
		runner.progress(strings.TrimRight(line, lineTerminatorCharactersConstant), streamName)
		return nil
	}

	if !runner.verbose {
		_, writeError := io.WriteString(runner.diagnosticWriter, terseProgressMarkerConstant)
		return writeError
	}

	if !strings.HasSuffix(line, lineTerminatorConstant) {
		line += lineTerminatorConstant
	}
	_, writeError := io.WriteString(runner.diagnosticWriter, line)
	return writeError
}

func (runner *ProcessRunner) reportCompletion() error {
	if runner.progress != nil {
		runner.progress(completionLineConstant, StreamMain)
		return nil
	}
	if !runner.verbose {
		return nil
	}
	_, writeError := io.WriteString(runner.diagnosticWriter, completionLineConstant+lineTerminatorConstant)
	return writeError
}
