package execshell

import (
	"strings"
	"sync"
)

// OutputCollector records reported lines per stream and is safe for use as a ProgressFunc sink.
type OutputCollector struct {
	mutex               sync.Mutex
	standardOutputLines []string
	standardErrorLines  []string
	completed           bool
	forward             ProgressFunc
}

// NewOutputCollector constructs a collector that optionally forwards every line to another callback.
func NewOutputCollector(forward ProgressFunc) *OutputCollector {
	return &OutputCollector{forward: forward}
}

// Progress returns the callback to hand to ProcessRunnerOptions.
func (collector *OutputCollector) Progress() ProgressFunc {
	return func(line string, stream StreamName) {
		collector.mutex.Lock()
		switch stream {
		case StreamStandardOutput:
			collector.standardOutputLines = append(collector.standardOutputLines, line)
		case StreamStandardError:
			collector.standardErrorLines = append(collector.standardErrorLines, line)
		case StreamMain:
			collector.completed = true
		}
		collector.mutex.Unlock()

		if collector.forward != nil {
			collector.forward(line, stream)
		}
	}
}

// StandardOutputLines returns a copy of the recorded stdout lines.
func (collector *OutputCollector) StandardOutputLines() []string {
	collector.mutex.Lock()
	defer collector.mutex.Unlock()
	return append([]string{}, collector.standardOutputLines...)
}

// StandardErrorLines returns a copy of the recorded stderr lines.
func (collector *OutputCollector) StandardErrorLines() []string {
	collector.mutex.Lock()
	defer collector.mutex.Unlock()
	return append([]string{}, collector.standardErrorLines...)
}

// StandardOutput joins the recorded stdout lines with newlines.
func (collector *OutputCollector) StandardOutput() string {
	return strings.Join(collector.StandardOutputLines(), lineTerminatorConstant)
}

// StandardError joins the recorded stderr lines with newlines.
func (collector *OutputCollector) StandardError() string {
	return strings.Join(collector.StandardErrorLines(), lineTerminatorConstant)
}

// Completed reports whether the completion sentinel has been received.
func (collector *OutputCollector) Completed() bool {
	collector.mutex.Lock()
	defer collector.mutex.Unlock()
	return collector.completed
}
