package logging

import (
	"bufio"
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

// OutputCapture redirects process stdout/stderr into the logger.
// GTK and WebKit write warnings straight to the C-level file descriptors,
// which would otherwise bypass structured logging entirely.
type OutputCapture struct {
	originalStdout *os.File
	originalStderr *os.File
	stdoutRead     *os.File
	stdoutWrite    *os.File
	stderrRead     *os.File
	stderrWrite    *os.File
	logger         zerolog.Logger
	safeLogger     zerolog.Logger
	stopChan       chan struct{}
	started        bool
}

// NewOutputCapture creates a capture that feeds captured lines to logger.
func NewOutputCapture(logger zerolog.Logger) *OutputCapture {
	return &OutputCapture{
		originalStdout: os.Stdout,
		originalStderr: os.Stderr,
		logger:         logger,
		stopChan:       make(chan struct{}),
	}
}

// Start redirects stdout and stderr, both at the Go level and at the
// file-descriptor level so output from C libraries is captured too.
func (c *OutputCapture) Start() error {
	if c.started {
		return nil
	}

	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		return err
	}

	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		closeQuiet(stdoutR)
		closeQuiet(stdoutW)
		return err
	}

	c.stdoutRead = stdoutR
	c.stdoutWrite = stdoutW
	c.stderrRead = stderrR
	c.stderrWrite = stderrW

	// The capture goroutines must not log through the redirected fds,
	// or every captured line would feed back into the pipe.
	safeFd, err := unix.Dup(int(c.originalStderr.Fd()))
	if err != nil {
		closeQuiet(stdoutR)
		closeQuiet(stdoutW)
		closeQuiet(stderrR)
		closeQuiet(stderrW)
		return err
	}
	c.safeLogger = c.logger.Output(zerolog.ConsoleWriter{Out: os.NewFile(uintptr(safeFd), "stderr")})

	os.Stdout = stdoutW
	os.Stderr = stderrW

	if err := unix.Dup3(int(stdoutW.Fd()), 1, 0); err != nil {
		c.safeLogger.Warn().Err(err).Msg("failed to redirect stdout fd")
	}
	if err := unix.Dup3(int(stderrW.Fd()), 2, 0); err != nil {
		c.safeLogger.Warn().Err(err).Msg("failed to redirect stderr fd")
	}

	go c.pipeToLogger(stdoutR, "stdout")
	go c.pipeToLogger(stderrR, "stderr")

	c.started = true
	return nil
}

// Stop restores the original stdout/stderr.
func (c *OutputCapture) Stop() {
	if !c.started {
		return
	}

	close(c.stopChan)

	os.Stdout = c.originalStdout
	os.Stderr = c.originalStderr

	if err := unix.Dup3(int(c.originalStdout.Fd()), 1, 0); err != nil {
		c.logger.Warn().Err(err).Msg("failed to restore stdout fd")
	}
	if err := unix.Dup3(int(c.originalStderr.Fd()), 2, 0); err != nil {
		c.logger.Warn().Err(err).Msg("failed to restore stderr fd")
	}

	closeQuiet(c.stdoutWrite)
	closeQuiet(c.stderrWrite)
	closeQuiet(c.stdoutRead)
	closeQuiet(c.stderrRead)

	c.started = false
}

func (c *OutputCapture) pipeToLogger(r io.Reader, stream string) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case <-c.stopChan:
			return
		default:
			line := scanner.Text()
			if line == "" {
				continue
			}
			c.safeLogger.Debug().Str("stream", stream).Msg(line)
		}
	}
}

func closeQuiet(f *os.File) {
	if f != nil {
		_ = f.Close()
	}
}
