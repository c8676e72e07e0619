package process

import (
	"bufio"
	"bytes"
	"io"

	"golang.org/x/sys/unix"
)

const (

	// Size of a single read from a PTY master.
	chunkSize = 4096

	// Milliseconds a reader blocks in poll(2) before rechecking its stop signal.
	pollInterval = 10
)

// Drains one PTY master until stopped.
//
// Bytes are appended to buf when capturing and forwarded to echo when
// echoing. Echoed output is flushed on every newline.
type reader struct {
	fd      int           // Non-blocking PTY master.
	capture bool          // Whether to keep bytes in buf.
	echo    *bufio.Writer // Parent stream, or nil when not echoing.
	buf     bytes.Buffer  // Captured output. Only touched by the reader goroutine until done is closed.
	stop    chan struct{} // Closed to ask the reader to finish.
	done    chan struct{} // Closed by the reader when it has finished.
}

// Creates a [reader] and starts its goroutine.
func startReader(fd int, capture bool, echo io.Writer) *reader {
	r := &reader{
		fd:      fd,
		capture: capture,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	if echo != nil {
		r.echo = bufio.NewWriter(echo)
	}
	go r.run()
	return r
}

// Signals the reader to stop and waits until it has.
func (r *reader) join() {
	close(r.stop)
	<-r.done
}

func (r *reader) run() {
	defer close(r.done)
	defer r.flush()

	chunk := make([]byte, chunkSize)
	fds := []unix.PollFd{{Fd: int32(r.fd), Events: unix.POLLIN}}

	for {
		select {
		case <-r.stop:
			r.read(chunk)
			return
		default:
		}

		if _, err := unix.Poll(fds, pollInterval); err != nil && err != unix.EINTR {
			return
		}
		if !r.read(chunk) {
			return
		}
	}
}

// Reads until the descriptor would block.
//
// Returns false once the stream has ended, which on Linux is reported as
// EIO after every slave descriptor has been closed.
func (r *reader) read(chunk []byte) bool {
	for {
		n, err := unix.Read(r.fd, chunk)
		if n > 0 {
			r.consume(chunk[:n])
		}
		switch {
		case err == unix.EAGAIN || err == unix.EINTR:
			return true
		case err != nil:
			return false
		case n == 0:
			return false
		}
	}
}

func (r *reader) consume(b []byte) {
	if r.capture {
		r.buf.Write(b)
	}
	if r.echo != nil {
		r.echo.Write(b)
		if bytes.IndexByte(b, '\n') >= 0 {
			r.echo.Flush()
		}
	}
}

func (r *reader) flush() {
	if r.echo != nil {
		r.echo.Flush()
	}
}
