// Package process runs a single external command behind pseudo-terminals.
//
// The child's stdout and stderr are each connected to the slave side of
// their own PTY, so programs see a terminal and keep their interactive
// buffering and colouring. Two reader goroutines, one per stream, poll the
// master sides in non-blocking mode. Each stream can independently be
// captured into memory, echoed to a parent writer, both, or neither.
//
// [Process.Communicate] waits for the child to exit, gives the readers
// [DrainDelay] to pick up trailing output, stops and joins them, and returns
// the captured buffers. The delay is a best-effort drain: readers also do a
// final non-blocking read after being stopped, but output that is still in
// flight inside the kernel at that instant can be lost.
//
// Example usage:
//
//	stdout, _, err := process.Run(process.Options{
//	    Args:          []string{"clang", "-v"},
//	    CaptureStdout: true,
//	    EchoStderr:    true,
//	})
//	if err != nil {
//	    return err
//	}
package process
