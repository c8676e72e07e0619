package process

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// Time [Process.Communicate] waits after the child exits before stopping the
// readers, so output still buffered in the PTYs can be drained.
const DrainDelay = 100 * time.Millisecond

// Describes one command invocation.
type Options struct {
	Args          []string          // Argument vector. Args[0] is resolved against PATH.
	Dir           string            // Working directory. Empty uses the current one.
	Env           map[string]string // Replacement environment. Nil inherits the ambient environment.
	Stdin         bool              // Whether the child inherits this process's stdin.
	CaptureStdout bool              // Keep stdout in memory.
	CaptureStderr bool              // Keep stderr in memory.
	EchoStdout    bool              // Forward stdout to Stdout as it arrives.
	EchoStderr    bool              // Forward stderr to Stderr as it arrives.
	Stdout        io.Writer         // Echo destination for stdout. Defaults to os.Stdout.
	Stderr        io.Writer         // Echo destination for stderr. Defaults to os.Stderr.
}

// A running child process with its two stream readers.
type Process struct {
	args   []string
	cmd    *exec.Cmd
	ptys   [2]*pty
	stdout *reader
	stderr *reader
}

// Starts the command described by opts.
//
// Both PTYs are allocated before the child is spawned and released if
// spawning fails. On success the readers are already running.
func Start(opts Options) (*Process, error) {
	if len(opts.Args) == 0 {
		return nil, fmt.Errorf("%w: empty argument vector", ErrStart)
	}

	slog.Debug("running process", "command", opts.Args[0])
	slog.Debug("process parameters", "args", opts.Args, "dir", opts.Dir, "env", opts.Env)

	out, err := openPTY()
	if err != nil {
		return nil, err
	}
	errp, err := openPTY()
	if err != nil {
		out.close()
		return nil, err
	}

	cmd := exec.Command(opts.Args[0], opts.Args[1:]...)
	cmd.Dir = opts.Dir
	cmd.Stdout = out.slave
	cmd.Stderr = errp.slave
	if opts.Env != nil {
		cmd.Env = environ(opts.Env)
	}
	if opts.Stdin {
		cmd.Stdin = os.Stdin
	}

	if err := cmd.Start(); err != nil {
		out.close()
		errp.close()
		return nil, fmt.Errorf("%w: %s: %w", ErrStart, opts.Args[0], err)
	}

	// The child holds its own copies. Dropping ours lets the masters report
	// end-of-stream once the child and its descendants are gone.
	out.closeSlave()
	errp.closeSlave()

	p := &Process{
		args: opts.Args,
		cmd:  cmd,
		ptys: [2]*pty{out, errp},
	}
	p.stdout = startReader(out.master, opts.CaptureStdout, echoWriter(opts.EchoStdout, opts.Stdout, os.Stdout))
	p.stderr = startReader(errp.master, opts.CaptureStderr, echoWriter(opts.EchoStderr, opts.Stderr, os.Stderr))

	return p, nil
}

// Waits for the child to exit and returns its captured stdout and stderr.
//
// Buffers are empty for streams that were not captured. Both readers are
// joined and both PTYs closed before returning, on every path. A non-zero
// exit yields an [*ExitError]; the buffers are still returned alongside it.
func (p *Process) Communicate() ([]byte, []byte, error) {
	waitErr := p.cmd.Wait()

	time.Sleep(DrainDelay)

	p.stdout.join()
	p.stderr.join()
	for _, t := range p.ptys {
		t.close()
	}

	slog.Debug("process done", "command", p.args[0])

	stdout, stderr := p.stdout.buf.Bytes(), p.stderr.buf.Bytes()

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return stdout, stderr, &ExitError{Code: exitErr.ExitCode(), Args: p.args}
		}
		return stdout, stderr, fmt.Errorf("%w: %s: %w", ErrProcessFailed, p.args[0], waitErr)
	}

	return stdout, stderr, nil
}

// Starts the command and waits for it. See [Start] and [Process.Communicate].
func Run(opts Options) ([]byte, []byte, error) {
	p, err := Start(opts)
	if err != nil {
		return nil, nil, err
	}
	return p.Communicate()
}

func echoWriter(enabled bool, w, fallback io.Writer) io.Writer {
	if !enabled {
		return nil
	}
	if w == nil {
		return fallback
	}
	return w
}
