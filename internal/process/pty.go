package process

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// A pseudo-terminal pair. The master is a raw non-blocking descriptor read
// by this process; the slave is handed to the child.
type pty struct {
	master int
	slave  *os.File
}

// Allocates a PTY pair using the Linux devpts interface.
//
// Output post-processing is disabled on the slave so the master reads back
// exactly the bytes the child wrote (no "\n" to "\r\n" translation).
func openPTY() (*pty, error) {
	master, err := unix.Open("/dev/ptmx", unix.O_RDWR|unix.O_NOCTTY|unix.O_CLOEXEC|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: open /dev/ptmx: %w", ErrPTY, err)
	}

	n, err := unix.IoctlGetInt(master, unix.TIOCGPTN)
	if err != nil {
		unix.Close(master)
		return nil, fmt.Errorf("%w: get PTY number (TIOCGPTN): %w", ErrPTY, err)
	}

	if err := unix.IoctlSetPointerInt(master, unix.TIOCSPTLCK, 0); err != nil {
		unix.Close(master)
		return nil, fmt.Errorf("%w: unlock PTY slave (TIOCSPTLCK): %w", ErrPTY, err)
	}

	path := fmt.Sprintf("/dev/pts/%d", n)
	slave, err := os.OpenFile(path, os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		unix.Close(master)
		return nil, fmt.Errorf("%w: open PTY slave %s: %w", ErrPTY, path, err)
	}

	if err := disableOutputProcessing(int(slave.Fd())); err != nil {
		slave.Close()
		unix.Close(master)
		return nil, fmt.Errorf("%w: configure %s: %w", ErrPTY, path, err)
	}

	return &pty{master: master, slave: slave}, nil
}

func disableOutputProcessing(fd int) error {
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return err
	}
	t.Oflag &^= unix.OPOST
	return unix.IoctlSetTermios(fd, unix.TCSETS, t)
}

// Closes the parent's copy of the slave. Safe to call more than once.
func (p *pty) closeSlave() {
	if p.slave != nil {
		p.slave.Close()
		p.slave = nil
	}
}

// Closes both sides.
func (p *pty) close() {
	p.closeSlave()
	if p.master >= 0 {
		unix.Close(p.master)
		p.master = -1
	}
}
