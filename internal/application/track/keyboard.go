package track

import (
	"io"
	"os"

	"golang.org/x/term"
)

const (
	keyCtrlC  = 3
	keyEscape = 27
)

// KeyboardReader reads single keys from a terminal in raw mode
type KeyboardReader struct {
	fd       int
	oldState *term.State
	input    chan rune
	stop     chan struct{}
}

// NewKeyboardReader puts stdin in raw mode and starts reading
func NewKeyboardReader() (*KeyboardReader, error) {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}

	kr := &KeyboardReader{
		fd:       fd,
		oldState: oldState,
		input:    make(chan rune, 10),
		stop:     make(chan struct{}),
	}
	go kr.readInput(os.Stdin)
	return kr, nil
}

func (kr *KeyboardReader) readInput(r io.Reader) {
	buf := make([]byte, 3)
	for {
		n, err := r.Read(buf)
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}
		select {
		case kr.input <- rune(buf[0]):
		case <-kr.stop:
			return
		}
	}
}

// Events returns pressed keys
func (kr *KeyboardReader) Events() <-chan rune {
	return kr.input
}

// Close restores the terminal. The reader goroutine exits on the next key
// or at process exit.
func (kr *KeyboardReader) Close() error {
	close(kr.stop)
	return term.Restore(kr.fd, kr.oldState)
}

// isStopKey reports whether key ends tracking
func isStopKey(key rune) bool {
	switch key {
	case 'q', 'Q', keyCtrlC, keyEscape:
		return true
	}
	return false
}
