package editor

import (
	"bytes"
	"os/exec"
	"runtime"
	"slices"
	"sync"

	"github.com/matzehuels/logicflow/pkg/errors"
)

// Clipboard holds copied circuit fragments as encoded bytes.
type Clipboard interface {
	// Get returns the clipboard contents. An empty clipboard returns nil.
	Get() ([]byte, error)
	// Set replaces the clipboard contents.
	Set(data []byte) error
}

// MemoryClipboard is an in-process clipboard. It is safe for concurrent use
// and can be shared by several editors.
type MemoryClipboard struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryClipboard returns an empty in-process clipboard.
func NewMemoryClipboard() *MemoryClipboard { return &MemoryClipboard{} }

func (c *MemoryClipboard) Get() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.data), nil
}

func (c *MemoryClipboard) Set(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = slices.Clone(data)
	return nil
}

// ErrClipboardUnavailable is returned when no system clipboard tool is
// installed.
var ErrClipboardUnavailable = errors.New(errors.ErrCodeUnsupported, "system clipboard unavailable")

// SystemClipboard uses the desktop clipboard through pbcopy/pbpaste on macOS
// and xclip or xsel on Linux.
type SystemClipboard struct{}

// SystemClipboardAvailable reports whether a clipboard tool is installed.
func SystemClipboardAvailable() bool {
	_, _, err := clipboardCommands()
	return err == nil
}

func (SystemClipboard) Get() ([]byte, error) {
	_, paste, err := clipboardCommands()
	if err != nil {
		return nil, err
	}
	out, err := exec.Command(paste[0], paste[1:]...).Output()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read clipboard")
	}
	if len(bytes.TrimSpace(out)) == 0 {
		return nil, nil
	}
	return out, nil
}

func (SystemClipboard) Set(data []byte) error {
	copyCmd, _, err := clipboardCommands()
	if err != nil {
		return err
	}
	cmd := exec.Command(copyCmd[0], copyCmd[1:]...)
	cmd.Stdin = bytes.NewReader(data)
	if err := cmd.Run(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write clipboard")
	}
	return nil
}

// clipboardCommands returns the copy and paste command lines for this
// platform.
func clipboardCommands() (copyCmd, paste []string, err error) {
	switch runtime.GOOS {
	case "darwin":
		if _, err := exec.LookPath("pbcopy"); err == nil {
			return []string{"pbcopy"}, []string{"pbpaste"}, nil
		}
	case "linux":
		// Try xclip first, fall back to xsel
		if _, err := exec.LookPath("xclip"); err == nil {
			return []string{"xclip", "-selection", "clipboard"},
				[]string{"xclip", "-selection", "clipboard", "-o"}, nil
		}
		if _, err := exec.LookPath("xsel"); err == nil {
			return []string{"xsel", "--clipboard", "--input"},
				[]string{"xsel", "--clipboard", "--output"}, nil
		}
	}
	return nil, nil, ErrClipboardUnavailable
}

var (
	_ Clipboard = (*MemoryClipboard)(nil)
	_ Clipboard = SystemClipboard{}
)
