package clipboard

import (
	"fmt"
	"runtime"

	"github.com/atotto/clipboard"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/errors"
)

// Overridden in tests
var (
	writeAll    = clipboard.WriteAll
	readAll     = clipboard.ReadAll
	unsupported = func() bool { return clipboard.Unsupported }
)

// installHint returns platform specific advice for a missing clipboard tool
func installHint() string {
	switch runtime.GOOS {
	case "linux":
		return "no clipboard utility found. Install one of:\n" +
			"  • Ubuntu/Debian: sudo apt install xclip\n" +
			"  • Fedora/RHEL: sudo dnf install xclip\n" +
			"  • Arch: sudo pacman -S xclip\n" +
			"  • For Wayland: install wl-clipboard"
	case "darwin", "windows":
		return "the system clipboard could not be reached"
	default:
		return fmt.Sprintf("clipboard not supported on %s", runtime.GOOS)
	}
}

// NewClipboardError creates a CLIPBOARD_UNAVAILABLE error with installation
// advice for the current platform
func NewClipboardError(cause error) *errors.AppError {
	return errors.Wrap(cause, errors.ErrCodeClipboard, "Clipboard is not available").
		WithDetails(installHint()).
		WithContext("os", runtime.GOOS)
}

// IsClipboardAvailable reports whether a clipboard backend was found
func IsClipboardAvailable() bool {
	return !unsupported()
}

// Copy copies text to the system clipboard
func Copy(text string) error {
	if unsupported() {
		return NewClipboardError(nil)
	}
	if err := writeAll(text); err != nil {
		return NewClipboardError(err)
	}
	return nil
}

// Paste returns the current clipboard text
func Paste() (string, error) {
	if unsupported() {
		return "", NewClipboardError(nil)
	}
	text, err := readAll()
	if err != nil {
		return "", NewClipboardError(err)
	}
	return text, nil
}
