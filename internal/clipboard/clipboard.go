// Package clipboard copies text to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnavailable is returned when clipboard access is not available.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// IsAvailable reports whether a clipboard backend (pbcopy, xclip, xsel,
// wl-copy or the Windows API) was found.
func IsAvailable() bool {
	return !clipboard.Unsupported
}

// Copy copies the given text to the system clipboard.
func Copy(text string) error {
	if !IsAvailable() {
		return ErrClipboardUnavailable
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %v", ErrClipboardUnavailable, err)
	}
	return nil
}
