package tui

import "errors"

// ErrAborted is returned when the user interrupts the prompt flow.
var ErrAborted = errors.New("tui: aborted by user")
