package sculpt

import "errors"

// None of these are fatal. Callers log them and carry on.
var (
	// ErrNoGeometry means a bind candidate exposed no vertex data.
	ErrNoGeometry = errors.New("target has no geometry")
	// ErrSingularTransform means the target's local-to-world matrix cannot be inverted.
	ErrSingularTransform = errors.New("target transform is not invertible")
	// ErrEmptyHistory means undo was requested with nothing to undo.
	ErrEmptyHistory = errors.New("undo history is empty")
	// ErrUnknownMode means a mode name did not match any deformation mode.
	ErrUnknownMode = errors.New("unknown sculpt mode")
	// ErrNotBound means a stroke or undo arrived with no target bound.
	ErrNotBound = errors.New("no sculpt target bound")
	// ErrSnapshotSize means a snapshot does not match the bound vertex count.
	ErrSnapshotSize = errors.New("snapshot size does not match vertex buffer")
)
