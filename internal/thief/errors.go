package thief

import "errors"

// ErrNoColors is returned by Palette and DominantColor when extraction ran
// but produced no palette entries.
var ErrNoColors = errors.New("no colors found in image")

// ExtractionError reports that the pipeline could not run: the source could
// not be rendered, decoded or read. Err is one of the image package failure
// kinds, possibly wrapped.
type ExtractionError struct {
	URI string
	Err error
}

func (e *ExtractionError) Error() string {
	return "failed to extract colors: " + e.Err.Error()
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
