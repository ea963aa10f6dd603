package output

import "errors"

// ErrUnsupportedFormat is returned when no formatter matches the requested name.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ErrEmptyReport is returned when a formatter has nothing to render.
var ErrEmptyReport = errors.New("report has no sections")
