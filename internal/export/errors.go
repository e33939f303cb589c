package export

import "errors"

// ErrArchive is returned when an archive entry cannot be serialized or written.
var ErrArchive = errors.New("archive error")
