package status

import "fmt"

// EncodingError is returned for files that are not valid UTF-8. Such files
// are reported as failed and never rewritten.
type EncodingError struct {
	Path   string
	Offset int // byte offset of the first invalid sequence
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("%s: not valid UTF-8 (first invalid byte at offset %d)", e.Path, e.Offset)
}
