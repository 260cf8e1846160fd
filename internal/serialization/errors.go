package serialization

import "errors"

// Errors returned by Read.
var (
	ErrInvalidMagic       = errors.New("invalid magic bytes: not a .srgt file")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrChecksumMismatch   = errors.New("checksum mismatch: file is corrupted")
	ErrHeaderTooLarge     = errors.New("header size exceeds limit")
	ErrPayloadTooLarge    = errors.New("tensor data exceeds limit")
	ErrInvalidTensor      = errors.New("invalid tensor metadata")
)
