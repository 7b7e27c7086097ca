package analysis

import (
	"errors"
	"fmt"
	"io/fs"
	"unicode/utf8"
)

var (
	// ErrInvalidDirectory indicates the analysis root is missing or is not a directory
	ErrInvalidDirectory = errors.New("invalid directory")

	// ErrNoExtensions indicates the extension filter contained no usable suffixes
	ErrNoExtensions = errors.New("no file extensions configured")
)

// ErrorKind classifies a per-file failure.
type ErrorKind string

const (
	KindMissingFile   ErrorKind = "MissingFile"
	KindDecodeFailure ErrorKind = "DecodeFailure"
	KindParseFailure  ErrorKind = "ParseFailure"
	KindReadFailure   ErrorKind = "ReadFailure"
)

// FileError is a non-fatal failure recorded in place of a file's structural report.
type FileError struct {
	Kind    ErrorKind
	Message string
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// readError converts an error from reading a file into a FileError.
func readError(err error) *FileError {
	if errors.Is(err, fs.ErrNotExist) {
		return &FileError{Kind: KindMissingFile, Message: err.Error()}
	}
	return &FileError{Kind: KindReadFailure, Message: err.Error()}
}

// decodeError reports the first byte offset that is not valid UTF-8.
func decodeError(source []byte) *FileError {
	offset := 0
	for offset < len(source) {
		r, size := utf8.DecodeRune(source[offset:])
		if r == utf8.RuneError && size <= 1 {
			return &FileError{
				Kind:    KindDecodeFailure,
				Message: fmt.Sprintf("invalid utf-8 byte 0x%02x at offset %d", source[offset], offset),
			}
		}
		offset += size
	}
	return nil
}
