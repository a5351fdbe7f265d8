package directory

import (
	"errors"
	"fmt"
	"io/fs"

	appErrors "orgchart/internal/errors"
)

// LoadError wraps failures reading a backing list.
type LoadError struct {
	Path string
	Op   string
	Err  error
}

func (e LoadError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e LoadError) Unwrap() error {
	return e.Err
}

func classifyOpenError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return appErrors.New(appErrors.CodeSourceNotFound, fmt.Sprintf("source %s not found", path), err)
	}
	return appErrors.New(appErrors.CodeLoadFailed, LoadError{Path: path, Op: "open", Err: err}.Error(), err)
}

func classifyLoadError(path, op string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return appErrors.New(appErrors.CodeSourceNotFound, fmt.Sprintf("source %s not found", path), err)
	}
	return appErrors.New(appErrors.CodeLoadFailed, LoadError{Path: path, Op: op, Err: err}.Error(), err)
}

func parseError(path string, err error) error {
	return appErrors.New(appErrors.CodeParseFailed, LoadError{Path: path, Op: "parse", Err: err}.Error(), err)
}
