package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAssetNotFound is returned by sources when an asset does not exist.
var ErrAssetNotFound = errors.New("asset not found")

// ErrUnknownType is returned when a serialized node carries an unregistered type tag.
var ErrUnknownType = errors.New("unknown type")

// ErrUnknownParamSet is returned when a table names a parameter set that does not exist.
var ErrUnknownParamSet = errors.New("unknown parameter set")

// MissingParamsError is returned when evaluation parameters lack required keys.
// It signals a programming error in the caller, not a data problem.
type MissingParamsError struct {
	Set     string
	Missing []string
}

func (e *MissingParamsError) Error() string {
	return fmt.Sprintf("parameter set %q requires missing parameters: %s", e.Set, strings.Join(e.Missing, ", "))
}
