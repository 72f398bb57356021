package cli

import "errors"

// ErrUsage marks errors caused by how the command was invoked.
var ErrUsage = errors.New("cli usage error")

// ErrReported marks failures whose envelope was already written to stdout.
var ErrReported = errors.New("error reported in envelope")

type usageError struct {
	msg string
}

func newUsageError(msg string) error {
	return usageError{msg: msg}
}

func (e usageError) Error() string {
	return e.msg
}

func (e usageError) Is(target error) bool {
	return target == ErrUsage
}
