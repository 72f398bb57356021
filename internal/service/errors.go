package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTool is returned when a tool name matches none of the tools in Tools.
var ErrUnknownTool = errors.New("unknown tool")

// UnknownToolError names the requested tool and the tools that exist.
type UnknownToolError struct {
	Name      string
	Available []string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("Unknown tool: %s. Available tools: %s", e.Name, strings.Join(e.Available, ", "))
}

// Is reports whether target is ErrUnknownTool.
func (e *UnknownToolError) Is(target error) bool { return target == ErrUnknownTool }

// CallError wraps a validation or transport failure of MakeAPICall. The
// wrapped error stays reachable through errors.Is and errors.As.
type CallError struct {
	Err error
}

func (e *CallError) Error() string { return "Failed to execute API call: " + e.Err.Error() }

func (e *CallError) Unwrap() error { return e.Err }
