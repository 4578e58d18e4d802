package tool

import "errors"

var (
	// ErrToolNameEmpty indicates a tool was defined without a name.
	ErrToolNameEmpty = errors.New("tool name is empty")

	// ErrToolHandlerNil indicates a tool was defined without a handler.
	ErrToolHandlerNil = errors.New("tool handler is nil")

	// ErrToolAlreadyRegistered indicates a duplicate registration.
	ErrToolAlreadyRegistered = errors.New("tool already registered")

	// ErrToolNotFound indicates a lookup for an unregistered tool.
	ErrToolNotFound = errors.New("tool not found")
)
