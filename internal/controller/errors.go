package controller

import "fmt"

// NotFound reports a lookup against an id the Controller has no record
// of. Mapped to HTTP 404 by internal/restapi.
type NotFound struct {
	Kind string
	ID   uint32
}

func (e *NotFound) Error() string {
	return fmt.Sprintf("controller: %s %d not found", e.Kind, e.ID)
}

// InvalidArgument reports a request the Controller rejects outright, such
// as a duplicate id or an out-of-bounds feature rectangle. Mapped to HTTP
// 400 by internal/restapi.
type InvalidArgument struct {
	Reason string
}

func (e *InvalidArgument) Error() string {
	return "controller: invalid argument: " + e.Reason
}
