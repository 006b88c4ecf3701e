package mdns

import "fmt"

// ConstructionError is returned by New when socket setup or a multicast
// group join fails. The engine is never half-initialized: any socket
// already opened before the failing step is closed before New returns.
type ConstructionError struct {
	Op  string
	Err error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("mdns: %s: %s", e.Op, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}
