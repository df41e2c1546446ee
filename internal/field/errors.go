package field

import "errors"

// ErrNoContext is returned by Attach when the surface cannot provide a
// drawing context. This is a configuration fault, not a runtime condition.
var ErrNoContext = errors.New("field: surface has no drawing context")
