package department

import "errors"

// ErrNotFound is returned by repositories when no department matches the
// lookup. The service never forwards it to clients as-is.
var ErrNotFound = errors.New("department not found")

// Info is the identity bound to a session after a successful login and the
// shape returned to clients as dept_info.
type Info struct {
	DeptID   int64  `json:"dept_id"`
	DeptName string `json:"dept_name"`
}
