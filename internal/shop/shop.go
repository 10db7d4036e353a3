// Package shop implements the optimistic mutation protocol shared by the
// cart and wishlist: apply the change locally, issue the remote call, then
// commit or roll back to the pre-mutation snapshot. The same logic used to
// be duplicated across every product component; it lives here once.
package shop

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotSignedIn means no credential is present. The caller is expected to
// navigate to the login page; no request is attempted and no error status
// is set.
var ErrNotSignedIn = errors.New("not signed in")

// MessageKind classifies a transient status message.
type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageInfo    MessageKind = "info"
	MessageError   MessageKind = "error"
)

// Status is the user-visible transient message produced by a terminal
// protocol transition. It self-clears after the status TTL.
type Status struct {
	Message string
	Kind    MessageKind
}

// statusTTL is how long a terminal message stays visible.
const statusTTL = 3 * time.Second

// Operation lock identifiers. At most one operation per target may be in
// flight; a duplicate invocation while pending is a no-op.
func opAdd(productID int64) string    { return fmt.Sprintf("add-%d", productID) }
func opUpdate(productID int64) string { return fmt.Sprintf("update-%d", productID) }
func opRemove(productID int64) string { return fmt.Sprintf("remove-%d", productID) }

const opClearAll = "clear-all"

// afterFunc is the timer hook; tests replace it to control the clock.
type afterFunc func(d time.Duration, f func()) *time.Timer
