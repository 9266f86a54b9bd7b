// Package auth decides operator privilege from a static allow-list.
package auth

import "github.com/arizonacpm/parkshop/pkg/bus"

// Guard holds the two authorization predicates, loaded once at startup.
type Guard struct {
	adminID int64
	handles map[string]struct{}
}

// NewGuard builds a guard from the configured operator id and handle
// allow-list. Empty handles are dropped so a blank allow-list entry can
// never match a sender without a username.
func NewGuard(adminID int64, handles []string) *Guard {
	g := &Guard{
		adminID: adminID,
		handles: make(map[string]struct{}, len(handles)),
	}
	for _, h := range handles {
		if h == "" {
			continue
		}
		g.handles[h] = struct{}{}
	}
	return g
}

// IsOperator reports whether the sender holds operator privilege: true
// when the numeric id matches the configured operator id, or the handle
// is on the allow-list. Either predicate alone suffices.
func (g *Guard) IsOperator(sender bus.Identity) bool {
	if g.adminID != 0 && sender.ID == g.adminID {
		return true
	}
	_, ok := g.handles[sender.Username]
	return ok
}
