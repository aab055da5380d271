package coordinator

import "github.com/kalyankadiyala/commitcoord/internal/registry"

// Equivalent implements registry.Client. This implementation holds all
// state locally in memory with no external identity to compare by, so
// two instances are equivalent only if they are the same instance.
// Network-backed implementations built from this template would instead
// compare the remote endpoint they connect to.
func (c *Coordinator) Equivalent(other registry.Client) bool {
	oc, ok := other.(*Coordinator)
	return ok && oc == c
}
