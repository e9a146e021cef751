package naming

import (
	"errors"
	"fmt"
)

// ErrCollision is returned when a target name is already claimed by another
// studio in the same run.
var ErrCollision = errors.New("target name already claimed by another studio")

// CollisionGuard tracks the target names (base filenames, or any key that
// determines the files written) claimed by studios during one run.
// It is meant for sequential use and is not goroutine-safe.
type CollisionGuard struct {
	owners map[string]int64 // target name → studio id that owns it
}

// NewCollisionGuard creates a ready-to-use guard.
func NewCollisionGuard() *CollisionGuard {
	return &CollisionGuard{owners: make(map[string]int64)}
}

// Claim records that studio id writes the files of name. Claiming a name
// twice for the same studio is allowed; claiming a name owned by a different
// studio returns an error wrapping ErrCollision.
func (g *CollisionGuard) Claim(name string, id int64) error {
	owner, exists := g.owners[name]
	if exists && owner != id {
		return fmt.Errorf("%w: %s is owned by studio %d", ErrCollision, name, owner)
	}
	g.owners[name] = id
	return nil
}

// Release gives up the claim of studio id on name, typically because nothing
// was written. Releasing a name owned by another studio is a no-op.
func (g *CollisionGuard) Release(name string, id int64) {
	if owner, ok := g.owners[name]; ok && owner == id {
		delete(g.owners, name)
	}
}

// Owner returns the studio that claimed name, if any.
func (g *CollisionGuard) Owner(name string) (int64, bool) {
	id, ok := g.owners[name]
	return id, ok
}
