package board

import (
	"context"
	"fmt"
	"strings"

	"github.com/kilianp07/fleetboard/core/model"
)

// Conflict is an existing binding that blocks a candidate.
type Conflict struct {
	Resource model.ResourceRef `json:"resource"`
	Current  model.Binding     `json:"current"`
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s is already %s on %s", c.Resource, article(c.Current.Role), c.Current.Owner)
}

func article(r model.Role) string {
	if r == model.RoleAsset {
		return "the vehicle"
	}
	return "the " + string(r)
}

// Resolver finds and breaks conflicting bindings using the store primitives.
type Resolver struct {
	store *Store
}

// NewResolver returns a resolver over s.
func NewResolver(s *Store) Resolver { return Resolver{store: s} }

// FindConflicts returns the bindings preventing resource from taking role on
// owner. bound is true when exactly that binding already exists, which is not
// a conflict.
func (r Resolver) FindConflicts(resource model.ResourceRef, owner model.OwnerRef, role model.Role) (conflicts []Conflict, bound bool) {
	cur, ok := r.store.Lookup(resource)
	if !ok {
		return nil, false
	}
	if cur.Owner == owner && cur.Role == role {
		return nil, true
	}
	return []Conflict{{Resource: resource, Current: cur}}, false
}

// Prompt builds the confirmation question for conflicts.
func (r Resolver) Prompt(conflicts []Conflict, owner model.OwnerRef, role model.Role) string {
	parts := make([]string, 0, len(conflicts))
	for _, c := range conflicts {
		parts = append(parts, c.String())
	}
	return fmt.Sprintf("%s. Reassign to %s as %s?", strings.Join(parts, "; "), owner, role)
}

// Decide asks c about conflicts. A cancelled context counts as a refusal.
func (r Resolver) Decide(ctx context.Context, c Confirmer, message string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	yes, err := c.Confirm(ctx, message)
	if err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return yes, nil
}

// Release clears every conflicting binding through Store.Clear.
func (r Resolver) Release(conflicts []Conflict) []model.ResourceRef {
	var out []model.ResourceRef
	for _, c := range conflicts {
		out = append(out, r.store.Clear(c.Current.Owner, c.Current.Role, c.Resource.ID)...)
	}
	return out
}
