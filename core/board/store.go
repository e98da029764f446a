package board

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/kilianp07/fleetboard/core/model"
)

// ErrAlreadyBound is returned by Store.Assign when the resource still holds a
// binding on another owner or role. Callers must clear that binding first.
var ErrAlreadyBound = errors.New("resource already bound")

// ErrInvalidRole is returned for a role that cannot hold the resource type.
var ErrInvalidRole = errors.New("invalid role")

// Inconsistency describes a mismatch between forward and reverse indices.
type Inconsistency struct {
	Resource model.ResourceRef `json:"resource"`
	Detail   string            `json:"detail"`
}

func (i Inconsistency) String() string { return fmt.Sprintf("%s: %s", i.Resource, i.Detail) }

// Store keeps per-route and per-trip assignments together with the reverse
// indices for staff and assets. Every exported method runs in one pass under
// the store lock, so forward and reverse sides never drift apart.
type Store struct {
	mu     sync.RWMutex
	routes map[string]*model.Assignment
	trips  map[string]*model.Assignment
	staff  map[string]model.Binding
	assets map[string]model.Binding
}

// NewStore returns an empty store.
func NewStore() *Store {
	s := &Store{}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.routes = map[string]*model.Assignment{}
	s.trips = map[string]*model.Assignment{}
	s.staff = map[string]model.Binding{}
	s.assets = map[string]model.Binding{}
}

func (s *Store) owners(kind model.OwnerKind) map[string]*model.Assignment {
	if kind == model.OwnerFieldTrip {
		return s.trips
	}
	return s.routes
}

func (s *Store) index(t model.ResourceType) map[string]model.Binding {
	if t == model.ResourceAsset {
		return s.assets
	}
	return s.staff
}

// record returns the owner record, creating it empty on first access.
func (s *Store) record(owner model.OwnerRef) *model.Assignment {
	m := s.owners(owner.Kind)
	rec, ok := m[owner.ID]
	if !ok {
		rec = &model.Assignment{Escorts: []string{}}
		m[owner.ID] = rec
	}
	return rec
}

// Assign binds the resource id to owner in role. Assigning the same binding
// twice is a no-op. When a single-valued slot already holds another resource,
// that resource is released through the same path as Clear, in the same pass,
// and returned as displaced.
func (s *Store) Assign(owner model.OwnerRef, role model.Role, id string) (displaced string, err error) {
	rt, ok := role.ResourceType()
	if !ok || !owner.Kind.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.index(rt)
	want := model.Binding{Owner: owner, Role: role}
	if cur, bound := idx[id]; bound {
		if cur == want {
			return "", nil
		}
		return "", fmt.Errorf("%w: %s held by %s as %s", ErrAlreadyBound, id, cur.Owner, cur.Role)
	}

	rec := s.record(owner)
	switch role {
	case model.RoleEscort:
		if !slices.Contains(rec.Escorts, id) {
			rec.Escorts = append(rec.Escorts, id)
		}
	default:
		slot := slotOf(rec, role)
		if *slot != "" && *slot != id {
			displaced = *slot
			s.clearLocked(owner, rec, role, displaced)
		}
		*slot = id
	}
	idx[id] = want
	return displaced, nil
}

// Clear releases resources from owner. An empty role clears every role; an
// empty id clears every resource holding the role. It returns what was cleared.
func (s *Store) Clear(owner model.OwnerRef, role model.Role, id string) []model.ResourceRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.owners(owner.Kind)[owner.ID]
	if !ok {
		return nil
	}
	return s.clearLocked(owner, rec, role, id)
}

// clearLocked does the work of Clear on an existing record. The caller holds
// the store lock.
func (s *Store) clearLocked(owner model.OwnerRef, rec *model.Assignment, role model.Role, id string) []model.ResourceRef {
	roles := model.Roles
	if role != "" {
		roles = []model.Role{role}
	}
	var cleared []model.ResourceRef
	for _, r := range roles {
		rt, ok := r.ResourceType()
		if !ok {
			continue
		}
		idx := s.index(rt)
		for _, held := range rec.Holds(r) {
			if id != "" && held != id {
				continue
			}
			removeFromSlot(rec, r, held)
			if b, ok := idx[held]; ok && b.Owner == owner && b.Role == r {
				delete(idx, held)
			}
			cleared = append(cleared, model.ResourceRef{Type: rt, ID: held})
		}
	}
	return cleared
}

// Lookup returns the current binding of a resource.
func (s *Store) Lookup(res model.ResourceRef) (model.Binding, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.index(res.Type)[res.ID]
	return b, ok
}

// Owner returns a copy of the owner record, creating it empty if absent.
func (s *Store) Owner(owner model.OwnerRef) model.Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record(owner).Clone()
}

// Peek returns a copy of the owner record without creating it.
func (s *Store) Peek(owner model.OwnerRef) (model.Assignment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.owners(owner.Kind)[owner.ID]
	if !ok {
		return model.Assignment{Escorts: []string{}}, false
	}
	return rec.Clone(), true
}

// All returns copies of every record of the given kind.
func (s *Store) All(kind model.OwnerKind) map[string]model.Assignment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.owners(kind)
	out := make(map[string]model.Assignment, len(src))
	for id, rec := range src {
		out[id] = rec.Clone()
	}
	return out
}

// Counts returns the number of bound staff and assets.
func (s *Store) Counts() (staff, assets int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.staff), len(s.assets)
}

// Verify cross-checks both directions of every binding.
func (s *Store) Verify() []Inconsistency {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Inconsistency
	seen := map[model.ResourceRef]model.Binding{}
	s.eachForward(func(owner model.OwnerRef, role model.Role, ref model.ResourceRef) {
		want := model.Binding{Owner: owner, Role: role}
		if prev, dup := seen[ref]; dup {
			out = append(out, Inconsistency{Resource: ref,
				Detail: fmt.Sprintf("referenced by %s as %s and by %s as %s", prev.Owner, prev.Role, owner, role)})
			return
		}
		seen[ref] = want
		got, ok := s.index(ref.Type)[ref.ID]
		switch {
		case !ok:
			out = append(out, Inconsistency{Resource: ref, Detail: fmt.Sprintf("%s holds it as %s but reverse entry is missing", owner, role)})
		case got != want:
			out = append(out, Inconsistency{Resource: ref, Detail: fmt.Sprintf("reverse entry points to %s as %s, forward is %s as %s", got.Owner, got.Role, owner, role)})
		}
	})
	for _, t := range []model.ResourceType{model.ResourceStaff, model.ResourceAsset} {
		for _, id := range sortedKeys(s.index(t)) {
			ref := model.ResourceRef{Type: t, ID: id}
			if _, ok := seen[ref]; !ok {
				b := s.index(t)[id]
				out = append(out, Inconsistency{Resource: ref, Detail: fmt.Sprintf("reverse entry points to %s as %s with no forward reference", b.Owner, b.Role)})
			}
		}
	}
	return out
}

// RebuildIndex discards the reverse indices and derives them from the forward
// records. When a resource is referenced more than once, the first reference
// in route-then-trip id order wins and the others are dropped.
func (s *Store) RebuildIndex() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staff = map[string]model.Binding{}
	s.assets = map[string]model.Binding{}
	type drop struct {
		owner model.OwnerRef
		role  model.Role
		id    string
	}
	var drops []drop
	s.eachForward(func(owner model.OwnerRef, role model.Role, ref model.ResourceRef) {
		idx := s.index(ref.Type)
		if _, taken := idx[ref.ID]; taken {
			drops = append(drops, drop{owner, role, ref.ID})
			return
		}
		idx[ref.ID] = model.Binding{Owner: owner, Role: role}
	})
	for _, d := range drops {
		rec := s.owners(d.owner.Kind)[d.owner.ID]
		if b := s.index(mustType(d.role))[d.id]; b.Owner == d.owner && b.Role == d.role {
			// duplicate escort entry inside the same record
			rec.Escorts = dedupe(rec.Escorts)
			continue
		}
		removeFromSlot(rec, d.role, d.id)
	}
}

// eachForward visits every forward reference in a stable order.
func (s *Store) eachForward(fn func(owner model.OwnerRef, role model.Role, ref model.ResourceRef)) {
	for _, kind := range []model.OwnerKind{model.OwnerRoute, model.OwnerFieldTrip} {
		m := s.owners(kind)
		for _, id := range sortedKeys(m) {
			owner := model.OwnerRef{Kind: kind, ID: id}
			for _, role := range model.Roles {
				rt := mustType(role)
				for _, held := range m[id].Holds(role) {
					fn(owner, role, model.ResourceRef{Type: rt, ID: held})
				}
			}
		}
	}
}

// Snapshot copies the four index structures.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := State{
		Routes:     make(map[string]model.Assignment, len(s.routes)),
		FieldTrips: make(map[string]model.Assignment, len(s.trips)),
		StaffIndex: make(map[string]model.Binding, len(s.staff)),
		AssetIndex: make(map[string]model.Binding, len(s.assets)),
	}
	for id, rec := range s.routes {
		st.Routes[id] = rec.Clone()
	}
	for id, rec := range s.trips {
		st.FieldTrips[id] = rec.Clone()
	}
	for id, b := range s.staff {
		st.StaffIndex[id] = b
	}
	for id, b := range s.assets {
		st.AssetIndex[id] = b
	}
	return st
}

// Restore replaces the store content with st. The caller is expected to
// Verify afterwards since persisted data is not trusted.
func (s *Store) Restore(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	for id, a := range st.Routes {
		rec := a.Clone()
		s.routes[id] = &rec
	}
	for id, a := range st.FieldTrips {
		rec := a.Clone()
		s.trips[id] = &rec
	}
	for id, b := range st.StaffIndex {
		s.staff[id] = b
	}
	for id, b := range st.AssetIndex {
		s.assets[id] = b
	}
}

func slotOf(rec *model.Assignment, role model.Role) *string {
	switch role {
	case model.RoleDriver:
		return &rec.Driver
	case model.RoleAsset:
		return &rec.Asset
	case model.RoleTrailer:
		return &rec.Trailer
	}
	return nil
}

func removeFromSlot(rec *model.Assignment, role model.Role, id string) {
	if role == model.RoleEscort {
		rec.Escorts = slices.DeleteFunc(rec.Escorts, func(e string) bool { return e == id })
		return
	}
	if slot := slotOf(rec, role); slot != nil && *slot == id {
		*slot = ""
	}
}

func mustType(role model.Role) model.ResourceType {
	rt, _ := role.ResourceType()
	return rt
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
