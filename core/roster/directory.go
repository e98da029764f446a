// Package roster holds the routes, field trips, staff and assets known to the
// board. The assignment engine reads it to validate candidate bindings.
package roster

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kilianp07/fleetboard/core/model"
)

// Directory answers existence and status questions about board entities.
type Directory interface {
	StaffMember(id string) (model.StaffMember, bool)
	Equipment(id string) (model.Equipment, bool)
	HasOwner(owner model.OwnerRef) bool
}

// Data is the serialisable content of a directory.
type Data struct {
	Staff      []model.StaffMember   `json:"staff" validate:"dive"`
	Assets     []model.Equipment     `json:"assets" validate:"dive"`
	Routes     []model.RouteInfo     `json:"routes" validate:"dive"`
	FieldTrips []model.FieldTripInfo `json:"field_trips" validate:"dive"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// MemoryDirectory is a Directory backed by maps.
type MemoryDirectory struct {
	mu     sync.RWMutex
	staff  map[string]model.StaffMember
	assets map[string]model.Equipment
	routes map[string]model.RouteInfo
	trips  map[string]model.FieldTripInfo
}

// NewMemoryDirectory returns an empty directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		staff:  map[string]model.StaffMember{},
		assets: map[string]model.Equipment{},
		routes: map[string]model.RouteInfo{},
		trips:  map[string]model.FieldTripInfo{},
	}
}

// FromData validates d and builds a directory from it.
func FromData(d Data) (*MemoryDirectory, error) {
	if err := validate.Struct(d); err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}
	dir := NewMemoryDirectory()
	for _, s := range d.Staff {
		if err := dir.PutStaff(s); err != nil {
			return nil, err
		}
	}
	for _, a := range d.Assets {
		if err := dir.PutEquipment(a); err != nil {
			return nil, err
		}
	}
	for _, r := range d.Routes {
		if err := dir.PutRoute(r); err != nil {
			return nil, err
		}
	}
	for _, ft := range d.FieldTrips {
		if err := dir.PutFieldTrip(ft); err != nil {
			return nil, err
		}
	}
	return dir, nil
}

// PutStaff adds or replaces a staff member. An empty status means active.
func (d *MemoryDirectory) PutStaff(s model.StaffMember) error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("staff %q: %w", s.ID, err)
	}
	if s.Status == "" {
		s.Status = model.StaffActive
	}
	d.mu.Lock()
	d.staff[s.ID] = s
	d.mu.Unlock()
	return nil
}

// PutEquipment adds or replaces an asset. Defaults are vehicle and available.
func (d *MemoryDirectory) PutEquipment(e model.Equipment) error {
	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("asset %q: %w", e.ID, err)
	}
	if e.Kind == "" {
		e.Kind = model.AssetVehicle
	}
	if e.Status == "" {
		e.Status = model.AssetAvailable
	}
	d.mu.Lock()
	d.assets[e.ID] = e
	d.mu.Unlock()
	return nil
}

// PutRoute adds or replaces a route.
func (d *MemoryDirectory) PutRoute(r model.RouteInfo) error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("route %q: %w", r.ID, err)
	}
	d.mu.Lock()
	d.routes[r.ID] = r
	d.mu.Unlock()
	return nil
}

// PutFieldTrip adds or replaces a field trip.
func (d *MemoryDirectory) PutFieldTrip(ft model.FieldTripInfo) error {
	if err := validate.Struct(ft); err != nil {
		return fmt.Errorf("field trip %q: %w", ft.ID, err)
	}
	d.mu.Lock()
	d.trips[ft.ID] = ft
	d.mu.Unlock()
	return nil
}

func (d *MemoryDirectory) StaffMember(id string) (model.StaffMember, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.staff[id]
	return s, ok
}

func (d *MemoryDirectory) Equipment(id string) (model.Equipment, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.assets[id]
	return e, ok
}

func (d *MemoryDirectory) HasOwner(owner model.OwnerRef) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	switch owner.Kind {
	case model.OwnerRoute:
		_, ok := d.routes[owner.ID]
		return ok
	case model.OwnerFieldTrip:
		_, ok := d.trips[owner.ID]
		return ok
	}
	return false
}

// Routes returns the known routes sorted by id.
func (d *MemoryDirectory) Routes() []model.RouteInfo {
	d.mu.RLock()
	res := make([]model.RouteInfo, 0, len(d.routes))
	for _, r := range d.routes {
		res = append(res, r)
	}
	d.mu.RUnlock()
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

// FieldTrips returns the known field trips sorted by id.
func (d *MemoryDirectory) FieldTrips() []model.FieldTripInfo {
	d.mu.RLock()
	res := make([]model.FieldTripInfo, 0, len(d.trips))
	for _, ft := range d.trips {
		res = append(res, ft)
	}
	d.mu.RUnlock()
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}
