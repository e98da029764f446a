package board

import "github.com/kilianp07/fleetboard/core/model"

// Read-only queries go straight to the store, whose own lock keeps each read
// consistent. They do not wait for a pending confirmation.

// IsStaffAssigned reports whether the staff member holds any binding.
func (e *Engine) IsStaffAssigned(staffID string) bool {
	_, ok := e.store.Lookup(model.Staff(staffID))
	return ok
}

// IsAssetAssigned reports whether the asset holds any binding.
func (e *Engine) IsAssetAssigned(assetID string) bool {
	_, ok := e.store.Lookup(model.Asset(assetID))
	return ok
}

// StaffAssignment returns where a staff member is bound.
func (e *Engine) StaffAssignment(staffID string) (model.Binding, bool) {
	return e.store.Lookup(model.Staff(staffID))
}

// AssetAssignment returns where an asset is bound.
func (e *Engine) AssetAssignment(assetID string) (model.Binding, bool) {
	return e.store.Lookup(model.Asset(assetID))
}

// ResourceBinding returns the binding of any resource.
func (e *Engine) ResourceBinding(res model.ResourceRef) (model.Binding, bool) {
	return e.store.Lookup(res)
}

// OwnerAssignment returns a copy of an owner record; unknown owners read as empty.
func (e *Engine) OwnerAssignment(owner model.OwnerRef) model.Assignment {
	rec, _ := e.store.Peek(owner)
	return rec
}

// RouteAssignment returns the resources committed to a route.
func (e *Engine) RouteAssignment(routeID string) model.Assignment {
	return e.OwnerAssignment(model.Route(routeID))
}

// RouteAssignments returns every route record touched so far.
func (e *Engine) RouteAssignments() map[string]model.Assignment {
	return e.store.All(model.OwnerRoute)
}

// FieldTripAssignment returns the resources committed to a field trip.
func (e *Engine) FieldTripAssignment(tripID string) model.Assignment {
	return e.OwnerAssignment(model.FieldTrip(tripID))
}

// FieldTripAssignments returns every field trip record touched so far.
func (e *Engine) FieldTripAssignments() map[string]model.Assignment {
	return e.store.All(model.OwnerFieldTrip)
}

// History returns up to limit entries, newest first.
func (e *Engine) History(limit int) []model.HistoryEntry {
	return e.history.Recent(limit)
}

// Snapshot returns the full serialisable board.
func (e *Engine) Snapshot() State {
	st := e.store.Snapshot()
	st.History = e.history.Entries()
	st.SavedAt = e.now().UTC()
	return st
}

// Verify cross-checks the indices without repairing them.
func (e *Engine) Verify() []Inconsistency { return e.store.Verify() }
