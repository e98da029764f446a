package model

import (
	"fmt"
	"slices"
)

// OwnerKind distinguishes scheduled routes from ad hoc field trips.
type OwnerKind string

const (
	OwnerRoute     OwnerKind = "route"
	OwnerFieldTrip OwnerKind = "field_trip"
)

// Valid reports whether k is a known owner kind.
func (k OwnerKind) Valid() bool {
	return k == OwnerRoute || k == OwnerFieldTrip
}

// OwnerRef identifies a route or field trip on the board.
type OwnerRef struct {
	Kind OwnerKind `json:"kind"`
	ID   string    `json:"id"`
}

// Route returns the owner reference of a route.
func Route(id string) OwnerRef { return OwnerRef{Kind: OwnerRoute, ID: id} }

// FieldTrip returns the owner reference of a field trip.
func FieldTrip(id string) OwnerRef { return OwnerRef{Kind: OwnerFieldTrip, ID: id} }

func (o OwnerRef) String() string {
	switch o.Kind {
	case OwnerFieldTrip:
		return "field trip " + o.ID
	default:
		return "route " + o.ID
	}
}

// ResourceType is the class of a bindable resource.
type ResourceType string

const (
	ResourceStaff ResourceType = "staff"
	ResourceAsset ResourceType = "asset"
)

// ResourceRef identifies a staff member or an asset.
type ResourceRef struct {
	Type ResourceType `json:"type"`
	ID   string       `json:"id"`
}

// Staff returns a reference to a staff member.
func Staff(id string) ResourceRef { return ResourceRef{Type: ResourceStaff, ID: id} }

// Asset returns a reference to a vehicle, trailer or piece of equipment.
func Asset(id string) ResourceRef { return ResourceRef{Type: ResourceAsset, ID: id} }

func (r ResourceRef) String() string { return fmt.Sprintf("%s %s", r.Type, r.ID) }

// Role is the slot a resource occupies on an owner.
type Role string

const (
	RoleDriver  Role = "driver"
	RoleEscort  Role = "escort"
	RoleAsset   Role = "asset"
	RoleTrailer Role = "trailer"
)

// ResourceType returns the resource class that may fill the role.
func (r Role) ResourceType() (ResourceType, bool) {
	switch r {
	case RoleDriver, RoleEscort:
		return ResourceStaff, true
	case RoleAsset, RoleTrailer:
		return ResourceAsset, true
	}
	return "", false
}

// DefaultRole is the slot a resource fills when none is named: staff drive,
// assets take the vehicle slot.
func DefaultRole(t ResourceType) Role {
	if t == ResourceAsset {
		return RoleAsset
	}
	return RoleDriver
}

// MultiValued reports whether several resources can hold the role at once.
func (r Role) MultiValued() bool { return r == RoleEscort }

// Roles lists every slot in a stable order.
var Roles = []Role{RoleDriver, RoleEscort, RoleAsset, RoleTrailer}

// Binding is the reverse-index entry of a resource.
type Binding struct {
	Owner OwnerRef `json:"owner"`
	Role  Role     `json:"role"`
}

// Assignment holds the resources committed to one route or field trip.
type Assignment struct {
	Driver  string   `json:"driver,omitempty"`
	Escorts []string `json:"escorts"`
	Asset   string   `json:"asset,omitempty"`
	Trailer string   `json:"trailer,omitempty"`
}

// Clone returns a deep copy of the assignment.
func (a Assignment) Clone() Assignment {
	out := a
	out.Escorts = slices.Clone(a.Escorts)
	if out.Escorts == nil {
		out.Escorts = []string{}
	}
	return out
}

// Empty reports whether nothing is bound to the owner.
func (a Assignment) Empty() bool {
	return a.Driver == "" && len(a.Escorts) == 0 && a.Asset == "" && a.Trailer == ""
}

// Holds returns the resources currently filling role.
func (a Assignment) Holds(role Role) []string {
	switch role {
	case RoleDriver:
		return nonEmpty(a.Driver)
	case RoleEscort:
		return slices.Clone(a.Escorts)
	case RoleAsset:
		return nonEmpty(a.Asset)
	case RoleTrailer:
		return nonEmpty(a.Trailer)
	}
	return nil
}

func nonEmpty(id string) []string {
	if id == "" {
		return nil
	}
	return []string{id}
}
