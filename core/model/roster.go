package model

import "time"

// StaffStatus is the availability of a staff member.
type StaffStatus string

const (
	StaffActive       StaffStatus = "active"
	StaffOutOfService StaffStatus = "out_of_service"
	StaffOnLeave      StaffStatus = "on_leave"
)

// AssetStatus is the availability of an asset.
type AssetStatus string

const (
	AssetAvailable    AssetStatus = "available"
	AssetInService    AssetStatus = "in_service"
	AssetMaintenance  AssetStatus = "maintenance"
	AssetOutOfService AssetStatus = "out_of_service"
)

// AssetKind separates powered vehicles from towed or portable equipment.
type AssetKind string

const (
	AssetVehicle   AssetKind = "vehicle"
	AssetTrailer   AssetKind = "trailer"
	AssetEquipment AssetKind = "equipment"
)

// StaffMember is a person who can drive or escort.
type StaffMember struct {
	ID       string      `json:"id" validate:"required"`
	Name     string      `json:"name"`
	Status   StaffStatus `json:"status" validate:"omitempty,oneof=active out_of_service on_leave"`
	CanDrive bool        `json:"can_drive"`
}

// Unavailable reports whether the member cannot be scheduled.
func (s StaffMember) Unavailable() bool {
	return s.Status == StaffOutOfService || s.Status == StaffOnLeave
}

// Equipment is a vehicle, trailer or other bindable asset.
type Equipment struct {
	ID     string      `json:"id" validate:"required"`
	Name   string      `json:"name"`
	Kind   AssetKind   `json:"kind" validate:"omitempty,oneof=vehicle trailer equipment"`
	Status AssetStatus `json:"status" validate:"omitempty,oneof=available in_service maintenance out_of_service"`
}

// Unavailable reports whether the asset is in the shop or retired.
func (e Equipment) Unavailable() bool {
	return e.Status == AssetMaintenance || e.Status == AssetOutOfService
}

// RouteInfo describes a scheduled recurring run.
type RouteInfo struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name"`
}

// FieldTripInfo describes an ad hoc trip.
type FieldTripInfo struct {
	ID          string    `json:"id" validate:"required"`
	Name        string    `json:"name"`
	Destination string    `json:"destination"`
	Date        time.Time `json:"date"`
}
