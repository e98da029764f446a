package board

import (
	"fmt"

	"github.com/kilianp07/fleetboard/core/model"
	"github.com/kilianp07/fleetboard/core/roster"
)

// Code classifies why an operation did not go through.
type Code string

const (
	CodeInvalidRole      Code = "invalid_role"
	CodeOwnerNotFound    Code = "owner_not_found"
	CodeResourceNotFound Code = "resource_not_found"
	CodeUnavailable      Code = "resource_unavailable"
	CodeNotDriver        Code = "missing_capability"
	CodeSlotMismatch     Code = "slot_mismatch"
	CodeEscortLimit      Code = "escort_limit"
	CodeDeclined         Code = "conflict_declined"
	CodeNotAssigned      Code = "not_assigned"
	CodeInternal         Code = "internal"
)

// Candidate is a binding proposed by an operator.
type Candidate struct {
	Resource model.ResourceRef
	Owner    model.OwnerRef
	Role     model.Role
}

// Verdict is the outcome of validating a candidate.
type Verdict struct {
	Valid  bool
	Reason string
	Code   Code
}

var pass = Verdict{Valid: true}

func reject(code Code, format string, args ...any) Verdict {
	return Verdict{Code: code, Reason: fmt.Sprintf(format, args...)}
}

// Rule checks one aspect of a candidate against the roster.
type Rule interface {
	Name() string
	Check(dir roster.Directory, c Candidate) Verdict
}

// Rules evaluates registered rules in order; the first rejection wins.
// Evaluation never mutates anything.
type Rules struct {
	dir   roster.Directory
	rules []Rule
}

// NewRules returns the default rule set bound to dir.
func NewRules(dir roster.Directory) *Rules {
	r := &Rules{dir: dir}
	r.Register(roleRule{})
	r.Register(ownerRule{})
	r.Register(availabilityRule{})
	r.Register(driverRule{})
	r.Register(slotRule{})
	return r
}

// Register appends a rule.
func (r *Rules) Register(rule Rule) { r.rules = append(r.rules, rule) }

// Validate checks whether resource may hold role on owner.
func (r *Rules) Validate(resource model.ResourceRef, owner model.OwnerRef, role model.Role) Verdict {
	c := Candidate{Resource: resource, Owner: owner, Role: role}
	for _, rule := range r.rules {
		if v := rule.Check(r.dir, c); !v.Valid {
			return v
		}
	}
	return pass
}

// Directory returns the roster the rules read from.
func (r *Rules) Directory() roster.Directory { return r.dir }

type roleRule struct{}

func (roleRule) Name() string { return "role" }

func (roleRule) Check(_ roster.Directory, c Candidate) Verdict {
	rt, known := c.Role.ResourceType()
	if !known {
		return reject(CodeInvalidRole, "unknown role %q", c.Role)
	}
	if rt != c.Resource.Type {
		return reject(CodeInvalidRole, "role %s cannot be filled by %s", c.Role, c.Resource.Type)
	}
	return pass
}

type ownerRule struct{}

func (ownerRule) Name() string { return "owner" }

func (ownerRule) Check(dir roster.Directory, c Candidate) Verdict {
	if !c.Owner.Kind.Valid() || !dir.HasOwner(c.Owner) {
		return reject(CodeOwnerNotFound, "%s does not exist", c.Owner)
	}
	return pass
}

type availabilityRule struct{}

func (availabilityRule) Name() string { return "availability" }

func (availabilityRule) Check(dir roster.Directory, c Candidate) Verdict {
	switch c.Resource.Type {
	case model.ResourceStaff:
		s, found := dir.StaffMember(c.Resource.ID)
		if !found {
			return reject(CodeResourceNotFound, "staff %s does not exist", c.Resource.ID)
		}
		if s.Unavailable() {
			return reject(CodeUnavailable, "staff %s is unavailable (%s)", c.Resource.ID, s.Status)
		}
	case model.ResourceAsset:
		e, found := dir.Equipment(c.Resource.ID)
		if !found {
			return reject(CodeResourceNotFound, "asset %s does not exist", c.Resource.ID)
		}
		if e.Unavailable() {
			return reject(CodeUnavailable, "asset %s is unavailable (%s)", c.Resource.ID, e.Status)
		}
	default:
		return reject(CodeResourceNotFound, "unknown resource type %q", c.Resource.Type)
	}
	return pass
}

type driverRule struct{}

func (driverRule) Name() string { return "driver_capability" }

func (driverRule) Check(dir roster.Directory, c Candidate) Verdict {
	if c.Role != model.RoleDriver {
		return pass
	}
	if s, _ := dir.StaffMember(c.Resource.ID); !s.CanDrive {
		return reject(CodeNotDriver, "staff %s is not cleared to drive", c.Resource.ID)
	}
	return pass
}

// slotRule keeps trailers out of the vehicle slot and vice versa.
type slotRule struct{}

func (slotRule) Name() string { return "asset_slot" }

func (slotRule) Check(dir roster.Directory, c Candidate) Verdict {
	if c.Resource.Type != model.ResourceAsset {
		return pass
	}
	e, _ := dir.Equipment(c.Resource.ID)
	switch {
	case c.Role == model.RoleTrailer && e.Kind != model.AssetTrailer:
		return reject(CodeSlotMismatch, "asset %s is a %s, not a trailer", e.ID, e.Kind)
	case c.Role == model.RoleAsset && e.Kind == model.AssetTrailer:
		return reject(CodeSlotMismatch, "trailer %s cannot fill the vehicle slot", e.ID)
	}
	return pass
}
