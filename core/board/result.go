package board

import "github.com/kilianp07/fleetboard/core/model"

// Result is returned by every mutating engine operation. Expected failures
// are reported here rather than as errors.
type Result struct {
	OK        bool                `json:"ok"`
	Reason    string              `json:"reason,omitempty"`
	Code      Code                `json:"code,omitempty"`
	Unchanged bool                `json:"unchanged,omitempty"`
	Conflicts []Conflict          `json:"conflicts,omitempty"`
	Cleared   []model.ResourceRef `json:"cleared,omitempty"`
}

func failed(code Code, reason string) Result {
	return Result{Code: code, Reason: reason}
}

func unchanged(reason string) Result {
	return Result{OK: true, Unchanged: true, Reason: reason}
}
