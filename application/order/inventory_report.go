package order

import (
	"errors"
	"fmt"
)

// InventoryOperation best-effort inventory call made after an order was saved
type InventoryOperation string

const (
	OpDeduct  InventoryOperation = "deduct"
	OpReserve InventoryOperation = "reserve"
	OpRelease InventoryOperation = "release"
)

// InventoryIssue one failed inventory call for one item
type InventoryIssue struct {
	ItemID     string
	VariantID  string
	LocationID string
	Operation  InventoryOperation
	Quantity   int
	Err        error
}

func (i InventoryIssue) Error() string {
	return fmt.Sprintf("%s %d x %s (item %s) at %q: %v",
		i.Operation, i.Quantity, i.VariantID, i.ItemID, i.LocationID, i.Err)
}

func (i InventoryIssue) Unwrap() error { return i.Err }

// InventoryReport collects per-item failures so one bad item never stops the rest.
type InventoryReport struct {
	issues []InventoryIssue
}

func (r *InventoryReport) add(issue InventoryIssue) {
	r.issues = append(r.issues, issue)
}

// HasIssues reports whether any call failed.
func (r *InventoryReport) HasIssues() bool {
	return r != nil && len(r.issues) > 0
}

// Issues returns a copy of the collected failures in call order.
func (r *InventoryReport) Issues() []InventoryIssue {
	if r == nil {
		return nil
	}
	return append([]InventoryIssue(nil), r.issues...)
}

// Err joins every failure, or returns nil when there were none.
func (r *InventoryReport) Err() error {
	if !r.HasIssues() {
		return nil
	}
	errs := make([]error, len(r.issues))
	for i, issue := range r.issues {
		errs[i] = issue
	}
	return errors.Join(errs...)
}
