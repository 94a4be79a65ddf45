package ordering

import (
	"fmt"
	"sort"
	"strings"
)

// Pair is one entry of the sparse reorder form: an existing member id and the
// dense 0-based position it should move to.
type Pair struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

// MismatchError reports exactly how a proposed reordering failed to match the
// live member set of a scope, so the caller can fix the request.
type MismatchError struct {
	Missing    []string // live members absent from the proposal
	Extra      []string // proposed ids that are not live members
	Duplicates []string // ids proposed more than once
	BadOrders  []string // order values outside {0..n-1} or repeated (sparse form only)
}

func (e *MismatchError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing ids: %s", strings.Join(e.Missing, ", ")))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, fmt.Sprintf("unknown ids: %s", strings.Join(e.Extra, ", ")))
	}
	if len(e.Duplicates) > 0 {
		parts = append(parts, fmt.Sprintf("duplicate ids: %s", strings.Join(e.Duplicates, ", ")))
	}
	if len(e.BadOrders) > 0 {
		parts = append(parts, fmt.Sprintf("invalid order values: %s", strings.Join(e.BadOrders, ", ")))
	}
	if len(parts) == 0 {
		return "order update does not match current members"
	}
	return "order update does not match current members: " + strings.Join(parts, "; ")
}

// Assign validates the full-sequence reorder form and returns the dense order
// assignment: proposed[i] gets order i. The proposed ids must be exactly the
// current live member set, no omissions, no foreign ids, no duplicates.
// An empty proposal over a non-empty scope is rejected rather than treated as
// a no-op; empty over empty is trivially accepted.
func Assign(current, proposed []string) (map[string]int, error) {
	if err := checkMembers(current, proposed); err != nil {
		return nil, err
	}
	orders := make(map[string]int, len(proposed))
	for i, id := range proposed {
		orders[id] = i
	}
	return orders, nil
}

// AssignSparse validates the sparse-pairs reorder form. The pair ids must be
// exactly the current live member set and the order values must be exactly
// {0..n-1} with no duplicates.
func AssignSparse(current []string, pairs []Pair) (map[string]int, error) {
	ids := make([]string, len(pairs))
	for i, p := range pairs {
		ids[i] = p.ID
	}
	if err := checkMembers(current, ids); err != nil {
		return nil, err
	}

	n := len(pairs)
	seen := make(map[int]bool, n)
	var bad []string
	for _, p := range pairs {
		if p.Order < 0 || p.Order >= n || seen[p.Order] {
			bad = append(bad, fmt.Sprintf("%s=%d", p.ID, p.Order))
			continue
		}
		seen[p.Order] = true
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return nil, &MismatchError{BadOrders: bad}
	}

	orders := make(map[string]int, n)
	for _, p := range pairs {
		orders[p.ID] = p.Order
	}
	return orders, nil
}

// checkMembers verifies that proposed is exactly the current member set.
func checkMembers(current, proposed []string) error {
	live := make(map[string]bool, len(current))
	for _, id := range current {
		live[id] = true
	}

	var mismatch MismatchError
	seen := make(map[string]bool, len(proposed))
	for _, id := range proposed {
		if seen[id] {
			mismatch.Duplicates = append(mismatch.Duplicates, id)
			continue
		}
		seen[id] = true
		if !live[id] {
			mismatch.Extra = append(mismatch.Extra, id)
		}
	}
	for _, id := range current {
		if !seen[id] {
			mismatch.Missing = append(mismatch.Missing, id)
		}
	}

	if len(mismatch.Missing) > 0 || len(mismatch.Extra) > 0 || len(mismatch.Duplicates) > 0 {
		sort.Strings(mismatch.Missing)
		sort.Strings(mismatch.Extra)
		sort.Strings(mismatch.Duplicates)
		return &mismatch
	}
	return nil
}
