package ordering_test

import (
	"errors"
	"testing"

	"curio/internal/ordering"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssign_FullSequence(t *testing.T) {
	current := []string{"a", "b", "c"}

	orders, err := ordering.Assign(current, []string{"c", "a", "b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"c": 0, "a": 1, "b": 2}, orders)
}

func TestAssign_EmptyScope(t *testing.T) {
	orders, err := ordering.Assign(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestAssign_EmptyProposalOverNonEmptyScope(t *testing.T) {
	_, err := ordering.Assign([]string{"a", "b"}, nil)
	require.Error(t, err)

	var mismatch *ordering.MismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.ElementsMatch(t, []string{"a", "b"}, mismatch.Missing)
}

func TestAssign_Mismatches(t *testing.T) {
	current := []string{"a", "b", "c"}

	tests := []struct {
		name       string
		proposed   []string
		missing    []string
		extra      []string
		duplicates []string
	}{
		{name: "missing id", proposed: []string{"a", "b"}, missing: []string{"c"}},
		{name: "foreign id", proposed: []string{"a", "b", "c", "x"}, extra: []string{"x"}},
		{name: "duplicate id", proposed: []string{"a", "b", "b"}, missing: []string{"c"}, duplicates: []string{"b"}},
		{name: "swap for foreign", proposed: []string{"a", "b", "x"}, missing: []string{"c"}, extra: []string{"x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ordering.Assign(current, tt.proposed)
			require.Error(t, err)

			var mismatch *ordering.MismatchError
			require.True(t, errors.As(err, &mismatch))
			assert.ElementsMatch(t, tt.missing, mismatch.Missing)
			assert.ElementsMatch(t, tt.extra, mismatch.Extra)
			assert.ElementsMatch(t, tt.duplicates, mismatch.Duplicates)
		})
	}
}

func TestAssignSparse_Valid(t *testing.T) {
	current := []string{"a", "b", "c"}
	pairs := []ordering.Pair{
		{ID: "b", Order: 0},
		{ID: "c", Order: 1},
		{ID: "a", Order: 2},
	}

	orders, err := ordering.AssignSparse(current, pairs)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"b": 0, "c": 1, "a": 2}, orders)
}

func TestAssignSparse_RejectsBadOrderValues(t *testing.T) {
	current := []string{"a", "b", "c"}

	tests := []struct {
		name  string
		pairs []ordering.Pair
	}{
		{
			name: "gap in orders",
			pairs: []ordering.Pair{
				{ID: "a", Order: 0}, {ID: "b", Order: 1}, {ID: "c", Order: 3},
			},
		},
		{
			name: "duplicate order",
			pairs: []ordering.Pair{
				{ID: "a", Order: 0}, {ID: "b", Order: 0}, {ID: "c", Order: 1},
			},
		},
		{
			name: "negative order",
			pairs: []ordering.Pair{
				{ID: "a", Order: -1}, {ID: "b", Order: 0}, {ID: "c", Order: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ordering.AssignSparse(current, tt.pairs)
			require.Error(t, err)

			var mismatch *ordering.MismatchError
			require.True(t, errors.As(err, &mismatch))
			assert.NotEmpty(t, mismatch.BadOrders)
		})
	}
}

func TestAssignSparse_RejectsForeignAndMissingIDs(t *testing.T) {
	current := []string{"a", "b"}
	pairs := []ordering.Pair{
		{ID: "a", Order: 0},
		{ID: "x", Order: 1},
	}

	_, err := ordering.AssignSparse(current, pairs)
	require.Error(t, err)

	var mismatch *ordering.MismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, []string{"b"}, mismatch.Missing)
	assert.Equal(t, []string{"x"}, mismatch.Extra)
}

func TestMismatchError_Message(t *testing.T) {
	err := &ordering.MismatchError{Missing: []string{"a"}, Extra: []string{"x"}}
	assert.Contains(t, err.Error(), "missing ids: a")
	assert.Contains(t, err.Error(), "unknown ids: x")
}
