package audit

import (
	"reflect"
	"sort"
)

// ChangeKind classifies a field-level difference between two snapshots.
type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeChanged ChangeKind = "changed"
	ChangeRemoved ChangeKind = "removed"
)

// FieldChange is one field-level difference. From is nil for added
// fields, To is nil for removed fields.
type FieldChange struct {
	Field string
	Kind  ChangeKind
	From  any
	To    any
}

// Diff is the set of field-level differences between two snapshots,
// sorted by field name.
type Diff []FieldChange

// ComputeDiff walks the keys present in either snapshot. A field is
// changed when present in both with structurally unequal values,
// removed when present only in before, added when present only in
// after. Fields equal on both sides are absent from the result.
func ComputeDiff(before, after map[string]any) Diff {
	var diff Diff

	for field, oldValue := range before {
		newValue, exists := after[field]
		if !exists {
			diff = append(diff, FieldChange{Field: field, Kind: ChangeRemoved, From: oldValue})
			continue
		}

		if !structurallyEqual(oldValue, newValue) {
			diff = append(diff, FieldChange{Field: field, Kind: ChangeChanged, From: oldValue, To: newValue})
		}
	}

	for field, newValue := range after {
		if _, exists := before[field]; !exists {
			diff = append(diff, FieldChange{Field: field, Kind: ChangeAdded, To: newValue})
		}
	}

	sort.Slice(diff, func(i, j int) bool { return diff[i].Field < diff[j].Field })

	return diff
}

func (d Diff) Empty() bool {
	return len(d) == 0
}

// BeforeMap projects the diff onto the prior-state payload: old values
// of changed fields plus removed fields.
func (d Diff) BeforeMap() map[string]any {
	out := make(map[string]any)
	for _, change := range d {
		if change.Kind == ChangeChanged || change.Kind == ChangeRemoved {
			out[change.Field] = change.From
		}
	}

	return out
}

// AfterMap projects the diff onto the new-state payload: new values of
// changed fields plus added fields.
func (d Diff) AfterMap() map[string]any {
	out := make(map[string]any)
	for _, change := range d {
		if change.Kind == ChangeChanged || change.Kind == ChangeAdded {
			out[change.Field] = change.To
		}
	}

	return out
}

// structurallyEqual compares values by structure, not reference, so
// nested snapshot maps compare by content.
func structurallyEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
