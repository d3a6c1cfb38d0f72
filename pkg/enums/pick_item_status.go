package enums

import "fmt"

// PickItemStatus describes the allowed values for the `status` column in pick_items.
type PickItemStatus string

const (
	PickItemStatusPending PickItemStatus = "pending"
	PickItemStatusPicked  PickItemStatus = "picked"
	PickItemStatusSkipped PickItemStatus = "skipped"
)

var validPickItemStatuses = []PickItemStatus{
	PickItemStatusPending,
	PickItemStatusPicked,
	PickItemStatusSkipped,
}

// IsValid reports whether the value matches the canonical pick item status enum.
func (s PickItemStatus) IsValid() bool {
	for _, candidate := range validPickItemStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParsePickItemStatus converts the raw string to PickItemStatus.
func ParsePickItemStatus(value string) (PickItemStatus, error) {
	for _, candidate := range validPickItemStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pick item status %q", value)
}

func (s PickItemStatus) String() string {
	return string(s)
}
