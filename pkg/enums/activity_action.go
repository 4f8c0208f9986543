package enums

import "fmt"

// ActivityAction tags an activity log entry with the mutation kind.
type ActivityAction string

const (
	ActivityActionCreated ActivityAction = "created"
	ActivityActionUpdated ActivityAction = "updated"
	ActivityActionDeleted ActivityAction = "deleted"
)

var validActivityActions = []ActivityAction{
	ActivityActionCreated,
	ActivityActionUpdated,
	ActivityActionDeleted,
}

// String implements fmt.Stringer.
func (a ActivityAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known ActivityAction.
func (a ActivityAction) IsValid() bool {
	for _, candidate := range validActivityActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseActivityAction converts raw input into an ActivityAction.
func ParseActivityAction(value string) (ActivityAction, error) {
	for _, candidate := range validActivityActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid activity action %q", value)
}
