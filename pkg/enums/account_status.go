package enums

import "fmt"

// AccountStatus captures the approval lifecycle of an account. The same
// value is mirrored on the credential and profile records.
type AccountStatus string

const (
	AccountStatusPending     AccountStatus = "pending"
	AccountStatusApproved    AccountStatus = "approved"
	AccountStatusRejected    AccountStatus = "rejected"
	AccountStatusDeactivated AccountStatus = "deactivated"
)

var validAccountStatuses = []AccountStatus{
	AccountStatusPending,
	AccountStatusApproved,
	AccountStatusRejected,
	AccountStatusDeactivated,
}

// String implements fmt.Stringer.
func (a AccountStatus) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AccountStatus.
func (a AccountStatus) IsValid() bool {
	for _, candidate := range validAccountStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAccountStatus converts raw input into an AccountStatus.
func ParseAccountStatus(value string) (AccountStatus, error) {
	for _, candidate := range validAccountStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid account status %q", value)
}
