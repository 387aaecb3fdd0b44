package model

// RoleType is the closed set of roles a master service token may carry.
type RoleType string

const (
	RoleAdmin   RoleType = "ADMIN"
	RoleRegular RoleType = "REGULAR"
	// RoleNotUsed is reserved and never granted.
	RoleNotUsed RoleType = "NOT_USED"
)
