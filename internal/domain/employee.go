package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleManager Role = "manager"
	RoleBarista Role = "barista"
	RoleCashier Role = "cashier"
	RoleKitchen Role = "kitchen"
)

func (r Role) Valid() bool {
	switch r {
	case RoleManager, RoleBarista, RoleCashier, RoleKitchen:
		return true
	}
	return false
}

type EmployeeStatus string

const (
	EmployeeActive    EmployeeStatus = "active"
	EmployeePending   EmployeeStatus = "pending"
	EmployeeSuspended EmployeeStatus = "suspended"
)

func (s EmployeeStatus) Valid() bool {
	return s == EmployeeActive || s == EmployeePending || s == EmployeeSuspended
}

const (
	PermAll       = "all"
	PermOrders    = "orders"
	PermInventory = "inventory"
	PermLoyalty   = "loyalty"
)

// PermissionsFor is the static permission set granted to a role.
func PermissionsFor(r Role) []string {
	switch r {
	case RoleManager:
		return []string{PermAll}
	case RoleBarista:
		return []string{PermOrders, PermInventory, PermLoyalty}
	case RoleCashier:
		return []string{PermOrders, PermLoyalty}
	case RoleKitchen:
		return []string{PermOrders, PermInventory}
	}
	return nil
}

func StationFor(r Role) string {
	switch r {
	case RoleManager:
		return StationManagement
	case RoleKitchen:
		return StationKitchen
	default:
		return StationFrontCounter
	}
}

type EmployeeRecord struct {
	Email       string         `json:"email" firestore:"email"`
	Name        string         `json:"name" firestore:"name"`
	Role        Role           `json:"role" firestore:"role"`
	Station     string         `json:"station" firestore:"station"`
	Permissions []string       `json:"permissions" firestore:"permissions"`
	InvitedBy   string         `json:"invitedBy" firestore:"invitedBy"`
	InvitedAt   time.Time      `json:"invitedAt" firestore:"invitedAt"`
	Status      EmployeeStatus `json:"status" firestore:"status"`
}

func (e EmployeeRecord) Can(perm string) bool {
	for _, p := range e.Permissions {
		if p == PermAll || p == perm {
			return true
		}
	}
	return false
}

// NormalizeEmail is the whitelist key for an address.
func NormalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }
