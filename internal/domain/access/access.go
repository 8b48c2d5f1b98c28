// Package access models per-(account, user) permission records. A record is
// unique per pair, mutated in place on re-grant or revoke, and never deleted.
package access

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Type is the permission level a user holds on an account
type Type string

const (
	TypeOwner    Type = "OWNER"
	TypeOperator Type = "OPERATOR"
	TypeViewer   Type = "VIEWER"
)

// State marks whether a grant is currently effective
type State string

const (
	StateGranted State = "GRANTED"
	StateRevoked State = "REVOKED"
)

// ErrInvalidAccessType indicates an unknown permission level
var ErrInvalidAccessType = errors.New("invalid access type")

// AccountAccess is one user's permission record on one account
type AccountAccess struct {
	AccountID uuid.UUID `json:"account_id"`
	UserID    uuid.UUID `json:"user_id"`
	Type      Type      `json:"type"`
	State     State     `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewGrant creates a fresh GRANTED access record
func NewGrant(accountID, userID uuid.UUID, accessType Type) (*AccountAccess, error) {
	if err := ValidateType(accessType); err != nil {
		return nil, err
	}
	now := time.Now()
	return &AccountAccess{
		AccountID: accountID,
		UserID:    userID,
		Type:      accessType,
		State:     StateGranted,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Regrant updates the permission level and restores the grant. Re-granting a
// revoked access makes it effective again; revoke/grant are symmetric.
func (a *AccountAccess) Regrant(accessType Type) error {
	if err := ValidateType(accessType); err != nil {
		return err
	}
	a.Type = accessType
	a.State = StateGranted
	a.UpdatedAt = time.Now()
	return nil
}

// Revoke marks the record REVOKED. Revoking twice leaves it REVOKED.
func (a *AccountAccess) Revoke() {
	a.State = StateRevoked
	a.UpdatedAt = time.Now()
}

// CanOperate reports whether this record lets its user initiate movements.
// Viewers are read-only; revoked grants carry no rights.
func (a *AccountAccess) CanOperate() bool {
	if a.State != StateGranted {
		return false
	}
	return a.Type == TypeOwner || a.Type == TypeOperator
}

// ValidateType rejects unknown permission levels
func ValidateType(t Type) error {
	switch t {
	case TypeOwner, TypeOperator, TypeViewer:
		return nil
	}
	return ErrInvalidAccessType
}
