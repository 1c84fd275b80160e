// Package counterparty provides the client and provider catalogs.
// Both share one shape; Role tells them apart.
package counterparty

import (
	"context"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Role defines whether the counterparty buys from us or sells to us.
type Role string

const (
	RoleClient   Role = "client"
	RoleProvider Role = "provider"
)

// Counterparty is a client or provider. OutstandingBalance is the credit owed on
// credit documents; it is never negative but has no upper bound.
type Counterparty struct {
	ID                 id.ID       `db:"id" json:"id"`
	Role               Role        `db:"-" json:"role"`
	ExternalID         string      `db:"external_id" json:"externalId"`
	Name               string      `db:"name" json:"name"`
	Address            *string     `db:"address" json:"address,omitempty"`
	City               *string     `db:"city" json:"city,omitempty"`
	Phone              *string     `db:"phone" json:"phone,omitempty"`
	Email              *string     `db:"email" json:"email,omitempty"`
	OutstandingBalance types.Money `db:"outstanding_balance" json:"outstandingBalance"`
}

// New creates a counterparty with no outstanding balance.
func New(role Role, externalID, name string) *Counterparty {
	return &Counterparty{
		ID:                 id.New(),
		Role:               role,
		ExternalID:         strings.TrimSpace(externalID),
		Name:               strings.TrimSpace(name),
		OutstandingBalance: decimal.Zero,
	}
}

// Validate implements entity.Validatable.
func (c *Counterparty) Validate(ctx context.Context) error {
	if c.Role != RoleClient && c.Role != RoleProvider {
		return apperror.NewValidation("invalid role").WithDetail("field", "role")
	}
	if c.ExternalID == "" {
		return apperror.NewValidation("external id is required").WithDetail("field", "externalId")
	}
	if c.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if c.Email != nil && *c.Email != "" && !emailRE.MatchString(*c.Email) {
		return apperror.NewValidation("invalid email format").WithDetail("field", "email")
	}
	if c.OutstandingBalance.IsNegative() {
		return apperror.NewValidation("outstanding balance cannot be negative").
			WithDetail("field", "outstandingBalance")
	}
	return nil
}

// EntityName is the name used in errors and audit records.
func (r Role) EntityName() string {
	return string(r)
}
