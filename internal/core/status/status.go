// Package status is the closed set of states a sale or purchase can be in.
//
//	cash    terminal, never accepts payments
//	credit  --Settle-->  settled  (remaining balance reached zero)
//	settled --Reopen-->  credit   (a payment was reverted)
package status

import (
	"fmt"
	"strings"

	"ledgerpos/internal/core/apperror"
)

// Status of a sale or purchase.
type Status string

const (
	Cash    Status = "cash"
	Credit  Status = "credit"
	Settled Status = "settled"
)

// Side tells which document family a status belongs to. It only affects labels.
type Side string

const (
	SaleSide     Side = "sale"
	PurchaseSide Side = "purchase"
)

// Initial returns the status a new document starts in.
func Initial(credit bool) Status {
	if credit {
		return Credit
	}
	return Cash
}

// Valid reports whether s is one of the known states.
func (s Status) Valid() bool {
	switch s {
	case Cash, Credit, Settled:
		return true
	}
	return false
}

// IsCreditLike is true for documents that were created on credit, settled or not.
func (s Status) IsCreditLike() bool {
	return s == Credit || s == Settled
}

// Payable reports whether payments may be applied.
func (s Status) Payable() bool {
	return s == Credit
}

// Settle moves a credit document to settled.
func (s Status) Settle() (Status, error) {
	if s != Credit {
		return s, invalidTransition(s, Settled)
	}
	return Settled, nil
}

// Reopen moves a settled document back to credit.
func (s Status) Reopen() (Status, error) {
	if s != Settled {
		return s, invalidTransition(s, Credit)
	}
	return Credit, nil
}

func invalidTransition(from, to Status) error {
	return apperror.NewBusinessRule(
		apperror.CodeBusinessRule,
		fmt.Sprintf("invalid status transition %s -> %s", from, to),
	).WithDetail("from", string(from)).WithDetail("to", string(to))
}

var labels = map[Side]map[Status]string{
	SaleSide: {
		Cash:    "venta contado",
		Credit:  "venta credito",
		Settled: "venta cancelada",
	},
	PurchaseSide: {
		Cash:    "compra contado",
		Credit:  "compra credito",
		Settled: "compra cancelada",
	},
}

// Label returns the display name of s for the given side.
func (s Status) Label(side Side) string {
	if l, ok := labels[side][s]; ok {
		return l
	}
	return string(s)
}

// Parse accepts the canonical names and the display labels of both sides,
// case-insensitively and with any amount of inner whitespace.
func Parse(raw string) (Status, error) {
	name := strings.ToLower(strings.Join(strings.Fields(raw), " "))

	if s := Status(name); s.Valid() {
		return s, nil
	}
	for _, bySide := range labels {
		for s, l := range bySide {
			if l == name {
				return s, nil
			}
		}
	}
	switch name {
	case "contado":
		return Cash, nil
	case "credito":
		return Credit, nil
	case "cancelada", "cancelado":
		return Settled, nil
	}

	return "", apperror.NewValidation("unknown status").WithDetail("status", raw)
}

// ParseForCreate is Parse restricted to the states a new document may start in.
func ParseForCreate(raw string) (Status, error) {
	s, err := Parse(raw)
	if err != nil {
		return "", err
	}
	if s == Settled {
		return "", apperror.NewValidation("a document cannot be created settled").
			WithDetail("status", raw)
	}
	return s, nil
}
