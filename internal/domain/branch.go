package domain

import "time"

// Branch is the owning entity of a cashbox. A branch and its cashbox are
// created in the same transaction, or not at all.
type Branch struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate validates branch fields before creation.
func (b *Branch) Validate() error {
	return ValidateBranchName(b.Name)
}
