package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidBranchName = errors.New("invalid branch name")
	ErrInvalidCategory   = errors.New("invalid category")
	ErrAmountTooLarge    = errors.New("amount exceeds maximum allowed")
	ErrMetadataTooLarge  = errors.New("metadata size exceeds limit")
	ErrInvalidReference  = errors.New("reference must carry both type and id")
)

// Validation constants
const (
	MaxBranchNameLength = 255
	MaxCategoryLength   = 100
	MaxMetadataSize     = 10240 // 10KB
	MaxPostingAmount    = "1000000000" // 1 billion
)

// ValidateBranchName validates a branch name.
func ValidateBranchName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidBranchName)
	}

	if len(name) > MaxBranchNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidBranchName, MaxBranchNameLength)
	}

	return nil
}

// ValidateAmount validates a posting amount: positive, non-zero, fixed-point
// with at most two decimal places, below the hard ceiling.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if !amount.Equal(amount.Round(2)) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxPostingAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxPostingAmount)
	}

	return nil
}

// ValidateCategory validates an entry category label. The label is free-form;
// only shape is checked, never membership in a closed set.
func ValidateCategory(category string) error {
	category = strings.TrimSpace(category)

	if category == "" {
		return fmt.Errorf("%w: category cannot be empty", ErrInvalidCategory)
	}

	if len(category) > MaxCategoryLength {
		return fmt.Errorf("%w: category exceeds %d characters", ErrInvalidCategory, MaxCategoryLength)
	}

	return nil
}

// ValidateReference validates an optional collaborator reference.
func ValidateReference(ref *Reference) error {
	if ref == nil {
		return nil
	}

	if strings.TrimSpace(ref.Type) == "" || strings.TrimSpace(ref.ID) == "" {
		return ErrInvalidReference
	}

	return nil
}

// ValidateMetadata validates metadata size.
func ValidateMetadata(metadata map[string]any) error {
	if metadata == nil {
		return nil
	}

	// Estimate size (rough approximation)
	size := 0
	for k, v := range metadata {
		size += len(k)
		size += len(fmt.Sprintf("%v", v))
	}

	if size > MaxMetadataSize {
		return fmt.Errorf("%w: metadata size %d bytes exceeds limit of %d bytes", ErrMetadataTooLarge, size, MaxMetadataSize)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
