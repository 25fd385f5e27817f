// Package services contains stateless domain services for the item bounded context.
// Domain services enforce business rules that operate purely on domain types
// and have zero external dependencies beyond stdlib and the domain layer.
package services

import (
	"fmt"
	"unicode/utf8"

	"github.com/ghuser/itemcatalog/services/item/domain"
	"github.com/ghuser/itemcatalog/services/item/domain/models"
)

// ValidateName enforces 1..MaxNameLength characters.
func ValidateName(name string) error {
	n := utf8.RuneCountInString(name)
	if n == 0 {
		return fmt.Errorf("name must not be empty")
	}
	if n > models.MaxNameLength {
		return fmt.Errorf("name must not exceed %d characters", models.MaxNameLength)
	}
	return nil
}

func ValidateDescription(desc string) error {
	if utf8.RuneCountInString(desc) > models.MaxDescriptionLength {
		return fmt.Errorf("description must not exceed %d characters", models.MaxDescriptionLength)
	}
	return nil
}

func ValidateCategory(category string) error {
	n := utf8.RuneCountInString(category)
	if n == 0 {
		return fmt.Errorf("category must not be empty")
	}
	if n > models.MaxCategoryLength {
		return fmt.Errorf("category must not exceed %d characters", models.MaxCategoryLength)
	}
	return nil
}

func ValidatePrice(p models.Price) error {
	if !p.IsPositive() {
		return fmt.Errorf("price must be positive")
	}
	return nil
}

func ValidateStock(stock int) error {
	if stock < 0 || stock > models.MaxStock {
		return fmt.Errorf("stock must be between 0 and %d", models.MaxStock)
	}
	return nil
}

// ValidateFields re-checks every invariant of a full item payload before it is
// persisted. Errors wrap domain.ErrInvalidItem.
func ValidateFields(f models.ItemFields) error {
	checks := []error{
		ValidateName(f.Name),
		ValidateDescription(f.Description),
		ValidatePrice(f.Price),
		ValidateCategory(f.Category),
		ValidateStock(f.Stock),
	}
	for _, err := range checks {
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrInvalidItem, err)
		}
	}
	return nil
}

// ValidatePatch checks the fields present in p. An empty patch returns
// domain.ErrNothingToUpdate.
func ValidatePatch(p models.ItemPatch) error {
	if p.IsEmpty() {
		return domain.ErrNothingToUpdate
	}
	var checks []error
	if p.Name != nil {
		checks = append(checks, ValidateName(*p.Name))
	}
	if p.Description != nil {
		checks = append(checks, ValidateDescription(*p.Description))
	}
	if p.Price != nil {
		checks = append(checks, ValidatePrice(*p.Price))
	}
	if p.Category != nil {
		checks = append(checks, ValidateCategory(*p.Category))
	}
	if p.Stock != nil {
		checks = append(checks, ValidateStock(*p.Stock))
	}
	for _, err := range checks {
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrInvalidItem, err)
		}
	}
	return nil
}
