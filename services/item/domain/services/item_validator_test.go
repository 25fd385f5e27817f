package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/ghuser/itemcatalog/services/item/domain"
	"github.com/ghuser/itemcatalog/services/item/domain/models"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid name", "Valid Item Name", false},
		{"single character", "a", false},
		{"exactly 100 characters", strings.Repeat("x", 100), false},
		{"100 multibyte characters", strings.Repeat("é", 100), false},
		{"empty", "", true},
		{"101 characters", strings.Repeat("x", 101), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateName(%q) error = %v, wantErr = %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func validFields() models.ItemFields {
	return models.ItemFields{
		Name:     "Mouse",
		Price:    models.MustParsePrice("10.50"),
		Category: "acc",
		Stock:    3,
	}
}

func TestValidateFields(t *testing.T) {
	t.Run("valid fields return nil", func(t *testing.T) {
		if err := ValidateFields(validFields()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	mutations := map[string]func(*models.ItemFields){
		"empty name":           func(f *models.ItemFields) { f.Name = "" },
		"long description":     func(f *models.ItemFields) { f.Description = strings.Repeat("d", 501) },
		"zero price":           func(f *models.ItemFields) { f.Price = models.MustParsePrice("0") },
		"empty category":       func(f *models.ItemFields) { f.Category = "" },
		"long category":        func(f *models.ItemFields) { f.Category = strings.Repeat("c", 51) },
		"negative stock":       func(f *models.ItemFields) { f.Stock = -1 },
		"stock beyond int32":   func(f *models.ItemFields) { f.Stock = models.MaxStock + 1 },
		"price rounds to zero": func(f *models.ItemFields) { f.Price = models.MustParsePrice("0.001") },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			f := validFields()
			mutate(&f)
			err := ValidateFields(f)
			if !errors.Is(err, domain.ErrInvalidItem) {
				t.Fatalf("expected ErrInvalidItem, got %v", err)
			}
		})
	}
}

func TestValidatePatch(t *testing.T) {
	t.Run("empty patch", func(t *testing.T) {
		if err := ValidatePatch(models.ItemPatch{}); !errors.Is(err, domain.ErrNothingToUpdate) {
			t.Fatalf("expected ErrNothingToUpdate, got %v", err)
		}
	})

	t.Run("valid stock only", func(t *testing.T) {
		stock := 0
		if err := ValidatePatch(models.ItemPatch{Stock: &stock}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("empty description allowed", func(t *testing.T) {
		desc := ""
		if err := ValidatePatch(models.ItemPatch{Description: &desc}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("empty category rejected", func(t *testing.T) {
		cat := ""
		if err := ValidatePatch(models.ItemPatch{Category: &cat}); !errors.Is(err, domain.ErrInvalidItem) {
			t.Fatalf("expected ErrInvalidItem, got %v", err)
		}
	})

	t.Run("non-positive price rejected", func(t *testing.T) {
		p := models.MustParsePrice("-2")
		if err := ValidatePatch(models.ItemPatch{Price: &p}); !errors.Is(err, domain.ErrInvalidItem) {
			t.Fatalf("expected ErrInvalidItem, got %v", err)
		}
	})
}
