package services

import (
	"sort"
	"strings"

	"discounts/dto"
	"discounts/utils"
)

// patchKeys maps accepted payload keys, camel or snake case, to a field
var patchKeys = map[string]string{
	"title":          "title",
	"description":    "description",
	"priceOriginal":  "price_original",
	"price_original": "price_original",
	"priceDiscount":  "price_discount",
	"price_discount": "price_discount",
	"startsAt":       "starts_at",
	"starts_at":      "starts_at",
	"expiresAt":      "expires_at",
	"expires_at":     "expires_at",
	"imageUrl":       "image_url",
	"image_url":      "image_url",
}

// ParseDealPatch reads a loosely typed payload into a patch. Unknown keys are
// skipped. Values that cannot be parsed leave their slot empty so the stored
// value survives, and are reported in Ignored.
func ParseDealPatch(raw map[string]interface{}) dto.DealPatch {
	var patch dto.DealPatch
	ignored := make(map[string]bool)

	for key, value := range raw {
		field, ok := patchKeys[key]
		if !ok {
			continue
		}
		if !applyPatchValue(&patch, field, value) {
			ignored[field] = true
		}
	}

	for field := range ignored {
		patch.Ignored = append(patch.Ignored, field)
	}
	sort.Strings(patch.Ignored)
	return patch
}

func applyPatchValue(patch *dto.DealPatch, field string, value interface{}) bool {
	switch field {
	case "title":
		s, ok := value.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return false
		}
		patch.Title = &s
	case "description":
		s, ok := value.(string)
		if !ok {
			return false
		}
		patch.Description = &s
	case "image_url":
		s, ok := value.(string)
		if !ok {
			return false
		}
		patch.ImageURL = &s
	case "price_original":
		d, ok := utils.ParseDecimal(value)
		if !ok || !d.IsPositive() {
			return false
		}
		patch.PriceOriginal = &d
	case "price_discount":
		d, ok := utils.ParseDecimal(value)
		if !ok || d.IsNegative() {
			return false
		}
		patch.PriceDiscount = &d
	case "starts_at", "expires_at":
		s, ok := value.(string)
		if !ok {
			return false
		}
		t, ok := utils.ParseTime(s)
		if !ok {
			return false
		}
		if field == "starts_at" {
			patch.StartsAt = &t
		} else {
			patch.ExpiresAt = &t
		}
	}
	return true
}
