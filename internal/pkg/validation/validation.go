package validation

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"villfinder-backend/internal/domain"
	"villfinder-backend/internal/pkg/apperrors"

	"github.com/gofiber/fiber/v2"
)

// OptionalFloat parses raw as a float. Empty input yields nil.
func OptionalFloat(field, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperrors.Validation(field, field+" must be a number")
	}
	return &v, nil
}

// OptionalUint parses raw as a positive integer id. Empty input yields nil.
func OptionalUint(field, raw string) (*uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return nil, apperrors.Validation(field, field+" must be a positive integer")
	}
	id := uint(v)
	return &id, nil
}

// RequiredUint is OptionalUint that rejects empty input.
func RequiredUint(field, raw string) (uint, error) {
	v, err := OptionalUint(field, raw)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, apperrors.Validation(field, field+" is required")
	}
	return *v, nil
}

// IDList parses repeated and comma-separated integer ids, dropping blanks and duplicates.
// A nil result means the parameter was absent.
func IDList(field string, values []string) ([]uint, error) {
	var out []uint
	seen := map[uint]bool{}
	present := false
	for _, value := range values {
		present = true
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			v, err := strconv.ParseUint(part, 10, 64)
			if err != nil || v == 0 {
				return nil, apperrors.Validation(field, "Invalid "+field+" format: "+strconv.Quote(part)+" is not an integer id")
			}
			if !seen[uint(v)] {
				seen[uint(v)] = true
				out = append(out, uint(v))
			}
		}
	}
	if present && out == nil {
		out = []uint{}
	}
	return out, nil
}

// QueryValues returns every value of a repeated query parameter.
func QueryValues(c *fiber.Ctx, key string) []string {
	raw := c.Context().QueryArgs().PeekMulti(key)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		out = append(out, string(v))
	}
	return out
}

// Bool accepts true/false, 1/0, yes/no, on/off. Empty input is false.
func Bool(field, raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return false, nil
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	}
	return false, apperrors.Validation(field, field+" must be a boolean")
}

// Page parses a 1-based page number, defaulting to 1.
func Page(field, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, apperrors.Validation(field, "Invalid page.")
	}
	return v, nil
}

// MaxLength rejects strings longer than max runes.
func MaxLength(field, s string, max int) error {
	if max > 0 && utf8.RuneCountInString(s) > max {
		return apperrors.Validation(field, field+" must be at most "+strconv.Itoa(max)+" characters")
	}
	return nil
}

// Target parses a listing kind and id pair, as sent in paths (:kind/:id) or review queries.
func Target(kindField, kind, idField, id string) (domain.TargetRef, error) {
	k, ok := domain.ParseListingKind(strings.ToLower(strings.TrimSpace(kind)))
	if !ok {
		return domain.TargetRef{}, apperrors.Validation(kindField, kindField+" must be one of rental, foodestablishment")
	}
	v, err := RequiredUint(idField, id)
	if err != nil {
		return domain.TargetRef{}, err
	}
	return domain.TargetRef{Kind: k, ID: v}, nil
}
