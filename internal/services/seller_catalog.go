package services

import (
	"fmt"
	"strings"

	"vehicle-auction/inventory/internal/constants"
	"vehicle-auction/inventory/internal/models/dtos"
)

// UnknownSellerTypesError lists requested seller types the source does not accept
type UnknownSellerTypesError struct {
	Types []string
}

func (e *UnknownSellerTypesError) Error() string {
	return fmt.Sprintf("unknown seller types: %s", strings.Join(e.Types, ", "))
}

// SellerTypeCatalog returns the static seller-type catalog
func SellerTypeCatalog() dtos.SellerTypesResponse {
	return dtos.SellerTypesResponse{
		AvailableSellerTypes: append([]string(nil), constants.AvailableSellerTypes...),
		DefaultSellerTypes:   append([]string(nil), constants.DefaultSellerTypes...),
	}
}

// ResolveSellerTypes trims and de-duplicates requested, falling back to the
// defaults when nothing is requested
func ResolveSellerTypes(requested []string) ([]string, error) {
	seen := make(map[string]struct{}, len(requested))
	resolved := make([]string, 0, len(requested))
	var unknown []string

	for _, st := range requested {
		st = strings.TrimSpace(st)
		if st == "" {
			continue
		}
		if _, dup := seen[st]; dup {
			continue
		}
		seen[st] = struct{}{}
		if !constants.IsKnownSellerType(st) {
			unknown = append(unknown, st)
			continue
		}
		resolved = append(resolved, st)
	}

	if len(unknown) > 0 {
		return nil, &UnknownSellerTypesError{Types: unknown}
	}
	if len(resolved) == 0 {
		return append([]string(nil), constants.DefaultSellerTypes...), nil
	}
	return resolved, nil
}
