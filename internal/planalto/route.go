package planalto

import (
	"fmt"

	"github.com/legisbr/legis/internal/legal"
)

// Origin is the public origin of the Planalto legislation portal.
const Origin = "https://www.planalto.gov.br"

// Year brackets of the portal's "_ato" directories. A year belongs to the
// first bracket whose floor it exceeds.
const (
	bracket2023Floor = 2022
	bracket2019Floor = 2018
	bracket2015Floor = 2014

	// Decrees numbered above this live in the yearly directories.
	legacyDecreeMaxNumber = 9999
)

// Route returns the portal-relative path of the page for a citation.
// Types without a publishing rule return ErrUnsupportedType.
func Route(c legal.Citation) (string, error) {
	switch c.Type {
	case legal.SupplementaryLaw, legal.OrdinaryLaw, legal.NationalTaxCode, legal.Decree:
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, c.Type)
	}

	number, year, err := c.Numbers()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCitation, err)
	}

	switch c.Type {
	case legal.SupplementaryLaw:
		return fmt.Sprintf("/ccivil_03/leis/lcp/lcp%d.htm", number), nil

	case legal.OrdinaryLaw, legal.NationalTaxCode:
		if dir := actDirectory(year); dir != "" {
			return fmt.Sprintf("/ccivil_03/%s/%d/lei/L%d.htm", dir, year, number), nil
		}
		return fmt.Sprintf("/ccivil_03/leis/l%d.htm", number), nil

	default: // legal.Decree
		if number > legacyDecreeMaxNumber {
			switch {
			case year > bracket2023Floor:
				return fmt.Sprintf("/ccivil_03/_ato2023-2026/%d/decreto/D%d.htm", year, number), nil
			case year > bracket2019Floor:
				return fmt.Sprintf("/ccivil_03/_ato2019-2022/%d/decreto/D%d.htm", year, number), nil
			}
		}
		return fmt.Sprintf("/ccivil_03/decreto/d%d.htm", number), nil
	}
}

// actDirectory returns the "_ato" directory holding laws of the given year,
// or "" for years published under the flat legacy layout.
func actDirectory(year int) string {
	switch {
	case year > bracket2023Floor:
		return "_ato2023-2026"
	case year > bracket2019Floor:
		return "_ato2019-2022"
	case year > bracket2015Floor:
		return "_ato2015-2018"
	default:
		return ""
	}
}

// CanonicalURL returns the absolute portal URL for a routed path.
func CanonicalURL(path string) string {
	return Origin + path
}
