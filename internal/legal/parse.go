package legal

import (
	"regexp"
	"strings"
)

// Patterns for citation parsing.
var (
	// "LC 87/1996", "Lei 5172 1966", "IN RFB 2121/2022", "Decreto 11158-2022"
	citationPattern = regexp.MustCompile(`^(.*?)\s*(\d+)\s*[/|-]?\s*(\d{4})$`)
	separatorRe     = regexp.MustCompile(`[,\n]`)
	groupedDigitsRe = regexp.MustCompile(`(\d)\.(\d{3})`)
	nonSlugRe       = regexp.MustCompile(`[^a-z0-9]+`)
)

// Fixed citations recognized without a number.
const (
	constitutionNumber = "CF"
	constitutionYear   = "1988"
	taxCodeNumber      = "5172"
	taxCodeYear        = "1966"
)

// Parse splits free text on commas and newlines and returns one pending
// citation per recognized segment, in input order.
//
// Segments that match the number/year pattern but carry an unrecognized type
// are kept as Unknown so callers can report them. Segments without a
// number/year are dropped unless they name the Constitution or the Tax Code.
func Parse(input string) []Citation {
	var citations []Citation
	for _, segment := range separatorRe.Split(input, -1) {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		if c, ok := ParseOne(segment); ok {
			citations = append(citations, c)
		}
	}
	return citations
}

// ParseOne parses a single trimmed segment.
func ParseOne(segment string) (Citation, bool) {
	match := citationPattern.FindStringSubmatch(ungroupDigits(segment))
	if match != nil {
		typeToken, number, year := match[1], match[2], match[3]
		t := NormalizeType(typeToken)
		if t == Unknown {
			c := NewCitation(segment, Unknown, number, year)
			c.ID = unknownKey(segment)
			return c, true
		}
		return NewCitation(segment, t, number, year), true
	}

	folded := Fold(segment)
	switch {
	case strings.Contains(folded, "constituicao"):
		return NewCitation(segment, FederalConstitution, constitutionNumber, constitutionYear), true
	case strings.Contains(folded, "codigo tributario nacional") || strings.Contains(folded, "ctn"):
		return NewCitation(segment, NationalTaxCode, taxCodeNumber, taxCodeYear), true
	}
	return Citation{}, false
}

// NormalizeType maps a free-text type token to a Type.
// Matching ignores case and accents; rules are checked in order.
func NormalizeType(token string) Type {
	s := Fold(token)
	switch {
	case strings.HasPrefix(s, "lc") || strings.Contains(s, "complementar"):
		return SupplementaryLaw
	case strings.HasPrefix(s, "lei"):
		return OrdinaryLaw
	case strings.HasPrefix(s, "dec") || strings.Contains(s, "decreto"):
		return Decree
	case strings.HasPrefix(s, "in") || strings.Contains(s, "instrucao normativa"):
		return NormativeInstruction
	case strings.HasPrefix(s, "cf") || strings.Contains(s, "constituicao"):
		return FederalConstitution
	case strings.HasPrefix(s, "ctn") || strings.Contains(s, "codigo tributario"):
		return NationalTaxCode
	default:
		return Unknown
	}
}

// ungroupDigits removes thousands separators ("8.137/1990" -> "8137/1990").
func ungroupDigits(s string) string {
	for {
		next := groupedDigitsRe.ReplaceAllString(s, "$1$2")
		if next == s {
			return s
		}
		s = next
	}
}

func unknownKey(raw string) string {
	slug := strings.Trim(nonSlugRe.ReplaceAllString(Fold(raw), "-"), "-")
	return Unknown.key() + "-" + slug
}
