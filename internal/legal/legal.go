// Package legal defines citations of Brazilian legal norms and their lifecycle.
package legal

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Type is the normative type of a citation.
type Type int

const (
	Unknown Type = iota
	SupplementaryLaw
	OrdinaryLaw
	Decree
	NormativeInstruction
	FederalConstitution
	NationalTaxCode
)

// Types lists every known type, Unknown excluded.
var Types = []Type{
	SupplementaryLaw,
	OrdinaryLaw,
	Decree,
	NormativeInstruction,
	FederalConstitution,
	NationalTaxCode,
}

// String returns the Portuguese display name used in indices and file names.
func (t Type) String() string {
	switch t {
	case SupplementaryLaw:
		return "Lei Complementar"
	case OrdinaryLaw:
		return "Lei Ordinária"
	case Decree:
		return "Decreto"
	case NormativeInstruction:
		return "Instrução Normativa"
	case FederalConstitution:
		return "Constituição Federal"
	case NationalTaxCode:
		return "Código Tributário Nacional"
	default:
		return "Desconhecido"
	}
}

// Slug returns the display name without accents, words joined by underscores
// ("Lei_Ordinaria").
func (t Type) Slug() string {
	return strings.Join(strings.Fields(stripMarks(t.String())), "_")
}

// key returns the lowercase id prefix ("lei-ordinaria").
func (t Type) key() string {
	return strings.ToLower(strings.ReplaceAll(t.Slug(), "_", "-"))
}

// MarshalText encodes the type as its display name.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText accepts a display name, a slug or an id prefix.
func (t *Type) UnmarshalText(text []byte) error {
	s := Fold(string(text))
	for _, candidate := range append([]Type{Unknown}, Types...) {
		if s == Fold(candidate.String()) || s == candidate.key() || s == strings.ToLower(candidate.Slug()) {
			*t = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown normative type: %q", string(text))
}

// Status is the processing state of a citation.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
	StatusFailed     Status = "failed"
)

// Document is the content fetched for a citation.
type Document struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Source  string `json:"source"`
	URL     string `json:"url"`
	Content string `json:"-"`
}

// Citation is a single reference to a legal norm.
//
// Document is set only when Status is done and Error only when it is failed.
// LocalPath is assigned when the file structure is derived.
type Citation struct {
	ID        string    `json:"id"`
	Raw       string    `json:"raw"`
	Type      Type      `json:"type"`
	Number    string    `json:"number"`
	Year      string    `json:"year"`
	Status    Status    `json:"status"`
	Document  *Document `json:"document,omitempty"`
	Error     string    `json:"error,omitempty"`
	LocalPath string    `json:"local_path,omitempty"`
}

// NewCitation builds a pending citation with its deterministic id.
func NewCitation(raw string, t Type, number, year string) Citation {
	return Citation{
		ID:     Key(t, number, year),
		Raw:    raw,
		Type:   t,
		Number: number,
		Year:   year,
		Status: StatusPending,
	}
}

// Key builds the identity of a citation from its type, number and year.
func Key(t Type, number, year string) string {
	return t.key() + "-" + strings.ToLower(number) + "-" + year
}

// Completed reports whether the citation finished with non-empty content.
func (c Citation) Completed() bool {
	return c.Status == StatusDone && c.Document != nil && c.Document.Content != ""
}

// Numbers returns the numeric values of Number and Year.
func (c Citation) Numbers() (number, year int, err error) {
	number, err = strconv.Atoi(c.Number)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing number %q: %w", c.Number, err)
	}
	year, err = strconv.Atoi(c.Year)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing year %q: %w", c.Year, err)
	}
	return number, year, nil
}

// Fold lowercases s and strips diacritics ("Instrução" -> "instrucao").
func Fold(s string) string {
	return strings.ToLower(strings.TrimSpace(stripMarks(s)))
}

func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
