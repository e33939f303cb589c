// Package layout derives the archive folder structure from completed citations.
package layout

import (
	"fmt"

	"github.com/legisbr/legis/internal/legal"
)

// RootFolder is the top-level folder of every archived file.
const RootFolder = "01_LEGISLACAO_TRIBUTARIA"

// OtherFolder holds files whose type has no dedicated folder.
const OtherFolder = "11_Outros"

// Structure maps archive-relative paths to file contents.
type Structure struct {
	// Files maps each path to the raw page of its citation.
	Files map[string]string
	// Paths maps citation ids to their path in Files.
	Paths map[string]string
}

// Folder returns the folder name for a normative type. Numeric prefixes keep
// folders in a fixed order.
func Folder(t legal.Type) string {
	switch t {
	case legal.FederalConstitution:
		return "01_Constituicao_Federal"
	case legal.NationalTaxCode:
		return "02_Codigo_Tributario_Nacional"
	case legal.SupplementaryLaw:
		return "03_Leis_Complementares"
	case legal.OrdinaryLaw:
		return "04_Leis_Ordinarias"
	case legal.Decree:
		return "05_Decretos_Regulamentos"
	case legal.NormativeInstruction:
		return "06_Instrucoes_Normativas_RFB"
	default:
		return OtherFolder
	}
}

// FileName returns the file name for a citation.
func FileName(c legal.Citation) string {
	switch c.Type {
	case legal.FederalConstitution:
		return "Constituicao_Federal_1988.html"
	case legal.NationalTaxCode:
		return "Lei_5172_1966.html"
	default:
		return fmt.Sprintf("%s_%s_%s.html", c.Type.Slug(), c.Number, c.Year)
	}
}

// Path returns the archive-relative path for a citation.
func Path(c legal.Citation) string {
	return RootFolder + "/" + Folder(c.Type) + "/" + FileName(c)
}

// Build maps every completed citation to its path. Citations that are not
// done or have no content are left out. Build does not modify its input.
func Build(citations []legal.Citation) Structure {
	st := Structure{
		Files: make(map[string]string),
		Paths: make(map[string]string),
	}
	for _, c := range citations {
		if !c.Completed() {
			continue
		}
		path := Path(c)
		st.Files[path] = c.Document.Content
		st.Paths[c.ID] = path
	}
	return st
}
