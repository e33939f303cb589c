package layout

import (
	"reflect"
	"testing"

	"github.com/legisbr/legis/internal/legal"
)

func done(c legal.Citation, content string) legal.Citation {
	c.Status = legal.StatusDone
	c.Document = &legal.Document{Title: c.Raw, Content: content}
	return c
}

func TestPath(t *testing.T) {
	tests := []struct {
		name string
		c    legal.Citation
		want string
	}{
		{
			name: "supplementary law",
			c:    legal.NewCitation("LC 87/1996", legal.SupplementaryLaw, "87", "1996"),
			want: "01_LEGISLACAO_TRIBUTARIA/03_Leis_Complementares/Lei_Complementar_87_1996.html",
		},
		{
			name: "ordinary law",
			c:    legal.NewCitation("Lei 9430/1996", legal.OrdinaryLaw, "9430", "1996"),
			want: "01_LEGISLACAO_TRIBUTARIA/04_Leis_Ordinarias/Lei_Ordinaria_9430_1996.html",
		},
		{
			name: "decree",
			c:    legal.NewCitation("Decreto 9580/2018", legal.Decree, "9580", "2018"),
			want: "01_LEGISLACAO_TRIBUTARIA/05_Decretos_Regulamentos/Decreto_9580_2018.html",
		},
		{
			name: "normative instruction",
			c:    legal.NewCitation("IN 2121/2022", legal.NormativeInstruction, "2121", "2022"),
			want: "01_LEGISLACAO_TRIBUTARIA/06_Instrucoes_Normativas_RFB/Instrucao_Normativa_2121_2022.html",
		},
		{
			name: "constitution has fixed name",
			c:    legal.NewCitation("Constituição", legal.FederalConstitution, "CF", "1988"),
			want: "01_LEGISLACAO_TRIBUTARIA/01_Constituicao_Federal/Constituicao_Federal_1988.html",
		},
		{
			name: "tax code has fixed name",
			c:    legal.NewCitation("CTN", legal.NationalTaxCode, "5172", "1966"),
			want: "01_LEGISLACAO_TRIBUTARIA/02_Codigo_Tributario_Nacional/Lei_5172_1966.html",
		},
		{
			name: "unknown goes to other",
			c:    legal.NewCitation("Portaria 1/2020", legal.Unknown, "1", "2020"),
			want: "01_LEGISLACAO_TRIBUTARIA/11_Outros/Desconhecido_1_2020.html",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Path(tt.c); got != tt.want {
				t.Errorf("Path() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuild_FiltersCompleted(t *testing.T) {
	lc := done(legal.NewCitation("LC 87/1996", legal.SupplementaryLaw, "87", "1996"), "<html>lc</html>")
	empty := done(legal.NewCitation("Lei 1/2000", legal.OrdinaryLaw, "1", "2000"), "")
	pending := legal.NewCitation("Decreto 1/2000", legal.Decree, "1", "2000")
	failed := legal.NewCitation("IN 1/2000", legal.NormativeInstruction, "1", "2000")
	failed.Status = legal.StatusFailed

	input := []legal.Citation{lc, empty, pending, failed}
	st := Build(input)

	if len(st.Files) != 1 {
		t.Fatalf("Build() returned %d files, want 1: %v", len(st.Files), st.Files)
	}
	path := "01_LEGISLACAO_TRIBUTARIA/03_Leis_Complementares/Lei_Complementar_87_1996.html"
	if st.Files[path] != "<html>lc</html>" {
		t.Errorf("Files[%q] = %q", path, st.Files[path])
	}
	if st.Paths[lc.ID] != path {
		t.Errorf("Paths[%q] = %q, want %q", lc.ID, st.Paths[lc.ID], path)
	}
	if input[0].LocalPath != "" {
		t.Error("Build() modified its input")
	}
}

func TestBuild_Idempotent(t *testing.T) {
	input := []legal.Citation{
		done(legal.NewCitation("LC 87/1996", legal.SupplementaryLaw, "87", "1996"), "a"),
		done(legal.NewCitation("CTN", legal.NationalTaxCode, "5172", "1966"), "b"),
		done(legal.NewCitation("Decreto 9580/2018", legal.Decree, "9580", "2018"), "c"),
	}

	first := Build(input)
	second := Build(input)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Build() not idempotent:\n%v\n%v", first, second)
	}
}
