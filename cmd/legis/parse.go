package main

import (
	"github.com/spf13/cobra"

	"github.com/legisbr/legis/internal/legal"
)

var parseFile string

var parseCmd = &cobra.Command{
	Use:   "parse [text...]",
	Short: "Parse citations without fetching",
	Long: `Parse free text into citations. Segments are split on commas and
newlines; unrecognized segments are dropped.

Examples:
  legis parse "LC 87/1996, Lei 9.430/1996"
  legis parse -f normas.txt --human`,
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parseFile, "file", "f", "", "Read citations from a file (- for stdin)")
	rootCmd.AddCommand(parseCmd)
}

// CitationResponse is the JSON shape of a parsed citation.
type CitationResponse struct {
	ID     string `json:"id"`
	Raw    string `json:"raw"`
	Type   string `json:"type"`
	Number string `json:"number"`
	Year   string `json:"year"`
}

func newCitationResponse(c legal.Citation) CitationResponse {
	return CitationResponse{
		ID:     c.ID,
		Raw:    c.Raw,
		Type:   c.Type.String(),
		Number: c.Number,
		Year:   c.Year,
	}
}

func runParse(cmd *cobra.Command, args []string) error {
	citations := mustParseInput(args, parseFile)

	if humanOutput {
		outputHuman("%d citation(s)\n\n", len(citations))
		for _, c := range citations {
			outputHuman("  %-36s %s %s/%s\n", c.ID, c.Type, c.Number, c.Year)
		}
		return nil
	}

	out := make([]CitationResponse, 0, len(citations))
	for _, c := range citations {
		out = append(out, newCitationResponse(c))
	}
	return outputJSON(out)
}

// mustParseInput reads and parses the input, exits when nothing is recognized.
func mustParseInput(args []string, file string) []legal.Citation {
	if len(args) == 0 && file == "" {
		exitWithError(ExitError, "no input: pass citations as arguments or with --file")
	}
	text, err := readInput(args, file)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	citations := legal.Parse(text)
	if len(citations) == 0 {
		exitWithError(ExitDataError, "no citation recognized in input")
	}
	return citations
}
