package main

import (
	"github.com/spf13/cobra"

	"github.com/legisbr/legis/internal/planalto"
)

var routeFile string

var routeCmd = &cobra.Command{
	Use:   "route [text...]",
	Short: "Show the portal URL for each citation",
	Long: `Parse citations and resolve each one to its page on the Planalto portal,
without any network access.

Examples:
  legis route "Lei 14.596/2023" "Decreto 9.580/2018"
  legis route "IN 2121/2022" --human`,
	RunE: runRoute,
}

func init() {
	routeCmd.Flags().StringVarP(&routeFile, "file", "f", "", "Read citations from a file (- for stdin)")
	rootCmd.AddCommand(routeCmd)
}

// RouteResponse is the JSON shape of one routed citation.
type RouteResponse struct {
	CitationResponse
	Path  string `json:"path,omitempty"`
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}

func runRoute(cmd *cobra.Command, args []string) error {
	citations := mustParseInput(args, routeFile)

	out := make([]RouteResponse, 0, len(citations))
	for _, c := range citations {
		r := RouteResponse{CitationResponse: newCitationResponse(c)}
		path, err := planalto.Route(c)
		if err != nil {
			r.Error = err.Error()
		} else {
			r.Path = path
			r.URL = planalto.CanonicalURL(path)
		}
		out = append(out, r)
	}

	if humanOutput {
		for _, r := range out {
			if r.Error != "" {
				outputHuman("%-28s ✗ %s\n", r.Raw, r.Error)
				continue
			}
			outputHuman("%-28s %s\n", r.Raw, r.URL)
		}
		return nil
	}
	return outputJSON(out)
}
