package export

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
)

var (
	scriptRe         = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleRe          = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	excessiveLinesRe = regexp.MustCompile(`\n{3,}`)
)

type markdownConverter struct {
	converter *md.Converter
}

func newMarkdownConverter() *markdownConverter {
	converter := md.NewConverter("", true, nil)
	// Planalto pages lay out article tables that read better as GFM tables.
	converter.Use(plugin.GitHubFlavored())
	return &markdownConverter{converter: converter}
}

func (c *markdownConverter) convert(page string) (string, error) {
	page = scriptRe.ReplaceAllString(page, "")
	page = styleRe.ReplaceAllString(page, "")

	text, err := c.converter.ConvertString(page)
	if err != nil {
		return "", err
	}
	text = excessiveLinesRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text) + "\n", nil
}
