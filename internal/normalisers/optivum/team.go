package optivum

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/custodia-labs/timetable-cli/internal/core/domain"
)

// suffixCutset is trimmed from the text following a label.
const suffixCutset = " ,\t\n\r\u00a0"

// findTeam derives the team of a lesson from a register or subject label.
//
// With inName set, a subject label like "ang-2" names its team in the text
// after the last dash. Otherwise the text node right after the label, such as
// the "-1/2" in `<a class="o">1A</a>-1/2`, is the suffix. No suffix means the
// whole register attends.
func findTeam(ds *domain.Dataset, register *domain.Register, el *goquery.Selection, inName bool) *domain.Team {
	if register == nil || el == nil || el.Length() == 0 {
		return nil
	}

	var suffix string
	if next := el.Nodes[0].NextSibling; next != nil && next.Type == html.TextNode {
		suffix = strings.Trim(next.Data, suffixCutset)
	}
	if text := el.Text(); inName && strings.Contains(text, "-") {
		suffix = "-" + strings.TrimSpace(text[strings.LastIndex(text, "-")+1:])
	}
	if suffix == "" {
		return nil
	}
	return ds.Team(register, register.Name+suffix)
}
