package optivum

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/custodia-labs/timetable-cli/internal/core/domain"
	"github.com/custodia-labs/timetable-cli/internal/core/ports/driven"
	"github.com/custodia-labs/timetable-cli/internal/logger"
)

// Ensure Parser implements the interface.
var _ driven.PageParser = (*Parser)(nil)

const (
	// selectorListFrame is the navigation frame of the frameset layout.
	selectorListFrame = "frame[name=list]"

	// selectorPlanLinks matches timetable links of the list, tree and index layouts.
	selectorPlanLinks = "a[target=plan], td[valign=top] .tabela td > a"

	// selectorMenuLinks matches links of the menu layout.
	selectorMenuLinks = ".menu a"

	// logoText is the generator credit found on every leaf page.
	logoText = "Plan lekcji Optivum"
)

var dateRegex = regexp.MustCompile(`(19[0-9]{2}|2[0-9]{3})-(1[0-2]|0?[1-9])-(3[01]|[12][0-9]|0?[1-9])`)

// Parser extracts Optivum timetable exports.
type Parser struct{}

// New creates a new Optivum parser.
func New() *Parser {
	return &Parser{}
}

// Process recognises the layout of one page and handles it. Pages matching
// no layout report DialectUnknown and leave the dataset untouched.
//
// Layouts are checked in a fixed order: frameset, timetable links,
// drop-down lists, menu, and finally the leaf timetable. Sub-menu pages of
// the menu layout also carry timetable links, so the menu check must come
// after the link check or crawling would never reach the links.
func (p *Parser) Process(
	ctx context.Context,
	page domain.Page,
	ds *domain.Dataset,
	enqueue driven.Enqueue,
) (domain.Dialect, error) {
	if err := ctx.Err(); err != nil {
		return domain.DialectUnknown, err
	}

	doc, err := parseDocument(page.Body)
	if err != nil {
		return domain.DialectUnknown, fmt.Errorf("parsing %s: %w", page.Ref, err)
	}

	if frame := doc.Find(selectorListFrame).First(); frame.Length() > 0 {
		if src, ok := frame.Attr("src"); ok && src != "" {
			enqueue(page.Ref.Sibling(src))
		}
		return domain.DialectFrameset, nil
	}

	if links := doc.Find(selectorPlanLinks); links.Length() > 0 {
		p.visitLinks(page.Ref, links, ds, enqueue)
		return domain.DialectLinkList, nil
	}

	if selects := doc.Find("select"); selects.Length() > 0 {
		p.visitSelects(page.Ref, selects, ds, enqueue)
		return domain.DialectDropdown, nil
	}

	if menu := doc.Find(selectorMenuLinks); menu.Length() > 0 {
		menu.Each(func(_ int, a *goquery.Selection) {
			if href, ok := a.Attr("href"); ok && href != "" {
				enqueue(page.Ref.Sibling(href))
			}
		})
		return domain.DialectMenu, nil
	}

	if logo := findLogo(doc); logo != nil {
		generatedOn, _ := parseGeneratedOn(logo.Parent().Text())
		return domain.DialectTimetable, p.extractTable(page.Ref, doc, ds, generatedOn)
	}

	return domain.DialectUnknown, nil
}

// Normalise reconciles the names captured at different points of the crawl.
func (p *Parser) Normalise(ds *domain.Dataset) {
	ds.ReconcileNames(reconcileName)
}

// visitLinks enqueues every timetable link and registers the entity it names.
func (p *Parser) visitLinks(ref domain.PageRef, links *goquery.Selection, ds *domain.Dataset, enqueue driven.Enqueue) {
	links.Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || href == "" {
			return
		}
		target := ref.Sibling(href)
		enqueue(target)
		p.register(ds, target, cleanText(a.Text()))
	})
}

// visitSelects enqueues the page of every option of every drop-down list.
// The list's name starts with the entity kind letter; option values are ids.
func (p *Parser) visitSelects(ref domain.PageRef, selects *goquery.Selection, ds *domain.Dataset, enqueue driven.Enqueue) {
	selects.Each(func(_ int, sel *goquery.Selection) {
		name, _ := sel.Attr("name")
		if name == "" {
			return
		}
		kind := name[:1]
		sel.Find("option[value]").Each(func(_ int, opt *goquery.Selection) {
			value, _ := opt.Attr("value")
			value = strings.TrimSpace(value)
			if value == "" {
				return
			}
			file := value
			if _, err := strconv.Atoi(value); err == nil {
				file = kind + value
			}
			target := ref.Sibling("plany/" + file + ".html")
			enqueue(target)
			p.register(ds, target, cleanText(opt.Text()))
		})
	})
}

// register resolves a listed entity. Listing labels of classrooms carry the
// full room name, kept for reconciliation after the crawl.
func (p *Parser) register(ds *domain.Dataset, target domain.PageRef, label string) {
	r, err := resolveReference(ds, target, label)
	if err != nil {
		logger.Warn("skipping link %s (%s): %v", target, label, err)
		return
	}
	if r.classroom != nil && label != "" {
		ds.StashFullName(domain.EntityClassroom, r.classroom.ID, label)
	}
}

// parseDocument decodes the page using its declared charset and parses it.
func parseDocument(body []byte) (*goquery.Document, error) {
	r, err := charset.NewReader(bytes.NewReader(body), "text/html")
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(r)
}

// findLogo returns the generator credit link, or nil.
func findLogo(doc *goquery.Document) *goquery.Selection {
	logo := doc.Find("a").FilterFunction(func(_ int, a *goquery.Selection) bool {
		return strings.TrimSpace(a.Text()) == logoText
	}).First()
	if logo.Length() == 0 {
		return nil
	}
	return logo
}

// parseGeneratedOn finds a YYYY-M-D date in text.
func parseGeneratedOn(text string) (time.Time, bool) {
	m := dateRegex.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// cleanText trims whitespace, including non-breaking spaces.
func cleanText(s string) string {
	return strings.TrimSpace(s)
}
