package optivum

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/custodia-labs/timetable-cli/internal/core/domain"
)

var timespanRegex = regexp.MustCompile(
	`0?(1?[0-9]|2[0-3]):0?([0-6][0-9]|[0-9])-\s?0?(1?[0-9]|2[0-3]):0?([0-6][0-9]|[0-9])`,
)

// lessonContext carries what is known about the lesson being extracted.
// It is passed by value so nested cell fragments cannot leak into siblings.
type lessonContext struct {
	number  *int
	start   domain.TimeOfDay
	end     domain.TimeOfDay
	weekday domain.Weekday

	register  *domain.Register
	teacher   *domain.Teacher
	classroom *domain.Classroom
	subject   *domain.Subject
	team      *domain.Team
}

// apply stores a resolved reference in the context.
func (lc *lessonContext) apply(r reference) {
	switch {
	case r.register != nil:
		lc.register = r.register
	case r.teacher != nil:
		lc.teacher = r.teacher
	case r.classroom != nil:
		lc.classroom = r.classroom
	}
}

// extractTable reads the weekly grid of a leaf page.
// Headers and rows are checked before anything is written to the dataset.
func (p *Parser) extractTable(ref domain.PageRef, doc *goquery.Document, ds *domain.Dataset, generatedOn time.Time) error {
	table := doc.Find("table.tabela").First()
	if table.Length() == 0 {
		return fmt.Errorf("%w: no timetable in %s", domain.ErrMalformedTable, ref)
	}

	headers := table.Find("tr > th")
	if headers.Length() < 7 {
		return fmt.Errorf("%w: %d header cells in %s", domain.ErrMalformedTable, headers.Length(), ref)
	}
	days := headers.Length() - 2
	if days > 7 {
		return fmt.Errorf("%w: %d weekday columns in %s", domain.ErrMalformedTable, days, ref)
	}

	rows := table.Find("tr")
	if rows.Length() < 2 {
		return fmt.Errorf("%w: no lesson rows in %s", domain.ErrMalformedTable, ref)
	}

	if !generatedOn.IsZero() {
		ds.SetGeneratedOn(generatedOn)
	}

	// A classroom's title is not used to name it: titles cannot be split into
	// code and description reliably, only the listing label can.
	var page lessonContext
	title := cleanText(doc.Find("span.tytulnapis").First().Text())
	r, err := resolveReference(ds, ref, title)
	if err != nil {
		return err
	}
	page.apply(r)

	var rowErr error
	rows.Slice(1, rows.Length()).EachWithBreak(func(_ int, row *goquery.Selection) bool {
		rowErr = p.extractRow(ref, row, ds, page, days)
		return rowErr == nil
	})
	return rowErr
}

// extractRow reads one time slot of the grid.
func (p *Parser) extractRow(ref domain.PageRef, row *goquery.Selection, ds *domain.Dataset, lc lessonContext, days int) error {
	lc.number = nil
	if nr := row.Find("td.nr").First(); nr.Length() > 0 {
		text := strings.ReplaceAll(cleanText(nr.Text()), ".", "")
		if n, err := strconv.Atoi(text); err == nil && n >= 0 {
			lc.number = &n
		}
	}

	span := row.Find("td.g").First()
	if span.Length() == 0 {
		return fmt.Errorf("%w: no time span in row of %s", domain.ErrMalformedTimespan, ref)
	}
	start, end, err := parseTimespan(span.Text())
	if err != nil {
		return fmt.Errorf("%s: %w", ref, err)
	}
	lc.start, lc.end = start, end

	cells := row.Find("td.l")
	if cells.Length() != days {
		return fmt.Errorf("%w: %d vs %d in %s", domain.ErrColumnCountMismatch, cells.Length(), days, ref)
	}

	var cellErr error
	cells.EachWithBreak(func(i int, cell *goquery.Selection) bool {
		day := lc
		day.weekday = domain.Weekday(i)
		cellErr = p.extractCell(ds, ref, cell, day, false, true)
		return cellErr == nil
	})
	return cellErr
}

// parseTimespan parses "H:MM-H:MM", with an optional space after the dash.
func parseTimespan(text string) (domain.TimeOfDay, domain.TimeOfDay, error) {
	match := timespanRegex.FindString(text)
	if match == "" {
		return domain.TimeOfDay{}, domain.TimeOfDay{}, fmt.Errorf("%w: %q", domain.ErrMalformedTimespan, strings.TrimSpace(text))
	}
	parts := strings.Split(match, "-")
	if len(parts) != 2 {
		return domain.TimeOfDay{}, domain.TimeOfDay{}, fmt.Errorf("%w: %q", domain.ErrMalformedTimespan, match)
	}
	start, err := domain.ParseTimeOfDay(parts[0])
	if err != nil {
		return domain.TimeOfDay{}, domain.TimeOfDay{}, fmt.Errorf("%w: %q", domain.ErrMalformedTimespan, match)
	}
	end, err := domain.ParseTimeOfDay(parts[1])
	if err != nil {
		return domain.TimeOfDay{}, domain.TimeOfDay{}, fmt.Errorf("%w: %q", domain.ErrMalformedTimespan, match)
	}
	return start, end, nil
}
