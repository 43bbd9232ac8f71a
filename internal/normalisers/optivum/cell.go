package optivum

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/custodia-labs/timetable-cli/internal/core/domain"
	"github.com/custodia-labs/timetable-cli/internal/logger"
)

// extractCell turns one grid cell into lessons.
//
// A cell may hold several small lessons in styled spans, or several lessons
// stacked on lines separated by <br>. Both are detached from the cell and
// extracted on their own, so that what remains is a single lesson.
func (p *Parser) extractCell(
	ds *domain.Dataset,
	ref domain.PageRef,
	cell *goquery.Selection,
	lc lessonContext,
	smallLesson bool,
	parseLines bool,
) error {
	for _, n := range cell.Find("span[style]").Nodes {
		if n.Parent == nil {
			// consumed by a nested small lesson
			continue
		}
		n.Parent.RemoveChild(n)
		if err := p.extractCell(ds, ref, selectionOf(n), lc, true, true); err != nil {
			return err
		}
	}

	if parseLines && !smallLesson {
		for br := cell.Find("br").First(); br.Length() > 0; br = cell.Find("br").First() {
			line := detachPreceding(br.Nodes[0])
			if hasElement(line) {
				if err := p.extractCell(ds, ref, selectionOf(line), lc, false, false); err != nil {
					return err
				}
			}
			br.Remove()
		}
	}

	subject := cell.Find(".p").First()
	if subject.Length() == 0 {
		return nil
	}

	subjectText := cleanText(subject.Text())
	if smallLesson && strings.Contains(subjectText, "-") {
		subjectText = strings.TrimSpace(subjectText[:strings.LastIndex(subjectText, "-")])
	} else {
		smallLesson = false
	}
	lc.subject = ds.Subject(subjectText)

	if teacher := cell.Find(".n").First(); teacher.Length() > 0 {
		r, ok, err := resolveLabel(ds, ref, teacher)
		if err != nil {
			return err
		}
		if ok {
			lc.apply(r)
		} else {
			lc.teacher = ds.TeacherByName(cleanText(teacher.Text()))
		}
	}

	if classroom := cell.Find(".s").First(); classroom.Length() > 0 {
		r, ok, err := resolveLabel(ds, ref, classroom)
		if err != nil {
			return err
		}
		if ok {
			lc.apply(r)
		} else {
			lc.classroom = ds.ClassroomByName(cleanText(classroom.Text()))
		}
	}

	registers := cell.Find(".o")
	for i := range registers.Nodes {
		register := registers.Eq(i)
		r, ok, err := resolveLabel(ds, ref, register)
		if err != nil {
			return err
		}
		if ok {
			lc.apply(r)
		} else {
			lc.register = ds.RegisterByName(domain.RegisterTypeClass, cleanText(register.Text()))
		}
		lc.team = findTeam(ds, lc.register, register, false)
		addLesson(ds, ref, lc)
	}
	if registers.Length() > 0 {
		return nil
	}

	lc.team = findTeam(ds, lc.register, subject, smallLesson)
	if lc.team == nil && lc.register != nil {
		cell.Find(".p").EachWithBreak(func(_ int, part *goquery.Selection) bool {
			text := cleanText(part.Text())
			if !strings.HasPrefix(text, "#") {
				return true
			}
			// joint session of several classes
			lc.team = ds.Team(lc.register, lc.register.Name+" "+text)
			return false
		})
	}
	addLesson(ds, ref, lc)
	return nil
}

// resolveLabel resolves a label that links to an entity's own page.
// Plain-text labels report false.
func resolveLabel(ds *domain.Dataset, ref domain.PageRef, label *goquery.Selection) (reference, bool, error) {
	if goquery.NodeName(label) != "a" {
		return reference{}, false, nil
	}
	href, ok := label.Attr("href")
	if !ok || href == "" {
		return reference{}, false, nil
	}
	r, err := resolveReference(ds, ref.Sibling(href), cleanText(label.Text()))
	if err != nil {
		return reference{}, false, err
	}
	return r, true, nil
}

// addLesson records the lesson described by the context.
func addLesson(ds *domain.Dataset, ref domain.PageRef, lc lessonContext) {
	if lc.register == nil {
		logger.Debug("dropping %s lesson on %s at %s in %s: no class", lc.subject.Name, lc.weekday, lc.start, ref)
		return
	}

	draft := domain.Lesson{
		Weekday:    lc.weekday,
		Number:     lc.number,
		Start:      lc.start,
		End:        lc.end,
		SubjectID:  lc.subject.ID,
		TeacherIDs: []int{},
		RegisterID: lc.register.ID,
	}
	if lc.teacher != nil {
		draft.TeacherIDs = append(draft.TeacherIDs, lc.teacher.ID)
	}
	if lc.classroom != nil {
		draft.ClassroomID = lc.classroom.ID
	}
	if lc.team != nil {
		draft.TeamID = lc.team.ID
	}
	ds.AddLesson(draft)
}

// detachPreceding moves every sibling before n into a new detached cell.
func detachPreceding(n *html.Node) *html.Node {
	line := &html.Node{Type: html.ElementNode, Data: "td", DataAtom: atom.Td}
	parent := n.Parent
	for c := parent.FirstChild; c != nil && c != n; c = parent.FirstChild {
		parent.RemoveChild(c)
		line.AppendChild(c)
	}
	return line
}

// hasElement reports whether n has an element child.
func hasElement(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return true
		}
	}
	return false
}

// selectionOf wraps a detached node.
func selectionOf(n *html.Node) *goquery.Selection {
	return goquery.NewDocumentFromNode(n).Selection
}
