package scrape

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Ref is a (name, link) pointer to a team or player page.
type Ref struct {
	Name string `json:"name"`
	Link string `json:"link"`
}

// TableRowLinks walks the tbody rows of table and returns one Ref per row
// whose first matching cell carries an anchor. Rows bearing excludeRowClass
// (header/separator rows) are skipped. Row order is preserved: it reflects
// the on-page ranking and must not be re-sorted.
func TableRowLinks(table *goquery.Selection, excludeRowClass, cellSelector, baseURL string) []Ref {
	var refs []Ref
	table.Find("tbody").First().Find("tr").Each(func(_ int, row *goquery.Selection) {
		if row.HasClass(excludeRowClass) {
			return
		}
		cell := row.Find(cellSelector).First()
		if cell.Length() == 0 {
			return
		}
		anchor := cell.Find("a[href]").First()
		href, ok := anchor.Attr("href")
		if !ok {
			return
		}
		name := strings.TrimSpace(anchor.Text())
		refs = append(refs, Ref{Name: name, Link: AbsoluteURL(baseURL, href)})
	})
	return refs
}

// LabeledField finds the span whose text matches label (case-insensitive)
// inside root and returns the trimmed text of the bold content span
// immediately following it. ok is false when the label is absent; not every
// profile page has every field.
func LabeledField(root *goquery.Selection, label string) (string, bool) {
	pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label))
	var value string
	found := false
	root.Find("span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !pattern.MatchString(s.Text()) {
			return true
		}
		content := contentSibling(s)
		if content == nil {
			return true
		}
		value = strings.TrimSpace(content.Text())
		found = true
		return false
	})
	return value, found
}

// LabeledFieldSelection is LabeledField returning the content span itself,
// for extractors that need structure below it (anchors, flag images).
func LabeledFieldSelection(root *goquery.Selection, label string) *goquery.Selection {
	pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label))
	var content *goquery.Selection
	root.Find("span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !pattern.MatchString(s.Text()) {
			return true
		}
		if c := contentSibling(s); c != nil {
			content = c
			return false
		}
		return true
	})
	return content
}

// contentSibling returns the first following sibling span carrying the bold
// content class, or nil.
func contentSibling(label *goquery.Selection) *goquery.Selection {
	sib := label.NextAll().Filter("span.info-table__content--bold").First()
	if sib.Length() == 0 {
		return nil
	}
	return sib
}

// Nationalities collects one country name per flag image inside content.
// Returns an empty slice, never nil, when content holds no flags: "present
// but empty" is distinct from "field absent" (handled by the caller).
func Nationalities(content *goquery.Selection) []string {
	out := []string{}
	content.Find("img[title]").Each(func(_ int, img *goquery.Selection) {
		if title, ok := img.Attr("title"); ok && title != "" {
			out = append(out, title)
		}
	})
	return out
}

// AlternateRoles collects the text of every dd sibling following the
// matched "other role" dt. Same empty-vs-absent contract as Nationalities.
func AlternateRoles(dt *goquery.Selection) []string {
	out := []string{}
	dt.NextAll().Filter("dd").Each(func(_ int, dd *goquery.Selection) {
		if text := strings.TrimSpace(dd.Text()); text != "" {
			out = append(out, text)
		}
	})
	return out
}

// SplitDateAge splits combined "12 marzo 1998 (26)" text into the date and
// age parts. When the paired-parenthesis shape is absent the extraction is
// abandoned for the whole field (both results empty, ok=false) rather than
// guessing at a partial value.
func SplitDateAge(raw string) (date, age string, ok bool) {
	open := strings.Index(raw, "(")
	end := strings.Index(raw, ")")
	if open < 0 || end < 0 || end < open {
		return "", "", false
	}
	date = strings.TrimSpace(raw[:open])
	age = strings.TrimSpace(raw[open+1 : end])
	return date, age, true
}

// AbsoluteURL resolves a possibly relative href against base. Already
// absolute links are returned unchanged.
func AbsoluteURL(base, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return strings.TrimSuffix(base, "/") + href
}

// firstTextNode returns the first non-empty bare text node directly under
// sel's node, skipping element children. Used for the player first name,
// which sits as loose text inside the profile headline.
func firstTextNode(sel *goquery.Selection) string {
	for _, node := range sel.Nodes {
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			if child.Type != html.TextNode {
				continue
			}
			if text := strings.TrimSpace(child.Data); text != "" {
				return text
			}
		}
	}
	return ""
}
