package scrape

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseFragment(t *testing.T, fragment string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	require.NoError(t, err)
	return doc
}

func TestTableRowLinks(t *testing.T) {
	doc := parseFragment(t, `
		<table class="items">
			<tbody>
				<tr class="bg_blau_20"><td class="hauptlink"><a href="/skip">Header</a></td></tr>
				<tr><td class="hauptlink"><a href="/inter/startseite/verein/46">Inter</a></td></tr>
				<tr><td class="hauptlink"><a href="/milan/startseite/verein/5">Milan</a></td></tr>
				<tr><td class="other">no link cell</td></tr>
			</tbody>
		</table>`)

	refs := TableRowLinks(doc.Find("table.items"), "bg_blau_20", "td.hauptlink", "https://www.transfermarkt.it")

	require.Len(t, refs, 2)
	assert.Equal(t, Ref{Name: "Inter", Link: "https://www.transfermarkt.it/inter/startseite/verein/46"}, refs[0])
	assert.Equal(t, Ref{Name: "Milan", Link: "https://www.transfermarkt.it/milan/startseite/verein/5"}, refs[1])
}

func TestTableRowLinksPreservesOrder(t *testing.T) {
	doc := parseFragment(t, `
		<table class="items"><tbody>
			<tr><td class="hauptlink"><a href="/c">C</a></td></tr>
			<tr><td class="hauptlink"><a href="/a">A</a></td></tr>
			<tr><td class="hauptlink"><a href="/b">B</a></td></tr>
		</tbody></table>`)

	refs := TableRowLinks(doc.Find("table.items"), "bg_blau_20", "td.hauptlink", "https://example.com")

	require.Len(t, refs, 3)
	assert.Equal(t, []string{"C", "A", "B"}, []string{refs[0].Name, refs[1].Name, refs[2].Name})
}

func TestLabeledField(t *testing.T) {
	doc := parseFragment(t, `
		<div class="info-table">
			<span class="info-table__label">Posizione:</span>
			<span class="info-table__content--bold"> Attaccante </span>
			<span class="info-table__label">Piede:</span>
			<span class="info-table__content--bold">destro</span>
		</div>`)

	position, ok := LabeledField(doc.Find("div.info-table"), "Posizione:")
	require.True(t, ok)
	assert.Equal(t, "Attaccante", position)

	foot, ok := LabeledField(doc.Find("div.info-table"), "piede:")
	require.True(t, ok, "label match is case-insensitive")
	assert.Equal(t, "destro", foot)

	_, ok = LabeledField(doc.Find("div.info-table"), "Altezza:")
	assert.False(t, ok)
}

func TestNationalitiesEmptyVsAbsent(t *testing.T) {
	withFlags := parseFragment(t, `<span class="c">
		<img title="Italia" alt="Italia"><img title="Argentina" alt="Argentina">
	</span>`)
	assert.Equal(t, []string{"Italia", "Argentina"}, Nationalities(withFlags.Find("span.c")))

	empty := parseFragment(t, `<span class="c"></span>`)
	got := Nationalities(empty.Find("span.c"))
	require.NotNil(t, got, "present-but-empty container must yield [], not nil")
	assert.Empty(t, got)
}

func TestAlternateRoles(t *testing.T) {
	doc := parseFragment(t, `<dl>
		<dt>Altro ruolo:</dt>
		<dd>Ala sinistra</dd>
		<dd>Seconda punta</dd>
	</dl>`)
	roles := AlternateRoles(doc.Find("dt"))
	assert.Equal(t, []string{"Ala sinistra", "Seconda punta"}, roles)

	bare := parseFragment(t, `<dl><dt>Altro ruolo:</dt></dl>`)
	got := AlternateRoles(bare.Find("dt"))
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSplitDateAge(t *testing.T) {
	date, age, ok := SplitDateAge("12 marzo 1998 (26)")
	require.True(t, ok)
	assert.Equal(t, "12 marzo 1998", date)
	assert.Equal(t, "26", age)

	_, _, ok = SplitDateAge("12 marzo 1998")
	assert.False(t, ok, "missing parentheses abandons the whole field")

	_, _, ok = SplitDateAge(")12 marzo(")
	assert.False(t, ok)
}

func TestAbsoluteURL(t *testing.T) {
	assert.Equal(t, "https://www.transfermarkt.it/inter/verein/46",
		AbsoluteURL("https://www.transfermarkt.it", "/inter/verein/46"))
	assert.Equal(t, "https://elsewhere.example/x",
		AbsoluteURL("https://www.transfermarkt.it", "https://elsewhere.example/x"))
	assert.Equal(t, "https://base.example/path",
		AbsoluteURL("https://base.example/", "/path"))
}
