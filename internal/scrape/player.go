package scrape

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PeakValueDateUnavailable marks a peak-value block that was found but had
// no as-of date, as opposed to a value block that was never found (nil).
const PeakValueDateUnavailable = "Data non disponibile"

// PlayerProfile is the fixed-schema record produced for every player page.
// Any field not found on the page is nil, never omitted: downstream
// consumers rely on a stable column set. The two list fields distinguish
// nil (container absent) from empty (container present, zero values).
type PlayerProfile struct {
	ShirtNumber    *string  `json:"numero_maglia"`
	FirstName      *string  `json:"nome"`
	LastName       *string  `json:"cognome"`
	BirthDate      *string  `json:"data_nascita"`
	Age            *string  `json:"età"`
	BirthPlace     *string  `json:"luogo_nascita"`
	Height         *string  `json:"altezza"`
	Nationality    []string `json:"nazionalità"`
	Position       *string  `json:"posizione"`
	PreferredFoot  *string  `json:"piede"`
	NaturalRole    *string  `json:"ruolo_naturale"`
	AlternateRoles []string `json:"altri_ruoli"`
	InSquadSince   *string  `json:"in_rosa_da"`
	ContractExpiry *string  `json:"scadenza"`
	CurrentTeam    *string  `json:"squadra_attuale"`
	CurrentValue   *string  `json:"valore_attuale"`
	PeakValue      *string  `json:"valore_piu_alto"`
	PeakValueDate  *string  `json:"data_aggiornamento"`
}

// ProfileColumns is the fixed CSV column order for player profiles.
var ProfileColumns = []string{
	"numero_maglia", "nome", "cognome", "data_nascita", "età",
	"luogo_nascita", "altezza", "nazionalità", "posizione", "piede",
	"ruolo_naturale", "altri_ruoli", "in_rosa_da", "scadenza",
	"squadra_attuale", "valore_attuale", "valore_piu_alto",
	"data_aggiornamento",
}

// Row renders the profile in ProfileColumns order. Nil fields become empty
// strings; list fields are joined with a comma.
func (p *PlayerProfile) Row() []string {
	return []string{
		deref(p.ShirtNumber), deref(p.FirstName), deref(p.LastName),
		deref(p.BirthDate), deref(p.Age), deref(p.BirthPlace),
		deref(p.Height), strings.Join(p.Nationality, ", "),
		deref(p.Position), deref(p.PreferredFoot), deref(p.NaturalRole),
		strings.Join(p.AlternateRoles, ", "), deref(p.InSquadSince),
		deref(p.ContractExpiry), deref(p.CurrentTeam),
		deref(p.CurrentValue), deref(p.PeakValue), deref(p.PeakValueDate),
	}
}

// Empty reports whether no field at all was extracted. Callers use it to
// detect a page that failed to retrieve.
func (p *PlayerProfile) Empty() bool {
	return p.Nationality == nil && p.AlternateRoles == nil && p.ShirtNumber == nil &&
		p.FirstName == nil && p.LastName == nil && p.BirthDate == nil &&
		p.Age == nil && p.BirthPlace == nil && p.Height == nil &&
		p.Position == nil && p.PreferredFoot == nil && p.NaturalRole == nil &&
		p.InSquadSince == nil && p.ContractExpiry == nil && p.CurrentTeam == nil &&
		p.CurrentValue == nil && p.PeakValue == nil && p.PeakValueDate == nil
}

// ScrapePlayerDetails extracts the full profile record from a player page.
// It always returns the fixed 18-field record: a page that fails to
// retrieve yields an all-nil profile, and each field is attempted
// independently so one missing block never skips the others.
func (c *Client) ScrapePlayerDetails(ctx context.Context, playerURL string) PlayerProfile {
	var profile PlayerProfile

	doc, err := c.GetDocument(ctx, playerURL)
	if err != nil {
		c.logger.Warn("player page not retrievable", "url", playerURL, "error", err)
		return profile
	}

	extractHeader(doc, &profile)
	extractInfoTable(doc, &profile)
	extractRoles(doc, &profile)
	extractMarketValues(doc, &profile)

	c.logger.Info("player details scraped", "url", playerURL)
	return profile
}

// extractHeader pulls shirt number and first/last name from the headline.
// The first name is loose text directly under the h1; the last name is the
// emphasized child element.
func extractHeader(doc *goquery.Document, p *PlayerProfile) {
	header := doc.Find("h1.data-header__headline-wrapper").First()
	if header.Length() == 0 {
		return
	}

	shirt := header.Find("span.data-header__shirt-number").First()
	if shirt.Length() > 0 {
		p.ShirtNumber = strPtr(strings.TrimSpace(strings.ReplaceAll(shirt.Text(), "#", "")))
	}

	p.FirstName = strPtr(firstTextNode(header))
	p.LastName = strPtr(strings.TrimSpace(header.Find("strong").First().Text()))
}

func extractInfoTable(doc *goquery.Document, p *PlayerProfile) {
	info := doc.Find("div.info-table.info-table--right-space").First()
	if info.Length() == 0 {
		return
	}

	if born := LabeledFieldSelection(info, "Nato il:"); born != nil {
		raw := strings.TrimSpace(born.Find("a").First().Text())
		if date, age, ok := SplitDateAge(raw); ok {
			p.BirthDate = strPtr(date)
			p.Age = strPtr(age)
		}
	}

	if place := LabeledFieldSelection(info, "Luogo di nascita:"); place != nil {
		inner := place.Find("span").First()
		if inner.Length() > 0 {
			p.BirthPlace = strPtr(firstTextNode(inner))
		}
	}

	if height, ok := LabeledField(info, "Altezza:"); ok {
		height = strings.ReplaceAll(height, " ", " ")
		height = strings.TrimSpace(strings.ReplaceAll(height, "m", ""))
		p.Height = strPtr(height)
	}

	if nat := LabeledFieldSelection(info, "Nazionalità:"); nat != nil {
		p.Nationality = Nationalities(nat)
	}

	if position, ok := LabeledField(info, "Posizione:"); ok {
		p.Position = strPtr(position)
	}
	if foot, ok := LabeledField(info, "Piede:"); ok {
		p.PreferredFoot = strPtr(foot)
	}

	// Last anchor in the content block: the team crest links precede the
	// team name link.
	if team := LabeledFieldSelection(info, "Squadra attuale:"); team != nil {
		anchors := team.Find("a")
		if anchors.Length() > 0 {
			p.CurrentTeam = strPtr(strings.TrimSpace(anchors.Eq(anchors.Length() - 1).Text()))
		}
	}

	if since, ok := LabeledField(info, "In rosa da:"); ok {
		p.InSquadSince = strPtr(since)
	}
	if expiry, ok := LabeledField(info, "Scadenza:"); ok {
		p.ContractExpiry = strPtr(expiry)
	}
}

func extractRoles(doc *goquery.Document, p *PlayerProfile) {
	box := doc.Find("div.detail-position__box").First()
	if box.Length() == 0 {
		return
	}

	box.Find("dt").EachWithBreak(func(_ int, dt *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(dt.Text()), "ruolo naturale") {
			return true
		}
		dd := dt.NextAll().Filter("dd").First()
		if dd.Length() > 0 {
			p.NaturalRole = strPtr(strings.TrimSpace(dd.Text()))
		}
		return false
	})

	box.Find("dt").EachWithBreak(func(_ int, dt *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(dt.Text()), "altro ruolo") {
			return true
		}
		p.AlternateRoles = AlternateRoles(dt)
		return false
	})
}

// extractMarketValues reads the current and peak market value block. The
// peak as-of date is expected as the third div under the "max" block; when
// fewer exist it is set to PeakValueDateUnavailable, preserving the
// distinction between "not attempted" and "attempted but absent".
func extractMarketValues(doc *goquery.Document, p *PlayerProfile) {
	block := doc.Find("div.current-and-max").First()
	if block.Length() == 0 {
		return
	}

	current := block.Find("div.current-value").First()
	if current.Length() > 0 {
		if anchor := current.Find("a").First(); anchor.Length() > 0 {
			p.CurrentValue = strPtr(strings.TrimSpace(anchor.Text()))
		} else {
			p.CurrentValue = strPtr(strings.TrimSpace(current.Text()))
		}
	}

	maxBlock := block.Find("div.max").First()
	if maxBlock.Length() == 0 {
		return
	}
	peak := maxBlock.Find("div.max-value").First()
	if peak.Length() == 0 {
		return
	}
	p.PeakValue = strPtr(strings.TrimSpace(peak.Text()))

	divs := maxBlock.Find("div")
	if divs.Length() >= 3 {
		p.PeakValueDate = strPtr(strings.TrimSpace(divs.Eq(2).Text()))
	} else {
		marker := PeakValueDateUnavailable
		p.PeakValueDate = &marker
	}
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
