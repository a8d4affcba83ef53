package scrape

import (
	"context"
	"errors"
)

// Transfermarkt listing-table selectors. Both the competition page and the
// roster page render an "items" table; they differ only in the link cell.
const (
	itemsTableSelector = "table.items"
	excludeRowClass    = "bg_blau_20"
	teamCellSelector   = "td.hauptlink.no-border-links"
	playerCellSelector = "td.hauptlink"
)

// ScrapeTeams extracts the (name, link) pair of every team listed on a
// competition page. A missing table or body is "no data", not an error:
// outside the active season window some competition pages render without
// the listing table at all.
func (c *Client) ScrapeTeams(ctx context.Context, competitionURL string) ([]Ref, error) {
	return c.scrapeListing(ctx, competitionURL, teamCellSelector)
}

// ScrapePlayers extracts the roster of a team page, same shape and policy
// as ScrapeTeams.
func (c *Client) ScrapePlayers(ctx context.Context, teamURL string) ([]Ref, error) {
	return c.scrapeListing(ctx, teamURL, playerCellSelector)
}

func (c *Client) scrapeListing(ctx context.Context, pageURL, cellSelector string) ([]Ref, error) {
	doc, err := c.GetDocument(ctx, pageURL)
	if err != nil {
		var rerr *RetrievalError
		if errors.As(err, &rerr) {
			c.logger.Warn("listing page not retrievable", "url", pageURL, "status", rerr.Status)
			return []Ref{}, nil
		}
		return nil, err
	}

	table := doc.Find(itemsTableSelector).First()
	if table.Length() == 0 {
		c.logger.Warn("listing table not found", "url", pageURL)
		return []Ref{}, nil
	}

	refs := TableRowLinks(table, excludeRowClass, cellSelector, c.baseURL)
	if refs == nil {
		refs = []Ref{}
	}
	c.logger.Info("listing scraped", "url", pageURL, "rows", len(refs))
	return refs, nil
}
