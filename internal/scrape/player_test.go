package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const playerPage = `<html><body>
<h1 class="data-header__headline-wrapper">
	<span class="data-header__shirt-number">#10</span>
	Lautaro
	<strong>Martínez</strong>
</h1>
<div class="info-table info-table--right-space">
	<span class="info-table__label">Nato il:</span>
	<span class="info-table__content--bold"><a href="/d">22 ago 1997 (27)</a></span>
	<span class="info-table__label">Luogo di nascita:</span>
	<span class="info-table__content--bold"><span>Bahía Blanca&nbsp;<img title="Argentina"></span></span>
	<span class="info-table__label">Altezza:</span>
	<span class="info-table__content--bold">1,74&nbsp;m</span>
	<span class="info-table__label">Nazionalità:</span>
	<span class="info-table__content--bold"><img title="Argentina" alt="Argentina"><img title="Italia" alt="Italia"></span>
	<span class="info-table__label">Posizione:</span>
	<span class="info-table__content--bold">Attaccante - Punta centrale</span>
	<span class="info-table__label">Piede:</span>
	<span class="info-table__content--bold">destro</span>
	<span class="info-table__label">Squadra attuale:</span>
	<span class="info-table__content--bold info-table__content--flex">
		<a href="/inter/verein/46"><img src="crest.png"></a>
		<a href="/inter/verein/46">Inter</a>
	</span>
	<span class="info-table__label">In rosa da:</span>
	<span class="info-table__content--bold">04 ago 2018</span>
	<span class="info-table__label">Scadenza:</span>
	<span class="info-table__content--bold">30 giu 2029</span>
</div>
<div class="detail-position__box">
	<dl><dt>Ruolo naturale:</dt><dd>Punta centrale</dd></dl>
	<dl><dt>Altro ruolo:</dt><dd>Seconda punta</dd></dl>
</div>
<div class="data-header__box current-and-max">
	<div class="current-value"><a href="/marktwert">110,00 mln €</a></div>
	<div class="max">
		<div class="max-value">120,00 mln €</div>
		<div class="max-label">Valore più alto:</div>
		<div>22 mag 2024</div>
	</div>
</div>
</body></html>`

func servePage(t *testing.T, page string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestScrapePlayerDetails(t *testing.T) {
	srv := servePage(t, playerPage)
	client := NewClient("https://www.transfermarkt.it", 0, testLogger)

	profile := client.ScrapePlayerDetails(context.Background(), srv.URL)

	require.NotNil(t, profile.FirstName)
	assert.Equal(t, "Lautaro", *profile.FirstName)
	require.NotNil(t, profile.LastName)
	assert.Equal(t, "Martínez", *profile.LastName)
	require.NotNil(t, profile.ShirtNumber)
	assert.Equal(t, "10", *profile.ShirtNumber)

	require.NotNil(t, profile.BirthDate)
	assert.Equal(t, "22 ago 1997", *profile.BirthDate)
	require.NotNil(t, profile.Age)
	assert.Equal(t, "27", *profile.Age)

	require.NotNil(t, profile.BirthPlace)
	assert.Equal(t, "Bahía Blanca", *profile.BirthPlace)
	require.NotNil(t, profile.Height)
	assert.Equal(t, "1,74", *profile.Height)

	assert.Equal(t, []string{"Argentina", "Italia"}, profile.Nationality)

	require.NotNil(t, profile.Position)
	assert.Equal(t, "Attaccante - Punta centrale", *profile.Position)
	require.NotNil(t, profile.PreferredFoot)
	assert.Equal(t, "destro", *profile.PreferredFoot)

	require.NotNil(t, profile.CurrentTeam)
	assert.Equal(t, "Inter", *profile.CurrentTeam, "team name is the last anchor, after the crest")
	require.NotNil(t, profile.InSquadSince)
	assert.Equal(t, "04 ago 2018", *profile.InSquadSince)
	require.NotNil(t, profile.ContractExpiry)
	assert.Equal(t, "30 giu 2029", *profile.ContractExpiry)

	require.NotNil(t, profile.NaturalRole)
	assert.Equal(t, "Punta centrale", *profile.NaturalRole)
	assert.Equal(t, []string{"Seconda punta"}, profile.AlternateRoles)

	require.NotNil(t, profile.CurrentValue)
	assert.Equal(t, "110,00 mln €", *profile.CurrentValue)
	require.NotNil(t, profile.PeakValue)
	assert.Equal(t, "120,00 mln €", *profile.PeakValue)
	require.NotNil(t, profile.PeakValueDate)
	assert.Equal(t, "22 mag 2024", *profile.PeakValueDate)

	assert.False(t, profile.Empty())
}

func TestScrapePlayerDetailsBarePage(t *testing.T) {
	srv := servePage(t, `<html><body><p>pagina vuota</p></body></html>`)
	client := NewClient("https://www.transfermarkt.it", 0, testLogger)

	profile := client.ScrapePlayerDetails(context.Background(), srv.URL)

	assert.True(t, profile.Empty())
	assert.Nil(t, profile.Nationality, "absent container stays nil, not []")
	assert.Nil(t, profile.AlternateRoles)
	assert.Len(t, profile.Row(), len(ProfileColumns))
}

func TestScrapePlayerDetailsRetrievalFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()
	client := NewClient("https://www.transfermarkt.it", 0, testLogger)

	profile := client.ScrapePlayerDetails(context.Background(), srv.URL)

	assert.True(t, profile.Empty(), "retrieval failure yields the all-nil record")
}

func TestScrapePlayerDetailsPeakDateFallback(t *testing.T) {
	page := `<html><body>
	<div class="data-header__box current-and-max">
		<div class="current-value">55,00 mln €</div>
		<div class="max">
			<div class="max-value">60,00 mln €</div>
		</div>
	</div>
	</body></html>`
	srv := servePage(t, page)
	client := NewClient("https://www.transfermarkt.it", 0, testLogger)

	profile := client.ScrapePlayerDetails(context.Background(), srv.URL)

	require.NotNil(t, profile.CurrentValue)
	assert.Equal(t, "55,00 mln €", *profile.CurrentValue, "raw element text when no anchor is present")
	require.NotNil(t, profile.PeakValue)
	assert.Equal(t, "60,00 mln €", *profile.PeakValue)
	require.NotNil(t, profile.PeakValueDate)
	assert.Equal(t, PeakValueDateUnavailable, *profile.PeakValueDate)
}
