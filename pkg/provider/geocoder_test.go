package provider

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurel42/zonepoi/pkg/request"
	"github.com/aurel42/zonepoi/pkg/tracker"
)

func TestGeocoderProvider_Reverse_Land(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"category":"place","type":"town","display_name":"Portofino, Italy","address":{"country_code":"it","country":"Italy"}}`))
	}))
	defer srv.Close()

	tr := tracker.New()
	client := request.New(tr, request.DefaultClientConfig())
	p := NewGeocoderProvider(client, srv.URL, 3*time.Second)

	info, err := p.Reverse(t.Context(), 44.3, 9.2)
	require.NoError(t, err)
	assert.Equal(t, "IT", info.CountryCode)
	assert.False(t, info.IsWater())
}

func TestGeocoderProvider_Reverse_Water(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"category":"natural","type":"sea","display_name":"Ligurian Sea","address":{}}`))
	}))
	defer srv.Close()

	tr := tracker.New()
	client := request.New(tr, request.DefaultClientConfig())
	p := NewGeocoderProvider(client, srv.URL, 3*time.Second)

	info, err := p.Reverse(t.Context(), 44.0, 9.0)
	require.NoError(t, err)
	assert.True(t, info.IsWater())
}

func TestGeocoderProvider_IsWater_LenientOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	tr := tracker.New()
	cfg := request.DefaultClientConfig()
	cfg.Retries = 1
	client := request.New(tr, cfg)
	p := NewGeocoderProvider(client, srv.URL, 3*time.Second)

	assert.True(t, p.IsWater(t.Context(), 0, 0))
}

func TestGeocoderProvider_ForwardGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Portofino", r.URL.Query().Get("q"))
		w.Write([]byte(`[
			{"lat":"44.303","lon":"9.209","name":"Portofino","class":"place","type":"town","addresstype":"town","display_name":"Portofino, Genova, Liguria, Italy"},
			{"lat":"44.31","lon":"9.22","name":"","class":"place","type":"peak","addresstype":"peak","display_name":"Monte di Portofino, Liguria, Italy"},
			{"lat":"44.40","lon":"9.0","class":"shop","type":"gift","addresstype":"shop","display_name":"Portofino Gift Shop"}
		]`))
	}))
	defer srv.Close()

	tr := tracker.New()
	client := request.New(tr, request.DefaultClientConfig())
	p := NewGeocoderProvider(client, srv.URL+"/reverse", 3*time.Second)

	candidates, err := p.ForwardGeocode(t.Context(), "Portofino")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Portofino", candidates[0].Name)
	assert.Equal(t, "town", candidates[0].PlaceType)
	assert.InDelta(t, 44.303, candidates[0].Lat, 0.0001)
}

func TestGeocoderProvider_ForwardGeocode_EmptyName(t *testing.T) {
	p := NewGeocoderProvider(nil, "http://example.invalid/reverse", 3*time.Second)
	candidates, err := p.ForwardGeocode(t.Context(), "")
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestForwardSearchEndpoint(t *testing.T) {
	assert.Equal(t, "https://nominatim.openstreetmap.org/search", forwardSearchEndpoint("https://nominatim.openstreetmap.org/reverse"))
	assert.Equal(t, "https://example.com/geocode/search", forwardSearchEndpoint("https://example.com/geocode"))
}

func TestLanguageForCountry(t *testing.T) {
	assert.Equal(t, "it", LanguageForCountry("IT"))
	assert.Equal(t, "fr", LanguageForCountry("fr"))
	assert.Equal(t, "en", LanguageForCountry("ZZ"))
}
