package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurel42/zonepoi/pkg/model"
)

func testRequest() *model.SearchRequest {
	return &model.SearchRequest{
		ZoneName: "Cinque Terre",
		Polygon: []model.LatLng{
			{Lat: 44.00, Lng: 9.80},
			{Lat: 44.10, Lng: 9.80},
			{Lat: 44.10, Lng: 9.95},
			{Lat: 44.00, Lng: 9.95},
		},
		Mode: model.ModeStandard,
	}
}

func TestKeyOrderSensitive(t *testing.T) {
	r1 := testRequest()
	r2 := testRequest()
	r2.Polygon[0], r2.Polygon[1] = r2.Polygon[1], r2.Polygon[0]

	s, err := New(t.TempDir(), time.Hour)
	require.NoError(t, err)

	assert.NotEqual(t, s.Key(r1), s.Key(r2))
}

func TestSetGetRoundTrip(t *testing.T) {
	s, err := New(t.TempDir(), time.Hour)
	require.NoError(t, err)

	req := testRequest()
	key := s.Key(req)
	result := &model.SearchResult{
		ZoneName: req.ZoneName,
		POIs:     []model.POI{{Name: "Vernazza Castle", Source: model.SourceOSM}},
	}

	require.NoError(t, s.Set(key, req.ZoneName, false, req.Mode, result))

	got, hit := s.Get(key, false, nil)
	require.True(t, hit)
	assert.Equal(t, "Vernazza Castle", got.POIs[0].Name)
}

func TestGetMissOnUnknownKey(t *testing.T) {
	s, err := New(t.TempDir(), time.Hour)
	require.NoError(t, err)

	_, hit := s.Get("deadbeef", false, nil)
	assert.False(t, hit)
}

func TestGetExpiresOnTTL(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, -time.Second) // already expired
	require.NoError(t, err)

	req := testRequest()
	key := s.Key(req)
	require.NoError(t, s.Set(key, req.ZoneName, false, req.Mode, &model.SearchResult{ZoneName: req.ZoneName}))

	_, hit := s.Get(key, false, nil)
	assert.False(t, hit)
	assert.NoFileExists(t, filepath.Join(dir, key+".json"))
}

func TestValidMarineEntryRejectsForbiddenSource(t *testing.T) {
	assert.False(t, ValidMarineEntry(nil))
	assert.False(t, ValidMarineEntry(&model.SearchResult{}))

	withForbidden := &model.SearchResult{POIs: []model.POI{{Name: "x", Source: model.SourceWikibase}}}
	assert.False(t, ValidMarineEntry(withForbidden))

	clean := &model.SearchResult{POIs: []model.POI{{Name: "x", Source: model.SourceWebSearch}}}
	assert.True(t, ValidMarineEntry(clean))
}

func TestGetRunsContentAwareInvalidationForMarineOnly(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, time.Hour)
	require.NoError(t, err)

	req := testRequest()
	req.MarineOnly = true
	key := s.Key(req)
	tainted := &model.SearchResult{POIs: []model.POI{{Name: "Moskva", Source: model.SourceWikibase}}}
	require.NoError(t, s.Set(key, req.ZoneName, false, req.Mode, tainted))

	_, hit := s.Get(key, true, ValidMarineEntry)
	assert.False(t, hit)
	assert.NoFileExists(t, filepath.Join(dir, key+".json"))
}

func TestInvalidateForcesM(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, time.Hour)
	require.NoError(t, err)

	req := testRequest()
	key := s.Key(req)
	require.NoError(t, s.Set(key, req.ZoneName, false, req.Mode, &model.SearchResult{ZoneName: req.ZoneName}))

	s.Invalidate(key)

	_, hit := s.Get(key, false, nil)
	assert.False(t, hit)
}
