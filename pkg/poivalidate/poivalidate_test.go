package poivalidate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aurel42/zonepoi/pkg/model"
)

func TestIsTouristRelevant(t *testing.T) {
	assert.True(t, IsTouristRelevant(model.POI{Name: "Castello Brown", Kind: model.KindLand}))
	assert.False(t, IsTouristRelevant(model.POI{Name: "Random Place", Kind: model.KindLand}))
	assert.True(t, IsTouristRelevant(model.POI{Name: "Relitto Haven", Kind: model.KindMarine}))
	assert.False(t, IsTouristRelevant(model.POI{Name: "Nothing Relevant", Kind: model.KindMarine}))
}

func TestRelevanceScore_SourceWeight(t *testing.T) {
	wiki := RelevanceScore(model.POI{Source: model.SourceWikiEncyclopedia})
	osm := RelevanceScore(model.POI{Source: model.SourceOSM})
	assert.Greater(t, wiki, osm)
}

func TestRelevanceScore_DescriptionBonus(t *testing.T) {
	short := RelevanceScore(model.POI{Source: model.SourceOSM, Description: "short"})
	long := RelevanceScore(model.POI{Source: model.SourceOSM, Description: strings.Repeat("a", 150)})
	assert.Greater(t, long, short)
}

func TestRelevanceScore_PrestigeKeywordsAndClamp(t *testing.T) {
	score := RelevanceScore(model.POI{
		Source:      model.SourceWikiEncyclopedia,
		Description: strings.Repeat("unesco world heritage national famous historic ", 10),
	})
	assert.LessOrEqual(t, score, 5.0)
	assert.GreaterOrEqual(t, score, 1.0)
}

func TestIsUnderwater(t *testing.T) {
	assert.False(t, IsUnderwater(model.POI{Name: "Portofino Harbour"}))
	assert.True(t, IsUnderwater(model.POI{Name: "Portofino Harbour Diving Wreck Site"}))
	assert.True(t, IsUnderwater(model.POI{Name: "Unnamed", MarineSubkind: model.SubkindWreck}))
	assert.False(t, IsUnderwater(model.POI{Name: "Unnamed"}))
}

func TestIsKnownIrrelevantWreck(t *testing.T) {
	// Moskva found with Mediterranean coordinates: irrelevant.
	assert.True(t, IsKnownIrrelevantWreck(model.POI{Name: "Moskva", Lat: 44.0, Lon: 9.0}))
	// Moskva found with Black Sea coordinates: legitimate.
	assert.False(t, IsKnownIrrelevantWreck(model.POI{Name: "Moskva", Lat: 44.5, Lon: 31.0}))
	assert.False(t, IsKnownIrrelevantWreck(model.POI{Name: "Andrea Doria", Lat: 40.0, Lon: -69.0}))
}

func TestIsKnownCollisionWreckName(t *testing.T) {
	// Name match alone is enough, regardless of coordinates — including
	// coordinates that sit inside the wreck's own Black-Sea range, since a
	// stale cache entry carries no information tying those coordinates to
	// the zone it's being served for.
	assert.True(t, IsKnownCollisionWreckName(model.POI{Name: "Moskva", Lat: 44.5, Lon: 30.0}))
	assert.True(t, IsKnownCollisionWreckName(model.POI{Name: "Moskva", Lat: 44.0, Lon: 9.0}))
	assert.False(t, IsKnownCollisionWreckName(model.POI{Name: "Andrea Doria", Lat: 40.0, Lon: -69.0}))
}
