package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aurel42/zonepoi/pkg/model"
)

func TestNameSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, NameSimilarity("Castello Brown", "castello brown"))
	assert.Equal(t, 0.8, NameSimilarity("Castello Brown", "Castello Brown Museum"))
	assert.InDelta(t, 0.5, NameSimilarity("Castello Brown Park", "Castello Garden Park"), 0.01)
	assert.Equal(t, 0.0, NameSimilarity("", "Castello"))
}

func TestDeduplicate_MergesCloseSimilarNames(t *testing.T) {
	pois := []model.POI{
		{Name: "Castello Brown", Lat: 44.303, Lon: 9.213, Source: model.SourceOSM},
		{Name: "Castello Brown", Lat: 44.3031, Lon: 9.2131, Source: model.SourceWikiEncyclopedia, Description: "A well-documented castle."},
	}
	result := Deduplicate(pois)
	assert.Len(t, result, 1)
	assert.Equal(t, model.SourceWikiEncyclopedia, result[0].Source, "higher-priority source wins")
}

func TestDeduplicate_KeepsDistinctPOIs(t *testing.T) {
	pois := []model.POI{
		{Name: "Castello Brown", Lat: 44.303, Lon: 9.213, Source: model.SourceOSM},
		{Name: "Faro di Portofino", Lat: 44.305, Lon: 9.215, Source: model.SourceOSM},
	}
	result := Deduplicate(pois)
	assert.Len(t, result, 2)
}

func TestDeduplicate_SameSourceTieBreaksOnDescriptionLength(t *testing.T) {
	pois := []model.POI{
		{Name: "Castello Brown", Lat: 44.303, Lon: 9.213, Source: model.SourceOSM, Description: "short"},
		{Name: "Castello Brown", Lat: 44.3031, Lon: 9.2131, Source: model.SourceOSM, Description: "a much longer and more detailed description"},
	}
	result := Deduplicate(pois)
	assert.Len(t, result, 1)
	assert.Contains(t, result[0].Description, "detailed")
}
