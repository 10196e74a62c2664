package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aurel42/zonepoi/pkg/model"
)

func TestTemplateSentence_Land(t *testing.T) {
	s := templateSentence(model.POI{Name: "Castello Brown", Lat: 44.303, Lon: 9.213, Kind: model.KindLand})
	assert.Contains(t, s, "Castello Brown")
	assert.Contains(t, s, "44.3030")
}

func TestTemplateSentence_Marine(t *testing.T) {
	s := templateSentence(model.POI{
		Name: "Haven", Lat: 44.3, Lon: 8.9,
		Kind: model.KindMarine, MarineSubkind: model.SubkindWreck,
	})
	assert.Contains(t, s, "Haven")
	assert.Contains(t, s, "wreck")
	assert.Contains(t, s, "off the coast")
}

func TestTemplateSentence_MarineUnknownSubkind(t *testing.T) {
	s := templateSentence(model.POI{Name: "Mystery Spot", Kind: model.KindMarine})
	assert.Contains(t, s, "marine point of interest")
}

func TestLeadingProse(t *testing.T) {
	prose := "\n\n  \nThe wreck lies at 40 meters.\nSecond line ignored."
	assert.Equal(t, "The wreck lies at 40 meters.", leadingProse(prose, 400))
}

func TestLeadingProse_Truncates(t *testing.T) {
	long := ""
	for i := 0; i < 50; i++ {
		long += "0123456789"
	}
	got := leadingProse(long, 20)
	assert.Equal(t, 23, len([]rune(got)))
	assert.Equal(t, "...", got[len(got)-3:])
}

func TestLeadingProse_AllBlank(t *testing.T) {
	assert.Equal(t, "", leadingProse("\n\n \n", 100))
}

func TestHostOf(t *testing.T) {
	assert.Equal(t, "dive.example.com", hostOf("http://dive.example.com/haven?x=1"))
	assert.Equal(t, "dive.example.com", hostOf("https://dive.example.com"))
	assert.Equal(t, "dive.example.com", hostOf("dive.example.com/path"))
}
