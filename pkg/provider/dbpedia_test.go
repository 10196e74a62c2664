package provider

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurel42/zonepoi/pkg/geo"
	"github.com/aurel42/zonepoi/pkg/model"
	"github.com/aurel42/zonepoi/pkg/request"
	"github.com/aurel42/zonepoi/pkg/tracker"
)

func TestDBpediaProvider_QueryMarine(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":{"bindings":[
			{"item":{"value":"http://dbpedia.org/resource/Haven_(ship)"},
			 "label":{"value":"Haven"},
			 "lat":{"value":"44.0"},"lon":{"value":"8.9"},
			 "abstract":{"value":"An oil tanker that sank off Genoa."}}
		]}}`))
	}))
	defer srv.Close()

	tr := tracker.New()
	client := request.New(tr, request.DefaultClientConfig())
	p := NewDBpediaProvider(client, srv.URL)

	pois, err := p.QueryMarine(t.Context(), geo.BBox{South: 43.5, West: 8.5, North: 44.5, East: 9.5})
	require.NoError(t, err)
	require.Len(t, pois, 1)
	assert.Equal(t, "Haven", pois[0].Name)
	assert.Equal(t, model.KindMarine, pois[0].Kind)
	assert.Equal(t, model.SubkindWreck, pois[0].MarineSubkind)
	assert.Equal(t, "Haven_(ship)", pois[0].ExternalIDs["dbpedia_id"])
}

func TestBuildDBpediaMarineQuery_ExcludesForbidden(t *testing.T) {
	q := buildDBpediaMarineQuery(geo.BBox{South: 0, West: 0, North: 1, East: 1})
	assert.Contains(t, q, "dbo:Lighthouse")
	assert.Contains(t, q, "dbo:Port")
	assert.Contains(t, q, "dbo:Harbour")
}
