// Command zonepoi runs a single zone search against the configured
// providers and prints the resulting SearchResult as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aurel42/zonepoi/pkg/cache"
	"github.com/aurel42/zonepoi/pkg/config"
	"github.com/aurel42/zonepoi/pkg/enrich"
	"github.com/aurel42/zonepoi/pkg/llm/gemini"
	"github.com/aurel42/zonepoi/pkg/logging"
	"github.com/aurel42/zonepoi/pkg/model"
	"github.com/aurel42/zonepoi/pkg/provider"
	"github.com/aurel42/zonepoi/pkg/request"
	"github.com/aurel42/zonepoi/pkg/search"
	"github.com/aurel42/zonepoi/pkg/tracker"
	"github.com/aurel42/zonepoi/pkg/version"
)

var (
	configPath   = flag.String("config", "configs/zonepoi.yaml", "path to the YAML config file")
	initConfig   = flag.Bool("init-config", false, "generate a default config file and exit")
	zoneName     = flag.String("zone", "", "zone name")
	polygonJSON  = flag.String("polygon", "", `closed polygon as a JSON array of [lat,lng] pairs, e.g. [[44.0,9.0],[44.0,9.5],[44.5,9.5]]`)
	extendMarine = flag.Bool("extend-marine", false, "run the marine sub-pipeline alongside the land search")
	marineOnly   = flag.Bool("marine-only", false, "run only the marine sub-pipeline")
	enrichFlag   = flag.Bool("enrich", false, "enrich thin POI descriptions/images after merge")
	enhanced     = flag.Bool("enhanced", false, "use enhanced mode (LLM-assisted marine extraction) instead of standard")
)

func main() {
	flag.Parse()

	if *initConfig {
		if err := config.GenerateDefault(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("config file generated: %s\n", *configPath)
		return
	}

	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "zonepoi: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	appCfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&appCfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	slog.Info("zonepoi started", "version", version.Version)

	req, err := buildRequest()
	if err != nil {
		return err
	}

	tr := tracker.New()
	deps, err := wireDependencies(appCfg, tr)
	if err != nil {
		return fmt.Errorf("failed to wire providers: %w", err)
	}

	orchestrator := search.New(deps)
	result, err := orchestrator.Search(ctx, req)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func buildRequest() (*model.SearchRequest, error) {
	if *zoneName == "" {
		return nil, fmt.Errorf("-zone is required")
	}
	if *polygonJSON == "" {
		return nil, fmt.Errorf("-polygon is required")
	}

	var pairs [][2]float64
	if err := json.Unmarshal([]byte(*polygonJSON), &pairs); err != nil {
		return nil, fmt.Errorf("failed to parse -polygon: %w", err)
	}
	polygon := make([]model.LatLng, len(pairs))
	for i, p := range pairs {
		polygon[i] = model.LatLng{Lat: p[0], Lng: p[1]}
	}

	mode := model.ModeStandard
	if *enhanced {
		mode = model.ModeEnhanced
	}

	return &model.SearchRequest{
		ZoneName:         *zoneName,
		Polygon:          polygon,
		ExtendMarine:     *extendMarine,
		MarineOnly:       *marineOnly,
		EnableEnrichment: *enrichFlag,
		Mode:             mode,
	}, nil
}

// wireDependencies constructs every provider and support package named in
// cfg and assembles the orchestrator's Dependencies. A provider whose
// construction genuinely cannot fail (every provider but the LLM extractor)
// is always wired; the LLM extractor is only built when a key is configured
// and enhanced mode was requested, since it is an optional collaborator.
func wireDependencies(cfg *config.Config, tr *tracker.Tracker) (search.Dependencies, error) {
	rc := request.New(tr, request.ClientConfig{
		Timeout:         time.Duration(cfg.Request.Timeout),
		GeocoderTimeout: time.Duration(cfg.Request.GeocoderTimeout),
		Retries:         cfg.Request.Retries,
		BackoffDelay:    time.Duration(cfg.Request.Backoff.Delay),
		InterCallMinGap: time.Duration(cfg.Request.InterCallDelay),
		InterCallMaxGap: time.Duration(cfg.Request.InterCallDelay),
	})

	store, err := cache.New(cfg.Cache.Dir, time.Duration(cfg.Cache.TTL))
	if err != nil {
		return search.Dependencies{}, fmt.Errorf("failed to open cache: %w", err)
	}

	geocoder := provider.NewGeocoderProvider(rc, cfg.Providers.GeocoderURL, time.Duration(cfg.Request.GeocoderTimeout))
	webSearch := provider.NewWebSearchProvider(rc)
	divingPages := provider.NewDivingPageProvider(rc)
	encyclopedia := provider.NewEncyclopediaProvider(rc)
	wikibase := provider.NewWikibaseProvider(rc, cfg.Providers.WikibaseURL)
	dbpedia := provider.NewDBpediaProvider(rc, cfg.Providers.DBpediaURL)
	overpass := provider.NewOverpassProvider(cfg.Providers.OverpassURL, 4)

	enricher := enrich.New(true,
		enrich.WithEncyclopedia(encyclopedia),
		enrich.WithWikibase(wikibase),
		enrich.WithTrustedSiteSearch(webSearch, divingPages),
	)

	deps := search.Dependencies{
		Overpass:     overpass,
		Encyclopedia: encyclopedia,
		Wikibase:     wikibase,
		DBpedia:      dbpedia,
		Geocoder:     geocoder,
		WebSearch:    webSearch,
		DivingPages:  divingPages,
		Cache:        store,
		Enricher:     enricher,
		Logger:       slog.Default(),
	}

	if *enhanced && cfg.LLM.APIKey != "" {
		client, err := gemini.NewClient(cfg.LLM, rc, tr)
		if err != nil {
			slog.Warn("failed to initialize LLM extractor, continuing without it", "error", err)
		} else {
			deps.Extractor = client
		}
	}

	return deps, nil
}
