package engine

import (
	"log/slog"
	"time"

	"github.com/jewel-voice/jewel/safety/cachestore"
	"github.com/jewel-voice/jewel/safety/catalog"
	"github.com/jewel-voice/jewel/safety/countstore"
	"github.com/jewel-voice/jewel/safety/store"
)

// EngineTestFixture returns an engine wired with in-memory backends and
// the default catalog. Intentionally exported for use in other packages.
func EngineTestFixture() Engine {
	return Engine{
		Logger:   slog.Default(),
		Catalog:  catalog.Default(),
		Store:    store.NewMemStore(),
		Counters: countstore.NewMemViolationCounter(),
		Cache:    cachestore.NewMemStatusCache(1000, time.Hour),
	}
}
