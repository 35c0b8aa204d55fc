package services

import (
	"github.com/localnerve/itemsetgroup/internal/config"
	"github.com/localnerve/itemsetgroup/internal/hooks"
	"github.com/localnerve/itemsetgroup/internal/omeka"
	"gorm.io/gorm"
)

// App holds the wired services
type App struct {
	Store           *omeka.Store
	Registry        *hooks.Registry
	Representatives *Representatives
	Resolver        *ThumbnailResolver
	Backfiller      *Backfiller
	Module          *Module
	Selection       *SelectionBlock
	Forwarder       *Forwarder
	Browser         *Browser
	Views           *Views
}

// NewApp wires the services over db and registers the module's hooks
func NewApp(cfg *config.Config, db *gorm.DB) (*App, error) {
	views, err := LoadViews()
	if err != nil {
		return nil, err
	}

	store := omeka.NewStore(db, omeka.Files{BaseURL: cfg.FilesBaseURL})
	registry := hooks.NewRegistry()
	reps := NewRepresentatives(db, store)
	resolver := NewThumbnailResolver(store, reps, cfg.PlaceholderURL, cfg.ThumbnailSize)
	backfiller := NewBackfiller(store, reps)
	module := NewModule(store, reps, backfiller)
	module.Register(registry)

	return &App{
		Store:           store,
		Registry:        registry,
		Representatives: reps,
		Resolver:        resolver,
		Backfiller:      backfiller,
		Module:          module,
		Selection:       NewSelectionBlock(store, resolver, views, cfg.SelectionMaxEntries),
		Forwarder:       NewForwarder(store),
		Browser:         NewBrowser(store, resolver, registry, cfg.EditorRoles),
		Views:           views,
	}, nil
}
