package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/cleared-dev/ledger/internal/accounts"
	"github.com/cleared-dev/ledger/internal/assets"
	"github.com/cleared-dev/ledger/internal/config"
	"github.com/cleared-dev/ledger/internal/finance"
	"github.com/cleared-dev/ledger/internal/funds"
	"github.com/cleared-dev/ledger/internal/journal"
	"github.com/cleared-dev/ledger/internal/logging"
	"github.com/cleared-dev/ledger/internal/store"
)

// app wires the services of one ledger directory.
type app struct {
	root     string
	cfg      *config.Config
	log      *zap.Logger
	store    *store.Store
	accounts *accounts.Service
	assets   *assets.Service
	funds    *funds.Service
	journal  *journal.Service
	finance  *finance.Service
}

// openApp loads <dir>/ledger.yaml and opens the ledger database.
func openApp(dir string) (*app, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s is not a ledger directory (run ledger init)", root)
	}
	if err != nil {
		return nil, err
	}
	return newApp(root, cfg)
}

func newApp(root string, cfg *config.Config) (*app, error) {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg.DBPath(root), store.Options{BusyTimeout: cfg.BusyTimeout(), Logger: logger})
	if err != nil {
		return nil, err
	}
	return &app{
		root:     root,
		cfg:      cfg,
		log:      logger,
		store:    st,
		accounts: accounts.NewService(st, logger),
		assets:   assets.NewService(st, logger),
		funds:    funds.NewService(st, logger),
		journal:  journal.NewService(st, logger),
		finance:  finance.NewService(st, logger),
	}, nil
}

// Close releases the database.
func (a *app) Close() error {
	_ = a.log.Sync()
	return a.store.Close()
}
