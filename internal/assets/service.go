// Package assets is the registry of the units entries are posted in.
package assets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/store"
)

// Service manages assets.
type Service struct {
	store *store.Store
	log   *zap.Logger
}

// NewService creates an assets Service.
func NewService(st *store.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: st, log: logger.Named("assets")}
}

// Create registers a new asset.
func (s *Service) Create(ctx context.Context, a model.Asset) (model.Asset, error) {
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		var err error
		a, err = insert(ctx, tx, a)
		return err
	})
	if err != nil {
		return model.Asset{}, err
	}
	s.log.Info("asset created", zap.Int64("id", a.ID), zap.String("name", a.Name), zap.String("type", string(a.Kind())))
	return a, nil
}

// Bootstrap registers specs in order as one atomic write. Price assets are
// resolved by name against earlier specs and existing assets.
func (s *Service) Bootstrap(ctx context.Context, specs []Spec) ([]model.Asset, error) {
	out := make([]model.Asset, 0, len(specs))
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		for _, spec := range specs {
			a := spec.Asset
			if spec.PriceAsset != "" {
				price, err := tx.AssetByName(ctx, spec.PriceAsset)
				if err != nil {
					return fmt.Errorf("asset %q: price asset: %w", a.Name, err)
				}
				a.Attrs = withPriceAsset(a.Attrs, price.ID)
			}
			created, err := insert(ctx, tx, a)
			if err != nil {
				return err
			}
			out = append(out, created)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("assets bootstrapped", zap.Int("assets", len(out)))
	return out, nil
}

func insert(ctx context.Context, tx *store.Tx, a model.Asset) (model.Asset, error) {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return model.Asset{}, model.ValidationError{Field: "name", Reason: "asset name is required"}
	}
	if a.Attrs == nil {
		return model.Asset{}, model.ValidationError{Field: "type", Reason: "asset type is required"}
	}
	if rec := model.RecordOf(a.Attrs); rec.PriceAssetID != 0 {
		if _, err := tx.Asset(ctx, rec.PriceAssetID); err != nil {
			return model.Asset{}, err
		}
	}
	id, err := tx.InsertAsset(ctx, a)
	if err != nil {
		return model.Asset{}, err
	}
	a.ID = id
	return a, nil
}

func withPriceAsset(attrs model.AssetAttrs, id int64) model.AssetAttrs {
	switch a := attrs.(type) {
	case model.Stock:
		a.PriceAssetID = id
		return a
	case model.FundShare:
		a.PriceAssetID = id
		return a
	default:
		return attrs
	}
}

// Get returns the asset with the given ID.
func (s *Service) Get(ctx context.Context, id int64) (model.Asset, error) {
	var a model.Asset
	err := s.store.View(ctx, func(tx *store.Tx) error {
		var err error
		a, err = tx.Asset(ctx, id)
		return err
	})
	return a, err
}

// GetByName returns the asset with the given name.
func (s *Service) GetByName(ctx context.Context, name string) (model.Asset, error) {
	var a model.Asset
	err := s.store.View(ctx, func(tx *store.Tx) error {
		var err error
		a, err = tx.AssetByName(ctx, strings.TrimSpace(name))
		return err
	})
	return a, err
}

// List returns all assets.
func (s *Service) List(ctx context.Context) ([]model.Asset, error) {
	var out []model.Asset
	err := s.store.View(ctx, func(tx *store.Tx) error {
		var err error
		out, err = tx.ListAssets(ctx)
		return err
	})
	return out, err
}
