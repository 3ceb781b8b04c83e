// Package funds manages the partitions transactions are recorded in.
package funds

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/store"
)

// Service manages funds.
type Service struct {
	store *store.Store
	log   *zap.Logger
}

// NewService creates a funds Service.
func NewService(st *store.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: st, log: logger.Named("funds")}
}

// Create adds a fund valued in the currency assetID. Temporary funds are
// scratch space that can be deleted with everything recorded in them.
func (s *Service) Create(ctx context.Context, name string, temporary bool, assetID int64) (model.Fund, error) {
	f := model.Fund{Name: strings.TrimSpace(name), Temporary: temporary, AssetID: assetID}
	if f.Name == "" {
		return model.Fund{}, model.ValidationError{Field: "name", Reason: "fund name is required"}
	}

	err := s.store.Update(ctx, func(tx *store.Tx) error {
		asset, err := tx.Asset(ctx, assetID)
		if err != nil {
			return err
		}
		if asset.Kind() != model.AssetKindCurrency {
			return model.ValidationError{
				Field:  "asset",
				Reason: fmt.Sprintf("fund currency must be a currency, %s is a %s", asset.Name, asset.Kind()),
			}
		}
		f.ID, err = tx.InsertFund(ctx, f)
		return err
	})
	if err != nil {
		return model.Fund{}, err
	}

	s.log.Info("fund created", zap.Int64("id", f.ID), zap.String("name", f.Name), zap.Bool("temporary", f.Temporary))
	return f, nil
}

// Get returns the fund with the given ID.
func (s *Service) Get(ctx context.Context, id int64) (model.Fund, error) {
	var f model.Fund
	err := s.store.View(ctx, func(tx *store.Tx) error {
		var err error
		f, err = tx.Fund(ctx, id)
		return err
	})
	return f, err
}

// GetByName returns the fund with the given name.
func (s *Service) GetByName(ctx context.Context, name string) (model.Fund, error) {
	var f model.Fund
	err := s.store.View(ctx, func(tx *store.Tx) error {
		var err error
		f, err = tx.FundByName(ctx, strings.TrimSpace(name))
		return err
	})
	return f, err
}

// List returns all funds.
func (s *Service) List(ctx context.Context) ([]model.Fund, error) {
	var out []model.Fund
	err := s.store.View(ctx, func(tx *store.Tx) error {
		var err error
		out, err = tx.ListFunds(ctx)
		return err
	})
	return out, err
}

// Delete removes a temporary fund together with its transactions and
// entries. Permanent funds are never deleted.
func (s *Service) Delete(ctx context.Context, id int64) error {
	var removed int64
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		f, err := tx.Fund(ctx, id)
		if err != nil {
			return err
		}
		if !f.Temporary {
			return model.ConflictError{Kind: model.KindFund, ID: id, Reason: "only temporary funds can be deleted"}
		}
		removed, err = tx.DeleteFund(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	s.log.Info("fund deleted", zap.Int64("id", id), zap.Int64("transactions", removed))
	return nil
}
