package accounts

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/store"
)

// Service manages the chart of accounts.
type Service struct {
	store *store.Store
	log   *zap.Logger
}

// NewService creates an accounts Service.
func NewService(st *store.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: st, log: logger.Named("accounts")}
}

// Create adds an account under parentID. A parentID of 0 creates the root,
// which is only allowed while the chart is empty.
func (s *Service) Create(ctx context.Context, name string, postable bool, parentID int64) (model.Account, error) {
	acct := model.Account{Name: strings.TrimSpace(name), Postable: postable, ParentID: parentID, Active: true}
	if acct.Name == "" {
		return model.Account{}, model.ValidationError{Field: "name", Reason: "account name is required"}
	}

	err := s.store.Update(ctx, func(tx *store.Tx) error {
		if err := checkParent(ctx, tx, acct); err != nil {
			return err
		}
		id, err := tx.InsertAccount(ctx, acct)
		if err != nil {
			return err
		}
		acct.ID = id
		return nil
	})
	if err != nil {
		s.log.Debug("account rejected", zap.String("name", acct.Name), zap.Error(err))
		return model.Account{}, err
	}

	s.log.Info("account created",
		zap.Int64("id", acct.ID),
		zap.String("name", acct.Name),
		zap.Bool("postable", acct.Postable),
		zap.Int64("parent_id", acct.ParentID),
	)
	return acct, nil
}

func checkParent(ctx context.Context, tx *store.Tx, acct model.Account) error {
	if acct.IsRoot() {
		n, err := tx.CountAccounts(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return model.ValidationError{Field: "parent_id", Reason: "parent is required: the chart already has a root"}
		}
		if acct.Postable {
			return model.ValidationError{Field: "postable", Reason: "the root account must be a group"}
		}
		return nil
	}

	parent, err := tx.Account(ctx, acct.ParentID)
	if err != nil {
		return err
	}
	if !parent.Active {
		return model.ValidationError{Field: "parent_id", Reason: fmt.Sprintf("parent account %d is inactive", parent.ID)}
	}
	if parent.Postable {
		return model.ValidationError{Field: "parent_id", Reason: fmt.Sprintf("parent account %d is postable and cannot have children", parent.ID)}
	}
	return nil
}

// Bootstrap materializes chart into an empty store, depth-first in source
// order, as a single atomic write. It returns the root account.
func (s *Service) Bootstrap(ctx context.Context, chart ChartNode) (model.Account, error) {
	if err := chart.Validate(); err != nil {
		return model.Account{}, err
	}

	var root model.Account
	created := 0
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		n, err := tx.CountAccounts(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return model.ConflictError{Kind: model.KindAccount, Reason: fmt.Sprintf("chart already has %d accounts", n)}
		}
		return Walk(chart, 0, func(node ChartNode, parentID int64) (int64, error) {
			acct := node.Account(parentID)
			id, err := tx.InsertAccount(ctx, acct)
			if err != nil {
				return 0, err
			}
			acct.ID = id
			if acct.IsRoot() {
				root = acct
			}
			created++
			return id, nil
		})
	})
	if err != nil {
		return model.Account{}, err
	}

	s.log.Info("chart of accounts bootstrapped", zap.Int("accounts", created), zap.Int64("root_id", root.ID))
	return root, nil
}

// Get returns the account with the given ID.
func (s *Service) Get(ctx context.Context, id int64) (model.Account, error) {
	var a model.Account
	err := s.store.View(ctx, func(tx *store.Tx) error {
		var err error
		a, err = tx.Account(ctx, id)
		return err
	})
	return a, err
}

// GetByName returns the account with the given name.
func (s *Service) GetByName(ctx context.Context, name string) (model.Account, error) {
	var a model.Account
	err := s.store.View(ctx, func(tx *store.Tx) error {
		var err error
		a, err = tx.AccountByName(ctx, strings.TrimSpace(name))
		return err
	})
	return a, err
}

// List returns one page of accounts ordered by ID. A limit <= 0 returns
// every account from offset on.
func (s *Service) List(ctx context.Context, offset, limit int) ([]model.Account, error) {
	var out []model.Account
	err := s.store.View(ctx, func(tx *store.Tx) error {
		var err error
		out, err = tx.ListAccounts(ctx, offset, limit)
		return err
	})
	return out, err
}

// Tree loads the whole chart as a Tree.
func (s *Service) Tree(ctx context.Context) (*Tree, error) {
	var t *Tree
	err := s.store.View(ctx, func(tx *store.Tx) error {
		var err error
		t, err = LoadTree(ctx, tx)
		return err
	})
	return t, err
}

// LoadTree loads the whole chart inside an open store transaction.
func LoadTree(ctx context.Context, tx *store.Tx) (*Tree, error) {
	all, err := tx.ListAccounts(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	t, err := NewTree(all)
	if err != nil {
		return nil, fmt.Errorf("loading chart of accounts: %w", err)
	}
	return t, nil
}

// Children returns the direct children of id.
func (s *Service) Children(ctx context.Context, id int64) ([]model.Account, error) {
	var out []model.Account
	err := s.store.View(ctx, func(tx *store.Tx) error {
		if _, err := tx.Account(ctx, id); err != nil {
			return err
		}
		var err error
		out, err = tx.ChildAccounts(ctx, id)
		return err
	})
	return out, err
}

// Ancestors returns the parent chain of id, nearest first, ending at the root.
func (s *Service) Ancestors(ctx context.Context, id int64) ([]model.Account, error) {
	t, err := s.Tree(ctx)
	if err != nil {
		return nil, err
	}
	return t.Ancestors(id)
}

// Rename changes an account's name.
func (s *Service) Rename(ctx context.Context, id int64, name string) (model.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Account{}, model.ValidationError{Field: "name", Reason: "account name is required"}
	}
	return s.update(ctx, id, func(a *model.Account) { a.Name = name })
}

// SetActive activates or deactivates an account. Inactive accounts accept
// neither new postings nor new children.
func (s *Service) SetActive(ctx context.Context, id int64, active bool) (model.Account, error) {
	return s.update(ctx, id, func(a *model.Account) { a.Active = active })
}

func (s *Service) update(ctx context.Context, id int64, mutate func(a *model.Account)) (model.Account, error) {
	var a model.Account
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		var err error
		a, err = tx.Account(ctx, id)
		if err != nil {
			return err
		}
		mutate(&a)
		return tx.UpdateAccount(ctx, a)
	})
	if err != nil {
		return model.Account{}, err
	}
	s.log.Info("account updated", zap.Int64("id", a.ID), zap.String("name", a.Name), zap.Bool("active", a.Active))
	return a, nil
}

// Delete removes an account that has no entries and no children. The root
// cannot be deleted, and neither can the last postable account under a
// group.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		a, err := tx.Account(ctx, id)
		if err != nil {
			return err
		}
		if a.IsRoot() {
			return model.ConflictError{Kind: model.KindAccount, ID: id, Reason: "the root account cannot be deleted"}
		}
		n, err := tx.CountAccountEntries(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return model.ConflictError{Kind: model.KindAccount, ID: id, Reason: fmt.Sprintf("account has %d entries", n)}
		}
		children, err := tx.ChildAccounts(ctx, id)
		if err != nil {
			return err
		}
		if len(children) > 0 {
			return model.ConflictError{Kind: model.KindAccount, ID: id, Reason: fmt.Sprintf("account has %d children", len(children))}
		}
		if err := tx.DeleteAccount(ctx, id); err != nil {
			return err
		}
		if !a.Postable {
			return nil
		}
		return checkNotEmptied(ctx, tx, a)
	})
	if err != nil {
		return err
	}
	s.log.Info("account deleted", zap.Int64("id", id))
	return nil
}

// checkNotEmptied rejects the deletion of leaf when it left one of its
// ancestor groups without a postable descendant.
func checkNotEmptied(ctx context.Context, tx *store.Tx, leaf model.Account) error {
	t, err := LoadTree(ctx, tx)
	if err != nil {
		return err
	}
	emptied := make(map[int64]bool)
	for _, g := range t.EmptyGroups() {
		emptied[g.ID] = true
	}
	for parentID := leaf.ParentID; parentID != 0; {
		parent, ok := t.Get(parentID)
		if !ok {
			break
		}
		if emptied[parent.ID] {
			return model.ConflictError{
				Kind:   model.KindAccount,
				ID:     leaf.ID,
				Reason: fmt.Sprintf("group %q would have no postable accounts", parent.Name),
			}
		}
		parentID = parent.ParentID
	}
	return nil
}
