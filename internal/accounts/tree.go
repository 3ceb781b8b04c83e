package accounts

import (
	"fmt"

	"github.com/cleared-dev/ledger/internal/model"
)

// Tree is an id-indexed arena over a chart of accounts. Nodes only know
// their parent; children are derived by index.
type Tree struct {
	root     int64
	byID     map[int64]model.Account
	children map[int64][]int64 // in input order
}

// NewTree builds a Tree and checks that the accounts form a single-rooted,
// acyclic tree.
func NewTree(accounts []model.Account) (*Tree, error) {
	t := &Tree{
		byID:     make(map[int64]model.Account, len(accounts)),
		children: make(map[int64][]int64),
	}
	for _, a := range accounts {
		if _, dup := t.byID[a.ID]; dup {
			return nil, fmt.Errorf("duplicate account id %d", a.ID)
		}
		t.byID[a.ID] = a
	}
	for _, a := range accounts {
		if a.IsRoot() {
			if t.root != 0 {
				return nil, fmt.Errorf("multiple root accounts: %d and %d", t.root, a.ID)
			}
			t.root = a.ID
			continue
		}
		if _, ok := t.byID[a.ParentID]; !ok {
			return nil, fmt.Errorf("account %d: parent %d does not exist", a.ID, a.ParentID)
		}
		t.children[a.ParentID] = append(t.children[a.ParentID], a.ID)
	}
	if len(accounts) == 0 {
		return t, nil
	}
	if t.root == 0 {
		return nil, fmt.Errorf("no root account")
	}
	// Every account must be reachable from the root; anything else sits on a cycle.
	if n := len(t.PostOrder()); n != len(accounts) {
		return nil, fmt.Errorf("%d accounts are not reachable from the root", len(accounts)-n)
	}
	return t, nil
}

// Len returns the number of accounts.
func (t *Tree) Len() int {
	return len(t.byID)
}

// Root returns the root account.
func (t *Tree) Root() (model.Account, bool) {
	a, ok := t.byID[t.root]
	return a, ok
}

// Get returns the account with the given ID.
func (t *Tree) Get(id int64) (model.Account, bool) {
	a, ok := t.byID[id]
	return a, ok
}

// Children returns the direct children of id.
func (t *Tree) Children(id int64) ([]model.Account, error) {
	if _, ok := t.byID[id]; !ok {
		return nil, model.NotFoundError{Kind: model.KindAccount, ID: id}
	}
	ids := t.children[id]
	out := make([]model.Account, 0, len(ids))
	for _, c := range ids {
		out = append(out, t.byID[c])
	}
	return out, nil
}

// Ancestors returns the parent chain of id, nearest first, ending at the root.
func (t *Tree) Ancestors(id int64) ([]model.Account, error) {
	a, ok := t.byID[id]
	if !ok {
		return nil, model.NotFoundError{Kind: model.KindAccount, ID: id}
	}
	var chain []model.Account
	for !a.IsRoot() {
		a = t.byID[a.ParentID]
		chain = append(chain, a)
	}
	return chain, nil
}

// PostOrder returns every account reachable from the root with each
// account listed after all of its descendants.
func (t *Tree) PostOrder() []model.Account {
	if t.root == 0 {
		return nil
	}
	type frame struct {
		id   int64
		next int
	}
	out := make([]model.Account, 0, len(t.byID))
	stack := []frame{{id: t.root}}
	visited := make(map[int64]bool, len(t.byID))
	visited[t.root] = true
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		kids := t.children[top.id]
		if top.next < len(kids) {
			child := kids[top.next]
			top.next++
			if !visited[child] {
				visited[child] = true
				stack = append(stack, frame{id: child})
			}
			continue
		}
		out = append(out, t.byID[top.id])
		stack = stack[:len(stack)-1]
	}
	return out
}

// EmptyGroups returns the group accounts that have no postable descendant.
func (t *Tree) EmptyGroups() []model.Account {
	hasLeaf := make(map[int64]bool, len(t.byID))
	var empty []model.Account
	for _, a := range t.PostOrder() {
		if a.Postable {
			hasLeaf[a.ID] = true
		} else if !hasLeaf[a.ID] {
			empty = append(empty, a)
		}
		if !a.IsRoot() && hasLeaf[a.ID] {
			hasLeaf[a.ParentID] = true
		}
	}
	return empty
}
