// Package importer reads transactions from CSV files.
package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger/internal/journal"
)

// Draft is a transaction read from a file. Accounts and assets are named,
// not yet resolved to IDs.
type Draft struct {
	Ref         string
	Datetime    time.Time
	Description string
	Entries     []DraftEntry
}

// DraftEntry is one posting of a Draft.
type DraftEntry struct {
	Account  string
	Asset    string
	Value    decimal.Decimal
	Quantity decimal.Decimal
}

// Resolver maps account and asset names to IDs.
type Resolver interface {
	AccountID(ctx context.Context, name string) (int64, error)
	AssetID(ctx context.Context, name string) (int64, error)
}

// Params resolves d into parameters for journal.Service.Create.
func (d Draft) Params(ctx context.Context, fundID int64, r Resolver) (journal.CreateParams, error) {
	p := journal.CreateParams{
		Datetime:    d.Datetime,
		Description: d.Description,
		FundID:      fundID,
		Entries:     make([]journal.EntryParams, 0, len(d.Entries)),
	}
	for _, e := range d.Entries {
		acct, err := r.AccountID(ctx, e.Account)
		if err != nil {
			return journal.CreateParams{}, fmt.Errorf("%s: %w", d.Ref, err)
		}
		asset, err := r.AssetID(ctx, e.Asset)
		if err != nil {
			return journal.CreateParams{}, fmt.Errorf("%s: %w", d.Ref, err)
		}
		p.Entries = append(p.Entries, journal.EntryParams{
			AccountID: acct,
			AssetID:   asset,
			Value:     e.Value,
			Quantity:  e.Quantity,
		})
	}
	return p, nil
}

// Parser converts a CSV file into Drafts.
type Parser interface {
	Parse(r io.Reader) ([]Draft, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a CSV file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers. Bank
// statements post against the accounts in stmt.
func DefaultRegistry(stmt StatementAccounts) *Registry {
	r := NewRegistry()
	r.Register(&EntriesParser{})
	r.Register(&ChaseParser{Accounts: stmt})
	return r
}

// importDir is the subdirectory for import CSVs.
const importDir = "import"

// processedDir is the subdirectory for processed CSVs.
const processedDir = "import/processed"

// Scan returns CSV files in <root>/import/.
func Scan(root string) ([]FileInfo, error) {
	dir := filepath.Join(root, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(root, fileName string) error {
	src := filepath.Join(root, importDir, fileName)
	dstDir := filepath.Join(root, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
