package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AssetKind is the type tag of an asset.
type AssetKind string

const (
	AssetKindCurrency AssetKind = "currency"
	AssetKindStock    AssetKind = "stock"
	AssetKindFund     AssetKind = "fund"
	AssetKindBond     AssetKind = "bond"
	AssetKindOption   AssetKind = "option"
	AssetKindFuture   AssetKind = "future"
	AssetKindIndex    AssetKind = "index"
)

// Asset is the unit an entry's value and quantity are expressed in.
type Asset struct {
	ID          int64
	Name        string
	Description string
	Active      bool
	Attrs       AssetAttrs
}

// Kind returns the asset's type tag.
func (a Asset) Kind() AssetKind {
	if a.Attrs == nil {
		return ""
	}
	return a.Attrs.Kind()
}

// AssetAttrs holds the type-specific attributes of an asset. The set of
// implementations is closed: Currency, Stock, FundShare, Bond, Option,
// Future and Index.
type AssetAttrs interface {
	Kind() AssetKind
	assetAttrs()
}

// Currency is cash in a given currency; the asset name is its ISO code.
type Currency struct{}

// Stock is an equity share priced in another asset.
type Stock struct {
	PriceAssetID int64
}

// FundShare is a share of an investment fund priced in another asset.
type FundShare struct {
	PriceAssetID int64
}

// Bond is a fixed income security.
type Bond struct {
	Expiration time.Time
	FaceValue  decimal.Decimal
}

// Option is a derivative contract.
type Option struct {
	Expiration time.Time
	Strike     decimal.Decimal
}

// Future is a derivative contract.
type Future struct {
	Expiration time.Time
}

// Index is a market index.
type Index struct{}

func (Currency) Kind() AssetKind  { return AssetKindCurrency }
func (Stock) Kind() AssetKind     { return AssetKindStock }
func (FundShare) Kind() AssetKind { return AssetKindFund }
func (Bond) Kind() AssetKind      { return AssetKindBond }
func (Option) Kind() AssetKind    { return AssetKindOption }
func (Future) Kind() AssetKind    { return AssetKindFuture }
func (Index) Kind() AssetKind     { return AssetKindIndex }

func (Currency) assetAttrs()  {}
func (Stock) assetAttrs()     {}
func (FundShare) assetAttrs() {}
func (Bond) assetAttrs()      {}
func (Option) assetAttrs()    {}
func (Future) assetAttrs()    {}
func (Index) assetAttrs()     {}

// AssetRecord is the flattened form of an asset's attributes, one optional
// column per type-specific field.
type AssetRecord struct {
	Kind         AssetKind
	PriceAssetID int64
	Expiration   time.Time
	Amount       decimal.Decimal // bond face value or option strike
}

// RecordOf converts attrs to its record form.
func RecordOf(attrs AssetAttrs) AssetRecord {
	switch a := attrs.(type) {
	case Stock:
		return AssetRecord{Kind: AssetKindStock, PriceAssetID: a.PriceAssetID}
	case FundShare:
		return AssetRecord{Kind: AssetKindFund, PriceAssetID: a.PriceAssetID}
	case Bond:
		return AssetRecord{Kind: AssetKindBond, Expiration: a.Expiration, Amount: a.FaceValue}
	case Option:
		return AssetRecord{Kind: AssetKindOption, Expiration: a.Expiration, Amount: a.Strike}
	case Future:
		return AssetRecord{Kind: AssetKindFuture, Expiration: a.Expiration}
	case nil:
		return AssetRecord{}
	default:
		return AssetRecord{Kind: attrs.Kind()}
	}
}

// Attrs rebuilds the typed attributes from a record.
func (r AssetRecord) Attrs() (AssetAttrs, error) {
	switch r.Kind {
	case AssetKindCurrency:
		return Currency{}, nil
	case AssetKindStock:
		return Stock{PriceAssetID: r.PriceAssetID}, nil
	case AssetKindFund:
		return FundShare{PriceAssetID: r.PriceAssetID}, nil
	case AssetKindBond:
		return Bond{Expiration: r.Expiration, FaceValue: r.Amount}, nil
	case AssetKindOption:
		return Option{Expiration: r.Expiration, Strike: r.Amount}, nil
	case AssetKindFuture:
		return Future{Expiration: r.Expiration}, nil
	case AssetKindIndex:
		return Index{}, nil
	default:
		return nil, fmt.Errorf("unknown asset type %q", r.Kind)
	}
}
