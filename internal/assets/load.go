package assets

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/ledger/internal/model"
)

const dateFormat = "2006-01-02"

// Spec is an asset definition whose price asset is referenced by name,
// so it can be resolved at bootstrap time.
type Spec struct {
	Asset      model.Asset
	PriceAsset string
}

type specFields struct {
	Type        string    `yaml:"type"`
	Description string    `yaml:"description"`
	PriceAsset  string    `yaml:"price_asset"`
	Expiration  string    `yaml:"expiration"`
	FaceValue   string    `yaml:"face_value"`
	Strike      string    `yaml:"strike"`
	Children    yaml.Node `yaml:"children"`
}

// ParseAssets decodes a YAML asset file. Each key is an asset name; nested
// children are priced in their parent:
//
//	USD:
//	  type: currency
//	  children:
//	    ACME:
//	      type: stock
//	T-2030:
//	  type: bond
//	  expiration: 2030-06-01
//	  face_value: 1000
//
// Specs are returned parents first, in file order.
func ParseAssets(data []byte) ([]Spec, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing assets: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("parsing assets: empty document")
	}
	specs, err := decodeSpecs(doc.Content[0], "")
	if err != nil {
		return nil, fmt.Errorf("parsing assets: %w", err)
	}
	return specs, nil
}

func decodeSpecs(m *yaml.Node, parent string) ([]Spec, error) {
	if m.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping of asset names", m.Line)
	}
	var specs []Spec
	for i := 0; i+1 < len(m.Content); i += 2 {
		name := strings.TrimSpace(m.Content[i].Value)
		var f specFields
		if err := m.Content[i+1].Decode(&f); err != nil {
			return nil, fmt.Errorf("asset %q: %w", name, err)
		}

		attrs, err := f.attrs()
		if err != nil {
			return nil, fmt.Errorf("asset %q: %w", name, err)
		}
		price := f.PriceAsset
		if price == "" {
			price = parent
		}
		specs = append(specs, Spec{
			Asset:      model.Asset{Name: name, Description: f.Description, Active: true, Attrs: attrs},
			PriceAsset: price,
		})

		if f.Children.Kind != 0 {
			children, err := decodeSpecs(&f.Children, name)
			if err != nil {
				return nil, err
			}
			specs = append(specs, children...)
		}
	}
	return specs, nil
}

func (f specFields) attrs() (model.AssetAttrs, error) {
	rec := model.AssetRecord{Kind: model.AssetKind(strings.ToLower(strings.TrimSpace(f.Type)))}
	if f.Expiration != "" {
		exp, err := time.Parse(dateFormat, f.Expiration)
		if err != nil {
			return nil, fmt.Errorf("parsing expiration %q: %w", f.Expiration, err)
		}
		rec.Expiration = exp
	}
	amount := f.FaceValue
	if rec.Kind == model.AssetKindOption {
		amount = f.Strike
	}
	if amount != "" {
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parsing amount %q: %w", amount, err)
		}
		rec.Amount = d
	}
	return rec.Attrs()
}
