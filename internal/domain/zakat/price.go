package zakat

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zakatledger/backend/internal/domain/shared/valueobject"
)

// Metal identifies a nisab anchor metal.
type Metal string

const (
	MetalGold   Metal = "GOLD"
	MetalSilver Metal = "SILVER"
)

// PriceUnit is the mass unit a quoted price refers to.
type PriceUnit string

const (
	UnitGram      PriceUnit = "GRAM"
	UnitTroyOunce PriceUnit = "TROY_OUNCE"
)

// GramsPerTroyOunce is the exact conversion factor.
var GramsPerTroyOunce = decimal.NewFromFloat(31.1034768)

// MetalPrice is a quoted price for one unit of a metal, together with its
// provenance. IsFallback marks prices taken from the hard-coded constants
// used when no live or cached quote is available; those are never treated
// as fresh.
type MetalPrice struct {
	Metal        Metal             `json:"metal"`
	PricePerUnit valueobject.Money `json:"price_per_unit"`
	Unit         PriceUnit         `json:"unit"`
	AsOf         time.Time         `json:"as_of"`
	IsFallback   bool              `json:"is_fallback"`
}

// PerGram normalizes the quote to a per-gram price.
func (p MetalPrice) PerGram() valueobject.Money {
	if p.Unit == UnitGram {
		return p.PricePerUnit
	}
	perGram, _ := p.PricePerUnit.Divide(GramsPerTroyOunce)
	return perGram
}

// Age returns how old the quote is relative to now.
func (p MetalPrice) Age(now time.Time) time.Duration {
	return now.Sub(p.AsOf)
}

// PriceSource supplies current metal prices. Implementations must degrade
// gracefully: last-known-cached quotes, then hard fallback constants, with
// provenance always surfaced via AsOf/IsFallback rather than hidden.
type PriceSource interface {
	CurrentPrice(ctx context.Context, metal Metal) (MetalPrice, error)
}
