package asset

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zakatledger/backend/internal/domain/shared"
	"github.com/zakatledger/backend/internal/domain/shared/valueobject"
)

// Record represents a single financial holding. The surrounding asset
// subsystem owns the write path; this engine consumes records read-only and
// revalues them on every evaluation.
type Record struct {
	shared.OwnerAggregateRoot
	Label               string          `gorm:"type:varchar(200);not null"`
	Category            Category        `gorm:"type:varchar(30);not null;index"`
	RawValue            decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Currency            valueobject.Currency `gorm:"type:varchar(3);not null;default:'USD'"`
	IsPassiveInvestment bool            `gorm:"not null;default:false"`
	IsRestrictedAccount bool            `gorm:"not null;default:false"`
	AcquiredAt          *time.Time
}

// TableName returns the table name for GORM
func (Record) TableName() string {
	return "asset_records"
}

// NewRecord creates a new asset record, enforcing the flag invariants:
// the two modifier flags are mutually exclusive and each may only be set
// when the category belongs to its allowed-type set.
func NewRecord(
	ownerID uuid.UUID,
	label string,
	category Category,
	rawValue decimal.Decimal,
	passive bool,
	restricted bool,
) (*Record, error) {
	if label == "" {
		return nil, shared.NewDomainError("INVALID_LABEL", "Asset label cannot be empty")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", fmt.Sprintf("Unknown asset category %q", category))
	}
	if rawValue.IsNegative() {
		return nil, shared.NewDomainError("INVALID_VALUE", "Asset value cannot be negative")
	}
	if passive && restricted {
		return nil, shared.NewDomainError(shared.ErrCodeConflictingModifierFlags,
			"An asset cannot be both a passive investment and a restricted account")
	}
	if passive && !category.AllowsPassiveFlag() {
		return nil, shared.NewDomainError(shared.ErrCodeModifierNotApplicable,
			fmt.Sprintf("Passive investment flag is not applicable to category %s", category))
	}
	if restricted && !category.AllowsRestrictedFlag() {
		return nil, shared.NewDomainError(shared.ErrCodeModifierNotApplicable,
			fmt.Sprintf("Restricted account flag is not applicable to category %s", category))
	}

	return &Record{
		OwnerAggregateRoot:  shared.NewOwnerAggregateRoot(ownerID),
		Label:               label,
		Category:            category,
		RawValue:            rawValue,
		Currency:            valueobject.DefaultCurrency,
		IsPassiveInvestment: passive,
		IsRestrictedAccount: restricted,
	}, nil
}

// RawValueMoney returns the raw value as a Money value object.
func (r *Record) RawValueMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(r.RawValue)
}

// LiabilityRecord represents a debt owed by the owner. DueAt is nil for
// long-term obligations without a fixed due date.
type LiabilityRecord struct {
	shared.OwnerAggregateRoot
	Label    string          `gorm:"type:varchar(200);not null"`
	Kind     LiabilityKind   `gorm:"type:varchar(30);not null;index"`
	Amount   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Currency valueobject.Currency `gorm:"type:varchar(3);not null;default:'USD'"`
	DueAt    *time.Time
}

// TableName returns the table name for GORM
func (LiabilityRecord) TableName() string {
	return "liability_records"
}

// LiabilityKind categorizes liabilities for community-based deduction rules.
type LiabilityKind string

const (
	LiabilityPersonalLoan  LiabilityKind = "PERSONAL_LOAN"
	LiabilityCreditCard    LiabilityKind = "CREDIT_CARD"
	LiabilityMortgage      LiabilityKind = "MORTGAGE"
	LiabilityBusinessDebt  LiabilityKind = "BUSINESS_DEBT"
	LiabilityTaxObligation LiabilityKind = "TAX_OBLIGATION"
	LiabilityOther         LiabilityKind = "OTHER"
)

// IsValid returns true if the kind is one of the defined values
func (k LiabilityKind) IsValid() bool {
	switch k {
	case LiabilityPersonalLoan, LiabilityCreditCard, LiabilityMortgage,
		LiabilityBusinessDebt, LiabilityTaxObligation, LiabilityOther:
		return true
	}
	return false
}

// NewLiabilityRecord creates a new liability record
func NewLiabilityRecord(
	ownerID uuid.UUID,
	label string,
	kind LiabilityKind,
	amount decimal.Decimal,
	dueAt *time.Time,
) (*LiabilityRecord, error) {
	if label == "" {
		return nil, shared.NewDomainError("INVALID_LABEL", "Liability label cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", fmt.Sprintf("Unknown liability kind %q", kind))
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_VALUE", "Liability amount cannot be negative")
	}
	return &LiabilityRecord{
		OwnerAggregateRoot: shared.NewOwnerAggregateRoot(ownerID),
		Label:              label,
		Kind:               kind,
		Amount:             amount,
		Currency:           valueobject.DefaultCurrency,
		DueAt:              dueAt,
	}, nil
}

// AmountMoney returns the liability amount as a Money value object.
func (l *LiabilityRecord) AmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(l.Amount)
}

// IsDueBy reports whether the liability falls due on or before the given
// time. Liabilities without a due date are treated as not currently due.
func (l *LiabilityRecord) IsDueBy(t time.Time) bool {
	return l.DueAt != nil && !l.DueAt.After(t)
}
