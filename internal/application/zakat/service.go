package zakat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zakatledger/backend/internal/domain/asset"
	"github.com/zakatledger/backend/internal/domain/methodology"
	"github.com/zakatledger/backend/internal/domain/shared"
	"github.com/zakatledger/backend/internal/domain/shared/valueobject"
	"github.com/zakatledger/backend/internal/domain/zakat"
)

// Service provides application-level zakat obligation operations. All
// writes for a given owner are serialized through a per-owner lock.
type Service struct {
	records        zakat.NisabYearRecordRepository
	assets         asset.RecordRepository
	liabilities    asset.LiabilityRepository
	prices         zakat.PriceSource
	nisab          *zakat.NisabCalculator
	valuator       *asset.Valuator
	obligations    *zakat.ObligationCalculator
	locks          *ownerLocks
	eventPublisher shared.EventPublisher
}

// NewService creates a new Service
func NewService(
	records zakat.NisabYearRecordRepository,
	assets asset.RecordRepository,
	liabilities asset.LiabilityRepository,
	prices zakat.PriceSource,
) *Service {
	return &Service{
		records:     records,
		assets:      assets,
		liabilities: liabilities,
		prices:      prices,
		nisab:       zakat.NewNisabCalculator(),
		valuator:    asset.NewValuator(),
		obligations: zakat.NewObligationCalculator(),
		locks:       newOwnerLocks(),
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// EvaluationRequest carries the methodology choice and its parameters for
// a live evaluation.
type EvaluationRequest struct {
	MethodologyID            string           `json:"methodology_id" binding:"required"`
	PreferredBasis           *string          `json:"preferred_basis,omitempty"`
	BusinessModifier         *decimal.Decimal `json:"business_modifier,omitempty"`
	DeductibleLiabilityKinds []string         `json:"deductible_liability_kinds,omitempty"`
}

// RecalculateRequest carries optional methodology parameters for refreshing
// an open record. The methodology itself comes from the record.
type RecalculateRequest struct {
	BusinessModifier         *decimal.Decimal `json:"business_modifier,omitempty"`
	DeductibleLiabilityKinds []string         `json:"deductible_liability_kinds,omitempty"`
}

// FinalizeRequest carries optional methodology parameters for the closing
// valuation. Methodologies whose debt policy needs parameters cannot seal
// without them.
type FinalizeRequest struct {
	BusinessModifier         *decimal.Decimal `json:"business_modifier,omitempty"`
	DeductibleLiabilityKinds []string         `json:"deductible_liability_kinds,omitempty"`
}

// UnlockRequest carries the mandatory justification for opening a
// finalized record.
type UnlockRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// UpdateUnlockedRequest adjusts the figures of an unlocked record. The
// zakat amount is recomputed from the corrected net wealth.
type UpdateUnlockedRequest struct {
	NetWealth             decimal.Decimal  `json:"net_wealth" binding:"required"`
	GrossZakatable        *decimal.Decimal `json:"gross_zakatable,omitempty"`
	DeductibleLiabilities *decimal.Decimal `json:"deductible_liabilities,omitempty"`
}

// EvaluateOwner runs a full evaluation for the owner: valuate assets,
// apply the debt policy, compare against the threshold. When a cycle is
// already open the stored threshold is reused and the record refreshed;
// when none is open and wealth meets the threshold a new draft cycle
// starts automatically.
func (s *Service) EvaluateOwner(ctx context.Context, ownerID uuid.UUID, req EvaluationRequest) (*EvaluationResponse, error) {
	release := s.locks.Acquire(ownerID)
	defer release()

	m, err := methodology.Get(methodology.ID(req.MethodologyID))
	if err != nil {
		return nil, err
	}
	now := time.Now()

	record, err := s.records.FindNonTerminalByOwner(ctx, ownerID)
	if err != nil && !isNotFound(err) {
		return nil, err
	}

	if record != nil {
		if record.Status == zakat.StatusInterrupted {
			return nil, shared.NewDomainError(shared.ErrCodeActiveHawlAlreadyExists,
				fmt.Sprintf("An interrupted cycle (record %s) still occupies the slot; delete it before starting a new one", record.ID))
		}
		if record.MethodologyID != m.ID {
			return nil, shared.NewDomainError(shared.ErrCodeThresholdAlreadyLocked,
				"The open cycle's threshold is locked to its methodology; finalize or delete the record first")
		}
		obligation, snapshot, err := s.computeObligation(ctx, ownerID, m, record.Threshold, evaluationParams(req), record.HawlDueAt, now)
		if err != nil {
			return nil, err
		}
		if err := record.Reevaluate(obligation, snapshot, now); err != nil {
			return nil, err
		}
		if err := s.records.Save(ctx, record); err != nil {
			return nil, err
		}
		s.publishEvents(ctx, record)
		resp := ToRecordResponse(record)
		return &EvaluationResponse{
			Threshold:  ToThresholdResponse(record.Threshold),
			Obligation: ToObligationResponse(obligation),
			Record:     &resp,
		}, nil
	}

	threshold, err := s.computeThreshold(ctx, m, req.PreferredBasis, now)
	if err != nil {
		return nil, err
	}
	obligation, snapshot, err := s.computeObligation(ctx, ownerID, m, threshold, evaluationParams(req), now.Add(zakat.HawlDuration), now)
	if err != nil {
		return nil, err
	}

	resp := &EvaluationResponse{
		Threshold:  ToThresholdResponse(threshold),
		Obligation: ToObligationResponse(obligation),
	}
	if !obligation.IsObligatory {
		return resp, nil
	}

	record, err = zakat.StartHawl(ownerID, m, threshold, obligation, snapshot, now)
	if err != nil {
		return nil, err
	}
	if err := s.records.Save(ctx, record); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, record)
	recordResp := ToRecordResponse(record)
	resp.Record = &recordResp
	return resp, nil
}

// StartCycle explicitly opens a new cycle. Unlike EvaluateOwner it fails
// when a cycle is already open or wealth is below the threshold.
func (s *Service) StartCycle(ctx context.Context, ownerID uuid.UUID, req EvaluationRequest) (*RecordResponse, error) {
	release := s.locks.Acquire(ownerID)
	defer release()

	m, err := methodology.Get(methodology.ID(req.MethodologyID))
	if err != nil {
		return nil, err
	}
	now := time.Now()

	if existing, err := s.records.FindNonTerminalByOwner(ctx, ownerID); err != nil && !isNotFound(err) {
		return nil, err
	} else if existing != nil {
		return nil, shared.NewDomainError(shared.ErrCodeActiveHawlAlreadyExists,
			fmt.Sprintf("A cycle already occupies the slot for this owner (record %s, status %s)", existing.ID, existing.Status))
	}

	threshold, err := s.computeThreshold(ctx, m, req.PreferredBasis, now)
	if err != nil {
		return nil, err
	}
	obligation, snapshot, err := s.computeObligation(ctx, ownerID, m, threshold, evaluationParams(req), now.Add(zakat.HawlDuration), now)
	if err != nil {
		return nil, err
	}

	record, err := zakat.StartHawl(ownerID, m, threshold, obligation, snapshot, now)
	if err != nil {
		return nil, err
	}
	if err := s.records.Save(ctx, record); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, record)
	resp := ToRecordResponse(record)
	return &resp, nil
}

// RecalculateLive refreshes the owner's open record against its locked
// threshold. Idempotent: repeated calls with unchanged inputs leave the
// record unchanged.
func (s *Service) RecalculateLive(ctx context.Context, ownerID uuid.UUID, req RecalculateRequest) (*RecordResponse, error) {
	release := s.locks.Acquire(ownerID)
	defer release()

	record, err := s.records.FindTrackingByOwner(ctx, ownerID)
	if err != nil {
		return nil, recordNotFound(err)
	}
	m, err := methodology.Get(record.MethodologyID)
	if err != nil {
		return nil, err
	}
	now := time.Now()

	obligation, snapshot, err := s.computeObligation(ctx, ownerID, m, record.Threshold, obligationInput{
		businessModifier: req.BusinessModifier,
		deductibleKinds:  liabilityKinds(req.DeductibleLiabilityKinds),
	}, record.HawlDueAt, now)
	if err != nil {
		return nil, err
	}
	if err := record.Reevaluate(obligation, snapshot, now); err != nil {
		return nil, err
	}
	if err := s.records.Save(ctx, record); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, record)
	resp := ToRecordResponse(record)
	return &resp, nil
}

// Confirm marks the owner's draft record as accepted.
func (s *Service) Confirm(ctx context.Context, ownerID, recordID uuid.UUID) (*RecordResponse, error) {
	return s.transition(ctx, ownerID, recordID, func(r *zakat.NisabYearRecord, now time.Time) error {
		return r.Confirm(now)
	})
}

// Finalize seals the record at the end of its Hawl. The figures are
// recomputed from the assets and liabilities standing right now, not
// whatever the last recalculation stored.
func (s *Service) Finalize(ctx context.Context, ownerID, recordID uuid.UUID, req FinalizeRequest) (*RecordResponse, error) {
	return s.transition(ctx, ownerID, recordID, func(r *zakat.NisabYearRecord, now time.Time) error {
		if !r.Status.IsTracking() || !r.IsHawlComplete(now) {
			// Let the domain report the canonical error
			return r.Finalize(now)
		}
		m, err := methodology.Get(r.MethodologyID)
		if err != nil {
			return err
		}
		obligation, snapshot, err := s.computeObligation(ctx, ownerID, m, r.Threshold, obligationInput{
			businessModifier: req.BusinessModifier,
			deductibleKinds:  liabilityKinds(req.DeductibleLiabilityKinds),
		}, r.HawlDueAt, now)
		if err != nil {
			return err
		}
		if err := r.Reevaluate(obligation, snapshot, now); err != nil {
			return err
		}
		return r.Finalize(now)
	})
}

// Unlock opens a finalized record for correction.
func (s *Service) Unlock(ctx context.Context, ownerID, recordID uuid.UUID, req UnlockRequest) (*RecordResponse, error) {
	return s.transition(ctx, ownerID, recordID, func(r *zakat.NisabYearRecord, now time.Time) error {
		return r.Unlock(req.Reason, now)
	})
}

// Refinalize locks an unlocked record again.
func (s *Service) Refinalize(ctx context.Context, ownerID, recordID uuid.UUID) (*RecordResponse, error) {
	return s.transition(ctx, ownerID, recordID, func(r *zakat.NisabYearRecord, now time.Time) error {
		return r.Refinalize(now)
	})
}

// UpdateUnlocked replaces the figures of an unlocked record.
func (s *Service) UpdateUnlocked(ctx context.Context, ownerID, recordID uuid.UUID, req UpdateUnlockedRequest) (*RecordResponse, error) {
	return s.transition(ctx, ownerID, recordID, func(r *zakat.NisabYearRecord, now time.Time) error {
		m, err := methodology.Get(r.MethodologyID)
		if err != nil {
			return err
		}
		obligation, err := amendedObligation(r, m, req)
		if err != nil {
			return err
		}
		return r.AmendObligation(obligation, now)
	})
}

// Delete removes a record that never finalized. Finalized history is
// permanent.
func (s *Service) Delete(ctx context.Context, ownerID, recordID uuid.UUID) error {
	release := s.locks.Acquire(ownerID)
	defer release()

	record, err := s.records.FindByIDForOwner(ctx, ownerID, recordID)
	if err != nil {
		return recordNotFound(err)
	}
	if !record.CanDelete() {
		return shared.NewDomainError(shared.ErrCodeImmutableRecord,
			"Finalized records are permanent and cannot be deleted")
	}
	return s.records.Delete(ctx, record.ID)
}

// GetCurrent returns the owner's open record.
func (s *Service) GetCurrent(ctx context.Context, ownerID uuid.UUID) (*RecordResponse, error) {
	record, err := s.records.FindTrackingByOwner(ctx, ownerID)
	if err != nil {
		return nil, recordNotFound(err)
	}
	resp := ToRecordResponse(record)
	return &resp, nil
}

// GetByID returns one of the owner's records.
func (s *Service) GetByID(ctx context.Context, ownerID, recordID uuid.UUID) (*RecordResponse, error) {
	record, err := s.records.FindByIDForOwner(ctx, ownerID, recordID)
	if err != nil {
		return nil, recordNotFound(err)
	}
	resp := ToRecordResponse(record)
	return &resp, nil
}

// ListHistory returns the owner's records newest first.
func (s *Service) ListHistory(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (*shared.Paginated[RecordResponse], error) {
	page, err := s.records.ListByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]RecordResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, ToRecordResponse(&page.Items[i]))
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// PreviewThreshold computes the threshold today's prices would yield under
// a methodology, without touching any record.
func (s *Service) PreviewThreshold(ctx context.Context, methodologyID string, preferredBasis *string) (*ThresholdResponse, error) {
	m, err := methodology.Get(methodology.ID(methodologyID))
	if err != nil {
		return nil, err
	}
	threshold, err := s.computeThreshold(ctx, m, preferredBasis, time.Now())
	if err != nil {
		return nil, err
	}
	resp := ToThresholdResponse(threshold)
	return &resp, nil
}

// SweepDue re-evaluates records waiting on a time-based transition: grace
// clocks that may have expired. Called by the scheduler; returns how many
// records were swept.
func (s *Service) SweepDue(ctx context.Context, limit int) (int, error) {
	now := time.Now()
	due, err := s.records.FindDueForEvaluation(ctx, now, limit)
	if err != nil {
		return 0, err
	}
	swept := 0
	for i := range due {
		if _, err := s.RecalculateLive(ctx, due[i].OwnerID, RecalculateRequest{}); err != nil {
			// Parameter-dependent methodologies cannot be swept blindly;
			// their owners refresh on their next interactive evaluation.
			if shared.IsDomainErrorCode(err, shared.ErrCodeMethodologyParameterMissing) {
				continue
			}
			return swept, err
		}
		swept++
	}
	return swept, nil
}

func (s *Service) transition(
	ctx context.Context,
	ownerID, recordID uuid.UUID,
	apply func(*zakat.NisabYearRecord, time.Time) error,
) (*RecordResponse, error) {
	release := s.locks.Acquire(ownerID)
	defer release()

	record, err := s.records.FindByIDForOwner(ctx, ownerID, recordID)
	if err != nil {
		return nil, recordNotFound(err)
	}
	if err := apply(record, time.Now()); err != nil {
		return nil, err
	}
	if err := s.records.Save(ctx, record); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, record)
	resp := ToRecordResponse(record)
	return &resp, nil
}

func (s *Service) computeThreshold(ctx context.Context, m methodology.Methodology, preferredBasis *string, now time.Time) (zakat.NisabThreshold, error) {
	gold, err := s.prices.CurrentPrice(ctx, zakat.MetalGold)
	if err != nil {
		return zakat.NisabThreshold{}, err
	}
	silver, err := s.prices.CurrentPrice(ctx, zakat.MetalSilver)
	if err != nil {
		return zakat.NisabThreshold{}, err
	}
	params := zakat.ThresholdParams{}
	if preferredBasis != nil {
		metal := zakat.Metal(*preferredBasis)
		params.PreferredBasis = &metal
	}
	return s.nisab.ComputeThreshold(m, gold, silver, params, now)
}

func (s *Service) computeObligation(
	ctx context.Context,
	ownerID uuid.UUID,
	m methodology.Methodology,
	threshold zakat.NisabThreshold,
	params obligationInput,
	cycleEnd time.Time,
	now time.Time,
) (zakat.Obligation, []asset.ValuatedAsset, error) {
	records, err := s.assets.FindAllForOwner(ctx, ownerID)
	if err != nil {
		return zakat.Obligation{}, nil, err
	}
	liabilities, err := s.liabilities.FindAllForOwner(ctx, ownerID)
	if err != nil {
		return zakat.Obligation{}, nil, err
	}

	snapshot, err := s.valuator.ValuateAll(records, m, asset.ValuationParams{BusinessModifier: params.businessModifier})
	if err != nil {
		return zakat.Obligation{}, nil, err
	}

	obligation, err := s.obligations.Calculate(snapshot, liabilities, m, threshold, zakat.ObligationParams{
		DeductibleLiabilityKinds: params.deductibleKinds,
		CycleEnd:                 cycleEnd,
	}, now)
	if err != nil {
		return zakat.Obligation{}, nil, err
	}
	return obligation, snapshot, nil
}

func (s *Service) publishEvents(ctx context.Context, record *zakat.NisabYearRecord) {
	if s.eventPublisher == nil {
		record.ClearDomainEvents()
		return
	}
	for _, event := range record.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			// Event handling is async; the write already committed.
			continue
		}
	}
	record.ClearDomainEvents()
}

type obligationInput struct {
	businessModifier *decimal.Decimal
	deductibleKinds  []asset.LiabilityKind
}

func evaluationParams(req EvaluationRequest) obligationInput {
	return obligationInput{
		businessModifier: req.BusinessModifier,
		deductibleKinds:  liabilityKinds(req.DeductibleLiabilityKinds),
	}
}

func liabilityKinds(raw []string) []asset.LiabilityKind {
	if raw == nil {
		return nil
	}
	kinds := make([]asset.LiabilityKind, 0, len(raw))
	for _, k := range raw {
		kinds = append(kinds, asset.LiabilityKind(k))
	}
	return kinds
}

func amendedObligation(r *zakat.NisabYearRecord, m methodology.Methodology, req UpdateUnlockedRequest) (zakat.Obligation, error) {
	if req.NetWealth.IsNegative() {
		return zakat.Obligation{}, shared.NewDomainError("INVALID_VALUE", "Net wealth cannot be negative")
	}
	net := moneyFrom(req.NetWealth)

	gross := r.Obligation.GrossZakatable
	if req.GrossZakatable != nil {
		gross = moneyFrom(*req.GrossZakatable)
	}
	deductible := r.Obligation.DeductibleLiabilities
	if req.DeductibleLiabilities != nil {
		deductible = moneyFrom(*req.DeductibleLiabilities)
	}

	obligatory, err := net.GreaterThanOrEqual(r.Threshold.ThresholdValue)
	if err != nil {
		return zakat.Obligation{}, err
	}
	amount := moneyFrom(decimal.Zero)
	if obligatory {
		amount = net.Multiply(m.StandardRate).RoundCurrency()
	}
	return zakat.Obligation{
		GrossZakatable:        gross,
		DeductibleLiabilities: deductible,
		NetWealth:             net,
		IsObligatory:          obligatory,
		ZakatAmount:           amount,
	}, nil
}

func moneyFrom(d decimal.Decimal) valueobject.Money {
	return valueobject.NewMoneyUSD(d)
}

func isNotFound(err error) bool {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Code == "NOT_FOUND" || de.Code == shared.ErrCodeRecordNotFound
	}
	return false
}

func recordNotFound(err error) error {
	if isNotFound(err) {
		return shared.NewDomainError(shared.ErrCodeRecordNotFound, "Nisab year record not found")
	}
	return err
}
