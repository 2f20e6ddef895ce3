package zakat

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zakatledger/backend/internal/domain/asset"
	"github.com/zakatledger/backend/internal/domain/shared"
	"github.com/zakatledger/backend/internal/domain/shared/valueobject"
	"github.com/zakatledger/backend/internal/domain/zakat"
)

// In-memory fakes. The record store is deliberately stateful so that
// multi-step flows (evaluate, confirm, finalize, unlock) run against the
// same data a real repository would return.

type fakeRecordRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]*zakat.NisabYearRecord
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{records: make(map[uuid.UUID]*zakat.NisabYearRecord)}
}

func (f *fakeRecordRepo) FindByID(ctx context.Context, id uuid.UUID) (*zakat.NisabYearRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRecordRepo) Save(ctx context.Context, r *zakat.NisabYearRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *r
	f.records[r.ID] = &copied
	return nil
}

func (f *fakeRecordRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.records, id)
	return nil
}

func (f *fakeRecordRepo) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*zakat.NisabYearRecord, error) {
	r, err := f.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.OwnerID != ownerID {
		return nil, shared.ErrNotFound
	}
	return r, nil
}

func (f *fakeRecordRepo) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]zakat.NisabYearRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []zakat.NisabYearRecord
	for _, r := range f.records {
		if r.OwnerID == ownerID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRecordRepo) FindTrackingByOwner(ctx context.Context, ownerID uuid.UUID) (*zakat.NisabYearRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.OwnerID == ownerID && r.Status.IsTracking() {
			copied := *r
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeRecordRepo) FindNonTerminalByOwner(ctx context.Context, ownerID uuid.UUID) (*zakat.NisabYearRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.OwnerID == ownerID && (r.Status.IsTracking() || r.Status == zakat.StatusInterrupted) {
			copied := *r
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeRecordRepo) FindDueForEvaluation(ctx context.Context, asOf time.Time, limit int) ([]zakat.NisabYearRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []zakat.NisabYearRecord
	for _, r := range f.records {
		if !r.Status.IsTracking() {
			continue
		}
		if r.BelowThresholdSince != nil || !asOf.Before(r.HawlDueAt) {
			out = append(out, *r)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeRecordRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (*shared.Paginated[zakat.NisabYearRecord], error) {
	items, _ := f.FindAllForOwner(ctx, ownerID, filter)
	page := shared.NewPaginated(items, int64(len(items)), 1, len(items)+1)
	return &page, nil
}

// put stores a record directly, bypassing the service, for arranging
// mid-cycle fixtures.
func (f *fakeRecordRepo) put(r *zakat.NisabYearRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *r
	f.records[r.ID] = &copied
}

type fakeAssetRepo struct {
	mu     sync.Mutex
	assets map[uuid.UUID][]asset.Record
}

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{assets: make(map[uuid.UUID][]asset.Record)}
}

func (f *fakeAssetRepo) FindAllForOwner(ctx context.Context, ownerID uuid.UUID) ([]asset.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.assets[ownerID], nil
}

func (f *fakeAssetRepo) set(ownerID uuid.UUID, recs ...asset.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assets[ownerID] = recs
}

type fakeLiabilityRepo struct {
	liabilities map[uuid.UUID][]asset.LiabilityRecord
}

func newFakeLiabilityRepo() *fakeLiabilityRepo {
	return &fakeLiabilityRepo{liabilities: make(map[uuid.UUID][]asset.LiabilityRecord)}
}

func (f *fakeLiabilityRepo) FindAllForOwner(ctx context.Context, ownerID uuid.UUID) ([]asset.LiabilityRecord, error) {
	return f.liabilities[ownerID], nil
}

func (f *fakeLiabilityRepo) set(ownerID uuid.UUID, recs ...asset.LiabilityRecord) {
	f.liabilities[ownerID] = recs
}

type fakePriceSource struct {
	gold   float64
	silver float64
	asOf   time.Time
}

func (f *fakePriceSource) CurrentPrice(ctx context.Context, metal zakat.Metal) (zakat.MetalPrice, error) {
	price := f.gold
	if metal == zakat.MetalSilver {
		price = f.silver
	}
	asOf := f.asOf
	if asOf.IsZero() {
		asOf = time.Now()
	}
	return zakat.MetalPrice{
		Metal:        metal,
		PricePerUnit: valueobject.NewMoneyUSDFromFloat(price),
		Unit:         zakat.UnitTroyOunce,
		AsOf:         asOf,
	}, nil
}

func cashAsset(t *testing.T, ownerID uuid.UUID, amount float64) asset.Record {
	t.Helper()
	r, err := asset.NewRecord(ownerID, "cash", asset.CategoryCash, decimal.NewFromFloat(amount), false, false)
	require.NoError(t, err)
	return *r
}

func newTestService(t *testing.T) (*Service, *fakeRecordRepo, *fakeAssetRepo) {
	t.Helper()
	records := newFakeRecordRepo()
	assets := newFakeAssetRepo()
	svc := NewService(records, assets, newFakeLiabilityRepo(), &fakePriceSource{gold: 2000, silver: 25})
	return svc, records, assets
}

func TestService_EvaluateOwner(t *testing.T) {
	ctx := context.Background()

	t.Run("starts a draft cycle when wealth crosses the threshold", func(t *testing.T) {
		svc, _, assets := newTestService(t)
		ownerID := uuid.New()
		assets.set(ownerID, cashAsset(t, ownerID, 10000))

		resp, err := svc.EvaluateOwner(ctx, ownerID, EvaluationRequest{MethodologyID: "standard"})
		require.NoError(t, err)
		require.NotNil(t, resp.Record)
		assert.Equal(t, "DRAFT", resp.Record.Status)
		assert.Equal(t, "SILVER", resp.Threshold.BasisMetal)
		assert.True(t, resp.Obligation.IsObligatory)
	})

	t.Run("below threshold starts nothing", func(t *testing.T) {
		svc, _, assets := newTestService(t)
		ownerID := uuid.New()
		assets.set(ownerID, cashAsset(t, ownerID, 100))

		resp, err := svc.EvaluateOwner(ctx, ownerID, EvaluationRequest{MethodologyID: "standard"})
		require.NoError(t, err)
		assert.Nil(t, resp.Record)
		assert.False(t, resp.Obligation.IsObligatory)
	})

	t.Run("reuses the locked threshold on later evaluations", func(t *testing.T) {
		svc, records, assets := newTestService(t)
		ownerID := uuid.New()
		assets.set(ownerID, cashAsset(t, ownerID, 10000))

		first, err := svc.EvaluateOwner(ctx, ownerID, EvaluationRequest{MethodologyID: "standard"})
		require.NoError(t, err)

		// Prices move; the open cycle must not notice.
		svc2 := NewService(records, assets, newFakeLiabilityRepo(), &fakePriceSource{gold: 4000, silver: 50})
		assets.set(ownerID, cashAsset(t, ownerID, 12000))

		second, err := svc2.EvaluateOwner(ctx, ownerID, EvaluationRequest{MethodologyID: "standard"})
		require.NoError(t, err)
		require.NotNil(t, second.Record)
		assert.Equal(t, first.Record.ID, second.Record.ID)
		assert.True(t, first.Threshold.ThresholdValue.Equal(second.Threshold.ThresholdValue))
		assert.True(t, second.Obligation.NetWealth.Equal(decimal.NewFromInt(12000)))
	})

	t.Run("switching methodology mid cycle is rejected", func(t *testing.T) {
		svc, _, assets := newTestService(t)
		ownerID := uuid.New()
		assets.set(ownerID, cashAsset(t, ownerID, 10000))

		_, err := svc.EvaluateOwner(ctx, ownerID, EvaluationRequest{MethodologyID: "standard"})
		require.NoError(t, err)

		_, err = svc.EvaluateOwner(ctx, ownerID, EvaluationRequest{MethodologyID: "hanafi"})
		assert.True(t, shared.IsDomainErrorCode(err, shared.ErrCodeThresholdAlreadyLocked))
	})

	t.Run("liabilities due within the cycle are deducted", func(t *testing.T) {
		records := newFakeRecordRepo()
		assets := newFakeAssetRepo()
		liabilities := newFakeLiabilityRepo()
		svc := NewService(records, assets, liabilities, &fakePriceSource{gold: 2000, silver: 25})

		ownerID := uuid.New()
		assets.set(ownerID, cashAsset(t, ownerID, 10000))

		// Due about a hundred days in, well before the year is up.
		dueAt := time.Now().Add(100 * 24 * time.Hour)
		loan, err := asset.NewLiabilityRecord(ownerID, "car loan", asset.LiabilityPersonalLoan, decimal.NewFromInt(4000), &dueAt)
		require.NoError(t, err)
		liabilities.set(ownerID, *loan)

		resp, err := svc.EvaluateOwner(ctx, ownerID, EvaluationRequest{MethodologyID: "standard"})
		require.NoError(t, err)
		assert.True(t, resp.Obligation.DeductibleLiabilities.Equal(decimal.NewFromInt(4000)),
			"got %s", resp.Obligation.DeductibleLiabilities)
		assert.True(t, resp.Obligation.NetWealth.Equal(decimal.NewFromInt(6000)))
	})

	t.Run("unknown methodology", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, err := svc.EvaluateOwner(ctx, uuid.New(), EvaluationRequest{MethodologyID: "zaydi"})
		assert.True(t, shared.IsDomainErrorCode(err, shared.ErrCodeUnknownMethodology))
	})
}

func TestService_StartCycle(t *testing.T) {
	ctx := context.Background()
	svc, _, assets := newTestService(t)
	ownerID := uuid.New()
	assets.set(ownerID, cashAsset(t, ownerID, 10000))

	_, err := svc.StartCycle(ctx, ownerID, EvaluationRequest{MethodologyID: "standard"})
	require.NoError(t, err)

	_, err = svc.StartCycle(ctx, ownerID, EvaluationRequest{MethodologyID: "standard"})
	assert.True(t, shared.IsDomainErrorCode(err, shared.ErrCodeActiveHawlAlreadyExists))
}

func TestService_InterruptedCycleHoldsSlot(t *testing.T) {
	ctx := context.Background()
	svc, records, assets := newTestService(t)
	ownerID := uuid.New()
	assets.set(ownerID, cashAsset(t, ownerID, 10000))

	resp, err := svc.EvaluateOwner(ctx, ownerID, EvaluationRequest{MethodologyID: "standard"})
	require.NoError(t, err)
	require.NotNil(t, resp.Record)
	recordID := resp.Record.ID

	// Wealth dips below the threshold, and the grace period elapses.
	assets.set(ownerID, cashAsset(t, ownerID, 100))
	_, err = svc.EvaluateOwner(ctx, ownerID, EvaluationRequest{MethodologyID: "standard"})
	require.NoError(t, err)

	r, err := records.FindByID(ctx, recordID)
	require.NoError(t, err)
	require.NotNil(t, r.BelowThresholdSince)
	expired := r.BelowThresholdSince.Add(-zakat.InterruptionGrace - time.Hour)
	r.BelowThresholdSince = &expired
	records.put(r)

	interrupted, err := svc.EvaluateOwner(ctx, ownerID, EvaluationRequest{MethodologyID: "standard"})
	require.NoError(t, err)
	require.NotNil(t, interrupted.Record)
	assert.Equal(t, "INTERRUPTED", interrupted.Record.Status)

	// The interrupted cycle still occupies the single-cycle slot. Wealth
	// recovering does not start a fresh draft behind it.
	assets.set(ownerID, cashAsset(t, ownerID, 10000))
	_, err = svc.EvaluateOwner(ctx, ownerID, EvaluationRequest{MethodologyID: "standard"})
	assert.True(t, shared.IsDomainErrorCode(err, shared.ErrCodeActiveHawlAlreadyExists))
	_, err = svc.StartCycle(ctx, ownerID, EvaluationRequest{MethodologyID: "standard"})
	assert.True(t, shared.IsDomainErrorCode(err, shared.ErrCodeActiveHawlAlreadyExists))

	all, err := records.FindAllForOwner(ctx, ownerID, shared.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 1)

	// Deleting the interrupted record frees the slot for a new cycle.
	require.NoError(t, svc.Delete(ctx, ownerID, recordID))
	fresh, err := svc.EvaluateOwner(ctx, ownerID, EvaluationRequest{MethodologyID: "standard"})
	require.NoError(t, err)
	require.NotNil(t, fresh.Record)
	assert.Equal(t, "DRAFT", fresh.Record.Status)
	assert.NotEqual(t, recordID, fresh.Record.ID)
}

func TestService_FinalizeFlow(t *testing.T) {
	ctx := context.Background()

	// A record whose Hawl started long enough ago to be complete.
	seedMature := func(t *testing.T, svc *Service, records *fakeRecordRepo, assets *fakeAssetRepo) (uuid.UUID, uuid.UUID) {
		ownerID := uuid.New()
		assets.set(ownerID, cashAsset(t, ownerID, 10000))
		resp, err := svc.EvaluateOwner(ctx, ownerID, EvaluationRequest{MethodologyID: "standard"})
		require.NoError(t, err)
		require.NotNil(t, resp.Record)

		r, err := records.FindByID(ctx, resp.Record.ID)
		require.NoError(t, err)
		r.HawlStartAt = r.HawlStartAt.Add(-360 * 24 * time.Hour)
		r.HawlDueAt = r.HawlDueAt.Add(-360 * 24 * time.Hour)
		records.put(r)
		return ownerID, r.ID
	}

	t.Run("finalize before the due date is rejected", func(t *testing.T) {
		svc, _, assets := newTestService(t)
		ownerID := uuid.New()
		assets.set(ownerID, cashAsset(t, ownerID, 10000))
		resp, err := svc.EvaluateOwner(ctx, ownerID, EvaluationRequest{MethodologyID: "standard"})
		require.NoError(t, err)

		_, err = svc.Confirm(ctx, ownerID, resp.Record.ID)
		require.NoError(t, err)
		_, err = svc.Finalize(ctx, ownerID, resp.Record.ID, FinalizeRequest{})
		assert.True(t, shared.IsDomainErrorCode(err, shared.ErrCodeHawlNotComplete))
	})

	t.Run("full lifecycle with unlock and refinalize", func(t *testing.T) {
		svc, records, assets := newTestService(t)
		ownerID, recordID := seedMature(t, svc, records, assets)

		_, err := svc.Confirm(ctx, ownerID, recordID)
		require.NoError(t, err)

		finalized, err := svc.Finalize(ctx, ownerID, recordID, FinalizeRequest{})
		require.NoError(t, err)
		assert.Equal(t, "FINALIZED", finalized.Status)
		assert.True(t, finalized.Obligation.ZakatAmount.Equal(decimal.RequireFromString("250")))

		_, err = svc.Unlock(ctx, ownerID, recordID, UnlockRequest{Reason: "short"})
		assert.True(t, shared.IsDomainErrorCode(err, shared.ErrCodeInvalidUnlockReason))

		unlocked, err := svc.Unlock(ctx, ownerID, recordID, UnlockRequest{Reason: "Missed a brokerage account"})
		require.NoError(t, err)
		assert.Equal(t, "UNLOCKED", unlocked.Status)

		updated, err := svc.UpdateUnlocked(ctx, ownerID, recordID, UpdateUnlockedRequest{
			NetWealth: decimal.NewFromInt(12000),
		})
		require.NoError(t, err)
		assert.True(t, updated.Obligation.ZakatAmount.Equal(decimal.RequireFromString("300")))

		relocked, err := svc.Refinalize(ctx, ownerID, recordID)
		require.NoError(t, err)
		assert.Equal(t, "FINALIZED", relocked.Status)
		require.Len(t, relocked.AuditTrail, 3)
		assert.Equal(t, "UNLOCK", relocked.AuditTrail[0].Action)
		assert.Equal(t, "EDIT", relocked.AuditTrail[1].Action)
		assert.Equal(t, "RELOCK", relocked.AuditTrail[2].Action)

		err = svc.Delete(ctx, ownerID, recordID)
		assert.True(t, shared.IsDomainErrorCode(err, shared.ErrCodeImmutableRecord))
	})

	t.Run("finalize seals the wealth standing at seal time", func(t *testing.T) {
		svc, records, assets := newTestService(t)
		ownerID, recordID := seedMature(t, svc, records, assets)
		_, err := svc.Confirm(ctx, ownerID, recordID)
		require.NoError(t, err)

		// Wealth grows after the last recalculation; the sealed figures
		// must reflect the holdings at seal time, not the stale ones.
		assets.set(ownerID,
			cashAsset(t, ownerID, 10000),
			cashAsset(t, ownerID, 90000),
		)

		finalized, err := svc.Finalize(ctx, ownerID, recordID, FinalizeRequest{})
		require.NoError(t, err)
		assert.Equal(t, "FINALIZED", finalized.Status)
		assert.True(t, finalized.Obligation.NetWealth.Equal(decimal.NewFromInt(100000)))
		assert.True(t, finalized.Obligation.ZakatAmount.Equal(decimal.RequireFromString("2500")))
	})

	t.Run("updating a locked record is rejected", func(t *testing.T) {
		svc, records, assets := newTestService(t)
		ownerID, recordID := seedMature(t, svc, records, assets)
		_, err := svc.Confirm(ctx, ownerID, recordID)
		require.NoError(t, err)
		_, err = svc.Finalize(ctx, ownerID, recordID, FinalizeRequest{})
		require.NoError(t, err)

		_, err = svc.UpdateUnlocked(ctx, ownerID, recordID, UpdateUnlockedRequest{NetWealth: decimal.NewFromInt(1)})
		assert.True(t, shared.IsDomainErrorCode(err, shared.ErrCodeImmutableRecord))
	})
}

func TestService_RecalculateLive(t *testing.T) {
	ctx := context.Background()

	t.Run("is idempotent for unchanged inputs", func(t *testing.T) {
		svc, _, assets := newTestService(t)
		ownerID := uuid.New()
		assets.set(ownerID, cashAsset(t, ownerID, 10000))

		_, err := svc.EvaluateOwner(ctx, ownerID, EvaluationRequest{MethodologyID: "standard"})
		require.NoError(t, err)

		first, err := svc.RecalculateLive(ctx, ownerID, RecalculateRequest{})
		require.NoError(t, err)
		second, err := svc.RecalculateLive(ctx, ownerID, RecalculateRequest{})
		require.NoError(t, err)

		assert.True(t, first.Obligation.NetWealth.Equal(second.Obligation.NetWealth))
		assert.True(t, first.Obligation.ZakatAmount.Equal(second.Obligation.ZakatAmount))
		assert.Equal(t, first.Status, second.Status)
	})

	t.Run("picks up changed asset values against the locked threshold", func(t *testing.T) {
		svc, _, assets := newTestService(t)
		ownerID := uuid.New()
		assets.set(ownerID, cashAsset(t, ownerID, 10000))

		_, err := svc.EvaluateOwner(ctx, ownerID, EvaluationRequest{MethodologyID: "standard"})
		require.NoError(t, err)

		assets.set(ownerID, cashAsset(t, ownerID, 20000))
		resp, err := svc.RecalculateLive(ctx, ownerID, RecalculateRequest{})
		require.NoError(t, err)
		assert.True(t, resp.Obligation.NetWealth.Equal(decimal.NewFromInt(20000)))
	})

	t.Run("without an open cycle", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, err := svc.RecalculateLive(ctx, uuid.New(), RecalculateRequest{})
		assert.True(t, shared.IsDomainErrorCode(err, shared.ErrCodeRecordNotFound))
	})
}

func TestService_SweepDue(t *testing.T) {
	ctx := context.Background()
	svc, records, assets := newTestService(t)

	// One owner whose wealth dipped below threshold past the grace window.
	dippedOwner := uuid.New()
	assets.set(dippedOwner, cashAsset(t, dippedOwner, 10000))
	resp, err := svc.EvaluateOwner(ctx, dippedOwner, EvaluationRequest{MethodologyID: "standard"})
	require.NoError(t, err)
	r, err := records.FindByID(ctx, resp.Record.ID)
	require.NoError(t, err)
	dippedAt := time.Now().Add(-zakat.InterruptionGrace - time.Hour)
	r.BelowThresholdSince = &dippedAt
	records.put(r)
	assets.set(dippedOwner, cashAsset(t, dippedOwner, 100))

	// One owner still healthy and not yet due; the sweep skips it.
	healthyOwner := uuid.New()
	assets.set(healthyOwner, cashAsset(t, healthyOwner, 10000))
	_, err = svc.EvaluateOwner(ctx, healthyOwner, EvaluationRequest{MethodologyID: "standard"})
	require.NoError(t, err)

	swept, err := svc.SweepDue(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, swept)

	r, err = records.FindByID(ctx, resp.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, zakat.StatusInterrupted, r.Status)
}

func TestService_DeleteAndQueries(t *testing.T) {
	ctx := context.Background()
	svc, _, assets := newTestService(t)
	ownerID := uuid.New()
	assets.set(ownerID, cashAsset(t, ownerID, 10000))

	resp, err := svc.EvaluateOwner(ctx, ownerID, EvaluationRequest{MethodologyID: "standard"})
	require.NoError(t, err)
	recordID := resp.Record.ID

	current, err := svc.GetCurrent(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, recordID, current.ID)

	byID, err := svc.GetByID(ctx, ownerID, recordID)
	require.NoError(t, err)
	assert.Equal(t, recordID, byID.ID)

	_, err = svc.GetByID(ctx, uuid.New(), recordID)
	assert.True(t, shared.IsDomainErrorCode(err, shared.ErrCodeRecordNotFound))

	history, err := svc.ListHistory(ctx, ownerID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Len(t, history.Items, 1)

	require.NoError(t, svc.Delete(ctx, ownerID, recordID))
	_, err = svc.GetCurrent(ctx, ownerID)
	assert.True(t, shared.IsDomainErrorCode(err, shared.ErrCodeRecordNotFound))
}

func TestService_PreviewThreshold(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	preview, err := svc.PreviewThreshold(ctx, "standard", nil)
	require.NoError(t, err)
	assert.Equal(t, "SILVER", preview.BasisMetal)

	basis := "GOLD"
	preview, err = svc.PreviewThreshold(ctx, "custom", &basis)
	require.NoError(t, err)
	assert.Equal(t, "GOLD", preview.BasisMetal)
}

func TestService_ConcurrentEvaluationsStartOneCycle(t *testing.T) {
	ctx := context.Background()
	svc, records, assets := newTestService(t)
	ownerID := uuid.New()
	assets.set(ownerID, cashAsset(t, ownerID, 10000))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.EvaluateOwner(ctx, ownerID, EvaluationRequest{MethodologyID: "standard"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := records.FindAllForOwner(ctx, ownerID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
