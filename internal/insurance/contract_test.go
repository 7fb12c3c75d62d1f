package insurance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"ilInsurance/internal/fixedpoint"
	"ilInsurance/internal/model"
)

var (
	owner    = common.HexToAddress("0x1111111111111111111111111111111111111111")
	stranger = common.HexToAddress("0x2222222222222222222222222222222222222222")
)

type memorySink struct {
	mu     sync.Mutex
	claims []model.ClaimRecord
	err    error
}

func (s *memorySink) PutClaims(_ context.Context, claims []model.ClaimRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.claims = append(s.claims, claims...)
	return nil
}

func fixedNow() time.Time {
	return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
}

func demoContract(t *testing.T, sink *memorySink) *Contract {
	t.Helper()
	opts := Options{Now: fixedNow}
	if sink != nil {
		opts.Sink = sink
	}
	c := New(opts)
	if err := c.Initialize(owner, DemoPolicy); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := c.SetupDemo(owner); err != nil {
		t.Fatalf("setup demo: %v", err)
	}
	return c
}

func TestInitializeOnce(t *testing.T) {
	c := New(Options{})
	if c.IsInitialized() {
		t.Fatalf("new contract should be uninitialized")
	}
	if err := c.Initialize(owner, DemoPolicy); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if !c.IsInitialized() || c.Owner() != owner {
		t.Fatalf("owner not recorded")
	}
	if got := c.Policy(); got != DemoPolicy {
		t.Fatalf("policy mismatch: %+v", got)
	}
	if err := c.Initialize(stranger, DemoPolicy); !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("expected ErrAlreadyInitialized, got %v", err)
	}
	if c.Owner() != owner {
		t.Fatalf("owner changed by second initialize")
	}
}

func TestInitializeRejectsInvalidPolicy(t *testing.T) {
	c := New(Options{})
	err := c.Initialize(owner, model.PolicyBps{ThresholdBps: 2000, CapBps: 2000, PayoutRatioBps: 8000})
	if !errors.Is(err, model.ErrInvalidPolicy) {
		t.Fatalf("expected ErrInvalidPolicy, got %v", err)
	}
	if c.IsInitialized() {
		t.Fatalf("invalid policy must not initialize")
	}
}

func TestWritesRequireInitialization(t *testing.T) {
	c := New(Options{})
	if err := c.SetupDemo(owner); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	if _, err := c.Claim(context.Background(), owner); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized on claim, got %v", err)
	}
}

func TestWritesRequireOwner(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	c := New(Options{Logger: zap.New(core)})
	if err := c.Initialize(owner, DemoPolicy); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	before := c.Snapshot()

	pool, position, prices := DemoState()
	writes := map[string]error{
		"policy":   c.UpdatePolicy(stranger, DemoPolicy),
		"pool":     c.UpdatePoolState(stranger, pool),
		"prices":   c.UpdatePrices(stranger, prices),
		"position": c.UpdatePosition(stranger, position),
		"demo":     c.SetupDemo(stranger),
	}
	for name, err := range writes {
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("%s: expected ErrUnauthorized, got %v", name, err)
		}
	}
	if after := c.Snapshot(); after.Version != before.Version {
		t.Fatalf("unauthorized writes changed version %d -> %d", before.Version, after.Version)
	}
	if logs.FilterMessage("unauthorized write").Len() != len(writes) {
		t.Fatalf("expected every rejected write to be logged")
	}
}

func TestWritesBumpVersion(t *testing.T) {
	c := demoContract(t, nil)
	v := c.Snapshot().Version

	prices := c.Prices()
	prices.PriceA = *fixedpoint.FromUnits(1500)
	if err := c.UpdatePrices(owner, prices); err != nil {
		t.Fatalf("update prices: %v", err)
	}
	if got := c.Snapshot().Version; got != v+1 {
		t.Fatalf("expected version %d, got %d", v+1, got)
	}
	if p := c.Prices(); !p.PriceA.Eq(fixedpoint.FromUnits(1500)) {
		t.Fatalf("price not stored")
	}
}

func TestUpdatePolicyValidates(t *testing.T) {
	c := demoContract(t, nil)
	bad := model.PolicyBps{ThresholdBps: 1000, CapBps: 2000, PayoutRatioBps: 10_001}
	if err := c.UpdatePolicy(owner, bad); !errors.Is(err, model.ErrInvalidPolicy) {
		t.Fatalf("expected ErrInvalidPolicy, got %v", err)
	}
	if c.Policy() != DemoPolicy {
		t.Fatalf("policy changed by rejected update")
	}

	next := model.PolicyBps{ThresholdBps: 500, CapBps: 10_000, PayoutRatioBps: 10_000}
	if err := c.UpdatePolicy(owner, next); err != nil {
		t.Fatalf("update policy: %v", err)
	}
	if c.Policy() != next {
		t.Fatalf("policy not stored")
	}
	if s := c.Snapshot(); !s.Policy.Cap.Eq(fixedpoint.Scale()) {
		t.Fatalf("scaled policy not refreshed")
	}
}

func TestInconsistentWriteRejected(t *testing.T) {
	c := demoContract(t, nil)
	before := c.Snapshot()

	position := c.Position()
	position.LPAmount = *fixedpoint.FromUnits(2_000_000)
	if err := c.UpdatePosition(owner, position); !errors.Is(err, model.ErrInconsistentSnapshot) {
		t.Fatalf("expected ErrInconsistentSnapshot, got %v", err)
	}

	pool := c.PoolState()
	pool.TotalSupply = *fixedpoint.FromUnits(10)
	if err := c.UpdatePoolState(owner, pool); !errors.Is(err, model.ErrInconsistentSnapshot) {
		t.Fatalf("expected ErrInconsistentSnapshot, got %v", err)
	}

	after := c.Snapshot()
	if after.Version != before.Version || !after.Position.LPAmount.Eq(&before.Position.LPAmount) {
		t.Fatalf("rejected writes must leave state untouched")
	}
}

func TestSetupDemoLoadsScenario(t *testing.T) {
	c := New(Options{})
	if err := c.Initialize(owner, DemoPolicy); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := c.SetupDemo(owner); err != nil {
		t.Fatalf("setup demo: %v", err)
	}

	pool, position, prices := DemoState()
	s := c.Snapshot()
	if s.Version != 2 {
		t.Fatalf("expected version 2, got %d", s.Version)
	}
	if s.Pool != pool {
		t.Fatalf("pool not stored: %+v", s.Pool)
	}
	if s.Position != position {
		t.Fatalf("position not stored: %+v", s.Position)
	}
	if s.Prices != prices {
		t.Fatalf("prices not stored: %+v", s.Prices)
	}
}

func TestPolicySnapshotConsistent(t *testing.T) {
	c := demoContract(t, nil)
	next := model.PolicyBps{ThresholdBps: 500, CapBps: 3000, PayoutRatioBps: 5000}
	if err := c.UpdatePolicy(owner, next); err != nil {
		t.Fatalf("update policy: %v", err)
	}

	s, bps := c.PolicySnapshot()
	if bps != next {
		t.Fatalf("policy mismatch: %+v", bps)
	}
	if s.Policy != next.Scaled() {
		t.Fatalf("snapshot policy does not match bps policy")
	}
}

func TestDemoViews(t *testing.T) {
	c := demoContract(t, nil)

	if got := fixedpoint.FormatPercent(c.UserShare(), 2); got != "0.10" {
		t.Fatalf("share mismatch: %s", got)
	}
	if got := fixedpoint.Format(c.LPValue(), 6); got != "2000.000000" {
		t.Fatalf("lp value mismatch: %s", got)
	}
	if got := fixedpoint.Format(c.HoldingValue(), 6); got != "4000.000000" {
		t.Fatalf("holding value mismatch: %s", got)
	}
	if got := fixedpoint.FormatPercent(c.IL(), 2); got != "50.00" {
		t.Fatalf("il mismatch: %s", got)
	}
	if got := fixedpoint.Format(c.Payout(), 6); got != "320.000000" {
		t.Fatalf("payout mismatch: %s", got)
	}
}

func TestClaimRecordsPayout(t *testing.T) {
	sink := &memorySink{}
	c := demoContract(t, sink)

	rec, err := c.Claim(context.Background(), stranger)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if rec.ID == "" || rec.Claimant != stranger.Hex() {
		t.Fatalf("claim identity mismatch: %+v", rec)
	}
	if rec.PayoutUSD != fixedpoint.RawString(fixedpoint.FromUnits(320)) {
		t.Fatalf("payout mismatch: %s", rec.PayoutUSD)
	}
	if rec.SnapshotVersion != c.Snapshot().Version {
		t.Fatalf("snapshot version mismatch: %d", rec.SnapshotVersion)
	}
	if rec.CreatedAt != "2024-05-01T12:00:00Z" {
		t.Fatalf("created_at mismatch: %s", rec.CreatedAt)
	}
	if len(sink.claims) != 1 || sink.claims[0] != rec {
		t.Fatalf("sink should hold the claim: %+v", sink.claims)
	}
}

func TestClaimWithoutPayoutNotRecorded(t *testing.T) {
	sink := &memorySink{}
	c := demoContract(t, sink)

	position := c.Position()
	position.OriginalA.Clear()
	if err := c.UpdatePosition(owner, position); err != nil {
		t.Fatalf("update position: %v", err)
	}

	rec, err := c.Claim(context.Background(), owner)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if rec.PayoutUSD != "0" {
		t.Fatalf("expected zero payout, got %s", rec.PayoutUSD)
	}
	if len(sink.claims) != 0 {
		t.Fatalf("zero payout must not reach the sink")
	}
}

func TestClaimSinkError(t *testing.T) {
	sink := &memorySink{err: errors.New("disk full")}
	c := demoContract(t, sink)
	if _, err := c.Claim(context.Background(), owner); err == nil {
		t.Fatalf("expected sink error")
	}
}

func TestExportRestore(t *testing.T) {
	c := demoContract(t, nil)
	exported := c.Export()
	if !exported.Initialized || exported.Owner != owner.Hex() {
		t.Fatalf("export identity mismatch: %+v", exported)
	}

	restored := New(Options{})
	if err := restored.Restore(exported); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.Export() != exported {
		t.Fatalf("restored state differs")
	}
	if got := fixedpoint.Format(restored.Payout(), 6); got != "320.000000" {
		t.Fatalf("payout after restore: %s", got)
	}
	if err := restored.UpdatePrices(stranger, restored.Prices()); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("restored owner should gate writes, got %v", err)
	}
}

func TestRestoreRejectsBadState(t *testing.T) {
	base := demoContract(t, nil).Export()

	cases := map[string]func(*model.ContractState){
		"owner":  func(s *model.ContractState) { s.Owner = "nope" },
		"policy": func(s *model.ContractState) { s.Policy.CapBps = 20_000 },
		"amount": func(s *model.ContractState) { s.PriceA = "12.5" },
		"supply": func(s *model.ContractState) { s.TotalSupply = "1" },
	}
	for name, mutate := range cases {
		st := base
		mutate(&st)
		if err := New(Options{}).Restore(st); err == nil {
			t.Fatalf("%s: expected restore error", name)
		}
	}
}

func TestConcurrentReadsDuringWrites(t *testing.T) {
	c := demoContract(t, nil)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := uint64(1); i <= 200; i++ {
			prices := c.Prices()
			prices.PriceA = *fixedpoint.FromUnits(1000 + i)
			if err := c.UpdatePrices(owner, prices); err != nil {
				t.Errorf("update prices: %v", err)
				return
			}
		}
	}()
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				q := c.Quote()
				if q.IL.Gt(fixedpoint.Scale()) {
					t.Errorf("il out of range")
					return
				}
			}
		}()
	}
	wg.Wait()
}
