package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"ilInsurance/internal/model"
)

const ownerHex = "0x1111111111111111111111111111111111111111"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestDemoCommandJSON(t *testing.T) {
	out, err := execute(t, "demo", "--format", "json", "--log-level", "error")
	if err != nil {
		t.Fatalf("demo: %v\n%s", err, out)
	}

	dec := json.NewDecoder(strings.NewReader(out))
	var report quoteReport
	if err := dec.Decode(&report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.ILPct != "50.000000" || report.PayoutUSD != "320.000000" {
		t.Fatalf("demo report mismatch: %+v", report)
	}
	if report.MaxPayoutUSD != "320.000000" {
		t.Fatalf("max payout mismatch: %s", report.MaxPayoutUSD)
	}

	var claims []model.ClaimRecord
	if err := dec.Decode(&claims); err != nil {
		t.Fatalf("decode claims: %v", err)
	}
	if len(claims) != 1 || claims[0].PayoutUSD != "320000000000000000000" {
		t.Fatalf("demo claim mismatch: %+v", claims)
	}
}

func TestPersistedWorkflow(t *testing.T) {
	dir := t.TempDir()
	common := []string{
		"--state-file", filepath.Join(dir, "contract.json"),
		"--claims-out", filepath.Join(dir, "claims.jsonl"),
		"--log-level", "error",
	}
	run := func(args ...string) string {
		t.Helper()
		out, err := execute(t, append(args, common...)...)
		if err != nil {
			t.Fatalf("%v: %v\n%s", args, err, out)
		}
		return out
	}

	run("init", "--caller", ownerHex)
	run("update", "pool", "--caller", ownerHex, "--reserve-a", "500", "--reserve-b", "1000000", "--total-supply", "1000000")
	run("update", "prices", "--caller", ownerHex, "--price-a", "2000", "--price-b", "1")
	run("update", "position", "--caller", ownerHex, "--lp-amount", "1000", "--original-a", "1", "--original-b", "2000")

	out := run("quote", "--format", "json")
	var report quoteReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode quote: %v\n%s", err, out)
	}
	if report.PayoutUSD != "320.000000" || report.Version != 4 {
		t.Fatalf("quote mismatch: %+v", report)
	}

	run("claim", "--caller", "0x2222222222222222222222222222222222222222")
	out = run("claims", "--format", "json")
	var claims []model.ClaimRecord
	if err := json.Unmarshal([]byte(out), &claims); err != nil {
		t.Fatalf("decode claims: %v\n%s", err, out)
	}
	if len(claims) != 1 || claims[0].SnapshotVersion != 4 {
		t.Fatalf("claims mismatch: %+v", claims)
	}

	table := run("quote")
	if !strings.Contains(table, "320.000000") {
		t.Fatalf("table output missing payout:\n%s", table)
	}
}

func TestUpdateRejectsNonOwner(t *testing.T) {
	dir := t.TempDir()
	state := filepath.Join(dir, "contract.json")
	if out, err := execute(t, "init", "--caller", ownerHex, "--state-file", state, "--log-level", "error"); err != nil {
		t.Fatalf("init: %v\n%s", err, out)
	}
	_, err := execute(t, "update", "prices", "--caller", "0x2222222222222222222222222222222222222222",
		"--price-a", "1", "--state-file", state, "--log-level", "error")
	if err == nil {
		t.Fatalf("expected unauthorized error")
	}
}
