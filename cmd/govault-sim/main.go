package main

import (
	"context"
	"flag"
	"fmt"
	"math/big"
	"os"
	"sort"
	"time"

	"github.com/MrEthical07/goVault"
	"github.com/MrEthical07/goVault/ledger"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func main() {
	var (
		depositors = flag.Int("depositors", 1000, "number of depositor accounts to seed")
		deposits   = flag.Int("deposits", 10000, "deposit operations to run")
		withdraws  = flag.Int("withdraws", 10000, "withdraw operations to run")
		feeBps     = flag.Uint("fee-bps", 100, "withdrawal fee in basis points")
		redisAddr  = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix     = flag.String("prefix", "tl", "ledger key prefix")
	)
	flag.Parse()

	if *depositors <= 0 || *deposits <= 0 || *withdraws <= 0 {
		fmt.Fprintln(os.Stderr, "depositors, deposits, and withdraws must be > 0")
		os.Exit(2)
	}
	if *feeBps > uint(goVault.MaxFeeBasisPoints) {
		fmt.Fprintf(os.Stderr, "fee-bps must not exceed %d\n", goVault.MaxFeeBasisPoints)
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	tokens := ledger.NewRedisLedger(client, *prefix)

	cfg := goVault.Config{}
	cfg.Vault.Name = "sim"
	cfg.Vault.FeeCollector = "treasury"
	cfg.Vault.FeeBasisPoints = uint16(*feeBps)
	cfg.Vault.WithdrawalLimit = new(big.Int).Lsh(big.NewInt(1), 96)
	cfg.Vault.WithdrawalTimelock = 0
	cfg.Audit.Enabled = true
	cfg.Audit.BufferSize = 4096
	cfg.Audit.DropIfFull = true
	cfg.Metrics.Enabled = true
	cfg.Metrics.EnableLatencyHistograms = true

	vault, err := goVault.New().
		WithConfig(cfg).
		WithOwner("owner").
		WithLedger(tokens).
		WithAuditSink(goVault.NoOpSink{}).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build failed: %v\n", err)
		os.Exit(1)
	}
	defer vault.Close()

	seed := new(big.Int).Exp(big.NewInt(10), big.NewInt(21), nil)
	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

	fmt.Printf("seeding %d depositors...\n", *depositors)
	startSeed := time.Now()
	accounts := make([]string, *depositors)
	for i := range accounts {
		accounts[i] = fmt.Sprintf("acct-%d", i)
		if err := tokens.Mint(ctx, accounts[i], seed); err != nil {
			fmt.Fprintf(os.Stderr, "mint failed: %v\n", err)
			os.Exit(1)
		}
		if err := tokens.Approve(ctx, accounts[i], vault.Account(), seed); err != nil {
			fmt.Fprintf(os.Stderr, "approve failed: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	depositStats := runPhase("deposit", *deposits, func(i int) error {
		return vault.Deposit(ctx, accounts[i%len(accounts)], unit)
	})
	withdrawStats := runPhase("withdraw", *withdraws, func(i int) error {
		return vault.Withdraw(ctx, accounts[i%len(accounts)], unit)
	})

	fmt.Println("---- results ----")
	printStats("deposit", depositStats)
	printStats("withdraw", withdrawStats)

	info := vault.Info()
	balance, err := vault.VaultBalance(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vault balance: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("custodied total: %s, external balance: %s\n", info.TotalDeposited, balance)
	fmt.Printf("audit events dropped: %d\n", vault.AuditDropped())

	snap := vault.MetricsSnapshot()
	fmt.Printf("deposit ok/fail: %d/%d, withdraw ok/fail: %d/%d\n",
		snap.Counters[goVault.MetricDepositSuccess],
		snap.Counters[goVault.MetricDepositFailure],
		snap.Counters[goVault.MetricWithdrawSuccess],
		snap.Counters[goVault.MetricWithdrawFailure],
	)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

// runPhase drives operations sequentially. Vault mutations are serialized by
// the call-scoped guard, so a concurrent driver would only measure guard
// rejections.
func runPhase(name string, ops int, do func(i int) error) phaseStats {
	fmt.Printf("running %d %s ops...\n", ops, name)

	latencies := make([]time.Duration, 0, ops)
	failures := 0

	start := time.Now()
	for i := 0; i < ops; i++ {
		t0 := time.Now()
		err := do(i)
		latencies = append(latencies, time.Since(t0))
		if err != nil {
			failures++
		}
	}
	return computeStats(time.Since(start), latencies, failures)
}

func computeStats(total time.Duration, samples []time.Duration, failures int) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      samples[len(samples)/2],
		p95:      samples[len(samples)*95/100],
		p99:      samples[len(samples)*99/100],
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: %d ops in %s (%.0f ops/s), failures=%d, p50=%s p95=%s p99=%s\n",
		name, s.ops, s.total.Round(time.Millisecond), s.opsPerS, s.failures,
		s.p50, s.p95, s.p99,
	)
}
