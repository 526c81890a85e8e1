package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/redis/go-redis/v9"
)

// Balances do not fit Lua's double-precision numbers at 10^18 scale, so the
// Redis ledger uses WATCH/MULTI optimistic transactions with big.Int
// arithmetic on the Go side instead of server-side scripts.
const redisTxRetries = 16

// ErrTxContention is returned when an optimistic transaction loses the WATCH
// race more than redisTxRetries times in a row.
var ErrTxContention = errors.New("ledger transaction contention")

// RedisLedger is a [Ledger] backed by Redis. Balances and allowances are
// stored as decimal strings under "<prefix>:bal:<account>" and
// "<prefix>:alw:<owner>:<spender>".
type RedisLedger struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisLedger creates a [RedisLedger] with the given key prefix. An empty
// prefix defaults to "tl".
func NewRedisLedger(client redis.UniversalClient, prefix string) *RedisLedger {
	if prefix == "" {
		prefix = "tl"
	}
	return &RedisLedger{
		client: client,
		prefix: prefix,
	}
}

func (l *RedisLedger) balanceKey(account string) string {
	return fmt.Sprintf("%s:bal:%s", l.prefix, account)
}

func (l *RedisLedger) allowanceKey(owner, spender string) string {
	return fmt.Sprintf("%s:alw:%s:%s", l.prefix, owner, spender)
}

// BalanceOf describes the balanceof operation and its observable behavior.
func (l *RedisLedger) BalanceOf(ctx context.Context, account string) (*big.Int, error) {
	if err := validAccount(account); err != nil {
		return nil, err
	}

	raw, err := l.client.Get(ctx, l.balanceKey(account)).Result()
	if errors.Is(err, redis.Nil) {
		return new(big.Int), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return parseAmount(raw)
}

// Allowance describes the allowance operation and its observable behavior.
func (l *RedisLedger) Allowance(ctx context.Context, owner, spender string) (*big.Int, error) {
	if err := validAccount(owner); err != nil {
		return nil, err
	}
	if err := validAccount(spender); err != nil {
		return nil, err
	}

	raw, err := l.client.Get(ctx, l.allowanceKey(owner, spender)).Result()
	if errors.Is(err, redis.Nil) {
		return new(big.Int), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return parseAmount(raw)
}

// Approve describes the approve operation and its observable behavior.
func (l *RedisLedger) Approve(ctx context.Context, owner, spender string, amount *big.Int) error {
	if err := validAccount(owner); err != nil {
		return err
	}
	if err := validAccount(spender); err != nil {
		return err
	}
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}

	if err := l.client.Set(ctx, l.allowanceKey(owner, spender), amount.String(), 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Mint credits amount to an account. See [MemoryLedger.Mint].
func (l *RedisLedger) Mint(ctx context.Context, to string, amount *big.Int) error {
	if err := validAccount(to); err != nil {
		return err
	}
	if err := validAmount(amount); err != nil {
		return err
	}

	key := l.balanceKey(to)
	return l.transact(ctx, []string{key}, func(tx *redis.Tx) (map[string]string, error) {
		balance, err := readAmount(ctx, tx, key)
		if err != nil {
			return nil, err
		}
		balance.Add(balance, amount)
		return map[string]string{key: balance.String()}, nil
	})
}

// Transfer describes the transfer operation and its observable behavior.
func (l *RedisLedger) Transfer(ctx context.Context, from, to string, amount *big.Int) error {
	if err := validAccount(from); err != nil {
		return err
	}
	if err := validAccount(to); err != nil {
		return err
	}
	if err := validAmount(amount); err != nil {
		return err
	}

	return l.TransferBatch(ctx, []Entry{{From: from, To: to, Amount: amount}})
}

// TransferFrom describes the transferfrom operation and its observable behavior.
func (l *RedisLedger) TransferFrom(ctx context.Context, spender, from, to string, amount *big.Int) error {
	if err := validAccount(spender); err != nil {
		return err
	}
	if err := validAccount(from); err != nil {
		return err
	}
	if err := validAccount(to); err != nil {
		return err
	}
	if err := validAmount(amount); err != nil {
		return err
	}

	alwKey := l.allowanceKey(from, spender)
	fromKey := l.balanceKey(from)
	toKey := l.balanceKey(to)

	return l.transact(ctx, []string{alwKey, fromKey, toKey}, func(tx *redis.Tx) (map[string]string, error) {
		allowance, err := readAmount(ctx, tx, alwKey)
		if err != nil {
			return nil, err
		}
		if allowance.Cmp(amount) < 0 {
			return nil, ErrInsufficientAllowance
		}

		fromBal, err := readAmount(ctx, tx, fromKey)
		if err != nil {
			return nil, err
		}
		if fromBal.Cmp(amount) < 0 {
			return nil, ErrInsufficientFunds
		}

		toBal, err := readAmount(ctx, tx, toKey)
		if err != nil {
			return nil, err
		}

		allowance.Sub(allowance, amount)
		fromBal.Sub(fromBal, amount)
		toBal.Add(toBal, amount)

		return map[string]string{
			alwKey:  allowance.String(),
			fromKey: fromBal.String(),
			toKey:   toBal.String(),
		}, nil
	})
}

// TransferBatch describes the transferbatch operation and its observable behavior.
func (l *RedisLedger) TransferBatch(ctx context.Context, entries []Entry) error {
	if err := validEntries(entries); err != nil {
		return err
	}

	deltas := make(map[string]*big.Int, len(entries)*2)
	delta := func(account string) *big.Int {
		d, ok := deltas[account]
		if !ok {
			d = new(big.Int)
			deltas[account] = d
		}
		return d
	}
	for _, e := range entries {
		delta(e.From).Sub(delta(e.From), e.Amount)
		delta(e.To).Add(delta(e.To), e.Amount)
	}

	keys := make([]string, 0, len(deltas))
	for account := range deltas {
		keys = append(keys, l.balanceKey(account))
	}
	sort.Strings(keys)

	return l.transact(ctx, keys, func(tx *redis.Tx) (map[string]string, error) {
		writes := make(map[string]string, len(deltas))
		for account, d := range deltas {
			key := l.balanceKey(account)
			balance, err := readAmount(ctx, tx, key)
			if err != nil {
				return nil, err
			}
			balance.Add(balance, d)
			if balance.Sign() < 0 {
				return nil, ErrInsufficientFunds
			}
			writes[key] = balance.String()
		}
		return writes, nil
	})
}

// transact runs compute under WATCH of keys and commits its writes in a
// MULTI/EXEC block, retrying on WATCH races.
func (l *RedisLedger) transact(
	ctx context.Context,
	keys []string,
	compute func(tx *redis.Tx) (map[string]string, error),
) error {
	txFn := func(tx *redis.Tx) error {
		writes, err := compute(tx)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for key, value := range writes {
				pipe.Set(ctx, key, value, 0)
			}
			return nil
		})
		return err
	}

	for attempt := 0; attempt < redisTxRetries; attempt++ {
		err := l.client.Watch(ctx, txFn, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err == nil ||
			errors.Is(err, ErrInsufficientFunds) ||
			errors.Is(err, ErrInsufficientAllowance) ||
			errors.Is(err, ErrInvalidAmount) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return ErrTxContention
}

func readAmount(ctx context.Context, tx *redis.Tx, key string) (*big.Int, error) {
	raw, err := tx.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return new(big.Int), nil
	}
	if err != nil {
		return nil, err
	}
	return parseAmount(raw)
}

func parseAmount(raw string) (*big.Int, error) {
	value, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, fmt.Errorf("%w: corrupt amount %q", ErrUnavailable, raw)
	}
	return value, nil
}
