package ledger

import (
	"context"
	"math/big"
	"sync"
)

// MemoryLedger is an in-process [Ledger] guarded by a single mutex. It is the
// reference implementation used by the package tests and by single-process
// deployments that do not share balances across boxes.
type MemoryLedger struct {
	mu         sync.Mutex
	balances   map[string]*big.Int
	allowances map[string]map[string]*big.Int
}

// NewMemoryLedger creates an empty [MemoryLedger].
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		balances:   make(map[string]*big.Int),
		allowances: make(map[string]map[string]*big.Int),
	}
}

// Mint credits amount to an account out of thin air. Minting is a property of
// the token ledger, not of any vault; it exists here for seeding balances.
func (l *MemoryLedger) Mint(_ context.Context, to string, amount *big.Int) error {
	if err := validAccount(to); err != nil {
		return err
	}
	if err := validAmount(amount); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.credit(to, amount)
	return nil
}

// BalanceOf describes the balanceof operation and its observable behavior.
func (l *MemoryLedger) BalanceOf(_ context.Context, account string) (*big.Int, error) {
	if err := validAccount(account); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return new(big.Int).Set(l.balance(account)), nil
}

// Transfer describes the transfer operation and its observable behavior.
func (l *MemoryLedger) Transfer(_ context.Context, from, to string, amount *big.Int) error {
	if err := validAccount(from); err != nil {
		return err
	}
	if err := validAccount(to); err != nil {
		return err
	}
	if err := validAmount(amount); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balance(from).Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}
	l.debit(from, amount)
	l.credit(to, amount)
	return nil
}

// TransferFrom describes the transferfrom operation and its observable behavior.
func (l *MemoryLedger) TransferFrom(_ context.Context, spender, from, to string, amount *big.Int) error {
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

	l.mu.Lock()
	defer l.mu.Unlock()

	allowance := l.allowance(from, spender)
	if allowance.Cmp(amount) < 0 {
		return ErrInsufficientAllowance
	}
	if l.balance(from).Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}

	allowance.Sub(allowance, amount)
	l.debit(from, amount)
	l.credit(to, amount)
	return nil
}

// TransferBatch describes the transferbatch operation and its observable behavior.
func (l *MemoryLedger) TransferBatch(_ context.Context, entries []Entry) error {
	if err := validEntries(entries); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// All-or-nothing: settle net deltas first, apply only if no account
	// would go negative.
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

	for account, d := range deltas {
		if new(big.Int).Add(l.balance(account), d).Sign() < 0 {
			return ErrInsufficientFunds
		}
	}
	for account, d := range deltas {
		l.balance(account).Add(l.balance(account), d)
	}
	return nil
}

// Approve describes the approve operation and its observable behavior.
func (l *MemoryLedger) Approve(_ context.Context, owner, spender string, amount *big.Int) error {
	if err := validAccount(owner); err != nil {
		return err
	}
	if err := validAccount(spender); err != nil {
		return err
	}
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	byOwner, ok := l.allowances[owner]
	if !ok {
		byOwner = make(map[string]*big.Int)
		l.allowances[owner] = byOwner
	}
	byOwner[spender] = new(big.Int).Set(amount)
	return nil
}

// Allowance describes the allowance operation and its observable behavior.
func (l *MemoryLedger) Allowance(_ context.Context, owner, spender string) (*big.Int, error) {
	if err := validAccount(owner); err != nil {
		return nil, err
	}
	if err := validAccount(spender); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return new(big.Int).Set(l.allowance(owner, spender)), nil
}

func (l *MemoryLedger) balance(account string) *big.Int {
	b, ok := l.balances[account]
	if !ok {
		b = new(big.Int)
		l.balances[account] = b
	}
	return b
}

func (l *MemoryLedger) allowance(owner, spender string) *big.Int {
	byOwner, ok := l.allowances[owner]
	if !ok {
		byOwner = make(map[string]*big.Int)
		l.allowances[owner] = byOwner
	}
	a, ok := byOwner[spender]
	if !ok {
		a = new(big.Int)
		byOwner[spender] = a
	}
	return a
}

func (l *MemoryLedger) credit(account string, amount *big.Int) {
	l.balance(account).Add(l.balance(account), amount)
}

func (l *MemoryLedger) debit(account string, amount *big.Int) {
	l.balance(account).Sub(l.balance(account), amount)
}
