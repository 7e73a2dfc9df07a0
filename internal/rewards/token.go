// Package rewards simulates the on-chain reward pair: an ERC-20 style token
// and the assessment-rewards contract that rate-limits daily claims. The
// contract is the sole authority on whether a claim succeeds; the API's
// eligibility pre-check is an advisory read over the same ledger state.
package rewards

import (
	"errors"
	"math/big"
	"strings"
	"sync"
)

// Token revert reasons mirror the deployed token contract.
var (
	ErrNotOwner              = errors.New("reward token: caller is not the owner")
	ErrZeroAddress           = errors.New("reward token: mint to the zero address")
	ErrZeroAmount            = errors.New("reward token: mint amount must be greater than zero")
	ErrInsufficientBalance   = errors.New("reward token: transfer amount exceeds balance")
	ErrInsufficientAllowance = errors.New("reward token: insufficient allowance")
)

// Token is an in-process fungible-token ledger with 18 decimals and an
// owner-restricted mint, matching the AWSRewardToken surface.
type Token struct {
	name   string
	symbol string

	mu          sync.RWMutex
	owner       string
	totalSupply *big.Int
	balances    map[string]*big.Int
	allowances  map[string]map[string]*big.Int
}

// NewToken creates the ledger with the deploying address as owner.
func NewToken(name, symbol, owner string) *Token {
	return &Token{
		name:        name,
		symbol:      symbol,
		owner:       normalizeAddress(owner),
		totalSupply: new(big.Int),
		balances:    make(map[string]*big.Int),
		allowances:  make(map[string]map[string]*big.Int),
	}
}

func normalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// Name returns the token name.
func (t *Token) Name() string { return t.name }

// Symbol returns the token symbol.
func (t *Token) Symbol() string { return t.symbol }

// Decimals is fixed at 18.
func (t *Token) Decimals() uint8 { return 18 }

// Owner returns the current mint authority.
func (t *Token) Owner() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.owner
}

// TotalSupply returns the minted supply.
func (t *Token) TotalSupply() *big.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return new(big.Int).Set(t.totalSupply)
}

// BalanceOf returns the balance for an address.
func (t *Token) BalanceOf(addr string) *big.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if bal, ok := t.balances[normalizeAddress(addr)]; ok {
		return new(big.Int).Set(bal)
	}
	return new(big.Int)
}

// TransferOwnership hands the mint authority to another address. Expected to
// be called once at deployment to hand minting to the rewards contract.
func (t *Token) TransferOwnership(caller, newOwner string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if normalizeAddress(caller) != t.owner {
		return ErrNotOwner
	}
	if normalizeAddress(newOwner) == "" {
		return ErrZeroAddress
	}
	t.owner = normalizeAddress(newOwner)
	return nil
}

// MintReward mints amount to an address. Owner only; rejects the zero
// address and zero amounts.
func (t *Token) MintReward(caller, to string, amount *big.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if normalizeAddress(caller) != t.owner {
		return ErrNotOwner
	}
	to = normalizeAddress(to)
	if to == "" || isZeroHexAddress(to) {
		return ErrZeroAddress
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	t.credit(to, amount)
	t.totalSupply.Add(t.totalSupply, amount)
	return nil
}

// Transfer moves amount from the caller to another address.
func (t *Token) Transfer(from, to string, amount *big.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.move(normalizeAddress(from), normalizeAddress(to), amount)
}

// Approve lets spender move up to amount on the owner's behalf.
func (t *Token) Approve(owner, spender string, amount *big.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	owner, spender = normalizeAddress(owner), normalizeAddress(spender)
	if t.allowances[owner] == nil {
		t.allowances[owner] = make(map[string]*big.Int)
	}
	t.allowances[owner][spender] = new(big.Int).Set(amount)
	return nil
}

// Allowance returns the remaining approved amount.
func (t *Token) Allowance(owner, spender string) *big.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if m, ok := t.allowances[normalizeAddress(owner)]; ok {
		if a, ok := m[normalizeAddress(spender)]; ok {
			return new(big.Int).Set(a)
		}
	}
	return new(big.Int)
}

// TransferFrom moves amount from one address to another inside the caller's
// allowance.
func (t *Token) TransferFrom(caller, from, to string, amount *big.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	caller, from, to = normalizeAddress(caller), normalizeAddress(from), normalizeAddress(to)

	allowance := new(big.Int)
	if m, ok := t.allowances[from]; ok && m[caller] != nil {
		allowance = m[caller]
	}
	if allowance.Cmp(amount) < 0 {
		return ErrInsufficientAllowance
	}
	if err := t.move(from, to, amount); err != nil {
		return err
	}
	allowance.Sub(allowance, amount)
	return nil
}

// move requires t.mu held.
func (t *Token) move(from, to string, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrZeroAmount
	}
	bal, ok := t.balances[from]
	if !ok || bal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	bal.Sub(bal, amount)
	t.credit(to, amount)
	return nil
}

// credit requires t.mu held.
func (t *Token) credit(to string, amount *big.Int) {
	if bal, ok := t.balances[to]; ok {
		bal.Add(bal, amount)
		return
	}
	t.balances[to] = new(big.Int).Set(amount)
}

func isZeroHexAddress(addr string) bool {
	if !strings.HasPrefix(addr, "0x") {
		return false
	}
	for _, c := range addr[2:] {
		if c != '0' {
			return false
		}
	}
	return len(addr) > 2
}
