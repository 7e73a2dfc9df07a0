package rewards

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"awsprep-assessment-service/internal/domain"
)

const (
	// MaxDailyClaims caps rewards per wallet per UTC day.
	MaxDailyClaims uint64 = 3
	// PassingScore is the minimum scaled score for a claim.
	PassingScore uint64 = 700
	// SecondsPerDay buckets timestamps into day indexes.
	SecondsPerDay int64 = 86400
)

// TokensPerPass is 1 token at 18 decimals.
var TokensPerPass = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// Contract revert reasons mirror the deployed AssessmentRewards contract.
var (
	ErrScoreBelowThreshold = errors.New("assessment rewards: score below passing threshold")
	ErrDailyLimitReached   = errors.New("assessment rewards: daily limit reached")
	ErrInvalidWallet       = errors.New("assessment rewards: invalid wallet address")
)

// ClaimLedger persists per-(wallet, dayIndex) claim counts. Record must be
// atomic: concurrent claims against a full day must not both succeed.
type ClaimLedger interface {
	Info(ctx context.Context, wallet string, day uint64) (domain.ClaimInfo, error)
	// Record increments the day's count and returns the new value, or
	// ErrDailyLimitReached without incrementing when the day is full.
	Record(ctx context.Context, wallet string, day uint64, timestamp int64, max uint64) (uint64, error)
}

// EventType tags reward feed events.
type EventType string

const (
	EventRewardClaimed     EventType = "rewardClaimed"
	EventDailyLimitReached EventType = "dailyLimitReached"
)

// Event is a contract log entry.
type Event struct {
	Type             EventType `json:"type"`
	Wallet           string    `json:"wallet"`
	Score            uint64    `json:"score,omitempty"`
	AssessmentIDHash string    `json:"assessmentIdHash,omitempty"`
	CourseCode       string    `json:"courseCode,omitempty"`
	TokensMinted     string    `json:"tokensMinted,omitempty"`
	ClaimCount       uint64    `json:"claimCount"`
	Timestamp        int64     `json:"timestamp"`
}

// Receipt summarizes a successful claim.
type Receipt struct {
	Wallet           string `json:"wallet"`
	Score            uint64 `json:"score"`
	AssessmentIDHash string `json:"assessmentIdHash"`
	CourseCode       string `json:"courseCode"`
	TokensMinted     string `json:"tokensMinted"`
	DailyCount       uint64 `json:"dailyCount"`
	Day              uint64 `json:"day"`
}

// Contract is the authoritative claim state machine. It owns the token's
// mint authority and serializes mutations through the ledger, so no two
// claims from the same wallet can both slip under the daily cap.
type Contract struct {
	address string
	token   *Token
	ledger  ClaimLedger
	now     func() time.Time

	mu          sync.Mutex
	subscribers map[chan Event]struct{}
}

// ContractOption customizes a Contract.
type ContractOption func(*Contract)

// WithClock injects a deterministic clock for day-boundary tests.
func WithClock(now func() time.Time) ContractOption {
	return func(c *Contract) { c.now = now }
}

// NewContract wires the contract to its token and ledger. The token's
// ownership must be transferred to the contract address before claims can
// mint.
func NewContract(address string, token *Token, ledger ClaimLedger, opts ...ContractOption) *Contract {
	c := &Contract{
		address:     normalizeAddress(address),
		token:       token,
		ledger:      ledger,
		now:         time.Now,
		subscribers: make(map[chan Event]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Address returns the contract's own address.
func (c *Contract) Address() string { return c.address }

// CurrentDay returns the UTC epoch-day bucket, floor(unix/86400).
func (c *Contract) CurrentDay() uint64 {
	return uint64(c.now().Unix() / SecondsPerDay)
}

// CanClaim reports whether the wallet is under today's cap.
func (c *Contract) CanClaim(ctx context.Context, wallet string) (bool, error) {
	count, err := c.TodayClaimCount(ctx, wallet)
	if err != nil {
		return false, err
	}
	return count < MaxDailyClaims, nil
}

// TodayClaimCount returns the wallet's claim count for the current day.
func (c *Contract) TodayClaimCount(ctx context.Context, wallet string) (uint64, error) {
	info, err := c.ledger.Info(ctx, normalizeAddress(wallet), c.CurrentDay())
	if err != nil {
		return 0, fmt.Errorf("read claim ledger: %w", err)
	}
	return info.Count, nil
}

// ClaimInfo returns the raw ledger entry for a wallet and day index.
func (c *Contract) ClaimInfo(ctx context.Context, wallet string, day uint64) (domain.ClaimInfo, error) {
	return c.ledger.Info(ctx, normalizeAddress(wallet), day)
}

// ClaimReward executes one claim. Preconditions in order, first failure
// wins: passing score, then daily cap. On success it increments the day's
// count, mints TokensPerPass to the wallet, and emits RewardClaimed plus
// DailyLimitReached when the count lands exactly on the cap. The carried
// assessment-id hash is audit data only; the contract does not deduplicate
// by it.
func (c *Contract) ClaimReward(ctx context.Context, wallet string, score uint64, assessmentIDHash, courseCode string) (Receipt, error) {
	wallet = normalizeAddress(wallet)
	if wallet == "" || isZeroHexAddress(wallet) {
		return Receipt{}, ErrInvalidWallet
	}
	if score < PassingScore {
		return Receipt{}, ErrScoreBelowThreshold
	}

	now := c.now()
	day := uint64(now.Unix() / SecondsPerDay)

	count, err := c.ledger.Record(ctx, wallet, day, now.Unix(), MaxDailyClaims)
	if err != nil {
		return Receipt{}, err
	}

	if err := c.token.MintReward(c.address, wallet, TokensPerPass); err != nil {
		// Mint authority misconfigured; the ledger slot is consumed but no
		// tokens moved, so surface it loudly.
		log.Error().Err(err).Str("wallet", wallet).Msg("reward mint failed after ledger record")
		return Receipt{}, fmt.Errorf("mint reward: %w", err)
	}

	c.emit(Event{
		Type:             EventRewardClaimed,
		Wallet:           wallet,
		Score:            score,
		AssessmentIDHash: assessmentIDHash,
		CourseCode:       courseCode,
		TokensMinted:     TokensPerPass.String(),
		ClaimCount:       count,
		Timestamp:        now.Unix(),
	})
	if count == MaxDailyClaims {
		c.emit(Event{
			Type:       EventDailyLimitReached,
			Wallet:     wallet,
			ClaimCount: count,
			Timestamp:  now.Unix(),
		})
	}

	return Receipt{
		Wallet:           wallet,
		Score:            score,
		AssessmentIDHash: assessmentIDHash,
		CourseCode:       courseCode,
		TokensMinted:     TokensPerPass.String(),
		DailyCount:       count,
		Day:              day,
	}, nil
}

// Subscribe returns a channel of contract events. The caller must invoke the
// cancel function to avoid leaks.
func (c *Contract) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 8)

	c.mu.Lock()
	c.subscribers[ch] = struct{}{}
	c.mu.Unlock()

	cancel := func() {
		c.mu.Lock()
		if _, ok := c.subscribers[ch]; ok {
			delete(c.subscribers, ch)
			close(ch)
		}
		c.mu.Unlock()
	}
	return ch, cancel
}

// SubscriberCount reports the number of live event subscribers.
func (c *Contract) SubscriberCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subscribers)
}

func (c *Contract) emit(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for ch := range c.subscribers {
		select {
		case ch <- ev:
		default:
			// Drop the oldest event rather than block the claim path on a
			// slow subscriber.
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}
