// Package memory provides a mutex-guarded in-memory implementation of the
// repository interfaces. It honors the same per-record compare-and-swap
// protocol as the postgres repositories, which makes it suitable both for
// tests and for running the core without external infrastructure.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"huay/domain/entities"
	"huay/domain/interfaces"
)

// Store holds all records behind a single mutex. The CAS semantics are the
// contract; the mutex only protects map access.
type Store struct {
	mu          sync.Mutex
	accounts    map[string]*entities.Account
	wagers      map[string]*entities.Wager
	drawResults map[string]*entities.DrawResult
	history     []*entities.BalanceHistory
	historySeq  int64
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		accounts:    make(map[string]*entities.Account),
		wagers:      make(map[string]*entities.Wager),
		drawResults: make(map[string]*entities.DrawResult),
	}
}

// Accounts returns the account repository view of the store
func (s *Store) Accounts() interfaces.AccountRepository { return (*accountRepo)(s) }

// Wagers returns the wager repository view of the store
func (s *Store) Wagers() interfaces.WagerRepository { return (*wagerRepo)(s) }

// DrawResults returns the draw result repository view of the store
func (s *Store) DrawResults() interfaces.DrawResultRepository { return (*drawResultRepo)(s) }

// BalanceHistory returns the balance history repository view of the store
func (s *Store) BalanceHistory() interfaces.BalanceHistoryRepository { return (*balanceHistoryRepo)(s) }

type accountRepo Store

func (r *accountRepo) GetByID(ctx context.Context, id string) (*entities.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	copied := *account
	return &copied, nil
}

func (r *accountRepo) Create(ctx context.Context, id string, isAdmin bool, initialBalance int64) (*entities.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[id]; exists {
		return nil, fmt.Errorf("account %s already exists", id)
	}

	now := time.Now().UTC()
	account := &entities.Account{
		ID:        id,
		Balance:   initialBalance,
		IsAdmin:   isAdmin,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.accounts[id] = account

	copied := *account
	return &copied, nil
}

func (r *accountRepo) CompareAndSetBalance(ctx context.Context, id string, newBalance, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return entities.ErrAccountNotFound
	}
	if account.Version != expectedVersion {
		return entities.ErrConcurrencyConflict
	}

	account.Balance = newBalance
	account.Version++
	account.UpdatedAt = time.Now().UTC()
	return nil
}

type wagerRepo Store

func (r *wagerRepo) CreateBatch(ctx context.Context, wagers []*entities.Wager) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, wager := range wagers {
		if _, exists := r.wagers[wager.ID]; exists {
			return fmt.Errorf("wager %s already exists", wager.ID)
		}
	}
	for _, wager := range wagers {
		copied := *wager
		r.wagers[wager.ID] = &copied
	}
	return nil
}

func (r *wagerRepo) GetByID(ctx context.Context, id string) (*entities.Wager, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wager, ok := r.wagers[id]
	if !ok {
		return nil, nil
	}
	copied := *wager
	return &copied, nil
}

func (r *wagerRepo) ListPendingForDraw(ctx context.Context, drawDate time.Time, session entities.Session) ([]*entities.Wager, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*entities.Wager
	for _, wager := range r.wagers {
		if wager.Status == entities.WagerStatusPending && sameDay(wager.DrawDate, drawDate) && wager.Session == session {
			copied := *wager
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *wagerRepo) ListByDrawDate(ctx context.Context, drawDate time.Time, accountID string) ([]*entities.Wager, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*entities.Wager
	for _, wager := range r.wagers {
		if !sameDay(wager.DrawDate, drawDate) {
			continue
		}
		if accountID != "" && wager.AccountID != accountID {
			continue
		}
		copied := *wager
		result = append(result, &copied)
	}
	return result, nil
}

func (r *wagerRepo) ResolvePending(ctx context.Context, id string, status entities.WagerStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wager, ok := r.wagers[id]
	if !ok {
		return false, fmt.Errorf("wager %s not found", id)
	}
	if wager.Status != entities.WagerStatusPending {
		return false, nil
	}

	now := time.Now().UTC()
	wager.Status = status
	wager.ResolvedAt = &now
	return true, nil
}

func (r *wagerRepo) SetUnpaid(ctx context.Context, id string, unpaid bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	wager, ok := r.wagers[id]
	if !ok {
		return fmt.Errorf("wager %s not found", id)
	}
	wager.Unpaid = unpaid
	return nil
}

func (r *wagerRepo) ClearUnpaid(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wager, ok := r.wagers[id]
	if !ok {
		return false, fmt.Errorf("wager %s not found", id)
	}
	if !wager.Unpaid {
		return false, nil
	}
	wager.Unpaid = false
	return true, nil
}

func (r *wagerRepo) ListUnpaidWins(ctx context.Context) ([]*entities.Wager, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*entities.Wager
	for _, wager := range r.wagers {
		if wager.Status == entities.WagerStatusWin && wager.Unpaid {
			copied := *wager
			result = append(result, &copied)
		}
	}
	return result, nil
}

type drawResultRepo Store

func (r *drawResultRepo) Create(ctx context.Context, result *entities.DrawResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := drawKey(result.DrawDate, result.Session)
	if _, exists := r.drawResults[key]; exists {
		// First publication wins
		return nil
	}
	copied := *result
	r.drawResults[key] = &copied
	return nil
}

func (r *drawResultRepo) GetByDraw(ctx context.Context, drawDate time.Time, session entities.Session) (*entities.DrawResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result, ok := r.drawResults[drawKey(drawDate, session)]
	if !ok {
		return nil, nil
	}
	copied := *result
	return &copied, nil
}

func (r *drawResultRepo) ListRecent(ctx context.Context, limit int) ([]*entities.DrawResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var results []*entities.DrawResult
	for _, result := range r.drawResults {
		copied := *result
		results = append(results, &copied)
	}
	// Map iteration order is random; order before truncating so the page
	// always holds the most recent publications
	sort.Slice(results, func(i, j int) bool {
		return results[i].PublishedAt.After(results[j].PublishedAt)
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

type balanceHistoryRepo Store

func (r *balanceHistoryRepo) Record(ctx context.Context, history *entities.BalanceHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.historySeq++
	history.ID = r.historySeq
	history.CreatedAt = time.Now().UTC()

	copied := *history
	r.history = append(r.history, &copied)
	return nil
}

func (r *balanceHistoryRepo) GetByAccount(ctx context.Context, accountID string, limit int) ([]*entities.BalanceHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var entries []*entities.BalanceHistory
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].AccountID != accountID {
			continue
		}
		copied := *r.history[i]
		entries = append(entries, &copied)
		if limit > 0 && len(entries) == limit {
			break
		}
	}
	return entries, nil
}

func drawKey(drawDate time.Time, session entities.Session) string {
	return drawDate.Format("2006-01-02") + "/" + string(session)
}

func sameDay(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

var (
	_ interfaces.AccountRepository        = (*accountRepo)(nil)
	_ interfaces.WagerRepository          = (*wagerRepo)(nil)
	_ interfaces.DrawResultRepository     = (*drawResultRepo)(nil)
	_ interfaces.BalanceHistoryRepository = (*balanceHistoryRepo)(nil)
)
