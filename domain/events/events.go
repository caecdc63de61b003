package events

import "huay/domain/entities"

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange  EventType = "balance_change"
	EventTypeAccountCreated EventType = "account_created"
	EventTypeWagerPlaced    EventType = "wager_placed"
	EventTypeDrawSettled    EventType = "draw_settled"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	AccountID       string
	OldBalance      int64
	NewBalance      int64
	TransactionType entities.TransactionType
	ChangeAmount    int64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// AccountCreatedEvent represents a new account registration
type AccountCreatedEvent struct {
	AccountID      string
	InitialBalance int64
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// WagerPlacedEvent represents a completed placement transaction
type WagerPlacedEvent struct {
	AccountID  string
	BetType    entities.BetType
	WagerCount int
	TotalCost  int64
	DrawDate   string
	Session    entities.Session
}

func (e WagerPlacedEvent) Type() EventType {
	return EventTypeWagerPlaced
}

// DrawSettledEvent represents a completed settlement sweep
type DrawSettledEvent struct {
	DrawDate      string
	Session       entities.Session
	WinningNumber string
	ResolvedCount int
	PaidCount     int
}

func (e DrawSettledEvent) Type() EventType {
	return EventTypeDrawSettled
}
