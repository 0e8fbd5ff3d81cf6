package game

import (
	"time"

	"github.com/lox/blackjack-trainer/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeRoundStart EventType = "round_start"
	EventTypeRoundEnd   EventType = "round_end"
	EventTypeShuffle    EventType = "shuffle"
	EventTypeCard       EventType = "card"
	EventTypeDecision   EventType = "decision"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during a round
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// RoundStartEvent is published once the bet is taken, before any card is dealt
type RoundStartEvent struct {
	RoundID   string
	Bet       float64
	Bankroll  float64
	TrueCount float64
	timestamp time.Time
}

func (e RoundStartEvent) EventType() EventType { return EventTypeRoundStart }
func (e RoundStartEvent) Timestamp() time.Time { return e.timestamp }

// NewRoundStartEvent creates a new round start event
func NewRoundStartEvent(roundID string, bet, bankroll, trueCount float64) RoundStartEvent {
	return RoundStartEvent{
		RoundID:   roundID,
		Bet:       bet,
		Bankroll:  bankroll,
		TrueCount: trueCount,
		timestamp: time.Now(),
	}
}

// ShuffleEvent is published whenever the shoe is rebuilt. The count is zero
// again from this point.
type ShuffleEvent struct {
	Decks     int
	Shuffles  int
	timestamp time.Time
}

func (e ShuffleEvent) EventType() EventType { return EventTypeShuffle }
func (e ShuffleEvent) Timestamp() time.Time { return e.timestamp }

// NewShuffleEvent creates a new shuffle event
func NewShuffleEvent(decks, shuffles int) ShuffleEvent {
	return ShuffleEvent{
		Decks:     decks,
		Shuffles:  shuffles,
		timestamp: time.Now(),
	}
}

// DealerSeat is the Seat value of cards dealt to the dealer
const DealerSeat = -1

// CardEvent is published for every card leaving the shoe
type CardEvent struct {
	RoundID string
	Card    deck.Card
	// Seat is the player hand index, or DealerSeat
	Seat      int
	FaceDown  bool
	timestamp time.Time
}

func (e CardEvent) EventType() EventType { return EventTypeCard }
func (e CardEvent) Timestamp() time.Time { return e.timestamp }

// NewCardEvent creates a new card event
func NewCardEvent(roundID string, card deck.Card, seat int, faceDown bool) CardEvent {
	return CardEvent{
		RoundID:   roundID,
		Card:      card,
		Seat:      seat,
		FaceDown:  faceDown,
		timestamp: time.Now(),
	}
}

// DecisionEvent is published after the player's choice is graded
type DecisionEvent struct {
	RoundID   string
	HandIndex int
	Feedback  Feedback
	timestamp time.Time
}

func (e DecisionEvent) EventType() EventType { return EventTypeDecision }
func (e DecisionEvent) Timestamp() time.Time { return e.timestamp }

// NewDecisionEvent creates a new decision event
func NewDecisionEvent(roundID string, handIndex int, feedback Feedback) DecisionEvent {
	return DecisionEvent{
		RoundID:   roundID,
		HandIndex: handIndex,
		Feedback:  feedback,
		timestamp: time.Now(),
	}
}

// RoundEndEvent is published when a round settles
type RoundEndEvent struct {
	Settlement Settlement
	timestamp  time.Time
}

func (e RoundEndEvent) EventType() EventType { return EventTypeRoundEnd }
func (e RoundEndEvent) Timestamp() time.Time { return e.timestamp }

// NewRoundEndEvent creates a new round end event
func NewRoundEndEvent(settlement Settlement) RoundEndEvent {
	return RoundEndEvent{
		Settlement: settlement,
		timestamp:  time.Now(),
	}
}

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// SubscriberFunc adapts a function to EventSubscriber
type SubscriberFunc func(event GameEvent)

// OnEvent calls f(event)
func (f SubscriberFunc) OnEvent(event GameEvent) {
	f(event)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events. Subscribers must be
// comparable; SubscriberFunc values cannot be unsubscribed.
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers, synchronously and in order
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
