package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

const maxNotificationsPerOwner = 50

// Notification is a user-visible record of a failed background write.
type Notification struct {
	ID         string    `json:"id"`
	Op         WriteOp   `json:"op"`
	DocumentID string    `json:"documentId,omitempty"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NotificationCenter collects ErrorBus events per owner until they are dismissed.
type NotificationCenter struct {
	mu      sync.Mutex
	byOwner map[string][]Notification
	bus     *ErrorBus
	cancel  func()
	done    chan struct{}
}

func NewNotificationCenter(bus *ErrorBus) *NotificationCenter {
	return &NotificationCenter{
		byOwner: make(map[string][]Notification),
		bus:     bus,
	}
}

// Start subscribes to the bus and consumes events until ctx ends or Stop is called.
func (n *NotificationCenter) Start(ctx context.Context) {
	events, cancel := n.bus.Subscribe(64)
	n.cancel = cancel
	n.done = make(chan struct{})

	go func() {
		defer close(n.done)
		for {
			select {
			case <-ctx.Done():
				cancel()
				return
			case event, ok := <-events:
				if !ok {
					return
				}
				n.record(event)
			}
		}
	}()
}

func (n *NotificationCenter) Stop() {
	if n.cancel == nil {
		return
	}
	n.cancel()
	<-n.done
}

func (n *NotificationCenter) record(event *PersistenceError) {
	if event == nil || event.OwnerID == "" {
		return
	}

	note := Notification{
		ID:         uuid.NewString(),
		Op:         event.Op,
		DocumentID: event.DocumentID,
		Message:    messageFor(event.Op),
		CreatedAt:  time.Now(),
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	list := append(n.byOwner[event.OwnerID], note)
	if len(list) > maxNotificationsPerOwner {
		list = list[len(list)-maxNotificationsPerOwner:]
	}
	n.byOwner[event.OwnerID] = list
	log.Printf("⚠️  Notified %s about failed %s\n", event.OwnerID, event.Op)
}

func messageFor(op WriteOp) string {
	switch op {
	case OpCreateProfile:
		return "We could not set up your profile. Please sign in again."
	case OpSaveProfile:
		return "Your profile changes could not be saved. Please try again."
	case OpSaveDocument:
		return "Your document could not be saved. Please try again."
	case OpDeleteDocument:
		return "Your document could not be deleted. Please try again."
	}
	return "A change could not be saved."
}

// List returns the owner's notifications, oldest first.
func (n *NotificationCenter) List(ownerID string) []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification{}, n.byOwner[ownerID]...)
}

// Dismiss removes one notification and reports whether it existed.
func (n *NotificationCenter) Dismiss(ownerID, id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	list := n.byOwner[ownerID]
	for i, note := range list {
		if note.ID == id {
			n.byOwner[ownerID] = append(list[:i], list[i+1:]...)
			return true
		}
	}
	return false
}
