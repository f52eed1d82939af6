package handlers

import (
	"sync"

	"github.com/alidoner/orderbot/internal/services"
)

// customerQueue runs events one at a time per customer, in the order they
// were enqueued. Different customers drain in parallel.
type customerQueue struct {
	mu      sync.Mutex
	pending map[string][]services.InboundEvent
	run     func(services.InboundEvent)
}

func newCustomerQueue(run func(services.InboundEvent)) *customerQueue {
	return &customerQueue{
		pending: make(map[string][]services.InboundEvent),
		run:     run,
	}
}

// enqueue appends ev to its customer's queue and starts a drainer when none is active
func (q *customerQueue) enqueue(ev services.InboundEvent) {
	q.mu.Lock()
	queued, active := q.pending[ev.CustomerID]
	q.pending[ev.CustomerID] = append(queued, ev)
	q.mu.Unlock()

	if !active {
		go q.drain(ev.CustomerID)
	}
}

// drain owns the customer's key until the queue is empty
func (q *customerQueue) drain(customerID string) {
	for {
		q.mu.Lock()
		queued := q.pending[customerID]
		if len(queued) == 0 {
			delete(q.pending, customerID)
			q.mu.Unlock()
			return
		}
		ev := queued[0]
		q.pending[customerID] = queued[1:]
		q.mu.Unlock()

		q.run(ev)
	}
}
