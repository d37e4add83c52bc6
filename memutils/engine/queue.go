package engine

import "golang.org/x/exp/slices"

// Queue holds requests that have not been placed yet, in arrival order
type Queue struct {
	requests []Request
}

// Push appends a request to the back of the queue
func (q *Queue) Push(request Request) {
	q.requests = append(q.requests, request)
}

func (q *Queue) Len() int {
	return len(q.requests)
}

// Requests returns a copy of the queued requests in arrival order
func (q *Queue) Requests() []Request {
	return slices.Clone(q.requests)
}

func (q *Queue) Clone() *Queue {
	return &Queue{requests: slices.Clone(q.requests)}
}

// drainPass offers every queued request to place, front to back. Requests that place accepts leave
// the queue; the rest stay behind in their original relative order. It returns the number of
// requests placed.
func (q *Queue) drainPass(place func(request Request) bool) int {
	var deferred []Request
	placed := 0

	for _, request := range q.requests {
		if place(request) {
			placed++
			continue
		}
		deferred = append(deferred, request)
	}

	q.requests = deferred
	return placed
}
