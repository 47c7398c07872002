package engine

// ListenerID identifies a subscription so it can be removed later.
type ListenerID uint64

type listener[T any] struct {
	id ListenerID
	fn func(T)
}

// EventWithArg is a multicast event carrying one argument.
// Listeners run synchronously in subscription order.
type EventWithArg[T any] struct {
	listeners []listener[T]
	nextID    ListenerID
}

func (e *EventWithArg[T]) AddListener(callback func(T)) ListenerID {
	if callback == nil {
		return 0
	}
	e.nextID++
	e.listeners = append(e.listeners, listener[T]{id: e.nextID, fn: callback})
	return e.nextID
}

func (e *EventWithArg[T]) RemoveListener(id ListenerID) {
	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			return
		}
	}
}

func (e *EventWithArg[T]) RemoveAllListeners() {
	e.listeners = nil
}

func (e *EventWithArg[T]) Invoke(arg T) {
	// Copy so listeners may unsubscribe while running.
	ls := append([]listener[T](nil), e.listeners...)
	for _, l := range ls {
		l.fn(arg)
	}
}

func (e *EventWithArg[T]) GetListenerCount() int {
	return len(e.listeners)
}

// Event is an EventWithArg without a payload.
type Event struct {
	inner EventWithArg[struct{}]
}

func (e *Event) AddListener(callback func()) ListenerID {
	if callback == nil {
		return 0
	}
	return e.inner.AddListener(func(struct{}) { callback() })
}

func (e *Event) RemoveListener(id ListenerID) { e.inner.RemoveListener(id) }

func (e *Event) RemoveAllListeners() { e.inner.RemoveAllListeners() }

func (e *Event) Invoke() { e.inner.Invoke(struct{}{}) }

func (e *Event) GetListenerCount() int { return e.inner.GetListenerCount() }
