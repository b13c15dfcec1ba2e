package editor

// StateEvent is emitted by an editor every time its state machine
// transitions.
type StateEvent struct {
	Editor *Editor
	From   StateKind
	To     StateKind
}

// Stopped reports whether the transition left the editor in a
// non-animating state.
func (e StateEvent) Stopped() bool {
	return e.To != StatePlaying
}

type subscriber struct {
	id int
	fn func(StateEvent)
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	ed *Editor
	id int
}

// Cancel stops delivery. Safe to call more than once and from inside a
// handler.
func (s *Subscription) Cancel() {
	if s == nil || s.ed == nil {
		return
	}
	s.ed.unsubscribe(s.id)
	s.ed = nil
}

// Subscribe registers fn for state transitions of e. Handlers run
// synchronously on the goroutine that changed the state.
func (e *Editor) Subscribe(fn func(StateEvent)) *Subscription {
	if e == nil || fn == nil {
		return &Subscription{}
	}
	e.nextSubID++
	e.subscribers = append(e.subscribers, subscriber{id: e.nextSubID, fn: fn})
	return &Subscription{ed: e, id: e.nextSubID}
}

// Subscribers returns how many handlers are registered.
func (e *Editor) Subscribers() int {
	if e == nil {
		return 0
	}
	return len(e.subscribers)
}

func (e *Editor) unsubscribe(id int) {
	for i, s := range e.subscribers {
		if s.id == id {
			e.subscribers = append(e.subscribers[:i:i], e.subscribers[i+1:]...)
			return
		}
	}
}

func (e *Editor) emit(evt StateEvent) {
	if len(e.subscribers) == 0 {
		return
	}
	subs := append([]subscriber(nil), e.subscribers...)
	for _, s := range subs {
		s.fn(evt)
	}
}
