package eviction

import "container/list"

// lru keeps ids in a list ordered from most (front) to least (back) recently used.
type lru struct {
	order *list.List
	elems map[string]*list.Element
}

func newLRU() *lru {
	return &lru{order: list.New(), elems: make(map[string]*list.Element)}
}

func (l *lru) OnGet(id string) {
	if e, ok := l.elems[id]; ok {
		l.order.MoveToFront(e)
	}
}

// OnPut treats a rewrite as a use: normalized entries are rewritten by every
// query that touches them, and those are the entries worth keeping.
func (l *lru) OnPut(id string) {
	if e, ok := l.elems[id]; ok {
		l.order.MoveToFront(e)
		return
	}
	l.elems[id] = l.order.PushFront(id)
}

func (l *lru) Evict() string {
	e := l.order.Back()
	if e == nil {
		return ""
	}
	id := l.order.Remove(e).(string)
	delete(l.elems, id)
	return id
}

func (l *lru) Remove(id string) {
	if e, ok := l.elems[id]; ok {
		l.order.Remove(e)
		delete(l.elems, id)
	}
}
