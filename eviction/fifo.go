package eviction

// fifo evicts in first-write order; reads and rewrites do not reorder.
type fifo struct {
	queue []string
	in    map[string]struct{}
}

func newFIFO() *fifo {
	return &fifo{in: make(map[string]struct{})}
}

func (f *fifo) OnGet(string) {}

func (f *fifo) OnPut(id string) {
	if _, ok := f.in[id]; ok {
		return
	}
	f.queue = append(f.queue, id)
	f.in[id] = struct{}{}
}

func (f *fifo) Evict() string {
	if len(f.queue) == 0 {
		return ""
	}
	id := f.queue[0]
	f.queue = f.queue[1:]
	delete(f.in, id)
	return id
}

// Remove keeps the order of the remaining ids.
func (f *fifo) Remove(id string) {
	if _, ok := f.in[id]; !ok {
		return
	}
	delete(f.in, id)
	for i, v := range f.queue {
		if v == id {
			f.queue = append(f.queue[:i], f.queue[i+1:]...)
			return
		}
	}
}
