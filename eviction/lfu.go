package eviction

// lfu groups ids into buckets by access count and evicts from the lowest
// non-empty bucket. Ties inside a bucket are broken arbitrarily.
type lfu struct {
	counts  map[string]int
	buckets map[int]map[string]struct{}
	min     int
}

func newLFU() *lfu {
	return &lfu{
		counts:  make(map[string]int),
		buckets: make(map[int]map[string]struct{}),
	}
}

func (l *lfu) OnGet(id string) {
	n, ok := l.counts[id]
	if !ok {
		return
	}
	l.unbucket(id, n)
	if l.min == n && l.buckets[n] == nil {
		l.min = n + 1
	}
	l.counts[id] = n + 1
	l.bucket(id, n+1)
}

// OnPut counts only the first write; later writes are updates of the same entry.
func (l *lfu) OnPut(id string) {
	if _, ok := l.counts[id]; ok {
		return
	}
	l.counts[id] = 1
	l.bucket(id, 1)
	l.min = 1
}

func (l *lfu) Evict() string {
	for len(l.counts) > 0 && l.buckets[l.min] == nil {
		l.min++
	}
	for id := range l.buckets[l.min] {
		l.unbucket(id, l.min)
		delete(l.counts, id)
		return id
	}
	return ""
}

func (l *lfu) Remove(id string) {
	n, ok := l.counts[id]
	if !ok {
		return
	}
	l.unbucket(id, n)
	delete(l.counts, id)
}

func (l *lfu) bucket(id string, n int) {
	b := l.buckets[n]
	if b == nil {
		b = make(map[string]struct{})
		l.buckets[n] = b
	}
	b[id] = struct{}{}
}

// unbucket drops empty buckets so a nil bucket always means "no ids".
func (l *lfu) unbucket(id string, n int) {
	b := l.buckets[n]
	delete(b, id)
	if len(b) == 0 {
		delete(l.buckets, n)
	}
}
