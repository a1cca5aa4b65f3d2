package graph

// lazy holds a value computed on first use.
type lazy[T any] struct {
	value T
	ok    bool
}

func (l *lazy[T]) get(build func() T) T {
	if !l.ok {
		l.value = build()
		l.ok = true
	}
	return l.value
}

func (l *lazy[T]) reset() {
	var zero T
	l.value = zero
	l.ok = false
}
