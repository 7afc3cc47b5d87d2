package entry

import (
	"errors"
	"fmt"
	"slices"
)

// Placement decides where Append puts a new record.
type Placement int

const (
	// Prepend keeps the namespace most-recent-first (mood, journal).
	Prepend Placement = iota
	// Append keeps it chronological (chat transcript).
	Append
)

type Op int

const (
	OpAppend Op = iota
	OpRemove
	OpSeed
)

func (o Op) String() string {
	switch o {
	case OpAppend:
		return "append"
	case OpRemove:
		return "remove"
	case OpSeed:
		return "seed"
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Change describes one state transition. Items is the full namespace after
// the change.
type Change[T Record] struct {
	Key   string
	Op    Op
	Item  T
	Items []T
}

// Subscriber reacts to a Change. A returned error is handed back to the
// caller of the mutator; it never rolls the change back.
type Subscriber[T Record] func(Change[T]) error

// Namespace is the in-memory collection one screen owns. Append, Remove and
// Seed are the only mutators. It is not safe for concurrent use; each
// namespace belongs to a single screen's event loop.
type Namespace[T Record] struct {
	key       string
	placement Placement
	items     []T
	subs      []Subscriber[T]
}

// New returns an empty namespace that persists nowhere.
func New[T Record](key string, placement Placement) *Namespace[T] {
	return &Namespace[T]{key: key, placement: placement, items: []T{}}
}

// Open loads key from b and subscribes a write-through persister to it.
func Open[T Record](b Backend, key string, placement Placement) (*Namespace[T], LoadResult) {
	items, res := Load[T](b, key)
	ns := &Namespace[T]{key: key, placement: placement, items: items}
	ns.Subscribe(Persister[T](b))
	return ns, res
}

// Persister writes the full namespace on every change.
func Persister[T Record](b Backend) Subscriber[T] {
	return func(c Change[T]) error {
		return Save(b, c.Key, c.Items)
	}
}

func (n *Namespace[T]) Key() string { return n.key }

func (n *Namespace[T]) Subscribe(fn Subscriber[T]) {
	n.subs = append(n.subs, fn)
}

// Items returns a copy of the current contents.
func (n *Namespace[T]) Items() []T {
	return slices.Clone(n.items)
}

func (n *Namespace[T]) Len() int { return len(n.items) }

func (n *Namespace[T]) find(id string) (T, bool) {
	for _, it := range n.items {
		if it.EntryID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func (n *Namespace[T]) Append(item T) error {
	if n.placement == Prepend {
		n.items = append([]T{item}, n.items...)
	} else {
		n.items = append(n.items, item)
	}
	return n.notify(OpAppend, item)
}

// Remove drops the record with the given id. An unknown id is a no-op and
// triggers no write.
func (n *Namespace[T]) Remove(id string) (bool, error) {
	idx := slices.IndexFunc(n.items, func(it T) bool { return it.EntryID() == id })
	if idx < 0 {
		return false, nil
	}
	removed := n.items[idx]
	n.items = slices.Delete(slices.Clone(n.items), idx, idx+1)
	return true, n.notify(OpRemove, removed)
}

// Seed replaces the contents wholesale.
func (n *Namespace[T]) Seed(items []T) error {
	n.items = slices.Clone(items)
	if n.items == nil {
		n.items = []T{}
	}
	var zero T
	return n.notify(OpSeed, zero)
}

func (n *Namespace[T]) notify(op Op, item T) error {
	var errs []error
	for _, fn := range n.subs {
		c := Change[T]{Key: n.key, Op: op, Item: item, Items: n.Items()}
		if err := fn(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
