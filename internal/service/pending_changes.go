package service

type changeKind int

const (
	rowCreated changeKind = iota
	rowUpdated
	rowDeleted
)

type rowChange[T any] struct {
	kind changeKind
	id   string
	row  T
}

// pendingChanges records the local mutations applied while a refresh is
// fetching. The fetched rows may predate them, so they are replayed onto the
// fetched rows before the refresh commits.
type pendingChanges[T any] struct {
	recording bool
	changes   []rowChange[T]
}

func (p *pendingChanges[T]) start() {
	p.recording = true
	p.changes = nil
}

func (p *pendingChanges[T]) stop() {
	p.recording = false
	p.changes = nil
}

func (p *pendingChanges[T]) record(kind changeKind, id string, row T) {
	if p.recording {
		p.changes = append(p.changes, rowChange[T]{kind: kind, id: id, row: row})
	}
}

// replay applies the recorded changes to fetched. Each change is idempotent:
// a fetch that already saw the mutation ends up with the same rows.
func (p *pendingChanges[T]) replay(fetched []T, key func(T) string) []T {
	for _, c := range p.changes {
		idx := -1
		for i, r := range fetched {
			if key(r) == c.id {
				idx = i
				break
			}
		}

		switch c.kind {
		case rowCreated:
			if idx >= 0 {
				fetched[idx] = c.row
			} else {
				fetched = append([]T{c.row}, fetched...)
			}
		case rowUpdated:
			if idx >= 0 {
				fetched[idx] = c.row
			}
		case rowDeleted:
			if idx >= 0 {
				fetched = removeByID(fetched, c.id, key)
			}
		}
	}
	return fetched
}
