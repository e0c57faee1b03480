package state

// TempShownStore tracks items force-shown for the current interaction cycle
// so the rehide pass leaves them alone. Entries are removed on the engine
// loop, either when a snapshot confirms the item settled in the visible
// section or when its move fails.
type TempShownStore interface {
	Add(windowID uint32)
	Remove(windowID uint32)
	Contains(windowID uint32) bool
	IDs() []uint32
}

type tempShownStore struct {
	ids map[uint32]struct{}
}

func NewTempShownStore() TempShownStore {
	return &tempShownStore{ids: make(map[uint32]struct{})}
}

func (s *tempShownStore) Add(windowID uint32) {
	s.ids[windowID] = struct{}{}
}

func (s *tempShownStore) Remove(windowID uint32) {
	delete(s.ids, windowID)
}

func (s *tempShownStore) Contains(windowID uint32) bool {
	_, ok := s.ids[windowID]
	return ok
}

func (s *tempShownStore) IDs() []uint32 {
	out := make([]uint32, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	return out
}
