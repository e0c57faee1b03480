// Package state holds the daemon's shared stores. All writes are whole-value
// replacements performed on the engine loop.
package state

import "github.com/barkeepapp/barkeep/internal/item"

// ItemStore holds the latest classified partition. Reads return copies;
// ordinals can shift arbitrarily between snapshots, so the cache is only
// ever replaced whole.
type ItemStore interface {
	Partition() item.Partition
	SetPartition(item.Partition)
}

type itemStore struct {
	partition item.Partition
}

func NewItemStore() ItemStore {
	return &itemStore{}
}

func (s *itemStore) Partition() item.Partition {
	return clonePartition(s.partition)
}

func (s *itemStore) SetPartition(p item.Partition) {
	s.partition = clonePartition(p)
}

func clonePartition(p item.Partition) item.Partition {
	return item.Partition{
		Visible:      cloneItems(p.Visible),
		Hidden:       cloneItems(p.Hidden),
		AlwaysHidden: cloneItems(p.AlwaysHidden),
	}
}

func cloneItems(items []item.Item) []item.Item {
	if len(items) == 0 {
		return nil
	}
	dup := make([]item.Item, len(items))
	copy(dup, items)
	return dup
}
