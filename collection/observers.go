package collection

import (
	"cmp"

	"github.com/arborix/intervalstore/interval"
)

// Notifier is an embeddable helper that gives a concrete index
// Subscribe/notify machinery without repeating it in every package.
// Notifications are synchronous and fire in the fixed order required by
// the spec: the specific event first, then CollectionChanged.
type Notifier[T cmp.Ordered, I interval.Interval[T]] struct {
	observers []Observer[T, I]
}

// Subscribe registers obs and returns a function that removes it.
func (n *Notifier[T, I]) Subscribe(obs Observer[T, I]) (unsubscribe func()) {
	n.observers = append(n.observers, obs)
	idx := len(n.observers) - 1
	return func() {
		if idx < 0 || idx >= len(n.observers) || n.observers[idx] == nil {
			return
		}
		n.observers[idx] = nil
	}
}

// NotifyAdded fires ItemsAdded then CollectionChanged on every live
// subscriber, in subscription order.
func (n *Notifier[T, I]) NotifyAdded(items []I) {
	if len(items) == 0 {
		return
	}
	for _, obs := range n.observers {
		if obs == nil {
			continue
		}
		obs.ItemsAdded(items)
		obs.CollectionChanged()
	}
}

// NotifyRemoved fires ItemsRemoved then CollectionChanged.
func (n *Notifier[T, I]) NotifyRemoved(items []I) {
	if len(items) == 0 {
		return
	}
	for _, obs := range n.observers {
		if obs == nil {
			continue
		}
		obs.ItemsRemoved(items)
		obs.CollectionChanged()
	}
}

// NotifyCleared fires CollectionCleared then CollectionChanged.
func (n *Notifier[T, I]) NotifyCleared() {
	for _, obs := range n.observers {
		if obs == nil {
			continue
		}
		obs.CollectionCleared()
		obs.CollectionChanged()
	}
}
