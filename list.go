package indexedlru

// detach unlinks n from wherever it currently sits. It does not touch n's
// stamps (epoch, index, dropped) and does not move the ghostHead marker --
// callers that detach a node adjacent to ghostHead are responsible for
// advancing the marker themselves.
func detach[K comparable, V any](n *entry[K, V]) {
	n.prev.next = n.next
	n.next.prev = n.prev
}

// attachAt splices n between head and head.next (the new MRU slot) and
// stamps its epoch. Callers own inserting n into the key index.
func attachAt[K comparable, V any](head, n *entry[K, V], epoch uint64) {
	n.epoch = epoch
	n.prev = head
	n.next = head.next
	head.next.prev = n
	head.next = n
}
