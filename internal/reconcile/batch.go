package reconcile

// chunk splits ids into consecutive slices of at most size elements.
func chunk[T any](ids []T, size int) [][]T {
	if size <= 0 {
		size = len(ids)
	}
	var batches [][]T
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, ids[start:end])
	}
	return batches
}
