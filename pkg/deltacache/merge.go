package deltacache

import "github.com/okatz/anchorsync/pkg/gateway"

// Merge combines two snapshot collections keyed by remote id. For every
// id present in either, the record with the newer lastModifiedDateTime
// survives; a record without that timestamp is always superseded by one
// that has it. Pure, associative and idempotent: Merge(a, a) == a.
func Merge(existing, incoming map[string]gateway.Task) map[string]gateway.Task {
	merged := make(map[string]gateway.Task, len(existing)+len(incoming))
	for id, t := range existing {
		merged[id] = t
	}
	for id, in := range incoming {
		cur, ok := merged[id]
		if !ok || newerOrEqual(in, cur) {
			merged[id] = in
		}
	}
	return merged
}

func newerOrEqual(a, b gateway.Task) bool {
	switch {
	case a.LastModifiedDateTime == nil:
		return b.LastModifiedDateTime == nil
	case b.LastModifiedDateTime == nil:
		return true
	default:
		return !a.LastModifiedDateTime.Before(*b.LastModifiedDateTime)
	}
}
