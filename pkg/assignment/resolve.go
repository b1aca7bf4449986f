package assignment

// Resolve returns the value whose expression fits path best:
//  1. the literal expression equal to path
//  2. a pattern matching the whole path
//  3. the closest literal ancestor of path
//
// The table is walked from the last expression to the first so that deeper
// paths are usually met before their ancestors. The first literal ancestor
// met is kept while the walk goes on looking for an exact match or a
// pattern; the first of those met wins.
func Resolve[V any](path string, t *Table[V]) (V, bool) {
	var ancestor V
	found := false

	for expr, value := range t.Backward() {
		if !found {
			if isParent, isSelf := expr.IsParentOf(path); isParent {
				ancestor = value
				found = true

				if isSelf {
					return ancestor, true
				}
			}
		}

		if expr.MatchesPath(path) {
			return value, true
		}
	}

	return ancestor, found
}
