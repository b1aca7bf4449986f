package resolver

import (
	"sort"
	"strings"

	"walter/pkg/assignment"
	"walter/pkg/document"
)

// Resolver answers assignment queries against built assignments and
// memoizes the answers. It is safe for concurrent use.
type Resolver struct {
	assignments *document.Assignments
	cache       *assignment.Cache[string]
}

// ShaderSet is a surface shader and a displacement shader that may end up on
// the same object.
type ShaderSet struct {
	Surface      string `yaml:"surface" json:"surface"`
	Displacement string `yaml:"displacement" json:"displacement"`
}

// New creates a resolver over a.
func New(a *document.Assignments) *Resolver {
	return &Resolver{
		assignments: a,
		cache:       assignment.NewCache[string](),
	}
}

// Resolve returns the value assigned to object for target.
func (r *Resolver) Resolve(target document.Target, object string) (string, bool) {
	return r.cache.Load(string(target), object, func() (string, bool) {
		return assignment.Resolve(object, r.assignments.Table(target))
	})
}

// ShaderAssignment returns the material name assigned to object, without the
// output part: "marble.message" gives "marble". Empty when nothing applies.
func (r *Resolver) ShaderAssignment(object string, target document.Target) string {
	value, ok := r.Resolve(target, object)
	if !ok {
		return ""
	}

	name, _, _ := strings.Cut(value, ".")
	return name
}

// CacheSize returns the number of memoized queries.
func (r *Resolver) CacheSize() int {
	return r.cache.Len()
}

// ShaderSets lists the surface and displacement combinations that can apply
// to the same objects. Two literal expressions combine when one is the other
// or its ancestor. When either is a pattern they combine when one matches the
// other.
func (r *Resolver) ShaderSets() []ShaderSet {
	surfaces := r.assignments.Table(document.TargetShader)
	displacements := r.assignments.Table(document.TargetDisplacement)

	seen := make(map[ShaderSet]struct{})
	for surfExp, surface := range surfaces.All() {
		for dispExp, displacement := range displacements.All() {
			if !surfExp.IsPattern() && !dispExp.IsPattern() {
				surfParent, _ := surfExp.IsParentOf(dispExp.Text())
				dispParent, _ := dispExp.IsParentOf(surfExp.Text())
				if !surfParent && !dispParent {
					continue
				}
			} else if !surfExp.MatchesExpression(dispExp) && !dispExp.MatchesExpression(surfExp) {
				continue
			}

			seen[ShaderSet{Surface: surface, Displacement: displacement}] = struct{}{}
		}
	}

	sets := make([]ShaderSet, 0, len(seen))
	for s := range seen {
		sets = append(sets, s)
	}
	sort.Slice(sets, func(i, j int) bool {
		if sets[i].Surface != sets[j].Surface {
			return sets[i].Surface < sets[j].Surface
		}
		return sets[i].Displacement < sets[j].Displacement
	})

	return sets
}
