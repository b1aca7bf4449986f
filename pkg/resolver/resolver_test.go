package resolver

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walter/pkg/document"
)

func build(t *testing.T, entries ...*document.Entry) *Resolver {
	t.Helper()

	a, err := document.Build(&document.Document{Expressions: entries}, document.Options{})
	require.NoError(t, err)
	return New(a)
}

func entry(expr string, targets map[document.Target]string) *document.Entry {
	return &document.Entry{
		Expression: expr,
		Layers:     map[string]map[document.Target]string{document.DefaultRenderLayer: targets},
	}
}

func TestResolver_ShaderAssignment(t *testing.T) {
	t.Parallel()

	r := build(t,
		entry("/root", map[document.Target]string{document.TargetShader: "grey.message"}),
		entry("/root/geo/.*", map[document.Target]string{document.TargetShader: "marble"}),
	)

	require.Equal(t, "grey", r.ShaderAssignment("/root/cam", document.TargetShader))
	require.Equal(t, "marble", r.ShaderAssignment("/root/geo/arm", document.TargetShader))
	require.Empty(t, r.ShaderAssignment("/other", document.TargetShader))
	require.Empty(t, r.ShaderAssignment("/root", document.TargetDisplacement))
}

func TestResolver_Memoizes(t *testing.T) {
	t.Parallel()

	r := build(t, entry("/root", map[document.Target]string{document.TargetShader: "grey"}))

	v, ok := r.Resolve(document.TargetShader, "/root/a")
	require.True(t, ok)
	require.Equal(t, "grey", v)

	_, _ = r.Resolve(document.TargetShader, "/root/a")
	_, _ = r.Resolve(document.TargetShader, "/other")
	require.Equal(t, 2, r.CacheSize())
}

func TestResolver_Concurrent(t *testing.T) {
	t.Parallel()

	r := build(t,
		entry("/root", map[document.Target]string{document.TargetShader: "grey"}),
		entry(`/root/mesh\d+`, map[document.Target]string{document.TargetShader: "marble"}),
	)

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				assert.Equal(t, "marble", r.ShaderAssignment("/root/mesh1", document.TargetShader))
			} else {
				assert.Equal(t, "grey", r.ShaderAssignment("/root/cam", document.TargetShader))
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 2, r.CacheSize())
}

func TestResolver_ShaderSets(t *testing.T) {
	t.Parallel()

	r := build(t,
		entry("/root/geo", map[document.Target]string{document.TargetShader: "marble"}),
		entry("/root/geo/arm", map[document.Target]string{document.TargetDisplacement: "scales"}),
		entry("/root/cam", map[document.Target]string{document.TargetDisplacement: "unrelated"}),
		entry("/root/body/.*", map[document.Target]string{document.TargetShader: "skin"}),
		entry("/root/body/torso", map[document.Target]string{document.TargetDisplacement: "muscles"}),
		entry("/root/hair/.*", map[document.Target]string{document.TargetDisplacement: "strands"}),
	)

	require.Equal(t, []ShaderSet{
		{Surface: "marble", Displacement: "scales"},
		{Surface: "skin", Displacement: "muscles"},
	}, r.ShaderSets())
}

func TestResolver_ShaderSetsSameExpression(t *testing.T) {
	t.Parallel()

	r := build(t,
		entry("/root/geo", map[document.Target]string{
			document.TargetShader:       "marble",
			document.TargetDisplacement: "bumps",
		}),
	)

	require.Equal(t, []ShaderSet{{Surface: "marble", Displacement: "bumps"}}, r.ShaderSets())
}

func TestResolver_ShaderSetsEmpty(t *testing.T) {
	t.Parallel()

	r := build(t, entry("/root", map[document.Target]string{document.TargetShader: "grey"}))
	require.Empty(t, r.ShaderSets())
}
