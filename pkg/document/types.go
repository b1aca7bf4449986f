package document

// Target names the kind of assignment an expression carries.
type Target string

const (
	TargetShader       Target = "shader"
	TargetDisplacement Target = "displacement"
	TargetAttribute    Target = "attribute"
)

// Targets lists the known targets in their canonical order.
var Targets = []Target{TargetShader, TargetDisplacement, TargetAttribute}

// DefaultRenderLayer is the layer used when an expression has several.
const DefaultRenderLayer = "defaultRenderLayer"

// Valid reports whether t is a known target.
func (t Target) Valid() bool {
	switch t {
	case TargetShader, TargetDisplacement, TargetAttribute:
		return true
	}
	return false
}

// Document is an assignment document: a list of expressions, each carrying
// per render layer the material assigned to every target.
type Document struct {
	// Mangled is set when expressions are stored with '\' instead of '/'.
	Mangled     bool     `yaml:"mangled,omitempty"`
	Expressions []*Entry `yaml:"expressions"`
}

// Entry is one expression of a document.
type Entry struct {
	Expression string                       `yaml:"expression"`
	Group      string                       `yaml:"group,omitempty"`
	Layers     map[string]map[Target]string `yaml:"layers"`
}

// Format is the serialization of a document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)
