package modelfile

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes the top level of a model file, which behaves like the
// body of the root namespace.
type fileRoot struct {
	Scenarios  []*namespaceBlock `hcl:"scenario,block"`
	Assemblies []*namespaceBlock `hcl:"assembly,block"`
	Objects    []*objectBlock    `hcl:"object,block"`
}

// namespaceBlock decodes a scenario or assembly block.
type namespaceBlock struct {
	Name       string            `hcl:"name,label"`
	Icon       *string           `hcl:"icon,optional"`
	Visible    *bool             `hcl:"visible,optional"`
	External   []string          `hcl:"external,optional"`
	Scenarios  []*namespaceBlock `hcl:"scenario,block"`
	Assemblies []*namespaceBlock `hcl:"assembly,block"`
	Objects    []*objectBlock    `hcl:"object,block"`
	DefRange   hcl.Range         `hcl:",def_range"`
}

// objectBlock decodes an object block.
type objectBlock struct {
	Type        string            `hcl:"type,label"`
	Name        string            `hcl:"name,label"`
	Method      *string           `hcl:"method,optional"`
	Icon        *string           `hcl:"icon,optional"`
	Visible     *bool             `hcl:"visible,optional"`
	Inputs      *inputsBlock      `hcl:"inputs,block"`
	Expressions map[string]string `hcl:"expressions,optional"`
	DefRange    hcl.Range         `hcl:",def_range"`
}

// inputsBlock keeps the raw body so each attribute's source text can be
// recovered.
type inputsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// member is a scenario, assembly or object block in source order.
type member struct {
	kind   string
	ns     *namespaceBlock
	object *objectBlock
}

func (m member) start() int {
	if m.ns != nil {
		return m.ns.DefRange.Start.Byte
	}
	return m.object.DefRange.Start.Byte
}
