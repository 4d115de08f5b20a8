package modelfile

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/paragrid/internal/ctxlog"
	"github.com/specialistvlad/paragrid/internal/fsutil"
	"github.com/specialistvlad/paragrid/internal/model"
)

// Extension is the suffix of model files found when a directory is loaded.
const Extension = ".hcl"

// Stats summarises what a load created.
type Stats struct {
	Files      int
	Namespaces int
	Objects    int
	Externals  int
	Inputs     int
}

// binding is an input assignment collected in the first pass.
type binding struct {
	object *model.Object
	slot   string
	text   string
	rng    hcl.Range
}

// externalRef is a scenario's external member list collected in the first pass.
type externalRef struct {
	scenario *model.Scenario
	paths    []string
	rng      hcl.Range
}

type loader struct {
	model     *model.Model
	parser    *hclparse.Parser
	bindings  []binding
	externals []externalRef
	stats     Stats
}

// Load reads every model file under paths into m. Directories are searched
// recursively for files ending in Extension.
func Load(ctx context.Context, m *model.Model, paths ...string) (Stats, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Model loader started.", "path_count", len(paths))

	files, err := fsutil.FindFiles(paths, Extension)
	if err != nil {
		return Stats{}, err
	}
	logger.Debug("Discovered model files.", "count", len(files))

	l := newLoader(m)
	var parsed []*hcl.File
	for _, name := range files {
		src, err := os.ReadFile(name)
		if err != nil {
			return Stats{}, fmt.Errorf("failed to read model file %s: %w", name, err)
		}
		f, err := l.parse(name, src)
		if err != nil {
			return Stats{}, err
		}
		parsed = append(parsed, f)
	}
	return l.load(ctx, parsed)
}

// LoadSource reads a single model held in memory. filename is only used in
// error messages.
func LoadSource(ctx context.Context, m *model.Model, filename string, src []byte) (Stats, error) {
	l := newLoader(m)
	f, err := l.parse(filename, src)
	if err != nil {
		return Stats{}, err
	}
	return l.load(ctx, []*hcl.File{f})
}

func newLoader(m *model.Model) *loader {
	return &loader{model: m, parser: hclparse.NewParser()}
}

func (l *loader) parse(filename string, src []byte) (*hcl.File, error) {
	f, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse model file %s: %w", filename, diags)
	}
	return f, nil
}

func (l *loader) load(ctx context.Context, files []*hcl.File) (Stats, error) {
	logger := ctxlog.FromContext(ctx)

	err := l.model.Suspend(func() error {
		for _, f := range files {
			var root fileRoot
			if diags := gohcl.DecodeBody(f.Body, nil, &root); diags.HasErrors() {
				return fmt.Errorf("failed to decode model file: %w", diags)
			}
			members := ordered(root.Scenarios, root.Assemblies, root.Objects)
			if err := l.addMembers(ctx, l.model.Root(), members, f.Bytes); err != nil {
				return err
			}
			l.stats.Files++
		}
		if err := l.attachExternals(); err != nil {
			return err
		}
		return l.bindInputs(ctx)
	})
	if err != nil {
		return Stats{}, err
	}

	logger.Debug("Model loading complete.",
		"files", l.stats.Files,
		"namespaces", l.stats.Namespaces,
		"objects", l.stats.Objects,
		"externals", l.stats.Externals,
		"inputs", l.stats.Inputs,
	)
	return l.stats, nil
}

// ordered merges the member blocks of one body back into source order.
func ordered(scenarios, assemblies []*namespaceBlock, objects []*objectBlock) []member {
	out := make([]member, 0, len(scenarios)+len(assemblies)+len(objects))
	for _, s := range scenarios {
		out = append(out, member{kind: "scenario", ns: s})
	}
	for _, a := range assemblies {
		out = append(out, member{kind: "assembly", ns: a})
	}
	for _, o := range objects {
		out = append(out, member{kind: "object", object: o})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].start() < out[j].start() })
	return out
}

func (l *loader) addMembers(ctx context.Context, parent model.Namespace, members []member, src []byte) error {
	for _, mem := range members {
		var err error
		if mem.object != nil {
			err = l.addObject(parent, mem.object, src)
		} else {
			err = l.addNamespace(ctx, parent, mem.kind, mem.ns, src)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (l *loader) addNamespace(ctx context.Context, parent model.Namespace, kind string, b *namespaceBlock, src []byte) error {
	var ns model.Namespace
	switch kind {
	case "scenario":
		s, err := l.model.NewScenario(parent, b.Name)
		if err != nil {
			return rangeErr(b.DefRange, err)
		}
		if len(b.External) > 0 {
			l.externals = append(l.externals, externalRef{scenario: s, paths: b.External, rng: b.DefRange})
		}
		ns = s
	default:
		if len(b.External) > 0 {
			return diagnostic(b.DefRange, "Unexpected external members",
				fmt.Sprintf("Assembly %q lists external members; only scenarios can have them.", b.Name))
		}
		a, err := l.model.NewAssembly(parent, b.Name)
		if err != nil {
			return rangeErr(b.DefRange, err)
		}
		ns = a
	}
	applyView(ns, b.Icon, b.Visible)
	l.stats.Namespaces++

	ctxlog.FromContext(ctx).Debug("Namespace declared.", "kind", kind, "name", ns.CanonicalName())
	return l.addMembers(ctx, ns, ordered(b.Scenarios, b.Assemblies, b.Objects), src)
}

func (l *loader) addObject(parent model.Namespace, b *objectBlock, src []byte) error {
	o, err := l.model.NewObject(parent, b.Type, b.Name)
	if err != nil {
		return rangeErr(b.DefRange, err)
	}
	applyView(o, b.Icon, b.Visible)
	l.stats.Objects++

	hasInputs := b.Inputs != nil || len(b.Expressions) > 0
	if b.Method == nil {
		if hasInputs {
			return diagnostic(b.DefRange, "Inputs without a method",
				fmt.Sprintf("Object %q binds inputs but selects no method.", b.Name))
		}
		return nil
	}
	if err := o.SetMethod(*b.Method); err != nil {
		return rangeErr(b.DefRange, err)
	}

	seen := make(map[string]struct{})
	if b.Inputs != nil {
		attrs, diags := b.Inputs.Body.JustAttributes()
		if diags.HasErrors() {
			return diags
		}
		list := make([]*hcl.Attribute, 0, len(attrs))
		for _, a := range attrs {
			list = append(list, a)
		}
		sort.Slice(list, func(i, j int) bool { return list[i].Range.Start.Byte < list[j].Range.Start.Byte })
		for _, a := range list {
			rng := a.Expr.Range()
			seen[a.Name] = struct{}{}
			l.bindings = append(l.bindings, binding{object: o, slot: a.Name, text: string(rng.SliceBytes(src)), rng: rng})
		}
	}

	names := make([]string, 0, len(b.Expressions))
	for name := range b.Expressions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, dup := seen[name]; dup {
			return diagnostic(b.DefRange, "Duplicate input",
				fmt.Sprintf("Input %q of object %q is set in both inputs and expressions.", name, b.Name))
		}
		l.bindings = append(l.bindings, binding{object: o, slot: name, text: b.Expressions[name], rng: b.DefRange})
	}
	return nil
}

func (l *loader) attachExternals() error {
	for _, ref := range l.externals {
		for _, path := range ref.paths {
			v, err := l.model.Lookup(path)
			if err != nil {
				return rangeErr(ref.rng, err)
			}
			e, ok := v.(model.Entity)
			if !ok {
				return diagnostic(ref.rng, "Invalid external member",
					fmt.Sprintf("%q does not name an entity.", path))
			}
			if err := ref.scenario.AddExternal(e); err != nil {
				return rangeErr(ref.rng, err)
			}
			l.stats.Externals++
		}
	}
	return nil
}

func (l *loader) bindInputs(ctx context.Context) error {
	for _, b := range l.bindings {
		if err := b.object.SetInput(ctx, b.slot, b.text); err != nil {
			return rangeErr(b.rng, err)
		}
		l.stats.Inputs++
	}
	return nil
}

type viewable interface {
	SetIcon(string)
	SetVisible(bool)
}

func applyView(e viewable, icon *string, visible *bool) {
	if icon != nil {
		e.SetIcon(*icon)
	}
	if visible != nil {
		e.SetVisible(*visible)
	}
}

func rangeErr(rng hcl.Range, err error) error {
	return fmt.Errorf("%s: %w", rng.String(), err)
}

func diagnostic(rng hcl.Range, summary, detail string) error {
	return hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   detail,
		Subject:  rng.Ptr(),
	}}
}
