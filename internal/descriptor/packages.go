package descriptor

import (
	"context"
	"go/types"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"go-umlgraph/internal/errors"
	"go-umlgraph/internal/logger"
)

// loadMode type-checks the root packages from source, so declared objects
// carry source positions. Dependencies come from export data.
const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedImports |
	packages.NeedTypes | packages.NeedSyntax | packages.NeedTypesInfo

// PackagesProvider derives descriptors from compiled Go packages using
// go/packages and go/types.
type PackagesProvider struct {
	// Tests also loads _test.go files, so types declared in tests appear.
	Tests bool
}

// NewPackagesProvider creates a PackagesProvider.
func NewPackagesProvider(tests bool) *PackagesProvider {
	return &PackagesProvider{Tests: tests}
}

// LoadDescriptors loads every package under artifactPath, which is either a
// directory or a pattern ending in "/...". Packages that fail to type-check
// are skipped.
func (p *PackagesProvider) LoadDescriptors(ctx context.Context, artifactPath string) ([]TypeDescriptor, error) {
	dir := strings.TrimSuffix(artifactPath, "/...")
	if dir == "" {
		dir = "."
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.WrapArtifactAccess(err, artifactPath)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return nil, errors.WrapArtifactAccess(err, artifactPath)
	}
	if !info.IsDir() {
		return nil, errors.WithHint(
			errors.WrapArtifactAccess(errors.Newf("%s is not a directory", absDir), artifactPath),
			"pass a Go package directory, a pattern like ./pkg/..., or a .yaml/.toml/.json manifest")
	}

	logger.Debugw("Loading packages", "dir", absDir)
	cfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     absDir,
		Tests:   p.Tests,
	}
	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return nil, errors.WrapArtifactAccess(err, artifactPath)
	}

	c := newCollector()
	c.collect(pkgs)
	logger.Debugw("Packages loaded",
		"packages", len(pkgs),
		"skipped", c.skipped,
		"types", len(c.descs))
	return c.descs, nil
}

// collector turns type-checked packages into descriptors.
type collector struct {
	descs   []TypeDescriptor
	skipped int

	// ifaces holds every non-empty interface seen, for implements checks.
	ifaces []namedIface
}

type namedIface struct {
	ref TypeRef
	typ *types.Interface
}

func newCollector() *collector {
	return &collector{}
}

// collect visits the root packages in import path order. With tests
// enabled a package is loaded twice, plain and with its _test.go files; only
// the variant with more files is kept, and generated test mains are dropped.
func (c *collector) collect(pkgs []*packages.Package) {
	byPath := make(map[string]*packages.Package)
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 || pkg.Types == nil {
			for _, e := range pkg.Errors {
				logger.Warnw("Skipping package with errors",
					"package", pkg.PkgPath,
					"error", e.Msg)
			}
			c.skipped++
			continue
		}
		if pkg.Name == "main" && strings.HasSuffix(pkg.PkgPath, ".test") {
			continue
		}
		if prev, ok := byPath[pkg.PkgPath]; ok && len(prev.GoFiles) >= len(pkg.GoFiles) {
			continue
		}
		byPath[pkg.PkgPath] = pkg
	}
	roots := make([]*packages.Package, 0, len(byPath))
	for _, pkg := range byPath {
		roots = append(roots, pkg)
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].PkgPath < roots[j].PkgPath })

	// Interfaces first, so struct descriptors can list what they implement.
	for _, pkg := range roots {
		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || tn.IsAlias() {
				continue
			}
			if isGeneric(tn.Type()) {
				continue
			}
			if iface, ok := tn.Type().Underlying().(*types.Interface); ok && iface.NumMethods() > 0 {
				c.ifaces = append(c.ifaces, namedIface{ref: refOf(tn.Type()), typ: iface})
			}
		}
	}
	sort.SliceStable(c.ifaces, func(i, j int) bool {
		return c.ifaces[i].ref.QualifiedName < c.ifaces[j].ref.QualifiedName
	})

	for _, pkg := range roots {
		c.collectPackage(pkg.Types)
	}
}

func (c *collector) collectPackage(pkg *types.Package) {
	scope := pkg.Scope()
	ctors := constructors(scope)

	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || tn.IsAlias() {
			continue
		}
		named, ok := tn.Type().(*types.Named)
		if !ok {
			continue
		}

		d := TypeDescriptor{
			Name:          name,
			QualifiedName: pkg.Path() + "." + name,
			Constructors:  ctors[name],
		}

		switch u := named.Underlying().(type) {
		case *types.Interface:
			d.Interface = true
			for _, fn := range explicitMethods(u) {
				d.Methods = append(d.Methods, methodOf(fn))
			}
			for i := 0; i < u.NumEmbeddeds(); i++ {
				if ref := refOf(u.EmbeddedType(i)); ref.Concrete() {
					d.Interfaces = append(d.Interfaces, ref)
				}
			}
		case *types.Struct:
			for i := 0; i < u.NumFields(); i++ {
				f := u.Field(i)
				if f.Embedded() {
					et := deref(f.Type())
					switch et.Underlying().(type) {
					case *types.Struct:
						if d.Supertype == nil {
							ref := refOf(et)
							d.Supertype = &ref
							continue
						}
					case *types.Interface:
						d.Interfaces = append(d.Interfaces, refOf(et))
						continue
					}
				}
				d.Fields = append(d.Fields, Field{Name: f.Name(), Type: refOf(f.Type())})
			}
		}

		if !d.Interface {
			for i := 0; i < named.NumMethods(); i++ {
				d.Methods = append(d.Methods, methodOf(named.Method(i)))
			}
			if !isGeneric(named) {
				d.Interfaces = c.implemented(named, d.Interfaces)
			}
		}

		c.descs = append(c.descs, d)
	}
}

// implemented appends every known interface that t or *t implements and
// that is not already listed.
func (c *collector) implemented(t *types.Named, listed []TypeRef) []TypeRef {
	have := make(map[string]bool, len(listed))
	for _, ref := range listed {
		have[ref.QualifiedName] = true
	}
	self := refOf(t).QualifiedName
	ptr := types.NewPointer(t)
	for _, iface := range c.ifaces {
		key := iface.ref.QualifiedName
		if have[key] || key == self {
			continue
		}
		if types.Implements(t, iface.typ) || types.Implements(ptr, iface.typ) {
			listed = append(listed, iface.ref)
			have[key] = true
		}
	}
	return listed
}

// constructors finds New* functions per type name. A function is a
// constructor of T when its first result is T or *T.
func constructors(scope *types.Scope) map[string][]Constructor {
	out := make(map[string][]Constructor)
	for _, name := range scope.Names() {
		fn, ok := scope.Lookup(name).(*types.Func)
		if !ok || !strings.HasPrefix(name, "New") {
			continue
		}
		sig := fn.Type().(*types.Signature)
		if sig.Results().Len() == 0 {
			continue
		}
		named, ok := deref(sig.Results().At(0).Type()).(*types.Named)
		if !ok || named.Obj().Pkg() != fn.Pkg() {
			continue
		}
		if _, isIface := named.Underlying().(*types.Interface); isIface {
			continue
		}
		out[named.Obj().Name()] = append(out[named.Obj().Name()], Constructor{Params: paramsOf(sig)})
	}
	return out
}

// explicitMethods returns the methods declared in iface in source order.
// go/types keeps them sorted by name.
func explicitMethods(iface *types.Interface) []*types.Func {
	fns := make([]*types.Func, iface.NumExplicitMethods())
	for i := range fns {
		fns[i] = iface.ExplicitMethod(i)
	}
	sort.SliceStable(fns, func(i, j int) bool { return fns[i].Pos() < fns[j].Pos() })
	return fns
}

func methodOf(fn *types.Func) Method {
	sig := fn.Type().(*types.Signature)
	m := Method{Name: fn.Name(), Params: paramsOf(sig)}

	results := sig.Results()
	switch results.Len() {
	case 0:
	case 1:
		m.Returns = refOf(results.At(0).Type())
	default:
		names := make([]string, results.Len())
		for i := 0; i < results.Len(); i++ {
			names[i] = refOf(results.At(i).Type()).Name
		}
		m.Returns = TypeRef{Name: "(" + strings.Join(names, ", ") + ")"}
	}
	return m
}

func paramsOf(sig *types.Signature) []TypeRef {
	params := sig.Params()
	if params.Len() == 0 {
		return nil
	}
	refs := make([]TypeRef, params.Len())
	for i := 0; i < params.Len(); i++ {
		refs[i] = refOf(params.At(i).Type())
	}
	return refs
}

// refOf builds a TypeRef. Pointers, slices, arrays and channels carry their
// element as Component with pointers stripped; maps carry key and value as
// Args.
func refOf(t types.Type) TypeRef {
	switch tt := t.(type) {
	case *types.Alias:
		return refOf(types.Unalias(tt))
	case *types.Named:
		obj := tt.Obj()
		ref := TypeRef{Name: obj.Name(), QualifiedName: obj.Name()}
		if obj.Pkg() != nil {
			ref.QualifiedName = obj.Pkg().Path() + "." + obj.Name()
		}
		if targs := tt.TypeArgs(); targs != nil {
			for i := 0; i < targs.Len(); i++ {
				ref.Args = append(ref.Args, refOf(targs.At(i)))
			}
		}
		return ref
	case *types.Basic:
		return TypeRef{Name: tt.Name(), QualifiedName: tt.Name()}
	case *types.Pointer:
		return withComponent(t, tt.Elem())
	case *types.Slice:
		return withComponent(t, tt.Elem())
	case *types.Array:
		return withComponent(t, tt.Elem())
	case *types.Chan:
		return withComponent(t, tt.Elem())
	case *types.Map:
		return TypeRef{Name: simpleString(t), Args: []TypeRef{refOf(tt.Key()), refOf(tt.Elem())}}
	default:
		return TypeRef{Name: simpleString(t)}
	}
}

func withComponent(t, elem types.Type) TypeRef {
	comp := refOf(deref(elem))
	return TypeRef{Name: simpleString(t), Component: &comp}
}

// isGeneric reports whether t is an uninstantiated generic type, for which
// types.Implements is unspecified.
func isGeneric(t types.Type) bool {
	named, ok := t.(*types.Named)
	return ok && named.TypeParams().Len() > 0 && named.TypeArgs().Len() == 0
}

func deref(t types.Type) types.Type {
	if ptr, ok := t.(*types.Pointer); ok {
		return ptr.Elem()
	}
	return t
}

// simpleString spells t without package qualifiers.
func simpleString(t types.Type) string {
	return types.TypeString(t, func(*types.Package) string { return "" })
}
