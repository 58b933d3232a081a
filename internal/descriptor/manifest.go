package descriptor

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"go-umlgraph/internal/errors"
	"go-umlgraph/internal/logger"
)

// Manifest is the serialized form read by ManifestProvider.
type Manifest struct {
	Types []TypeDescriptor `yaml:"types" toml:"types" json:"types"`
}

// ManifestProvider reads descriptors from a YAML, TOML or JSON manifest.
type ManifestProvider struct{}

// NewManifestProvider creates a ManifestProvider.
func NewManifestProvider() *ManifestProvider {
	return &ManifestProvider{}
}

// LoadDescriptors decodes the manifest at path. Entries with neither a name
// nor a qualified name are skipped.
func (p *ManifestProvider) LoadDescriptors(ctx context.Context, path string) ([]TypeDescriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapArtifactAccess(err, path)
	}

	manifest, err := DecodeManifest(filepath.Ext(path), data)
	if err != nil {
		return nil, errors.WrapArtifactAccess(err, path)
	}

	descs := make([]TypeDescriptor, 0, len(manifest.Types))
	for i, d := range manifest.Types {
		resolved, err := resolveEntry(d)
		if err != nil {
			logger.Debugw("Skipping manifest entry",
				"file", path,
				"index", i,
				"error", err)
			continue
		}
		descs = append(descs, resolved)
	}

	logger.Debugw("Manifest loaded",
		"file", path,
		"types", len(descs),
		"skipped", len(manifest.Types)-len(descs))
	return descs, nil
}

// DecodeManifest decodes data according to the file extension ext. Keys
// that do not belong to the manifest format are rejected in every format.
func DecodeManifest(ext string, data []byte) (*Manifest, error) {
	var m Manifest
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.Wrap(err, "failed to decode YAML manifest")
		}
	case ".toml":
		md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&m)
		if err != nil {
			return nil, errors.Wrap(err, "failed to decode TOML manifest")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, errors.Newf("failed to decode TOML manifest: unknown keys %s", strings.Join(keys, ", "))
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&m); err != nil {
			return nil, errors.Wrap(err, "failed to decode JSON manifest")
		}
	default:
		return nil, errors.Newf("unsupported manifest extension %q", ext)
	}
	return &m, nil
}

// resolveEntry fills in names the manifest may leave out, on the entry and
// on every type reference it contains.
func resolveEntry(d TypeDescriptor) (TypeDescriptor, error) {
	switch {
	case d.Name == "" && d.QualifiedName == "":
		return d, errors.Wrap(errors.ErrUnresolvable, "entry has no name")
	case d.Name == "":
		d.Name = SimpleName(d.QualifiedName)
	case d.QualifiedName == "":
		d.QualifiedName = d.Name
	}

	for i := range d.Fields {
		d.Fields[i].Type = resolveRef(d.Fields[i].Type)
	}
	for i := range d.Methods {
		d.Methods[i].Params = resolveRefs(d.Methods[i].Params)
		d.Methods[i].Returns = resolveRef(d.Methods[i].Returns)
	}
	for i := range d.Constructors {
		d.Constructors[i].Params = resolveRefs(d.Constructors[i].Params)
	}

	if d.Supertype != nil {
		s := resolveRef(*d.Supertype)
		d.Supertype = &s
	}
	d.Interfaces = resolveRefs(d.Interfaces)
	return d, nil
}

// resolveRef defaults the simple name from the qualified name and the
// qualified name from the simple name. A reference with a component is an
// unnamed composite and keeps an empty qualified name.
func resolveRef(r TypeRef) TypeRef {
	switch {
	case r.Name == "" && r.QualifiedName != "":
		r.Name = SimpleName(r.QualifiedName)
	case r.QualifiedName == "" && r.Name != "" && r.Component == nil:
		r.QualifiedName = r.Name
	}
	if r.Component != nil {
		c := resolveRef(*r.Component)
		r.Component = &c
	}
	r.Args = resolveRefs(r.Args)
	return r
}

func resolveRefs(refs []TypeRef) []TypeRef {
	if refs == nil {
		return nil
	}
	out := make([]TypeRef, len(refs))
	for i, r := range refs {
		out[i] = resolveRef(r)
	}
	return out
}
