package descriptor

import (
	"context"
	"path/filepath"
	"strings"
)

// Provider loads the type descriptors of one artifact.
//
// Entries that cannot be resolved to a descriptor are skipped; a provider
// fails only when the artifact itself cannot be opened.
type Provider interface {
	LoadDescriptors(ctx context.Context, artifactPath string) ([]TypeDescriptor, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, artifactPath string) ([]TypeDescriptor, error)

func (f ProviderFunc) LoadDescriptors(ctx context.Context, artifactPath string) ([]TypeDescriptor, error) {
	return f(ctx, artifactPath)
}

// ForPath picks the provider for an artifact: manifest files by extension,
// Go packages for everything else. tests is passed to the packages provider.
func ForPath(artifactPath string, tests bool) Provider {
	if IsManifest(artifactPath) {
		return NewManifestProvider()
	}
	return NewPackagesProvider(tests)
}

// IsManifest reports whether path names a descriptor manifest file.
func IsManifest(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".toml", ".json":
		return true
	}
	return false
}
