package plugin

import (
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/openartmap/artcat/errors"
	"github.com/openartmap/artcat/version"
)

// Registry holds the importers and exporters available to one invocation
type Registry struct {
	importers map[string]Importer
	exporters map[string]Exporter
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		importers: make(map[string]Importer),
		exporters: make(map[string]Exporter),
	}
}

// RegisterImporter adds an importer after validating its metadata.
// Registering a second importer under the same name is an error.
func (r *Registry) RegisterImporter(imp Importer) error {
	meta := imp.Metadata()
	if err := validateMetadata(meta); err != nil {
		return err
	}
	if _, exists := r.importers[meta.Name]; exists {
		return errors.Wrapf(errors.ErrDuplicatePlugin, "importer %q", meta.Name)
	}
	r.importers[meta.Name] = imp
	return nil
}

// RegisterExporter adds an exporter after validating its metadata
func (r *Registry) RegisterExporter(exp Exporter) error {
	meta := exp.Metadata()
	if err := validateMetadata(meta); err != nil {
		return err
	}
	if _, exists := r.exporters[meta.Name]; exists {
		return errors.Wrapf(errors.ErrDuplicatePlugin, "exporter %q", meta.Name)
	}
	r.exporters[meta.Name] = exp
	return nil
}

// Importer returns the named importer. The error lists the registered names
// so a typo on the command line is easy to fix.
func (r *Registry) Importer(name string) (Importer, error) {
	imp, ok := r.importers[name]
	if !ok {
		return nil, errors.Wrapf(errors.ErrPluginNotFound,
			"importer %q (available: %s)", name, strings.Join(r.ImporterNames(), ", "))
	}
	return imp, nil
}

// Exporter returns the named exporter
func (r *Registry) Exporter(name string) (Exporter, error) {
	exp, ok := r.exporters[name]
	if !ok {
		return nil, errors.Wrapf(errors.ErrPluginNotFound,
			"exporter %q (available: %s)", name, strings.Join(r.ExporterNames(), ", "))
	}
	return exp, nil
}

// ImporterNames returns the registered importer names, sorted
func (r *Registry) ImporterNames() []string {
	names := make([]string, 0, len(r.importers))
	for name := range r.importers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExporterNames returns the registered exporter names, sorted
func (r *Registry) ExporterNames() []string {
	names := make([]string, 0, len(r.exporters))
	for name := range r.exporters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ImporterMetadata returns metadata for all registered importers, sorted by name
func (r *Registry) ImporterMetadata() []Metadata {
	metas := make([]Metadata, 0, len(r.importers))
	for _, name := range r.ImporterNames() {
		metas = append(metas, r.importers[name].Metadata())
	}
	return metas
}

// ExporterMetadata returns metadata for all registered exporters, sorted by name
func (r *Registry) ExporterMetadata() []Metadata {
	metas := make([]Metadata, 0, len(r.exporters))
	for _, name := range r.ExporterNames() {
		metas = append(metas, r.exporters[name].Metadata())
	}
	return metas
}

func validateMetadata(meta Metadata) error {
	if meta.Name == "" {
		return errors.Wrap(errors.ErrInvalidPlugin, "plugin name is empty")
	}
	if meta.APIVersion == "" {
		return errors.Wrapf(errors.ErrInvalidPlugin,
			"plugin %q declares no API version constraint", meta.Name)
	}

	constraint, err := semver.NewConstraint(meta.APIVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidPlugin,
			"plugin %q has malformed API version constraint %q: %v", meta.Name, meta.APIVersion, err)
	}

	apiVersion := semver.MustParse(version.PluginAPIVersion)
	if !constraint.Check(apiVersion) {
		return errors.Wrapf(errors.ErrInvalidPlugin,
			"plugin %q requires API %s but this build provides %s",
			meta.Name, meta.APIVersion, version.PluginAPIVersion)
	}
	return nil
}
