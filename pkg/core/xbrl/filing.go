package xbrl

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// FilingPaths locates the three documents of one filing.
type FilingPaths struct {
	Instance     string
	Labels       string
	Presentation string
}

// Prefix is the shared filename prefix, e.g. "goog-20250331" for goog-20250331_htm.xml.
func (p FilingPaths) Prefix() string {
	return filingPrefix(p.Instance)
}

func filingPrefix(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if i := strings.Index(stem, "_"); i >= 0 {
		return stem[:i]
	}
	return stem
}

// LocateFiling infers <prefix>_lab.xml and <prefix>_pre.xml next to the instance
// document and checks that all three exist.
func LocateFiling(instancePath string) (FilingPaths, error) {
	dir := filepath.Dir(instancePath)
	prefix := filingPrefix(instancePath)
	paths := FilingPaths{
		Instance:     instancePath,
		Labels:       filepath.Join(dir, prefix+"_lab.xml"),
		Presentation: filepath.Join(dir, prefix+"_pre.xml"),
	}
	for _, p := range []string{paths.Instance, paths.Labels, paths.Presentation} {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			return paths, fmt.Errorf("%w: %s", ErrMissingDocument, p)
		}
	}
	return paths, nil
}

// LoadOptions configures how a filing is indexed and queried.
type LoadOptions struct {
	Convention ScalingConvention
	Precision  uint32
	Resolver   ResolverOptions
}

// Filing is a fully indexed filing. Everything in it is read-only after LoadFiling.
type Filing struct {
	Paths      FilingPaths
	Namespaces Namespaces
	*Resolver
}

// LoadFiling reads the three documents, discovers namespaces across them
// (labels, presentation, instance, in that order) and builds every index.
func LoadFiling(paths FilingPaths, opts LoadOptions, log zerolog.Logger) (*Filing, error) {
	labDoc, err := readDocument(paths.Labels)
	if err != nil {
		return nil, err
	}
	preDoc, err := readDocument(paths.Presentation)
	if err != nil {
		return nil, err
	}
	insDoc, err := readDocument(paths.Instance)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("instance", filepath.Base(paths.Instance)).
		Str("labels", filepath.Base(paths.Labels)).
		Str("presentation", filepath.Base(paths.Presentation)).
		Msg("filing documents located")

	return LoadFilingBytes(paths, labDoc, preDoc, insDoc, opts, log)
}

// LoadFilingBytes indexes documents already held in memory.
func LoadFilingBytes(paths FilingPaths, labDoc, preDoc, insDoc []byte, opts LoadOptions, log zerolog.Logger) (*Filing, error) {
	ns, err := DiscoverNamespaces(bytes.NewReader(labDoc), bytes.NewReader(preDoc), bytes.NewReader(insDoc))
	if err != nil {
		return nil, err
	}
	log.Info().Int("namespaces", len(ns)).Msg("namespaces discovered")

	labels, err := BuildLabelIndex(bytes.NewReader(labDoc), ns)
	if err != nil {
		return nil, err
	}
	if labels.Len() == 0 {
		log.Warn().Str("component", "labels").Msg("label linkbase has no resolvable arcs")
	}
	log.Info().Str("component", "labels").Int("concepts", labels.Len()).Msg("label index built")

	pres, err := BuildPresentation(bytes.NewReader(preDoc), ns)
	if err != nil {
		return nil, err
	}
	log.Info().Str("component", "presentation").Int("roles", len(pres.Roles())).Msg("roles discovered")

	repo, err := LoadRepository(bytes.NewReader(insDoc), ns)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("component", "instance").
		Int("contexts", len(repo.Contexts())).
		Int("facts", repo.FactCount()).
		Int("skipped_namespace", repo.SkippedNamespace).
		Int("skipped_context", repo.SkippedContext).
		Msg("instance indexed")

	scaler := NewScaler(opts.Convention, opts.Precision)
	return &Filing{
		Paths:      paths,
		Namespaces: ns,
		Resolver:   NewResolver(labels, pres, repo, scaler, opts.Resolver, log),
	}, nil
}

func readDocument(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingDocument, path, err)
	}
	return data, nil
}
