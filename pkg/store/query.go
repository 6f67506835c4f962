package store

import (
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/model"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/uri"
)

// patternMatcher compiles a single URI template once and reuses it
// across every candidate URI, rather than running a second bespoke
// glob engine alongside the dispatcher.
func patternMatcher(pattern string) (*uri.Router, error) {
	r := uri.New()
	if err := r.Register(pattern, "", struct{}{}); err != nil {
		return nil, err
	}
	return r, nil
}

// QueryResourcesByUriPattern returns every live resource whose URI
// matches pattern (a uri.Router template, e.g. "/[uuid]/ep/[ep]/r/[rid]").
func (s *Store) QueryResourcesByUriPattern(pattern string) ([]*model.Resource, error) {
	matcher, err := patternMatcher(pattern)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*model.Resource
	for _, d := range s.devices {
		for _, r := range d.Resources {
			if _, _, _, ok := matcher.Lookup(r.URI()); ok {
				matched = append(matched, r)
			}
		}
		for _, ep := range d.Endpoints {
			for _, r := range ep.Resources {
				if _, _, _, ok := matcher.Lookup(r.URI()); ok {
					matched = append(matched, r)
				}
			}
		}
	}
	return matched, nil
}

// QueryMetadataByUriPattern returns every metadata entry whose owner
// URI matches pattern, keyed by "<ownerUri>/m/<name>".
func (s *Store) QueryMetadataByUriPattern(pattern string) (map[string]*model.Metadata, error) {
	matcher, err := patternMatcher(pattern)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]*model.Metadata)
	for _, d := range s.devices {
		for name, m := range d.Metadata {
			metadataURI := d.URI() + "/m/" + name
			if _, _, _, ok := matcher.Lookup(metadataURI); ok {
				out[metadataURI] = m
			}
		}
		for _, ep := range d.Endpoints {
			for name, m := range ep.Metadata {
				metadataURI := ep.URI() + "/m/" + name
				if _, _, _, ok := matcher.Lookup(metadataURI); ok {
					out[metadataURI] = m
				}
			}
		}
	}
	return out, nil
}
