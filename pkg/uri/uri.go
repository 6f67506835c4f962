// Package uri implements the rooted-trie URI dispatcher shared by the
// data-model addressing scheme (/<uuid>/ep/<id>/r/<rid>) and the
// external RPC surface. It is deliberately generic: templates are
// registered once at startup and the resulting Router is read-only
// thereafter.
package uri

import (
	"strings"

	"github.com/rdkcentral/zilker-sdk-sub009/pkg/gwerrors"
)

// Directive transforms the raw token captured by a directive wildcard
// segment ("[name#directive]") before it is stored in the Vars map. A
// directive returning ok=false signals "no transform": the raw token is
// stored unchanged.
type Directive func(raw string) (transformed string, ok bool)

// Vars is the set of wildcard captures produced by a successful Lookup.
type Vars map[string]string

type node struct {
	literal  map[string]*node
	wildcard *wildcardChild
	handler  any
	desc     string
}

type wildcardChild struct {
	name      string
	directive string
	node      *node
}

func newNode() *node {
	return &node{literal: make(map[string]*node)}
}

// Router is a rooted trie mapping "/"-separated path templates to
// handlers of any type (the caller type-asserts the stored handler at
// lookup time). Registration is not safe for concurrent use alongside
// Lookup; build the full route table before publishing the Router to
// readers.
type Router struct {
	root       *node
	directives map[string]Directive
}

// New returns an empty Router.
func New() *Router {
	return &Router{
		root:       newNode(),
		directives: make(map[string]Directive),
	}
}

// RegisterDirective adds a named directive function usable in
// "[name#directive]" template segments. Returns an error if name is
// already registered.
func (r *Router) RegisterDirective(name string, fn Directive) error {
	if _, exists := r.directives[name]; exists {
		return gwerrors.New(gwerrors.InvalidArg, "directive already registered: "+name)
	}
	r.directives[name] = fn
	return nil
}

// Register binds template to handler, carrying desc for introspection
// (e.g. an API listing). template segments are literal tokens,
// "[name]" basic wildcards, or "[name#directive]" directive wildcards.
func (r *Router) Register(template string, desc string, handler any) error {
	segments, err := splitTemplate(template)
	if err != nil {
		return err
	}

	n := r.root
	seenWildcard := false
	for _, seg := range segments {
		name, directive, isWildcard := parseSegment(seg)
		if isWildcard {
			if seenWildcard && n.wildcard != nil && (n.wildcard.name != name || n.wildcard.directive != directive) {
				return gwerrors.New(gwerrors.InvalidArg, "conflicting wildcard at same position: "+seg)
			}
			if directive != "" {
				if _, ok := r.directives[directive]; !ok {
					return gwerrors.New(gwerrors.InvalidArg, "unknown directive: "+directive)
				}
			}
			if n.wildcard == nil {
				n.wildcard = &wildcardChild{name: name, directive: directive, node: newNode()}
			} else if n.wildcard.name != name || n.wildcard.directive != directive {
				return gwerrors.New(gwerrors.InvalidArg, "duplicate wildcard variable name conflict at: "+seg)
			}
			seenWildcard = true
			n = n.wildcard.node
			continue
		}

		key := strings.ToLower(seg)
		child, ok := n.literal[key]
		if !ok {
			child = newNode()
			n.literal[key] = child
		}
		n = child
	}

	if n.handler != nil {
		return gwerrors.New(gwerrors.InvalidArg, "template already bound: "+template)
	}
	n.handler = handler
	n.desc = desc
	return nil
}

// Lookup resolves a concrete path, returning the bound handler,
// description, and any wildcard captures. ok is false if no route
// matches or if path contains an empty segment.
func (r *Router) Lookup(path string) (handler any, desc string, vars Vars, ok bool) {
	tokens, valid := splitPath(path)
	if !valid {
		return nil, "", nil, false
	}

	vars = make(Vars)
	n := r.root
	for _, tok := range tokens {
		key := strings.ToLower(tok)
		if child, exists := n.literal[key]; exists {
			n = child
			continue
		}
		if n.wildcard == nil {
			return nil, "", nil, false
		}
		value := tok
		if n.wildcard.directive != "" {
			if fn, exists := r.directives[n.wildcard.directive]; exists {
				if transformed, transformedOk := fn(tok); transformedOk {
					value = transformed
				}
			}
		}
		vars[n.wildcard.name] = value
		n = n.wildcard.node
	}

	if n.handler == nil {
		return nil, "", nil, false
	}
	return n.handler, n.desc, vars, true
}

func splitPath(path string) (tokens []string, ok bool) {
	if path == "" || path == "/" {
		return nil, true
	}
	trimmed := strings.TrimPrefix(path, "/")
	parts := strings.Split(trimmed, "/")
	for _, p := range parts {
		if p == "" {
			return nil, false
		}
		tokens = append(tokens, p)
	}
	return tokens, true
}

func splitTemplate(template string) ([]string, error) {
	tokens, ok := splitPath(template)
	if !ok || len(tokens) == 0 {
		return nil, gwerrors.New(gwerrors.InvalidArg, "malformed template: "+template)
	}
	return tokens, nil
}

func parseSegment(seg string) (name string, directive string, isWildcard bool) {
	if !strings.HasPrefix(seg, "[") || !strings.HasSuffix(seg, "]") {
		return "", "", false
	}
	inner := seg[1 : len(seg)-1]
	if idx := strings.IndexByte(inner, '#'); idx >= 0 {
		return inner[:idx], inner[idx+1:], true
	}
	return inner, "", true
}
