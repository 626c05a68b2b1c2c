package xsd

import (
	"fmt"
	"strings"

	"github.com/makinacorpus/xsdgen/lib/ir"
	"github.com/makinacorpus/xsdgen/lib/util"
)

// ScopeID identifies a namespace scope in the arena.
type ScopeID int

// NoScope is the parent of every root scope.
const NoScope ScopeID = -1

// Scopes is an arena of nested namespace scopes. A scope is opened for every
// element declaring xmlns bindings or a targetNamespace; lookups walk the
// parent chain.
type Scopes struct {
	scopes []scope
}

type scope struct {
	parent    ScopeID
	namespace string
	aliases   map[string]string
}

func NewScopes() *Scopes {
	return &Scopes{}
}

func (s *Scopes) valid(id ScopeID) bool {
	return id >= 0 && int(id) < len(s.scopes)
}

// Root opens a scope with no parent, used for every new document
func (s *Scopes) Root(namespace string) ScopeID {
	return s.Child(NoScope, namespace)
}

// Child opens a scope below parent. An empty namespace inherits the parent's.
func (s *Scopes) Child(parent ScopeID, namespace string) ScopeID {
	if namespace == "" && s.valid(parent) {
		namespace = s.scopes[parent].namespace
	}
	s.scopes = append(s.scopes, scope{parent: parent, namespace: namespace})
	return ScopeID(len(s.scopes) - 1)
}

// Namespace is the target namespace unqualified names belong to
func (s *Scopes) Namespace(id ScopeID) string {
	if !s.valid(id) {
		return ""
	}
	return s.scopes[id].namespace
}

// Register binds alias to uri in the given scope. The empty alias is the
// default namespace.
func (s *Scopes) Register(id ScopeID, alias, uri string) error {
	if !s.valid(id) {
		return fmt.Errorf("invalid namespace scope %d", id)
	}
	sc := &s.scopes[id]
	if existing, ok := sc.aliases[alias]; ok && existing != uri {
		return &ir.ReaderError{Msg: fmt.Sprintf("namespace alias %q is already bound to %s, was given %s", alias, existing, uri)}
	}
	if sc.aliases == nil {
		sc.aliases = map[string]string{}
	}
	sc.aliases[alias] = uri
	return nil
}

// Lookup finds the uri bound to alias in id or its ancestors
func (s *Scopes) Lookup(id ScopeID, alias string) (string, bool) {
	for cur := id; s.valid(cur); cur = s.scopes[cur].parent {
		if uri, ok := s.scopes[cur].aliases[alias]; ok {
			return uri, true
		}
	}
	if util.Contains(ir.ConventionalSchemaPrefixes, alias) {
		return ir.XmlSchemaNamespace, true
	}
	return "", false
}

// Resolve returns the uri bound to alias, or the alias itself when unbound
func (s *Scopes) Resolve(id ScopeID, alias string) string {
	if uri, ok := s.Lookup(id, alias); ok {
		return uri
	}
	return alias
}

// TypeID turns a QName attribute value into a TypeId. A prefixed name is
// resolved through the alias chain; an unprefixed one uses the default
// namespace binding if any, else the scope's target namespace. explicitNs
// short-circuits both.
func (s *Scopes) TypeID(id ScopeID, raw, explicitNs string) ir.TypeId {
	raw = strings.TrimSpace(raw)
	prefix, local, qualified := strings.Cut(raw, ":")
	if !qualified {
		local = raw
	}
	if explicitNs != "" {
		return ir.NewTypeId(explicitNs, local)
	}
	if qualified {
		return ir.NewTypeId(s.Resolve(id, prefix), local)
	}
	if uri, ok := s.Lookup(id, ""); ok && uri != "" {
		return ir.NewTypeId(uri, local)
	}
	return ir.NewTypeId(s.Namespace(id), local)
}
