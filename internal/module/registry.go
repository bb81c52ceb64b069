package module

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrModuleExists = errors.New("module: module already exists")
	ErrModuleNil    = errors.New("module: module is nil")
	ErrInvalidInfo  = errors.New("module: invalid module info")
	ErrGlobalInit   = errors.New("module: global init failed")
)

// Registry stores modules by their stable type name.
type Registry struct {
	items map[string]Module
}

// NewRegistry creates an empty module registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]Module)}
}

// ValidateInfo checks required info fields and type name format.
func ValidateInfo(info Info) error {
	typ := strings.TrimSpace(info.Type)
	name := strings.TrimSpace(info.Name)
	desc := strings.TrimSpace(info.Description)
	if typ == "" || name == "" || desc == "" {
		return fmt.Errorf("%w: type, name, and description are required", ErrInvalidInfo)
	}
	if !isValidType(typ) {
		return fmt.Errorf("%w: invalid type format %q", ErrInvalidInfo, typ)
	}
	return nil
}

// Register adds a module to the registry.
func (r *Registry) Register(m Module) error {
	if m == nil {
		return ErrModuleNil
	}

	info := m.Info()
	if err := ValidateInfo(info); err != nil {
		return err
	}

	if _, ok := r.items[info.Type]; ok {
		return fmt.Errorf("%w: %s", ErrModuleExists, info.Type)
	}
	r.items[info.Type] = m
	return nil
}

// Resolve returns a module by type name.
func (r *Registry) Resolve(typ string) (Module, bool) {
	m, ok := r.items[typ]
	return m, ok
}

// ListInfo returns deterministic info ordering by type name.
func (r *Registry) ListInfo() []Info {
	list := make([]Info, 0, len(r.items))
	for _, m := range r.items {
		list = append(list, m.Info())
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Type < list[j].Type
	})
	return list
}

// GlobalInitAll runs the one-shot global init hook of every registered
// module that has one, in type order. The first failure aborts.
func (r *Registry) GlobalInitAll() error {
	for _, info := range r.ListInfo() {
		m := r.items[info.Type]
		gi, ok := m.(GlobalIniter)
		if !ok {
			continue
		}
		if err := gi.GlobalInit(); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrGlobalInit, info.Type, err)
		}
	}
	return nil
}

// isValidType accepts dotted lowercase identifiers like "run.remote".
func isValidType(typ string) bool {
	if typ == "" {
		return false
	}
	lastSep := false
	for i := 0; i < len(typ); i++ {
		c := typ[i]
		isLower := c >= 'a' && c <= 'z'
		isDigit := c >= '0' && c <= '9'
		isSep := c == '.' || c == '-' || c == '_'
		if !(isLower || isDigit || isSep) {
			return false
		}
		if i == 0 || i == len(typ)-1 {
			if isSep {
				return false
			}
		}
		if isSep && lastSep {
			return false
		}
		lastSep = isSep
	}
	return true
}
