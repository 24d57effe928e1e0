package broadcast

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// Action delivers a transcoded message to a receiving module.
// The payload is a value of the registration's receiver type.
type Action func(ctx context.Context, payload any) error

// Registration binds a message type name to one receiving module's delivery
// action. The registry key is the receiver type's bare name, so same-named
// types in different modules share a key by design.
type Registration struct {
	Module       string       // receiving module, used for logging and diagnostics
	ReceiverType reflect.Type // concrete type the receiver declared for this message
	Action       Action       // invoked with a value of ReceiverType
}

// Key returns the registry key for this registration: the receiver type's
// unqualified name.
func (r Registration) Key() string {
	return r.ReceiverType.Name()
}

// Registry is the process-wide table of broadcast registrations, keyed by
// unqualified type name. It is populated during startup and frozen before
// steady-state operation; lookups never mutate and are safe for concurrent
// use without further synchronization once frozen.
type Registry struct {
	entries map[string][]Registration
	frozen  bool
	mu      sync.RWMutex
}

// NewRegistry creates an empty broadcast registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string][]Registration),
	}
}

// Add appends a registration to the table.
//
// Receiver types must be named struct types declared inside a package:
// anonymous and compiler-generated types have no stable name to route by and
// are rejected with ErrUnnamedType. At most one registration may exist per
// (type, module) pair; a second one returns ErrDuplicateRegistration. Adding
// after Freeze returns ErrRegistryFrozen. All three conditions are startup
// configuration defects.
func (r *Registry) Add(reg Registration) error {
	if reg.Action == nil {
		return fmt.Errorf("%w: %s", ErrNilAction, reg.Module)
	}

	t := reg.ReceiverType
	if t == nil {
		return fmt.Errorf("%w: module %s", ErrUnnamedType, reg.Module)
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" || t.PkgPath() == "" {
		return fmt.Errorf("%w: module %s, type %s", ErrUnnamedType, reg.Module, reg.ReceiverType.String())
	}
	reg.ReceiverType = t

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("%w: %s", ErrRegistryFrozen, t.Name())
	}

	for _, existing := range r.entries[t.Name()] {
		if existing.Module == reg.Module && existing.ReceiverType == t {
			return fmt.Errorf("%w: module %s, type %s", ErrDuplicateRegistration, reg.Module, t.Name())
		}
	}

	r.entries[t.Name()] = append(r.entries[t.Name()], reg)
	return nil
}

// Freeze marks the registry immutable. Called once when startup registration
// is complete; afterwards Add fails and lookups require no locking discipline
// from callers.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Get returns the registrations for a type name. The returned slice is a
// copy; mutating it does not affect the registry. May be empty.
func (r *Registry) Get(key string) []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	regs := r.entries[key]
	if len(regs) == 0 {
		return nil
	}

	out := make([]Registration, len(regs))
	copy(out, regs)
	return out
}

// Len returns the total number of registrations across all keys.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, regs := range r.entries {
		n += len(regs)
	}
	return n
}
