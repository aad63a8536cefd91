package wallet

import (
	"sync"

	"github.com/google/uuid"
)

// Registry keeps the identities owned by this process, keyed by a local ID.
type Registry struct {
	identities map[string]*Identity
	mutex      sync.RWMutex
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{identities: make(map[string]*Identity)}
}

// Add stores id and returns its new local ID
func (r *Registry) Add(id *Identity) string {
	key := uuid.New().String()
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.identities[key] = id
	return key
}

// Get looks up an identity by local ID
func (r *Registry) Get(key string) (*Identity, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	id, ok := r.identities[key]
	return id, ok
}

// Len returns the number of registered identities
func (r *Registry) Len() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.identities)
}
