package resolver

import (
	"sync"

	"github.com/pilacorp/go-did-sandbox/did"
)

// Registry keeps the documents of generated DIDs in memory. Documents are
// copied on the way in and on the way out.
type Registry struct {
	docs map[string]did.Document
	mu   sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		docs: make(map[string]did.Document),
	}
}

// Put stores doc under its id, replacing any earlier document.
func (r *Registry) Put(doc did.Document) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.docs[doc.ID] = doc.Clone()
}

// Get returns the document stored for d.
func (r *Registry) Get(d string) (*did.Document, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[d]
	if !ok {
		return nil, false
	}
	doc = doc.Clone()
	return &doc, true
}

func (r *Registry) Delete(d string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.docs, d)
}

// Clear drops every document.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.docs = make(map[string]did.Document)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.docs)
}
