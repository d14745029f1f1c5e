// Package state holds the visitor's view state for the project modal:
// which project is selected and whether the modal is open.
package state

import (
	"sync"

	"github.com/kimkuns/portfolio/projects"
)

// Store is the accessor interface over the view state.
type Store interface {
	ModalOpen() bool
	SetModalOpen(open bool)
	Project() *projects.Project
	SetProject(p *projects.Project)
}

// Memory is an in-process Store.
type Memory struct {
	mu      sync.RWMutex
	open    bool
	project *projects.Project
}

// NewMemory returns a closed, empty Store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) ModalOpen() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.open
}

func (m *Memory) SetModalOpen(open bool) {
	m.mu.Lock()
	m.open = open
	m.mu.Unlock()
}

func (m *Memory) Project() *projects.Project {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.project == nil {
		return nil
	}
	p := *m.project
	return &p
}

func (m *Memory) SetProject(p *projects.Project) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p == nil {
		m.project = nil
		return
	}
	cp := *p
	m.project = &cp
}

// Open selects p and opens the modal.
func Open(s Store, p projects.Project) {
	s.SetProject(&p)
	s.SetModalOpen(true)
}

// Close closes the modal and clears the selection.
func Close(s Store) {
	s.SetModalOpen(false)
	s.SetProject(nil)
}

// Visible returns the project to show in the modal, or nil when the
// modal is closed or nothing is selected.
func Visible(s Store) *projects.Project {
	if !s.ModalOpen() {
		return nil
	}
	return s.Project()
}
