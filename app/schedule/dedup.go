package schedule

import (
	"sync"
	"time"
)

// DeDup is a thread safe registry of job names being started, prevents double start of the same job
type DeDup struct {
	active map[string]time.Time
	lock   sync.Mutex
}

// NewDeDup makes empty DeDup
func NewDeDup() *DeDup {
	return &DeDup{active: make(map[string]time.Time)}
}

// Add registers name, returns false if already registered
func (d *DeDup) Add(name string) bool {
	d.lock.Lock()
	defer d.lock.Unlock()
	if _, found := d.active[name]; found {
		return false
	}
	d.active[name] = time.Now()
	return true
}

// Remove name from registry. Safe to call multiple times
func (d *DeDup) Remove(name string) {
	d.lock.Lock()
	defer d.lock.Unlock()
	delete(d.active, name)
}
