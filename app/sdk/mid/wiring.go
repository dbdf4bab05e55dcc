package mid

import (
	"fmt"
	"sync"
)

// The mandatory pipeline stages. Startup refuses to serve unless both are
// wired into the middleware chain: resolution because nothing downstream is
// tenant safe without it, correlation because an isolation incident without
// correlatable logs cannot be investigated.
const (
	StageTenantResolve = "tenant-resolve"
	StageCorrelate     = "correlate"
)

// wiredStages records which middleware stages have been constructed.
// Constructors register themselves, so a chain that was assembled without
// one of the required stages is detectable before the server binds.
var wiredStages = struct {
	mu sync.RWMutex
	m  map[string]bool
}{m: make(map[string]bool)}

func registerStage(name string) {
	wiredStages.mu.Lock()
	defer wiredStages.mu.Unlock()

	wiredStages.m[name] = true
}

// ValidateWiring verifies every mandatory stage has been wired. Any failure
// must abort startup.
func ValidateWiring() error {
	wiredStages.mu.RLock()
	defer wiredStages.mu.RUnlock()

	for _, stage := range []string{StageTenantResolve, StageCorrelate} {
		if !wiredStages.m[stage] {
			return fmt.Errorf("required stage %q is not wired", stage)
		}
	}

	return nil
}
