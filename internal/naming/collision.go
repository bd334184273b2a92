package naming

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// CollisionResolver tracks output paths claimed by input files and resolves
// duplicates by appending " - dupN" suffixes. Two inputs collide when their
// outputs differ only by case or Unicode normalization, since they would
// land on the same file on macOS and Windows filesystems. All methods are
// goroutine-safe.
type CollisionResolver struct {
	mu       sync.Mutex
	fold     cases.Caser
	owners   map[string]string // output key → input path that owns it
	counters map[string]int    // base output key → next dup counter
}

// NewCollisionResolver creates a ready-to-use resolver.
func NewCollisionResolver() *CollisionResolver {
	return &CollisionResolver{
		fold:     cases.Fold(),
		owners:   make(map[string]string),
		counters: make(map[string]int),
	}
}

// key maps a path to its collision identity.
func (cr *CollisionResolver) key(path string) string {
	return cr.fold.String(norm.NFC.String(filepath.Clean(path)))
}

// Resolve returns the final output path for input, handling collisions.
// If requestedOutput is unclaimed (or already owned by input), it is returned
// as-is. Otherwise a " - dupN" variant is generated.
func (cr *CollisionResolver) Resolve(input, requestedOutput string) string {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	reqKey := cr.key(requestedOutput)
	owner, exists := cr.owners[reqKey]
	if !exists || owner == input {
		cr.owners[reqKey] = input
		return requestedOutput
	}

	dir := filepath.Dir(requestedOutput)
	base := filepath.Base(requestedOutput)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	counter := cr.counters[reqKey]
	if counter == 0 {
		counter = 1
	}

	for {
		candidate := filepath.Join(dir, fmt.Sprintf("%s - dup%d%s", stem, counter, ext))
		cKey := cr.key(candidate)
		cOwner, cExists := cr.owners[cKey]
		if !cExists || cOwner == input {
			cr.counters[reqKey] = counter + 1
			cr.owners[cKey] = input
			return candidate
		}
		counter++
	}
}
