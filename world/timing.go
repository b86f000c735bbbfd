package world

import (
	"log"
	"time"
)

// Soft limits per phase. Exceeding one only logs a warning.
const (
	meshSoftLimit     = 500 * time.Millisecond
	simulateSoftLimit = 2 * time.Second
	heightsSoftLimit  = 1 * time.Second
)

// timeIt runs fn and logs how long it took
func timeIt(name string, softLimit time.Duration, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	log.Printf("%s: %v", name, elapsed)
	if elapsed > softLimit {
		log.Printf("SLOW PHASE: %s took %v (limit %v)", name, elapsed, softLimit)
	}
	return err
}
