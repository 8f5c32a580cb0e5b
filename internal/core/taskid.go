package core

import "fmt"

// IDGenerator hands out unique, sequential identifiers.
type IDGenerator interface {
	Next() string
}

// sequenceIDGenerator implements IDGenerator with an in-memory counter.
// Ids are only unique within one project memory; nothing is persisted
// across runs.
type sequenceIDGenerator struct {
	prefix   string
	padWidth int
	counter  int
}

// NewIDGenerator creates an IDGenerator producing ids like TASK-00001.
// padWidth controls the zero-padding of the numeric part; 0 disables it.
func NewIDGenerator(prefix string, padWidth int) IDGenerator {
	return &sequenceIDGenerator{prefix: prefix, padWidth: padWidth}
}

// Next increments the counter and returns the formatted id.
// Format: {prefix}-{counter:0padWidth} (e.g., TASK-00001).
func (g *sequenceIDGenerator) Next() string {
	g.counter++
	if g.padWidth > 0 {
		return fmt.Sprintf("%s-%0*d", g.prefix, g.padWidth, g.counter)
	}
	return fmt.Sprintf("%s-%d", g.prefix, g.counter)
}
