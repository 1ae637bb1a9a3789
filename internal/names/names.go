package names

import (
	"math/rand/v2"
	"strings"
	"sync"
)

const separator = "-"

// Generator produces word-triplet identifiers like "brave-teal-otter".
// Identifiers are not checked for uniqueness; with the built-in vocabularies
// a collision between two live sessions is possible but very unlikely.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a Generator seeded from the runtime's random source.
func New() *Generator {
	return NewWithSource(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewWithSource returns a Generator drawing from src. Used by tests that need
// a reproducible sequence.
func NewWithSource(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src)}
}

func (g *Generator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	words := make([]string, 0, len(dictionaries))
	for _, dict := range dictionaries {
		words = append(words, dict[g.rnd.IntN(len(dict))])
	}
	return strings.Join(words, separator)
}
