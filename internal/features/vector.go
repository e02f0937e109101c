// Copyright 2025 Brujula Authors
// SPDX-License-Identifier: Apache-2.0

package features

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Mapping between the components of an optimization vector and the
// features they were built from. Owned by a single optimization run.
type MappingInfo struct {
	// Component names in vector order. Embedding components are tagged
	// "emb_<feature>_<i>" so the reverse mapping can skip them.
	Names []string
	// Declared kinds of the numeric features in the vector.
	Kinds map[string]Kind
	// Number of leading components built from numeric features.
	NumericDim int
	// Number of trailing components built from categorical embeddings.
	EmbeddingDim int
}

func (m MappingInfo) Empty() bool { return len(m.Names) == 0 }

// Whether the component at the given index belongs to an embedding block.
func (m MappingInfo) IsEmbedding(i int) bool {
	return i < len(m.Names) && strings.HasPrefix(m.Names[i], "emb_")
}

// Bidirectional mapping between a named feature set and a fixed-order
// numeric vector.
type Vectorizer struct{}

// Build the optimization vector for the given feature set. Numeric
// features are sorted by name for a deterministic ordering, categorical
// features contribute their pre-computed embedding blocks after the
// numeric components. Categorical features without embeddings do not
// appear in the vector at all and are carried over unchanged by FromVector.
func (Vectorizer) ToVector(set Set, embeddings map[string][]float64) ([]float64, MappingInfo) {
	numericNames := make([]string, 0, len(set))
	for name, value := range set {
		if value.IsNumeric() {
			numericNames = append(numericNames, name)
		}
	}
	sort.Strings(numericNames)

	vector := make([]float64, 0, len(numericNames))
	mapping := MappingInfo{Kinds: make(map[string]Kind, len(numericNames))}
	for _, name := range numericNames {
		vector = append(vector, set[name].Float())
		mapping.Names = append(mapping.Names, name)
		mapping.Kinds[name] = set[name].Kind()
	}
	mapping.NumericDim = len(vector)

	embeddingNames := make([]string, 0, len(embeddings))
	for name := range embeddings {
		embeddingNames = append(embeddingNames, name)
	}
	sort.Strings(embeddingNames)
	for _, name := range embeddingNames {
		for i, component := range embeddings[name] {
			vector = append(vector, component)
			mapping.Names = append(mapping.Names, fmt.Sprintf("emb_%s_%d", name, i))
			mapping.EmbeddingDim++
		}
	}
	return vector, mapping
}

// Map an optimization vector back to a feature set. Features recorded as
// integers are rounded and clamped to be non-negative. Features absent
// from the mapping fall back to the original set, they are never dropped.
// An empty mapping returns the fallback set unchanged.
func (Vectorizer) FromVector(vector []float64, mapping MappingInfo, fallback Set) Set {
	if mapping.Empty() {
		return fallback.Clone()
	}
	set := make(Set, len(fallback))
	for i, name := range mapping.Names {
		if mapping.IsEmbedding(i) {
			continue
		}
		if i >= len(vector) {
			break
		}
		if mapping.Kinds[name] == KindInteger {
			set[name] = Integer(int64(math.Round(math.Max(0, vector[i]))))
		} else {
			set[name] = Number(math.Max(0, vector[i]))
		}
	}
	// Carry over any features that were not part of the vector.
	for name, value := range fallback {
		if _, ok := set[name]; !ok {
			set[name] = value
		}
	}
	return set
}
