// Copyright 2025 Brujula Authors
// SPDX-License-Identifier: Apache-2.0

package features

import (
	"math"
	"testing"
)

func TestToVectorDeterministicOrder(t *testing.T) {
	set := Set{
		"meses_operacion":             Integer(6),
		"ingresos_mensuales_promedio": Number(1500000),
		"capital_trabajo":             Number(400000),
		"sector_negocio":              Category("comercio"),
	}

	var v Vectorizer
	vector, mapping := v.ToVector(set, nil)
	if len(vector) != 3 {
		t.Fatalf("expected 3 numeric components, got %d", len(vector))
	}
	// Sorted by name: capital_trabajo, ingresos_mensuales_promedio, meses_operacion.
	wantNames := []string{"capital_trabajo", "ingresos_mensuales_promedio", "meses_operacion"}
	wantValues := []float64{400000, 1500000, 6}
	for i := range wantNames {
		if mapping.Names[i] != wantNames[i] {
			t.Errorf("component %d: expected %q, got %q", i, wantNames[i], mapping.Names[i])
		}
		if vector[i] != wantValues[i] {
			t.Errorf("component %d: expected %f, got %f", i, wantValues[i], vector[i])
		}
	}
	if mapping.NumericDim != 3 || mapping.EmbeddingDim != 0 {
		t.Errorf("unexpected dims: %d/%d", mapping.NumericDim, mapping.EmbeddingDim)
	}
}

func TestToVectorAppendsEmbeddingBlocks(t *testing.T) {
	set := Set{
		"meses_operacion": Integer(6),
		"sector_negocio":  Category("comercio"),
	}
	embeddings := map[string][]float64{
		"sector_negocio": {0.1, -0.5},
	}

	var v Vectorizer
	vector, mapping := v.ToVector(set, embeddings)
	if len(vector) != 3 {
		t.Fatalf("expected 3 components, got %d", len(vector))
	}
	if mapping.Names[1] != "emb_sector_negocio_0" || mapping.Names[2] != "emb_sector_negocio_1" {
		t.Errorf("unexpected embedding tags: %v", mapping.Names)
	}
	if !mapping.IsEmbedding(1) || mapping.IsEmbedding(0) {
		t.Error("embedding detection is wrong")
	}
	if mapping.EmbeddingDim != 2 {
		t.Errorf("expected embedding dim 2, got %d", mapping.EmbeddingDim)
	}
}

func TestRoundTripPreservesFeatures(t *testing.T) {
	set := Set{
		"meses_operacion":             Integer(6),
		"ingresos_mensuales_promedio": Number(1500000.25),
		"sector_negocio":              Category("comercio"),
	}

	var v Vectorizer
	vector, mapping := v.ToVector(set, map[string][]float64{"sector_negocio": {0.3}})
	restored := v.FromVector(vector, mapping, set)

	if restored["meses_operacion"].Kind() != KindInteger {
		t.Error("integer kind must survive the round trip")
	}
	if restored["meses_operacion"].Int() != 6 {
		t.Errorf("expected 6, got %d", restored["meses_operacion"].Int())
	}
	if math.Abs(restored["ingresos_mensuales_promedio"].Float()-1500000.25) > 1e-9 {
		t.Errorf("unexpected income %f", restored["ingresos_mensuales_promedio"].Float())
	}
	// The categorical feature has no reverse mapping and must be
	// carried over unchanged.
	if restored["sector_negocio"].Category() != "comercio" {
		t.Errorf("unexpected category %q", restored["sector_negocio"].Category())
	}
}

func TestFromVectorRoundsAndClamps(t *testing.T) {
	set := Set{
		"meses_operacion":             Integer(6),
		"ingresos_mensuales_promedio": Number(1500000),
	}

	var v Vectorizer
	_, mapping := v.ToVector(set, nil)
	restored := v.FromVector([]float64{-20000, 6.7}, mapping, set)

	if got := restored["ingresos_mensuales_promedio"].Float(); got != 0 {
		t.Errorf("negative income must clamp to zero, got %f", got)
	}
	if got := restored["meses_operacion"].Int(); got != 7 {
		t.Errorf("expected 6.7 to round to 7, got %d", got)
	}
}

func TestFromVectorEmptyMapping(t *testing.T) {
	set := Set{"meses_operacion": Integer(6)}
	var v Vectorizer
	restored := v.FromVector([]float64{1, 2, 3}, MappingInfo{}, set)
	if len(restored) != 1 || restored["meses_operacion"].Int() != 6 {
		t.Errorf("empty mapping must return the fallback set unchanged, got %v", restored)
	}
}

func TestFromVectorShortVector(t *testing.T) {
	set := Set{
		"capital_trabajo": Number(100),
		"meses_operacion": Integer(6),
	}
	var v Vectorizer
	_, mapping := v.ToVector(set, nil)
	restored := v.FromVector([]float64{200}, mapping, set)
	if restored["capital_trabajo"].Float() != 200 {
		t.Errorf("mapped components must be taken from the vector, got %v", restored["capital_trabajo"])
	}
	if restored["meses_operacion"].Int() != 6 {
		t.Error("unmapped components must fall back to the original")
	}
}
