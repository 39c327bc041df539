// Package catalogs loads the flower-type catalog shared by every episode.
//
// The catalog is immutable after load: the engine, the action set and the
// reward calculator are all sized from it at session initialization.
package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
)

type FlowerCatalog struct {
	Types  []FlowerDef
	Digest string
}

type FlowerDef struct {
	ID    int     `json:"id"`
	Name  string  `json:"name,omitempty"`
	Price float64 `json:"price"`
	// One reduction per growth stage; the list length fixes the number of
	// stages (max stage index = len-1).
	PollutionReduction []float64 `json:"pollution_reduction"`
}

// MaxStage is the final growth stage index for this type.
func (d FlowerDef) MaxStage() int { return len(d.PollutionReduction) - 1 }

// TotalReduction sums the per-stage reductions.
func (d FlowerDef) TotalReduction() float64 {
	var s float64
	for _, r := range d.PollutionReduction {
		s += r
	}
	return s
}

// FinalReduction is the reduction at the last growth stage.
func (d FlowerDef) FinalReduction() float64 {
	return d.PollutionReduction[len(d.PollutionReduction)-1]
}

func (c *FlowerCatalog) NumTypes() int { return len(c.Types) }

func (c *FlowerCatalog) Def(flowerType int) (FlowerDef, bool) {
	if flowerType < 0 || flowerType >= len(c.Types) {
		return FlowerDef{}, false
	}
	return c.Types[flowerType], true
}

// MaxPrice is the highest harvest price across the catalog.
func (c *FlowerCatalog) MaxPrice() float64 {
	var max float64
	for _, d := range c.Types {
		if d.Price > max {
			max = d.Price
		}
	}
	return max
}

type catalogFile struct {
	Flowers []FlowerDef `json:"flowers"`
}

// Load reads a flower catalog from a JSON file.
func Load(path string) (*FlowerCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f catalogFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("flowers.json: %w", err)
	}
	return FromDefs(f.Flowers)
}

// FromDefs builds and validates a catalog. Type IDs must be contiguous
// from 0 in list order so they can double as action-space indices.
func FromDefs(defs []FlowerDef) (*FlowerCatalog, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("flower catalog is empty")
	}
	for i, d := range defs {
		if d.ID != i {
			return nil, fmt.Errorf("flower catalog: want id %d at index %d, got %d", i, i, d.ID)
		}
		if len(d.PollutionReduction) == 0 {
			return nil, fmt.Errorf("flower type %d: pollution_reduction is empty", d.ID)
		}
		if d.Price < 0 {
			return nil, fmt.Errorf("flower type %d: negative price", d.ID)
		}
		for _, r := range d.PollutionReduction {
			if r < 0 {
				return nil, fmt.Errorf("flower type %d: negative pollution reduction", d.ID)
			}
		}
	}
	canon, err := json.Marshal(defs)
	if err != nil {
		return nil, err
	}
	return &FlowerCatalog{Types: defs, Digest: sha256Hex(canon)}, nil
}

// Default returns the built-in three-type catalog.
func Default() *FlowerCatalog {
	c, err := FromDefs([]FlowerDef{
		{ID: 0, Name: "rose", Price: 10, PollutionReduction: []float64{0, 0, 0, 0, 5}},
		{ID: 1, Name: "tulip", Price: 5, PollutionReduction: []float64{0, 0, 1, 3}},
		{ID: 2, Name: "daisy", Price: 2, PollutionReduction: []float64{1}},
	})
	if err != nil {
		panic(err) // static data
	}
	return c
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
