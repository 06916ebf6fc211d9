package game

import "strings"

// TerrainTag is a closed enumeration of recognized terrain categories.
// Free-text location strings are resolved to a tag once per call; the
// travel factors come from fixed tables keyed by tag rather than from
// repeated substring probing.
type TerrainTag string

const (
	TerrainJunction TerrainTag = "junction"
	TerrainComplex  TerrainTag = "complex"
	TerrainValley   TerrainTag = "valley"
	TerrainDefault  TerrainTag = "default"
)

// terrainKeywords lists location keywords in precedence order: the first
// match wins, so "Junction Complex" resolves as a junction.
var terrainKeywords = []TerrainTag{
	TerrainJunction,
	TerrainComplex,
	TerrainValley,
}

var terrainFactors = map[TerrainTag]float64{
	TerrainJunction: 1.6,
	TerrainComplex:  1.5,
	TerrainValley:   1.4,
	TerrainDefault:  1.3,
}

// SubTerrainTag is the closed set of recognized sub-terrain categories.
type SubTerrainTag string

const (
	SubTerrainRoad   SubTerrainTag = "road"
	SubTerrainOpen   SubTerrainTag = "open"
	SubTerrainTunnel SubTerrainTag = "tunnel"
	SubTerrainRubble SubTerrainTag = "rubble"
	SubTerrainSwamp  SubTerrainTag = "swamp"
	SubTerrainNone   SubTerrainTag = "none"
)

var subTerrainKeywords = []SubTerrainTag{
	SubTerrainRoad,
	SubTerrainOpen,
	SubTerrainTunnel,
	SubTerrainRubble,
	SubTerrainSwamp,
}

var subTerrainFactors = map[SubTerrainTag]float64{
	SubTerrainRoad:   0.8,
	SubTerrainOpen:   0.9,
	SubTerrainTunnel: 1.2,
	SubTerrainRubble: 1.3,
	SubTerrainSwamp:  1.4,
	SubTerrainNone:   1.0,
}

// ResolveTerrain maps a free-text location to its terrain tag using a
// case-insensitive substring match.
func ResolveTerrain(location string) TerrainTag {
	loc := strings.ToLower(location)
	for _, tag := range terrainKeywords {
		if strings.Contains(loc, string(tag)) {
			return tag
		}
	}
	return TerrainDefault
}

// ResolveSubTerrain maps a free-text sub-terrain description to its tag.
func ResolveSubTerrain(subTerrain string) SubTerrainTag {
	sub := strings.ToLower(subTerrain)
	for _, tag := range subTerrainKeywords {
		if strings.Contains(sub, string(tag)) {
			return tag
		}
	}
	return SubTerrainNone
}

// TerrainFactor returns the travel multiplier for a terrain tag.
func TerrainFactor(tag TerrainTag) float64 {
	if f, ok := terrainFactors[tag]; ok {
		return f
	}
	return terrainFactors[TerrainDefault]
}

// SubTerrainFactor returns the travel multiplier for a sub-terrain tag.
func SubTerrainFactor(tag SubTerrainTag) float64 {
	if f, ok := subTerrainFactors[tag]; ok {
		return f
	}
	return 1.0
}
