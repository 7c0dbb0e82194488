// Package model holds the reference catalog types and the user data aggregate that is persisted locally and
// remotely. JSON field names match the wire format served by /api/data and /data/*.json.
package model

import (
	"errors"
	"fmt"
)

type Difficulty string

const (
	DifficultyPilgrim    Difficulty = "pilgrim"
	DifficultyVoyageur   Difficulty = "voyageur"
	DifficultyStalker    Difficulty = "stalker"
	DifficultyInterloper Difficulty = "interloper"
	DifficultyMisery     Difficulty = "misery"
)

var ErrInvalidDifficulty = errors.New("invalid difficulty")

var Difficulties = []Difficulty{
	DifficultyPilgrim, DifficultyVoyageur, DifficultyStalker, DifficultyInterloper, DifficultyMisery,
}

func ParseDifficulty(raw string) (Difficulty, error) {
	for _, d := range Difficulties {
		if string(d) == raw {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDifficulty, raw)
}

func (d Difficulty) Valid() bool {
	_, err := ParseDifficulty(string(d))
	return err == nil
}

// UsesInterloperVariant reports whether maps should be shown with the sparse interloper rendering.
func (d Difficulty) UsesInterloperVariant() bool {
	return d == DifficultyInterloper || d == DifficultyMisery
}

type Run struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Difficulty Difficulty `json:"difficulty"`
	CreatedAt  int64      `json:"createdAt"`
}

type MapType string

const (
	MapTypeRegion     MapType = "region"
	MapTypeTransition MapType = "transition"
)

type MapVariant struct {
	ImageURL    string `json:"imageUrl"`
	ImageWidth  int    `json:"imageWidth"`
	ImageHeight int    `json:"imageHeight"`
}

type GameMap struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Type       MapType    `json:"type"`
	IsDLC      bool       `json:"isDLC"`
	Default    MapVariant `json:"default"`
	Interloper MapVariant `json:"interloper"`
}

// VariantFor returns the rendering matching the run's difficulty. A nil run gets the default variant.
func (m GameMap) VariantFor(run *Run) MapVariant {
	if run != nil && run.Difficulty.UsesInterloperVariant() {
		return m.Interloper
	}
	return m.Default
}

type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Icon        string `json:"icon,omitempty"`
	WikiURL     string `json:"wikiUrl,omitempty"`
}

type POI struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MapID        string `json:"mapId"`
	Type         string `json:"type,omitempty"`
	HasBed       bool   `json:"hasBed,omitempty"`
	HasWorkbench bool   `json:"hasWorkbench,omitempty"`
	HasShelter   bool   `json:"hasShelter,omitempty"`
	HasForge     bool   `json:"hasForge,omitempty"`
	WikiURL      string `json:"wikiUrl,omitempty"`
}

// Marker is an item placed by the user. X and Y are pixel coordinates in the image space of the map's active
// variant.
type Marker struct {
	ID       string  `json:"id"`
	RunID    string  `json:"runId"`
	MapID    string  `json:"mapId"`
	ItemID   string  `json:"itemId"`
	Name     string  `json:"name"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Quantity int     `json:"quantity"`
	Note     string  `json:"note,omitempty"`
}

type POIPin struct {
	POIID string  `json:"poiId"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

type StashedItem struct {
	ID       string `json:"id"`
	RunID    string `json:"runId"`
	POIID    string `json:"poiId"`
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
	Note     string `json:"note,omitempty"`
}
