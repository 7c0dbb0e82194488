package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// MaxRecentMaps bounds AppData.RecentMapIDs.
const MaxRecentMaps = 10

var ErrNotObject = errors.New("app data is not a JSON object")

// AppData is the unit of persistence. An empty CurrentRunID or CurrentMapID means no selection and is encoded
// as JSON null.
type AppData struct {
	Runs         []Run
	CurrentRunID string
	CurrentMapID string
	Markers      []Marker
	EnabledPOIs  []string
	POIPins      []POIPin
	StashedItems []StashedItem
	RecentMapIDs []string
}

type appDataWire struct {
	Runs         []Run         `json:"runs"`
	CurrentRunID *string       `json:"currentRunId"`
	CurrentMapID *string       `json:"currentMapId"`
	Markers      []Marker      `json:"markers"`
	EnabledPOIs  []string      `json:"enabledPOIs"`
	POIPins      []POIPin      `json:"poiPins"`
	StashedItems []StashedItem `json:"stashedItems"`
	RecentMapIDs []string      `json:"recentMapIds"`
}

// Default returns the empty aggregate with every collection allocated.
func Default() AppData {
	return AppData{
		Runs:         []Run{},
		Markers:      []Marker{},
		EnabledPOIs:  []string{},
		POIPins:      []POIPin{},
		StashedItems: []StashedItem{},
		RecentMapIDs: []string{},
	}
}

// Clone returns a deep copy with nil collections replaced by empty ones.
func (d AppData) Clone() AppData {
	return AppData{
		Runs:         orEmpty(slices.Clone(d.Runs)),
		CurrentRunID: d.CurrentRunID,
		CurrentMapID: d.CurrentMapID,
		Markers:      orEmpty(slices.Clone(d.Markers)),
		EnabledPOIs:  orEmpty(slices.Clone(d.EnabledPOIs)),
		POIPins:      orEmpty(slices.Clone(d.POIPins)),
		StashedItems: orEmpty(slices.Clone(d.StashedItems)),
		RecentMapIDs: orEmpty(slices.Clone(d.RecentMapIDs)),
	}
}

func (d AppData) MarshalJSON() ([]byte, error) {
	return json.Marshal(appDataWire{
		Runs:         orEmpty(d.Runs),
		CurrentRunID: nullable(d.CurrentRunID),
		CurrentMapID: nullable(d.CurrentMapID),
		Markers:      orEmpty(d.Markers),
		EnabledPOIs:  orEmpty(d.EnabledPOIs),
		POIPins:      orEmpty(d.POIPins),
		StashedItems: orEmpty(d.StashedItems),
		RecentMapIDs: orEmpty(d.RecentMapIDs),
	})
}

func (d *AppData) UnmarshalJSON(raw []byte) error {
	parsed, err := ParseAppData(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseAppData decodes a JSON object into AppData leniently: a field that is missing or not an array is coerced to
// an empty collection and a selection that is not a string is treated as unset. Only input that is not a JSON
// object at all is rejected.
func ParseAppData(raw []byte) (AppData, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return AppData{}, fmt.Errorf("failed to decode app data: %w", err)
	}
	if fields == nil {
		return AppData{}, ErrNotObject
	}
	d := Default()
	decodeArray(fields["runs"], &d.Runs)
	decodeArray(fields["markers"], &d.Markers)
	decodeArray(fields["enabledPOIs"], &d.EnabledPOIs)
	decodeArray(fields["poiPins"], &d.POIPins)
	decodeArray(fields["stashedItems"], &d.StashedItems)
	decodeArray(fields["recentMapIds"], &d.RecentMapIDs)
	d.CurrentRunID = decodeOptionalString(fields["currentRunId"])
	d.CurrentMapID = decodeOptionalString(fields["currentMapId"])
	return d, nil
}

// decodeArray keeps every element of a json array that decodes as T and drops the rest.
func decodeArray[T any](raw json.RawMessage, into *[]T) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(trimmed, &elements); err != nil {
		return
	}
	out := make([]T, 0, len(elements))
	for _, element := range elements {
		var v T
		if err := json.Unmarshal(element, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	*into = out
}

func decodeOptionalString(raw json.RawMessage) string {
	var out *string
	if len(raw) == 0 || json.Unmarshal(raw, &out) != nil || out == nil {
		return ""
	}
	return *out
}

func orEmpty[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
