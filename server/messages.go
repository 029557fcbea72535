package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"tectonicfield/core"
	"tectonicfield/generator"
	"tectonicfield/noise"
)

// GenerateRequest is sent by a preview client over the websocket. Fields left
// out of Params and Noise keep the server defaults.
type GenerateRequest struct {
	Type   string          `json:"type"`
	Params json.RawMessage `json:"params,omitempty"`
	Noise  json.RawMessage `json:"noise,omitempty"`
}

// ProfileData is the planetary profile of a run
type ProfileData struct {
	EngineScore      float64 `json:"engineScore"`
	HasActiveGeology bool    `json:"hasActiveGeology"`
	HasLiquidWater   bool    `json:"hasLiquidWater"`
	HasTectonics     bool    `json:"hasTectonics"`
	Archetype        string  `json:"archetype"`
	Color            string  `json:"color"`
}

// PlateData describes one seeded plate
type PlateData struct {
	ID       int        `json:"id"`
	Crust    string     `json:"crust"`
	U        float64    `json:"u"`
	V        float64    `json:"v"`
	Lat      float64    `json:"lat"`
	Lon      float64    `json:"lon"`
	Center   [3]float64 `json:"center"`
	Movement [3]float64 `json:"movement"`
	Speed    float64    `json:"speed"`
}

// Summary describes a run without its fields
type Summary struct {
	Type      string            `json:"type"`
	RunID     string            `json:"runId"`
	Seed      int32             `json:"seed"`
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Profile   ProfileData       `json:"profile"`
	Plates    []PlateData       `json:"plates"`
	Histogram []int             `json:"histogram,omitempty"`
	Digest    string            `json:"digest"`
	Params    core.ParameterSet `json:"params"`
}

// FieldsMessage carries a full run to a preview client
type FieldsMessage struct {
	Summary
	PlateIDs      []int32   `json:"plateIds,omitempty"`
	BoundaryDelta []float32 `json:"boundaryDelta,omitempty"`
	HeightNoise   []float32 `json:"heightNoise,omitempty"`
}

// ErrorMessage reports a rejected request. Field names the offending parameter when known.
type ErrorMessage struct {
	Type  string `json:"type"`
	Field string `json:"field,omitempty"`
	Error string `json:"error"`
}

func newSummary(b *generator.FieldBundle) Summary {
	prof := b.Profile
	s := Summary{
		Type:   "summary",
		RunID:  b.RunID.String(),
		Seed:   b.Seed,
		Width:  b.Params.MapWidth,
		Height: b.Params.MapHeight,
		Profile: ProfileData{
			EngineScore:      prof.EngineScore,
			HasActiveGeology: prof.HasActiveGeology,
			HasLiquidWater:   prof.HasLiquidWater,
			HasTectonics:     prof.HasTectonics,
			Archetype:        prof.Archetype.String(),
			Color:            prof.ColorHex(),
		},
		Plates: []PlateData{},
		Digest: b.Digest(),
		Params: b.Params,
	}
	if ps := b.Plates(); ps != nil {
		for _, p := range ps.Plates {
			lat, lon := core.UVToLatLon(p.U, p.V)
			s.Plates = append(s.Plates, PlateData{
				ID:       p.ID,
				Crust:    p.Crust.String(),
				U:        p.U,
				V:        p.V,
				Lat:      lat,
				Lon:      lon,
				Center:   [3]float64(p.Center),
				Movement: [3]float64(p.Movement),
				Speed:    p.Speed,
			})
		}
		if ids := b.PlateIDs(); ids != nil {
			s.Histogram = ids.Histogram(ps.Len())
		}
	}
	return s
}

func newFieldsMessage(b *generator.FieldBundle) FieldsMessage {
	msg := FieldsMessage{Summary: newSummary(b)}
	msg.Type = "fields"
	if ids := b.PlateIDs(); ids != nil {
		msg.PlateIDs = ids.Data
	}
	if d := b.BoundaryDelta(); d != nil {
		msg.BoundaryDelta = d.Data
	}
	if h := b.HeightNoise(); h != nil {
		msg.HeightNoise = h.Data
	}
	return msg
}

func errorMessage(err error) ErrorMessage {
	msg := ErrorMessage{Type: "error", Error: err.Error()}
	var pe *core.ParamError
	if errors.As(err, &pe) {
		msg.Field = pe.Field
	}
	return msg
}

// resolve overlays the request on the given defaults
func (r GenerateRequest) resolve(params core.ParameterSet, np noise.Params) (core.ParameterSet, noise.Params, error) {
	if len(r.Params) > 0 {
		if err := json.Unmarshal(r.Params, &params); err != nil {
			return params, np, fmt.Errorf("decode params: %w", err)
		}
	}
	if len(r.Noise) > 0 {
		if err := json.Unmarshal(r.Noise, &np); err != nil {
			return params, np, fmt.Errorf("decode noise: %w", err)
		}
	}
	return params, np, nil
}
