package match

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Objective event types reported by the match source.
const (
	ObjectiveFirstBlood   = "CHAT_MESSAGE_FIRSTBLOOD"
	ObjectiveBuildingKill = "building_kill"
	ObjectiveAegis        = "CHAT_MESSAGE_AEGIS"
	ObjectiveAegisStolen  = "CHAT_MESSAGE_AEGIS_STOLEN"
	ObjectiveAegisDenied  = "CHAT_MESSAGE_DENIED_AEGIS"
	ObjectiveRoshanKill   = "CHAT_MESSAGE_ROSHAN_KILL"
	ObjectiveMinibossKill = "CHAT_MESSAGE_MINIBOSS_KILL" // tormentor
	ObjectiveCourierLost  = "CHAT_MESSAGE_COURIER_LOST"
)

// Series is a per-minute gold advantage series.
type Series []int

// Teamfight is one fight window in seconds since the horn.
type Teamfight struct {
	Start     int `json:"start"`
	End       int `json:"end"`
	LastDeath int `json:"last_death"`
	Deaths    int `json:"deaths"`
}

// Teamfights is the unordered list of fights in a game.
type Teamfights []Teamfight

// Objective is a typed game event such as first blood or a building kill.
type Objective struct {
	Type string `json:"type"`
	Time int    `json:"time"`
}

// Objectives is the list of objective events in a game.
type Objectives []Objective

// ParseSeries decodes a gold advantage series. raw may be a JSON array of
// numbers, a string holding such an array, or null (absent, nil result).
func ParseSeries(raw []byte) (Series, error) {
	raw, err := unwrap(raw)
	if err != nil || raw == nil {
		return nil, err
	}
	var vals []float64
	if err := json.Unmarshal(raw, &vals); err != nil {
		return nil, fmt.Errorf("gold advantage: %w", err)
	}
	out := make(Series, len(vals))
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("gold advantage: non-finite value at minute %d", i)
		}
		out[i] = int(math.Round(v))
	}
	return out, nil
}

// ParseTeamfights decodes a teamfight list; null yields nil.
func ParseTeamfights(raw []byte) (Teamfights, error) {
	raw, err := unwrap(raw)
	if err != nil || raw == nil {
		return nil, err
	}
	out := Teamfights{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("teamfights: %w", err)
	}
	return out, nil
}

// ParseObjectives decodes an objective list; null yields nil.
func ParseObjectives(raw []byte) (Objectives, error) {
	raw, err := unwrap(raw)
	if err != nil || raw == nil {
		return nil, err
	}
	out := Objectives{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("objectives: %w", err)
	}
	return out, nil
}

// unwrap strips a JSON string layer around an encoded list. Lists written by
// older exports use single-quoted keys, which are normalised to JSON.
func unwrap(raw []byte) ([]byte, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] != '"' {
		return raw, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") || s == "None" {
		return nil, nil
	}
	if !json.Valid([]byte(s)) {
		s = strings.ReplaceAll(s, "'", `"`)
		s = strings.ReplaceAll(s, "None", "null")
		s = strings.ReplaceAll(s, "True", "true")
		s = strings.ReplaceAll(s, "False", "false")
	}
	return []byte(s), nil
}
