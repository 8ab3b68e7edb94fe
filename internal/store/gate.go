package store

import (
	"strings"
	"sync"

	ic "irrigation_controller"
)

// DefaultLowPressureTolerant lists zone names that may run below the critical pressure.
var DefaultLowPressureTolerant = []string{"нешков пластеник", "драгчетов цветни врт"}

// CanActivate is the single zone activation rule: pressure must be at least
// CriticalPressure unless the zone name contains a low-pressure-tolerant name.
func CanActivate(zone ic.Zone, status ic.SystemStatus, tolerant []string) bool {
	if status.WaterPressure >= CriticalPressure {
		return true
	}
	name := strings.ToLower(zone.Name)
	for _, t := range tolerant {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" && strings.Contains(name, t) {
			return true
		}
	}
	return false
}

// PressureBand classifies a pressure reading the way the dashboard gauge does.
type PressureBand string

const (
	BandCritical PressureBand = "critical"
	BandLow      PressureBand = "low"
	BandOptimal  PressureBand = "optimal"
	BandHigh     PressureBand = "high"
)

// BandFor returns the band of a reading.
func BandFor(pressure float64) PressureBand {
	switch {
	case pressure < CriticalPressure:
		return BandCritical
	case pressure < LowPressure:
		return BandLow
	case pressure < OptimalPressure:
		return BandOptimal
	default:
		return BandHigh
	}
}

// Gate holds the configured tolerant names; they can change on config reload.
type Gate struct {
	mu       sync.RWMutex
	tolerant []string
}

func NewGate(tolerant []string) *Gate {
	g := &Gate{}
	g.SetTolerant(tolerant)
	return g
}

// SetTolerant replaces the tolerant names; an empty list restores the defaults.
func (g *Gate) SetTolerant(names []string) {
	if len(names) == 0 {
		names = DefaultLowPressureTolerant
	}
	g.mu.Lock()
	g.tolerant = append([]string(nil), names...)
	g.mu.Unlock()
}

// Tolerant returns a copy of the current names.
func (g *Gate) Tolerant() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]string(nil), g.tolerant...)
}

// Allows applies CanActivate with the current names.
func (g *Gate) Allows(zone ic.Zone, status ic.SystemStatus) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return CanActivate(zone, status, g.tolerant)
}
