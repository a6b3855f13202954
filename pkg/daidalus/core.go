// Package daidalus assembles the geometry, detector, criteria,
// kinematics, integer- and real-band search, alerting, and hysteresis
// layers into the DAIDALUS core state (C9) and its query façade (C10).
package daidalus

import (
	"time"

	"github.com/airspace-systems/daidalus-go/pkg/geometry"
	"github.com/airspace-systems/daidalus-go/pkg/hysteresis"
	"github.com/airspace-systems/daidalus-go/pkg/params"
	"github.com/airspace-systems/daidalus-go/pkg/tstate"
)

// Core holds the mutable state one DAIDALUS instance tracks between
// refreshes (spec.md §4.9): ownship, traffic, wind, current time, the
// parameter block, the hysteresis store, and a generation counter that
// every mutation bumps.
type Core struct {
	Ownship    tstate.Aircraft
	Traffic    []tstate.Aircraft
	Wind       geometry.Vector3 // TO convention: direction air moves toward
	CurrentTime time.Time

	Params *params.Parameters
	Hyst   *hysteresis.Store

	generation int
	projection *geometry.TangentPlaneProjection

	cachedGeneration int
	stale            bool
}

// NewCore returns an empty core with the default parameter block.
func NewCore() *Core {
	return &Core{
		Ownship: tstate.Invalid,
		Params:  params.Default(),
		Hyst:    hysteresis.NewStore(),
		stale:   true,
	}
}

func (c *Core) bump() {
	c.generation++
	c.stale = true
}

// SetOwnship installs a new ownship state. Per spec.md §4.9's
// invalidation rule: if the identifier changes, or time moves backward,
// or time advances by more than hysteresis_time, this is a full reset
// (including hysteresis); otherwise hysteresis state is preserved
// across the reassignment.
func (c *Core) SetOwnship(ac tstate.Aircraft) {
	fullReset := !c.Ownship.IsValid() ||
		c.Ownship.ID != ac.ID ||
		ac.Time.Before(c.Ownship.Time) ||
		ac.Time.Sub(c.Ownship.Time).Seconds() > c.Params.HysteresisTime
	c.Ownship = ac
	c.CurrentTime = ac.Time
	if fullReset {
		c.Hyst.Reset()
		c.Traffic = nil
	}
	c.projection = nil
	if ac.IsGeodetic {
		c.projection = geometry.NewTangentPlaneProjection(ac.Geodetic)
	}
	c.bump()
}

// AddTraffic appends a traffic aircraft, returning its 1-based index.
func (c *Core) AddTraffic(ac tstate.Aircraft) int {
	c.Traffic = append(c.Traffic, ac)
	c.bump()
	return len(c.Traffic)
}

// RemoveTraffic removes the traffic aircraft at the given 1-based
// index, re-compacting later indices downward and evicting its
// hysteresis datums (spec.md §5's resource policy).
func (c *Core) RemoveTraffic(index int) {
	if index < 1 || index > len(c.Traffic) {
		return
	}
	removed := c.Traffic[index-1]
	c.Hyst.EvictIntruder(removed.ID)
	c.Traffic = append(c.Traffic[:index-1], c.Traffic[index:]...)
	c.bump()
}

// SetWind installs a new wind vector (TO convention).
func (c *Core) SetWind(w geometry.Vector3) {
	c.Wind = w
	c.bump()
}

// SetParameters installs a new parameter block, resetting hysteresis
// since its M/N/time constants may no longer apply to buffered samples
// (spec.md §3: datums are "evicted ... when parameters change").
func (c *Core) SetParameters(p *params.Parameters) error {
	if err := p.Validate(); err != nil {
		return err
	}
	c.Params = p
	c.Hyst.Reset()
	c.bump()
	return nil
}

// ProjectedEuclidean returns ac's position/velocity in the ownship's
// tangent-plane frame, projecting geodetic aircraft and logging a
// recoverable diagnostic (never aborting) when ac lies beyond the
// projection's accuracy radius (spec.md §4.1; Open Question (a)).
func (c *Core) ProjectedEuclidean(ac tstate.Aircraft) (geometry.Vector3, geometry.Vector3) {
	if !ac.IsGeodetic || c.projection == nil {
		return ac.Euclidean, ac.GroundVelocityVector()
	}
	pos := c.projection.Project(ac.Geodetic)
	vel := c.projection.ProjectVelocity(ac.TrackRad, ac.GroundSpeed, ac.VerticalRS)
	if geometry.BeyondAccuracyRadius(pos) && c.Params.Log != nil {
		c.Params.Log.ProjectionWarning(ac.ID, pos.Vect2().Norm())
	}
	return pos, vel
}

// GroundToAirVelocity subtracts the wind (TO convention: the direction
// air moves toward, so ground velocity is air-relative velocity plus
// wind) from a ground-relative velocity, giving the air-relative one.
// Aircraft states in this module are always carried ground-relative
// (tstate.Aircraft has no separate air-relative field), so this is the
// identity unless a wind vector has been configured.
func (c *Core) GroundToAirVelocity(v geometry.Vector3) geometry.Vector3 {
	return v.Sub(c.Wind)
}

// Generation returns the current mutation counter.
func (c *Core) Generation() int { return c.generation }

// Stale reports whether the cached bands/alert outputs need
// recomputation.
func (c *Core) Stale() bool { return c.stale || c.cachedGeneration != c.generation }

// MarkFresh records that outputs have been recomputed for the current
// generation.
func (c *Core) MarkFresh() {
	c.cachedGeneration = c.generation
	c.stale = false
}
