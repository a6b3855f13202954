package geometry

import "math"

// WGS84 ellipsoid constants, grounded on the teacher's latLonAltToECEF
// helper (cmd/drone-swarm/simulation/entities.go) generalized into a
// local tangent-plane (rather than ECEF) projection: ECEF is unsuitable
// here because the band search needs east/north components directly.
const (
	wgs84A  = 6378137.0           // semi-major axis, meters
	wgs84F  = 1.0 / 298.257223563 // flattening
	wgs84E2 = 2*wgs84F - wgs84F*wgs84F
)

// LatLonAlt is a geodetic position in degrees/degrees/meters.
type LatLonAlt struct {
	LatDeg, LonDeg, Alt float64
}

// TangentPlaneProjection is an orthonormal local projection centered on an
// origin latitude/longitude, mapping nearby geodetic positions to
// east/north meter offsets (there is no inverse mapping). One instance
// is built each time the ownship is set (§4.9: the core recomputes
// projections, traffic never caches its own).
type TangentPlaneProjection struct {
	originLatDeg, originLonDeg float64
	metersPerDegLat            float64
	metersPerDegLon            float64
}

// NewTangentPlaneProjection builds a projection centered at the given
// geodetic origin.
func NewTangentPlaneProjection(origin LatLonAlt) *TangentPlaneProjection {
	latRad := origin.LatDeg * math.Pi / 180
	sinLat := math.Sin(latRad)
	// Meridional and normal radii of curvature at the origin latitude.
	rm := wgs84A * (1 - wgs84E2) / math.Pow(1-wgs84E2*sinLat*sinLat, 1.5)
	rn := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)

	return &TangentPlaneProjection{
		originLatDeg:    origin.LatDeg,
		originLonDeg:    origin.LonDeg,
		metersPerDegLat: rm * math.Pi / 180,
		metersPerDegLon: rn * math.Cos(latRad) * math.Pi / 180,
	}
}

// Project maps a geodetic position to east/north/up meters relative to the
// projection's origin.
func (p *TangentPlaneProjection) Project(pos LatLonAlt) Vector3 {
	dLat := pos.LatDeg - p.originLatDeg
	dLon := pos.LonDeg - p.originLonDeg
	return Vector3{
		X: dLon * p.metersPerDegLon,
		Y: dLat * p.metersPerDegLat,
		Z: pos.Alt,
	}
}

// ProjectVelocity maps a geodetic ground-velocity (track radians, ground
// speed m/s, vertical speed m/s) to an east/north/up velocity vector.
// The inputs are already in m/s, so no degree-to-meter scale factor is
// applied.
func (p *TangentPlaneProjection) ProjectVelocity(trackRad, groundSpeed, verticalSpeed float64) Vector3 {
	return Vector3{
		X: groundSpeed * math.Sin(trackRad),
		Y: groundSpeed * math.Cos(trackRad),
		Z: verticalSpeed,
	}
}

// AccuracyRadiusMeters is the nominal range beyond which the flat-earth
// tangent-plane approximation starts to accumulate appreciable error; the
// core logs a ProjectionWarning (non-fatal, per spec §4.1/§7) when a
// traffic aircraft's projected range exceeds it, but keeps computing with
// the degraded projection rather than aborting (Open Question (a)).
const AccuracyRadiusMeters = 50 * 1852.0 // 50 NM

// BeyondAccuracyRadius reports whether a projected position lies beyond
// the tangent-plane accuracy radius from the origin.
func BeyondAccuracyRadius(projected Vector3) bool {
	return projected.Vect2().Norm() > AccuracyRadiusMeters
}
