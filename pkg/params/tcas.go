package params

// TCASSensitivityLevel is one row of the legacy TCAS-II RA sensitivity
// table, used as the recovery envelope fallback when the configured
// recovery radii are zero (SPEC_FULL.md §D.3, grounded on
// DaidalusParameters.cpp's TCASsensitivityLevel lookup in
// original_source/).
type TCASSensitivityLevel struct {
	AltitudeFloor   float64 // m, own altitude >= this selects the row
	HorizontalNM    float64 // nautical miles
	VerticalFt      float64 // feet
}

// TCASSensitivityTable is ordered by increasing altitude floor; the
// applicable row is the last one whose floor the own altitude meets or
// exceeds.
var TCASSensitivityTable = []TCASSensitivityLevel{
	{AltitudeFloor: 0, HorizontalNM: 0.2, VerticalFt: 850},
	{AltitudeFloor: 305, HorizontalNM: 0.35, VerticalFt: 850},    // 1000 ft
	{AltitudeFloor: 610, HorizontalNM: 0.55, VerticalFt: 850},    // 2000 ft
	{AltitudeFloor: 1050, HorizontalNM: 0.8, VerticalFt: 850},    // 3450 ft
	{AltitudeFloor: 1700, HorizontalNM: 1.1, VerticalFt: 850},    // 5000 ft
	{AltitudeFloor: 2450, HorizontalNM: 1.1, VerticalFt: 850},    // 10000 ft
	{AltitudeFloor: 5500, HorizontalNM: 1.1, VerticalFt: 850},    // 20000 ft
	{AltitudeFloor: 10000, HorizontalNM: 1.1, VerticalFt: 1200},  // 40000 ft
}

// TCASSensitivity returns the sensitivity-level row applicable at the
// given own altitude (meters).
func TCASSensitivity(ownAltitudeMeters float64) TCASSensitivityLevel {
	chosen := TCASSensitivityTable[0]
	for _, row := range TCASSensitivityTable {
		if ownAltitudeMeters >= row.AltitudeFloor {
			chosen = row
		}
	}
	return chosen
}

// EffectiveHorizontalRecovery returns MinHorizontalRecovery, or the TCAS
// fallback radius (converted to meters) when MinHorizontalRecovery is
// zero.
func (p *Parameters) EffectiveHorizontalRecovery(ownAltitudeMeters float64) float64 {
	if p.MinHorizontalRecovery > 0 {
		return p.MinHorizontalRecovery
	}
	return TCASSensitivity(ownAltitudeMeters).HorizontalNM * 1852.0
}

// EffectiveVerticalRecovery returns MinVerticalRecovery, or the TCAS
// fallback radius (converted to meters) when MinVerticalRecovery is zero.
func (p *Parameters) EffectiveVerticalRecovery(ownAltitudeMeters float64) float64 {
	if p.MinVerticalRecovery > 0 {
		return p.MinVerticalRecovery
	}
	return TCASSensitivity(ownAltitudeMeters).VerticalFt * 0.3048
}
