package constants

import "strings"

// SteelDensity is the density of mild steel in g/cm³. With plate dimensions in
// millimetres the per-piece weight in kg is t*w*l*SteelDensity/1e6.
const SteelDensity = 7.85

// GSTRate is the fixed Indian GST rate applied to quotation subtotals.
const GSTRate = 0.18

// KgPerMetricTon converts MT/ton/tonne quantities to kilograms.
const KgPerMetricTon = 1000.0

// tonUnits are the unit spellings treated as metric tons.
var tonUnits = map[string]struct{}{
	"mt": {}, "ton": {}, "tons": {}, "tonne": {}, "tonnes": {},
}

// IsTonUnit reports whether the unit annotation denotes metric tons.
func IsTonUnit(unit string) bool {
	_, ok := tonUnits[strings.ToLower(strings.TrimSpace(unit))]
	return ok
}

// SectionWeights maps common Indian standard sections to kg per metre. Used as
// a plausibility reference when parsing free-text material descriptions.
var SectionWeights = map[string]float64{
	"ismc 75":  7.14,
	"ismc 100": 9.56,
	"ismc 125": 13.1,
	"ismc 150": 16.4,
	"ismc 175": 20.7,
	"ismc 200": 25.1,
	"ismc 225": 30.6,
	"ismc 250": 36.3,
	"ismb 100": 11.5,
	"ismb 125": 13.7,
	"ismb 150": 17.9,
	"ismb 175": 22.8,
	"ismb 200": 25.4,
	"ismb 225": 29.9,
	"ismb 250": 37.3,
	"ismb 300": 46.1,

	"angle 25x25x3": 1.11,
	"angle 50x50x5": 3.77,
	"angle 75x75x6": 6.85,
}
