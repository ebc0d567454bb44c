package config

import (
	"sort"

	"github.com/agbru/mandelcalc/internal/escape"
)

// DefaultRegion is the preset used when -region is not given.
const DefaultRegion = "classic"

// Regions maps preset names to windows of the complex plane. All presets are
// landmarks of the set; "classic" frames the whole of it.
var Regions = map[string]escape.Window{
	"classic": escape.ClassicWindow,

	// dense filaments and repeating curls
	"seahorse": {RealMin: -0.8, RealMax: -0.7, ImagMin: 0.05, ImagMax: 0.15},
	// large bulb with trunk-like tendrils
	"elephant": {RealMin: -1.85, RealMax: -1.75, ImagMin: -0.10, ImagMax: -0.02},
	"spiral":   {RealMin: -0.7435, RealMax: -0.7420, ImagMin: 0.1310, ImagMax: 0.1325},
	// threefold symmetric spiral
	"triple-spiral": {RealMin: -0.7480, RealMax: -0.7450, ImagMin: 0.0950, ImagMax: 0.0980},
	"dragon":        {RealMin: -0.7400, RealMax: -0.7350, ImagMin: 0.1800, ImagMax: 0.1850},
	// self-similar copy inside a spiral arm
	"minibrot": {RealMin: -1.7390, RealMax: -1.7375, ImagMin: -0.0235, ImagMax: -0.0220},
}

// RegionNames returns the preset names in sorted order.
func RegionNames() []string {
	names := make([]string, 0, len(Regions))
	for name := range Regions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupRegion returns the window for a preset name.
func LookupRegion(name string) (escape.Window, bool) {
	w, ok := Regions[name]
	return w, ok
}
