package model

import (
	"fmt"
	"strings"
)

// Unit is a page length unit.
type Unit string

const (
	UnitMillimeters Unit = "mm"
	UnitCentimeters Unit = "cm"
	UnitMeters      Unit = "m"
	UnitInches      Unit = "in"
	UnitFeet        Unit = "ft"
	UnitPoints      Unit = "pt"
	UnitPicas       Unit = "pica"
	UnitPixels      Unit = "px"
)

// PixelsPerInch is the resolution assumed when converting pixel sizes.
const PixelsPerInch = 300.0

// millimetersPer holds the length of one unit in millimeters.
var millimetersPer = map[Unit]float64{
	UnitMillimeters: 1,
	UnitCentimeters: 10,
	UnitMeters:      1000,
	UnitInches:      25.4,
	UnitFeet:        304.8,
	UnitPoints:      25.4 / 72,
	UnitPicas:       25.4 / 6,
	UnitPixels:      25.4 / PixelsPerInch,
}

// ParseUnit accepts the canonical unit names and a few spellings.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mm", "millimeter", "millimeters", "millimetre", "millimetres":
		return UnitMillimeters, nil
	case "cm", "centimeter", "centimeters", "centimetre", "centimetres":
		return UnitCentimeters, nil
	case "m", "meter", "meters", "metre", "metres":
		return UnitMeters, nil
	case "in", "inch", "inches", `"`:
		return UnitInches, nil
	case "ft", "foot", "feet":
		return UnitFeet, nil
	case "pt", "point", "points":
		return UnitPoints, nil
	case "pica", "picas", "pc":
		return UnitPicas, nil
	case "px", "pixel", "pixels":
		return UnitPixels, nil
	}
	return "", fmt.Errorf("unknown unit %q", s)
}

// ConvertLength converts v from one unit to another.
func ConvertLength(v float64, from, to Unit) (float64, error) {
	if from == to {
		return v, nil
	}
	f, ok := millimetersPer[from]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q", from)
	}
	t, ok := millimetersPer[to]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q", to)
	}
	return v * f / t, nil
}
