package weather

import "math"

// Open-Meteo (WMO) weather codes.
var codeConditions = map[int]Condition{
	0:  ConditionClear,
	1:  ConditionMostlyClear,
	2:  ConditionPartlyCloudy,
	3:  ConditionOvercast,
	45: ConditionFog,
	48: ConditionFog,
	51: ConditionDrizzleLight,
	53: ConditionDrizzleModerate,
	55: ConditionDrizzleDense,
	56: ConditionFreezingDrizzleLight,
	57: ConditionFreezingDrizzleDense,
	61: ConditionRainLight,
	63: ConditionRainModerate,
	65: ConditionRainHeavy,
	66: ConditionFreezingRainLight,
	67: ConditionFreezingRainDense,
	71: ConditionSnowLight,
	73: ConditionSnowModerate,
	75: ConditionSnowHeavy,
	77: ConditionSnowGrains,
	80: ConditionRainShowersLight,
	81: ConditionRainShowersModerate,
	82: ConditionRainShowersHeavy,
	85: ConditionSnowShowersLight,
	86: ConditionSnowShowersHeavy,
	95: ConditionThunderstorm,
	96: ConditionThunderstormHailLight,
	99: ConditionThunderstormHailHeavy,
}

// ConditionForCode maps a weather code to its condition. Codes outside the
// table map to ConditionUnknown.
func ConditionForCode(code int) Condition {
	if c, ok := codeConditions[code]; ok {
		return c
	}
	return ConditionUnknown
}

const (
	IconSunny        = "☀️"
	IconPartlyCloudy = "⛅"
	IconCloudy       = "☁️"
	IconFog          = "🌫️"
	IconShowers      = "🌦️"
	IconRain         = "🌧️"
	IconSnow         = "❄️"
	IconSnowShowers  = "🌨️"
	IconStorm        = "⛈️"
	IconFallback     = "🌤️"
)

// IconForCode buckets a weather code into an icon.
func IconForCode(code int) string {
	switch {
	case code == 0:
		return IconSunny
	case code == 1 || code == 2:
		return IconPartlyCloudy
	case code == 3:
		return IconCloudy
	case code >= 45 && code <= 48:
		return IconFog
	case code >= 51 && code <= 57:
		return IconShowers
	case code >= 61 && code <= 67:
		return IconRain
	case code >= 71 && code <= 77:
		return IconSnow
	case code >= 80 && code <= 82:
		return IconShowers
	case code >= 85 && code <= 86:
		return IconSnowShowers
	case code >= 95:
		return IconStorm
	default:
		return IconFallback
	}
}

// CompassPoint is one of the eight compass directions, clockwise from north.
type CompassPoint string

const (
	North     CompassPoint = "North"
	NorthEast CompassPoint = "NorthEast"
	East      CompassPoint = "East"
	SouthEast CompassPoint = "SouthEast"
	South     CompassPoint = "South"
	SouthWest CompassPoint = "SouthWest"
	West      CompassPoint = "West"
	NorthWest CompassPoint = "NorthWest"
)

// CompassPoints is ordered clockwise in 45 degree steps starting at North.
var CompassPoints = [8]CompassPoint{North, NorthEast, East, SouthEast, South, SouthWest, West, NorthWest}

// CompassIndex returns round(deg/45) mod 8. Negative angles wrap.
func CompassIndex(deg float64) int {
	idx := int(math.Round(deg/45)) % 8
	if idx < 0 {
		idx += 8
	}
	return idx
}

// CompassPointFor returns the compass bucket for a wind angle in degrees.
func CompassPointFor(deg float64) CompassPoint {
	return CompassPoints[CompassIndex(deg)]
}
