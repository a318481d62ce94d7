package weather

// DeriveCondition classifies an hour from its precipitation (mm) and humidity (%).
func DeriveCondition(precipitation, humidity float64) Condition {
	switch {
	case precipitation > 0.5:
		return ConditionRain
	case precipitation > 0.1:
		return ConditionPartlyCloudy
	case humidity > 80:
		return ConditionCloudy
	default:
		return ConditionClear
	}
}

var conditionIcons = map[Condition]string{
	ConditionClear:        "sun",
	ConditionPartlyCloudy: "cloud-sun",
	ConditionCloudy:       "cloud",
	ConditionRain:         "cloud-rain",
	ConditionSnow:         "cloud-snow",
}

// ConditionIcon returns the icon name for a condition, falling back to "sun".
func ConditionIcon(c Condition) string {
	if icon, ok := conditionIcons[c]; ok {
		return icon
	}
	return "sun"
}
