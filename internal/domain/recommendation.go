package domain

// ClothingRecommendation maps a Fahrenheit temperature to a short clothing hint
// for the weather-to-wear page.
func ClothingRecommendation(temp float64) string {
	switch {
	case temp < 32:
		return "Heavy winter coat, warm layers"
	case temp < 50:
		return "Jacket or sweater"
	case temp < 70:
		return "Light jacket or long sleeves"
	case temp < 85:
		return "T-shirt and shorts/pants"
	default:
		return "Light, breathable clothing"
	}
}
