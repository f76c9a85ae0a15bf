package shipping

import "strings"

// Flat shipping fees in MXN. Orders shipped within Chihuahua get the
// discounted local rate, everything else pays the national rate.
const (
	ChihuahuaCost   = 120
	OtherStatesCost = 200
)

// chihuahuaVariations lists spellings and abbreviations customers actually
// type into the free-text state field.
var chihuahuaVariations = []string{
	"chihuahua",
	"chih",
	"chih.",
	"chihuahua, mexico",
	"estado de chihuahua",
	"chihuahua, méxico",
	"chihuahua mexico",
	"chihuahua méxico",
}

// ResolveCost maps a free-text state name to a flat shipping fee.
func ResolveCost(state string) float64 {
	normalized := strings.ToLower(strings.TrimSpace(state))
	for _, variation := range chihuahuaVariations {
		if strings.Contains(normalized, variation) {
			return ChihuahuaCost
		}
	}
	return OtherStatesCost
}
