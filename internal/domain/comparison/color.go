package comparison

import (
	"math"
	"strconv"
)

// ColorOf returns a stable HSL color for an athlete id. The same id maps to
// the same color in every process, so no palette has to be stored.
func ColorOf(athleteID int) string {
	return colorOfKey(strconv.Itoa(athleteID))
}

func colorOfKey(key string) string {
	h := hashKey(key)
	hue := math.Mod(math.Abs(h*137), 360)
	saturation := 60 + math.Mod(math.Abs(h), 20)
	lightness := 40 + math.Mod(math.Abs(h), 20)
	return "hsl(" + formatNumber(hue) + ", " + formatNumber(saturation) + "%, " + formatNumber(lightness) + "%)"
}

// hashKey is the h*31+c string hash used by the web client. The shift
// operates on the 32-bit truncation of the accumulator, the subtraction on
// the full value.
func hashKey(key string) float64 {
	var h float64
	for i := 0; i < len(key); i++ {
		c := key[i]
		shifted := toInt32(h) << 5
		h = float64(c) + (float64(shifted) - h)
	}
	return h
}

func toInt32(v float64) int32 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int32(uint32(int64(math.Trunc(math.Mod(v, 1<<32)))))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
