// Package coords formats and measures result coordinates.
package coords

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	geohash "github.com/TomiHiltunen/geohash-golang"
	"github.com/golang/geo/s2"
)

// earthRadiusKm is the IUGG mean radius.
const earthRadiusKm = 6371.0088

// Point is a WGS84 coordinate pair in degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Valid reports whether p lies within the WGS84 range.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180 &&
		!math.IsNaN(p.Lat) && !math.IsNaN(p.Lon)
}

// Distance returns the great-circle distance between a and b in kilometres.
func Distance(a, b Point) float64 {
	la := s2.LatLngFromDegrees(a.Lat, a.Lon)
	lb := s2.LatLngFromDegrees(b.Lat, b.Lon)
	return la.Distance(lb).Radians() * earthRadiusKm
}

// Geohash encodes p with the given number of characters.
func Geohash(p Point, precision int) string {
	if precision <= 0 {
		return geohash.Encode(p.Lat, p.Lon)
	}
	return geohash.EncodeWithPrecision(p.Lat, p.Lon, precision)
}

// FormatDistance renders km for a result row: metres below 1 km, one
// decimal below 100 km and grouped whole kilometres beyond.
func FormatDistance(km float64) string {
	switch {
	case km < 1:
		return fmt.Sprintf("%d m", int(math.Round(km*1000)))
	case km < 100:
		return fmt.Sprintf("%.1f km", km)
	default:
		return groupThousands(int64(math.Round(km))) + " km"
	}
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatPoint renders p as "48.85889, 2.32004".
func FormatPoint(p Point) string {
	return fmt.Sprintf("%.5f, %.5f", p.Lat, p.Lon)
}
