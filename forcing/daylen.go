package forcing

import (
	"fmt"
	"math"
	"time"

	"github.com/im7mortal/UTM"
)

// DayLength returns the daylight fraction of a day (0..1) at a latitude
// (degrees) for a day of year, from the standard sunset-hour-angle relation.
func DayLength(latitude float64, doy int) float64 {
	phi := latitude * math.Pi / 180.
	delta := 0.409 * math.Sin(2.*math.Pi*float64(doy)/365.-1.39) // solar declination
	x := -math.Tan(phi) * math.Tan(delta)
	if x <= -1. {
		return 1. // polar day
	}
	if x >= 1. {
		return 0.
	}
	return math.Acos(x) / math.Pi
}

// DayLengths builds a daylight-fraction series for a site given projected
// easting/northing and UTM zone, the way ET-driving forcings are derived
// for gauged catchments.
func DayLengths(easting, northing float64, utmzone int, T []time.Time) ([]float64, error) {
	latitude, _, err := UTM.ToLatLon(easting, northing, utmzone, "", true)
	if err != nil {
		return nil, fmt.Errorf(" forcing.DayLengths: %v -- (x,y)=(%f, %f)", err, easting, northing)
	}
	o := make([]float64, len(T))
	for j, t := range T {
		o[j] = DayLength(latitude, t.YearDay())
	}
	return o, nil
}
