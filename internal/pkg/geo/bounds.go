package geo

// Israel region constants for map restrictions and geocoding.
var (
	// IsraelCenter is the fallback map center (Tel Aviv).
	IsraelCenter = Point{Lat: 32.0853, Lon: 34.7818}

	// IsraelSouthWest and IsraelNorthEast are the corners of the supported
	// bounding box.
	IsraelSouthWest = Point{Lat: 29.4, Lon: 34.2}
	IsraelNorthEast = Point{Lat: 33.5, Lon: 35.9}
)

// Point is a WGS84 coordinate
type Point struct {
	Lat float64
	Lon float64
}

// IsWithinIsraelBounds reports whether the coordinate lies inside the
// supported bounding box.
func IsWithinIsraelBounds(lat, lon float64) bool {
	return lat >= IsraelSouthWest.Lat && lat <= IsraelNorthEast.Lat &&
		lon >= IsraelSouthWest.Lon && lon <= IsraelNorthEast.Lon
}

// ClampToIsraelBounds clamps a coordinate to the supported bounding box.
func ClampToIsraelBounds(lat, lon float64) (float64, float64) {
	if lat < IsraelSouthWest.Lat {
		lat = IsraelSouthWest.Lat
	}
	if lat > IsraelNorthEast.Lat {
		lat = IsraelNorthEast.Lat
	}
	if lon < IsraelSouthWest.Lon {
		lon = IsraelSouthWest.Lon
	}
	if lon > IsraelNorthEast.Lon {
		lon = IsraelNorthEast.Lon
	}
	return lat, lon
}
