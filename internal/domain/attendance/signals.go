package attendance

import (
	"math"
	"strings"
)

const earthRadiusMeters = 6371000.0

type Geofence struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

// Probe is what a device reports. Nil coordinates mean geolocation failed.
type Probe struct {
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	SSID              string   `json:"ssid"`
	MockLocation      bool     `json:"mockLocationDetected"`
	Rooted            bool     `json:"rooted"`
	Emulator          bool     `json:"emulator"`
	AttestationFailed bool     `json:"attestationFailed"`
}

// SignalsFromProbe derives the geofence and Wi-Fi signals from raw device
// readings. An empty SSID allow-list accepts any network.
func SignalsFromProbe(p Probe, fence Geofence, allowedSSIDs []string) Signals {
	return Signals{
		InGeofence:        inGeofence(p, fence),
		CorrectWifi:       ssidAllowed(p.SSID, allowedSSIDs),
		MockLocation:      p.MockLocation,
		Rooted:            p.Rooted,
		Emulator:          p.Emulator,
		AttestationFailed: p.AttestationFailed,
	}
}

func inGeofence(p Probe, fence Geofence) bool {
	if p.Latitude == nil || p.Longitude == nil {
		return false
	}
	return DistanceMeters(*p.Latitude, *p.Longitude, fence.Latitude, fence.Longitude) <= fence.RadiusMeters
}

func ssidAllowed(ssid string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	ssid = strings.TrimSpace(ssid)
	for _, candidate := range allowed {
		if strings.EqualFold(ssid, candidate) {
			return true
		}
	}
	return false
}

// DistanceMeters is the haversine great-circle distance.
func DistanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(a))
}
