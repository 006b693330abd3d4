package schema

import "fmt"

// Location is either a GPS fix or a manually entered address. Both may be
// present; which one counts is decided by the wizard's manual mode.
type Location struct {
	Lat     *float64 `json:"lat,omitempty" bson:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty" bson:"lng,omitempty"`
	State   string   `json:"state,omitempty" bson:"state,omitempty"`
	LGA     string   `json:"lga,omitempty" bson:"lga,omitempty"`
	City    string   `json:"city,omitempty" bson:"city,omitempty"`
	Address string   `json:"address,omitempty" bson:"address,omitempty"`
}

func GPSLocation(lat, lng float64) Location {
	return Location{Lat: &lat, Lng: &lng}
}

func (l Location) HasGPS() bool {
	return l.Lat != nil && l.Lng != nil
}

func (l Location) HasManual() bool {
	return l.State != "" && l.LGA != "" && l.City != ""
}

func (l Location) Complete() bool {
	return l.HasGPS() || l.HasManual()
}

// MapURL returns a google maps link for a GPS fix, or an empty string
func (l Location) MapURL() string {
	if !l.HasGPS() {
		return ""
	}
	return fmt.Sprintf("https://maps.google.com/?q=%v,%v", *l.Lat, *l.Lng)
}

// Describe renders the location the way the dashboard card shows it
func (l Location) Describe() string {
	switch {
	case l.Address != "":
		return fmt.Sprintf("%s, %s", l.Address, l.City)
	case l.City != "":
		return fmt.Sprintf("%s, %s, %s", l.City, l.LGA, l.State)
	case l.HasGPS():
		return "GPS Location Available"
	default:
		return ""
	}
}

func (l Location) Clone() Location {
	c := l
	if l.Lat != nil {
		lat := *l.Lat
		c.Lat = &lat
	}
	if l.Lng != nil {
		lng := *l.Lng
		c.Lng = &lng
	}
	return c
}
