package models

// Placement zone identifiers. The set is fixed; zones are not created or
// deleted at runtime.
const (
	ZoneHomepageHero      = "homepage_hero"
	ZoneHomepageSecondary = "homepage_secondary"
	ZoneHomepageFeatured  = "homepage_featured"
	ZoneTrending          = "trending"
)

// Zones lists every placement zone in homepage display order.
var Zones = []string{
	ZoneHomepageHero,
	ZoneHomepageSecondary,
	ZoneHomepageFeatured,
	ZoneTrending,
}

// Zone policy modes.
const (
	ZoneModeManual = "manual"
	ZoneModeAuto   = "auto"
)

// ValidZone reports whether zone names a known placement zone.
func ValidZone(zone string) bool {
	for _, z := range Zones {
		if z == zone {
			return true
		}
	}
	return false
}

// ValidZoneMode reports whether mode is a known zone policy mode.
func ValidZoneMode(mode string) bool {
	return mode == ZoneModeManual || mode == ZoneModeAuto
}
