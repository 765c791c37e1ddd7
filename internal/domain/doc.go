// Package domain models USGS earthquake feed data for the dashboard.
//
// # Data Source
//
// Events come from the USGS real-time GeoJSON summary feeds, published at
// https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/. A feed is
// selected by severity ("all", "significant", "4.5", "2.5", "1.0") and
// period ("day", "week", "month"), e.g. "all_month.geojson". Feeds are
// regenerated upstream roughly every minute.
//
// # Feed Conventions
//
// Coordinates:
//
//	geometry.coordinates = [longitude, latitude, depth]
//	Depth is in kilometers. Any element may be null in malformed entries.
//
// Magnitude:
//
//	properties.mag is a decimal, typically with one decimal place. It may be
//	null for very recent or reviewed-and-deleted events, and small negative
//	values occur for micro events in some networks.
//
// Time:
//
//	properties.time is milliseconds since the Unix epoch, UTC.
//
// # Normalization
//
// The feed adapter keeps longitude, latitude, magnitude, and depth as raw
// text in [RawEvent]. [Normalize] parses them; an entry that is missing a
// value, has a non-numeric or non-finite value, a negative magnitude or
// depth, or no timestamp is dropped. Nothing is defaulted. The place name is
// the only optional field.
//
// # Classification
//
// Magnitude maps to a descriptive label. Bands are closed on both ends and
// evaluated in order:
//
//	< 2        micro
//	2   – 3.9  menor
//	4   – 4.9  ligero
//	5   – 5.9  moderado
//	6   – 6.9  fuerte
//	7   – 7.9  mayor
//	8   – 9.9  épico
//	>= 10      legendario
//
// Finite magnitudes are rounded half away from zero to one decimal before
// the comparison, which closes the gaps between bands: 3.95 rounds to 4.0
// and is "ligero", 3.94 rounds to 3.9 and is "menor". See [Classify].
//
// # Regions
//
// "puerto_rico" keeps events inside latitude [16.5, 19.0] and longitude
// [-68.5, -64.0], bounds inclusive. "world" keeps everything.
package domain
