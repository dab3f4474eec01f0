package weather

import (
	"context"
	"math/rand/v2"
	"strings"
)

// Registry is an immutable, ordered list of locations.
type Registry struct {
	locations []Location
	intn      func(n int) int
}

// NewRegistry copies locs. It panics on an empty list; a registry always has
// at least one location.
func NewRegistry(locs []Location) *Registry {
	if len(locs) == 0 {
		panic("weather: registry needs at least one location")
	}
	cp := make([]Location, len(locs))
	copy(cp, locs)
	return &Registry{locations: cp, intn: rand.IntN}
}

// WithRand returns a copy of the registry drawing random picks from intn.
func (r *Registry) WithRand(intn func(n int) int) *Registry {
	return &Registry{locations: r.locations, intn: intn}
}

// All returns the locations in registry order.
func (r *Registry) All() []Location {
	cp := make([]Location, len(r.locations))
	copy(cp, r.locations)
	return cp
}

// First returns the first location.
func (r *Registry) First() Location {
	return r.locations[0]
}

// ByName finds a location by its English or localized name, ignoring case.
func (r *Registry) ByName(name string) (Location, bool) {
	name = strings.TrimSpace(name)
	for _, loc := range r.locations {
		if strings.EqualFold(loc.Name, name) || (loc.LocalName != "" && loc.LocalName == name) {
			return loc, true
		}
	}
	return Location{}, false
}

// Random picks uniformly over All.
func (r *Registry) Random() Location {
	return r.locations[r.intn(len(r.locations))]
}

// LocationResolver looks up locations that are not in a registry.
type LocationResolver interface {
	Resolve(ctx context.Context, name string) (Location, error)
}

func coord(lat, lon float64) *Coordinates {
	return &Coordinates{Lat: lat, Lon: lon}
}

// OpenMeteoLocations is the coordinate-based city list.
func OpenMeteoLocations() *Registry {
	return NewRegistry([]Location{
		{Name: "Beijing", LocalName: "北京", Country: "中国", CountryCode: "CN", Coord: coord(39.9042, 116.4074)},
		{Name: "Shanghai", LocalName: "上海", Country: "中国", CountryCode: "CN", Coord: coord(31.2304, 121.4737)},
		{Name: "Guangzhou", LocalName: "广州", Country: "中国", CountryCode: "CN", Coord: coord(23.1291, 113.2644)},
		{Name: "Shenzhen", LocalName: "深圳", Country: "中国", CountryCode: "CN", Coord: coord(22.5431, 114.0579)},
		{Name: "Chengdu", LocalName: "成都", Country: "中国", CountryCode: "CN", Coord: coord(30.5728, 104.0668)},
		{Name: "Hangzhou", LocalName: "杭州", Country: "中国", CountryCode: "CN", Coord: coord(30.2741, 120.1551)},
		{Name: "Wuhan", LocalName: "武汉", Country: "中国", CountryCode: "CN", Coord: coord(30.5928, 114.3055)},
		{Name: "Xian", LocalName: "西安", Country: "中国", CountryCode: "CN", Coord: coord(34.3416, 108.9398)},
		{Name: "Chongqing", LocalName: "重庆", Country: "中国", CountryCode: "CN", Coord: coord(29.5630, 106.5516)},
		{Name: "Nanjing", LocalName: "南京", Country: "中国", CountryCode: "CN", Coord: coord(32.0603, 118.7969)},
		{Name: "Tokyo", LocalName: "东京", Country: "日本", CountryCode: "JP", Coord: coord(35.6762, 139.6503)},
		{Name: "New York", LocalName: "纽约", Country: "美国", CountryCode: "US", Coord: coord(40.7128, -74.0060)},
		{Name: "London", LocalName: "伦敦", Country: "英国", CountryCode: "GB", Coord: coord(51.5074, -0.1278)},
		{Name: "Paris", LocalName: "巴黎", Country: "法国", CountryCode: "FR", Coord: coord(48.8566, 2.3522)},
		{Name: "Sydney", LocalName: "悉尼", Country: "澳大利亚", CountryCode: "AU", Coord: coord(-33.8688, 151.2093)},
	})
}

// OpenWeatherLocations is the query-string city list.
func OpenWeatherLocations() *Registry {
	return NewRegistry([]Location{
		{Name: "Beijing", LocalName: "北京", CountryCode: "CN"},
		{Name: "Shanghai", LocalName: "上海", CountryCode: "CN"},
		{Name: "Guangzhou", LocalName: "广州", CountryCode: "CN"},
		{Name: "Shenzhen", LocalName: "深圳", CountryCode: "CN"},
		{Name: "Chengdu", LocalName: "成都", CountryCode: "CN"},
		{Name: "Hangzhou", LocalName: "杭州", CountryCode: "CN"},
		{Name: "Wuhan", LocalName: "武汉", CountryCode: "CN"},
		{Name: "Xian", LocalName: "西安", CountryCode: "CN"},
		{Name: "Chongqing", LocalName: "重庆", CountryCode: "CN"},
		{Name: "Nanjing", LocalName: "南京", CountryCode: "CN"},
		{Name: "Tokyo", LocalName: "东京", CountryCode: "JP"},
		{Name: "New York", LocalName: "纽约", CountryCode: "US"},
		{Name: "London", LocalName: "伦敦", CountryCode: "GB"},
		{Name: "Paris", LocalName: "巴黎", CountryCode: "FR"},
		{Name: "Sydney", LocalName: "悉尼", CountryCode: "AU"},
		{Name: "Moscow", LocalName: "莫斯科", CountryCode: "RU"},
		{Name: "Dubai", LocalName: "迪拜", CountryCode: "AE"},
		{Name: "Singapore", LocalName: "新加坡", CountryCode: "SG"},
		{Name: "Hong Kong", LocalName: "香港", CountryCode: "HK"},
		{Name: "Taipei", LocalName: "台北", CountryCode: "TW"},
	})
}
