package weather

import (
	"errors"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownLocation is returned when a location name cannot be resolved.
var ErrUnknownLocation = errors.New("unknown location")

// DefaultLocations are the provinces and municipalities available out of the box.
var DefaultLocations = []Location{
	{Name: "Hà Nội", Latitude: 21.0285, Longitude: 105.8542},
	{Name: "Hồ Chí Minh", Latitude: 10.8231, Longitude: 106.6297},
	{Name: "Đà Nẵng", Latitude: 16.0544, Longitude: 108.2022},
	{Name: "Hải Phòng", Latitude: 20.8449, Longitude: 106.6880},
	{Name: "Cần Thơ", Latitude: 10.0452, Longitude: 105.7469},
	{Name: "An Giang", Latitude: 10.3867, Longitude: 105.4351},
	{Name: "Bà Rịa - Vũng Tàu", Latitude: 10.4114, Longitude: 107.1362},
	{Name: "Bắc Giang", Latitude: 21.2731, Longitude: 106.1946},
	{Name: "Bắc Kạn", Latitude: 22.1470, Longitude: 105.8348},
	{Name: "Bạc Liêu", Latitude: 9.2940, Longitude: 105.7216},
	{Name: "Bắc Ninh", Latitude: 21.1861, Longitude: 106.0763},
	{Name: "Bến Tre", Latitude: 10.2333, Longitude: 106.3833},
	{Name: "Bình Định", Latitude: 13.7750, Longitude: 109.2235},
	{Name: "Bình Dương", Latitude: 11.3254, Longitude: 106.4770},
	{Name: "Bình Phước", Latitude: 11.7504, Longitude: 106.7234},
	{Name: "Bình Thuận", Latitude: 10.9289, Longitude: 108.1000},
	{Name: "Cà Mau", Latitude: 9.1769, Longitude: 105.1524},
	{Name: "Cao Bằng", Latitude: 22.6657, Longitude: 106.2577},
	{Name: "Đắk Lắk", Latitude: 12.6667, Longitude: 108.0500},
	{Name: "Đắk Nông", Latitude: 12.0023, Longitude: 107.6874},
	{Name: "Điện Biên", Latitude: 21.3833, Longitude: 103.0167},
	{Name: "Đồng Nai", Latitude: 10.9574, Longitude: 106.8426},
	{Name: "Đồng Tháp", Latitude: 10.4602, Longitude: 105.6329},
	{Name: "Gia Lai", Latitude: 13.9833, Longitude: 108.0000},
	{Name: "Hà Giang", Latitude: 22.8333, Longitude: 104.9833},
	{Name: "Hà Nam", Latitude: 20.5411, Longitude: 105.9229},
	{Name: "Hà Tĩnh", Latitude: 18.3333, Longitude: 105.9000},
	{Name: "Hải Dương", Latitude: 20.9373, Longitude: 106.3146},
	{Name: "Hậu Giang", Latitude: 9.7847, Longitude: 105.4701},
	{Name: "Hòa Bình", Latitude: 20.8133, Longitude: 105.3383},
	{Name: "Hưng Yên", Latitude: 20.6464, Longitude: 106.0511},
	{Name: "Khánh Hòa", Latitude: 12.2500, Longitude: 109.1833},
	{Name: "Kiên Giang", Latitude: 10.0167, Longitude: 105.0833},
	{Name: "Kon Tum", Latitude: 14.3500, Longitude: 108.0000},
	{Name: "Lai Châu", Latitude: 22.4000, Longitude: 103.4500},
	{Name: "Lâm Đồng", Latitude: 11.9417, Longitude: 108.4383},
	{Name: "Lạng Sơn", Latitude: 21.8333, Longitude: 106.7333},
	{Name: "Lào Cai", Latitude: 22.4833, Longitude: 103.9500},
	{Name: "Long An", Latitude: 10.6667, Longitude: 106.1667},
	{Name: "Nam Định", Latitude: 20.4333, Longitude: 106.1667},
	{Name: "Nghệ An", Latitude: 18.6833, Longitude: 105.6833},
	{Name: "Ninh Bình", Latitude: 20.2500, Longitude: 105.9667},
	{Name: "Ninh Thuận", Latitude: 11.5667, Longitude: 108.9833},
	{Name: "Phú Thọ", Latitude: 21.3000, Longitude: 105.4333},
	{Name: "Phú Yên", Latitude: 13.0833, Longitude: 109.3167},
	{Name: "Quảng Bình", Latitude: 17.4833, Longitude: 106.6000},
	{Name: "Quảng Nam", Latitude: 15.8833, Longitude: 108.3333},
	{Name: "Quảng Ngãi", Latitude: 15.1167, Longitude: 108.8000},
	{Name: "Quảng Ninh", Latitude: 21.0167, Longitude: 107.3000},
	{Name: "Quảng Trị", Latitude: 16.7500, Longitude: 107.2000},
	{Name: "Sóc Trăng", Latitude: 9.6000, Longitude: 105.9667},
	{Name: "Sơn La", Latitude: 21.3167, Longitude: 103.9000},
	{Name: "Tây Ninh", Latitude: 11.3167, Longitude: 106.1000},
	{Name: "Thái Bình", Latitude: 20.4500, Longitude: 106.3333},
	{Name: "Thái Nguyên", Latitude: 21.5667, Longitude: 105.8250},
	{Name: "Thanh Hóa", Latitude: 19.8000, Longitude: 105.7667},
	{Name: "Thừa Thiên Huế", Latitude: 16.4667, Longitude: 107.5833},
	{Name: "Tiền Giang", Latitude: 10.3500, Longitude: 106.3500},
	{Name: "Trà Vinh", Latitude: 9.9333, Longitude: 106.3500},
	{Name: "Tuyên Quang", Latitude: 21.8167, Longitude: 105.2167},
	{Name: "Vĩnh Long", Latitude: 10.2500, Longitude: 105.9667},
	{Name: "Vĩnh Phúc", Latitude: 21.3000, Longitude: 105.6000},
	{Name: "Yên Bái", Latitude: 21.7000, Longitude: 104.8667},
}

// Catalog resolves location names to coordinates. It is safe for concurrent use.
type Catalog struct {
	mu     sync.RWMutex
	byKey  map[string]Location
	sorted []Location
}

// NewCatalog builds a catalog from the given locations.
func NewCatalog(locs []Location) *Catalog {
	c := &Catalog{byKey: make(map[string]Location, len(locs))}
	for _, l := range locs {
		c.add(l)
	}
	return c
}

// Lookup returns the location with the given name, ignoring case and surrounding space.
func (c *Catalog) Lookup(name string) (Location, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	loc, ok := c.byKey[Location{Name: name}.Key()]
	return loc, ok
}

// Add registers a location, e.g. one resolved through a geocoder.
func (c *Catalog) Add(loc Location) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.add(loc)
}

func (c *Catalog) add(loc Location) {
	loc.Name = strings.TrimSpace(loc.Name)
	if _, exists := c.byKey[loc.Key()]; exists {
		for i := range c.sorted {
			if c.sorted[i].Key() == loc.Key() {
				c.sorted[i] = loc
			}
		}
	} else {
		c.sorted = append(c.sorted, loc)
		sort.Slice(c.sorted, func(i, j int) bool { return c.sorted[i].Name < c.sorted[j].Name })
	}
	c.byKey[loc.Key()] = loc
}

// All returns the locations sorted by name.
func (c *Catalog) All() []Location {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Location, len(c.sorted))
	copy(out, c.sorted)
	return out
}
