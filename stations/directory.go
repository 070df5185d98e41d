package stations

import (
	"encoding/json"
	"log"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/ashokkumar272/BuddyOnTrain/models"
)

// Directory serves lookups against the static city to station-code dataset.
// The file is read once on first use and cached for the process lifetime;
// changing it requires a restart.
//
// City iteration everywhere below is lexicographic by city key, so tied
// results order the same way on every run.
type Directory struct {
	path string

	once     sync.Once
	byCity   map[string][]models.Station
	cityKeys []string
}

// SearchResult is a station annotated with the city it belongs to and how it
// matched the query.
type SearchResult struct {
	models.Station
	City      string `json:"city"`
	MatchType string `json:"matchType"`
}

// NewDirectory creates a directory over the stations file at path.
func NewDirectory(path string) *Directory {
	return &Directory{path: path}
}

// NewDirectoryFromData builds a directory from an in-memory dataset.
func NewDirectoryFromData(byCity map[string][]models.Station) *Directory {
	d := &Directory{}
	d.once.Do(func() {})
	d.index(byCity)
	return d
}

func (d *Directory) load() {
	d.once.Do(func() {
		file, err := os.Open(d.path)
		if err != nil {
			log.Printf("Failed to open railway stations file %s: %v", d.path, err)
			d.index(map[string][]models.Station{})
			return
		}
		defer file.Close()

		var data models.StationsFile
		if err := json.NewDecoder(file).Decode(&data); err != nil {
			log.Printf("Failed to decode railway stations file: %v", err)
			d.index(map[string][]models.Station{})
			return
		}
		d.index(data.RailwayStationsByCity)
		log.Printf("Loaded %d cities from %s", len(d.cityKeys), d.path)
	})
}

func (d *Directory) index(byCity map[string][]models.Station) {
	d.byCity = byCity
	d.cityKeys = make([]string, 0, len(byCity))
	for city := range byCity {
		d.cityKeys = append(d.cityKeys, city)
	}
	sort.Strings(d.cityKeys)
}

// FindCityByCode returns the city key owning the given station code, or ""
// if no city lists it. The scan is case-insensitive.
func (d *Directory) FindCityByCode(code string) string {
	d.load()
	for _, city := range d.cityKeys {
		for _, station := range d.byCity[city] {
			if strings.EqualFold(station.StationCode, code) {
				return city
			}
		}
	}
	return ""
}

// StationCodesForCity returns every station code of a city, empty if the
// city is unknown.
func (d *Directory) StationCodesForCity(cityKey string) []string {
	d.load()
	stations, ok := d.byCity[cityKey]
	if !ok {
		return []string{}
	}
	codes := make([]string, 0, len(stations))
	for _, station := range stations {
		codes = append(codes, station.StationCode)
	}
	return codes
}

// AllCodesForMatchingCity expands a station code to every code in its city.
// Unknown codes come back as [code] so a search degrades to exact-code
// matching instead of failing.
func (d *Directory) AllCodesForMatchingCity(code string) []string {
	if city := d.FindCityByCode(code); city != "" {
		return d.StationCodesForCity(city)
	}
	return []string{code}
}

// StationDetails returns the station record for a code together with its
// city, or nil if the code is unknown.
func (d *Directory) StationDetails(code string) *SearchResult {
	d.load()
	for _, city := range d.cityKeys {
		for _, station := range d.byCity[city] {
			if strings.EqualFold(station.StationCode, code) {
				return &SearchResult{Station: station, City: city}
			}
		}
	}
	return nil
}

// Cities returns all city keys in sorted order.
func (d *Directory) Cities() []models.CitySummary {
	d.load()
	cities := make([]models.CitySummary, 0, len(d.cityKeys))
	for _, city := range d.cityKeys {
		cities = append(cities, models.CitySummary{
			CityKey:      city,
			CityName:     strings.ReplaceAll(city, "_", " "),
			StationCount: len(d.byCity[city]),
		})
	}
	return cities
}

// Search runs the three-pass prioritized scan: exact code match, then prefix
// match on name/code/city, then substring match. Results deduplicate by
// station code. Exact code matches are always included; only the prefix and
// substring passes fill up to limit.
func (d *Directory) Search(query string, limit int) []SearchResult {
	d.load()
	results := []SearchResult{}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return results
	}
	if limit <= 0 {
		limit = 10
	}

	seen := map[string]bool{}
	add := func(station models.Station, city, matchType string) {
		if seen[station.StationCode] {
			return
		}
		seen[station.StationCode] = true
		results = append(results, SearchResult{Station: station, City: city, MatchType: matchType})
	}

	// Pass 1: exact station code matches, uncapped.
	for _, city := range d.cityKeys {
		for _, station := range d.byCity[city] {
			if strings.ToLower(station.StationCode) == q {
				add(station, city, "exact_code")
			}
		}
	}

	// Pass 2: prefix matches on name, code or city.
	for _, city := range d.cityKeys {
		cityName := strings.ToLower(strings.ReplaceAll(city, "_", " "))
		for _, station := range d.byCity[city] {
			if len(results) >= limit {
				return results
			}
			if strings.HasPrefix(strings.ToLower(station.StationName), q) ||
				strings.HasPrefix(strings.ToLower(station.StationCode), q) ||
				strings.HasPrefix(cityName, q) {
				add(station, city, "starts_with")
			}
		}
	}

	// Pass 3: substring matches.
	for _, city := range d.cityKeys {
		cityName := strings.ToLower(strings.ReplaceAll(city, "_", " "))
		for _, station := range d.byCity[city] {
			if len(results) >= limit {
				return results
			}
			if strings.Contains(strings.ToLower(station.StationName), q) ||
				strings.Contains(strings.ToLower(station.StationCode), q) ||
				strings.Contains(cityName, q) {
				add(station, city, "contains")
			}
		}
	}

	return results
}

// CitySuggestions returns cities whose key contains the query (spaces treated
// as underscores), exact key matches first, then alphabetically, capped at
// limit. Each suggestion carries the city's full station list.
func (d *Directory) CitySuggestions(query string, limit int) []models.CitySuggestion {
	d.load()
	suggestions := []models.CitySuggestion{}
	q := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(query), " ", "_"))
	if q == "" {
		return suggestions
	}
	if limit <= 0 {
		limit = 10
	}

	for _, city := range d.cityKeys {
		if strings.Contains(strings.ToLower(city), q) {
			suggestions = append(suggestions, models.CitySuggestion{
				City:            strings.ReplaceAll(city, "_", " "),
				OriginalCityKey: city,
				Stations:        append([]models.Station{}, d.byCity[city]...),
			})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		iExact := strings.ToLower(suggestions[i].OriginalCityKey) == q
		jExact := strings.ToLower(suggestions[j].OriginalCityKey) == q
		if iExact != jExact {
			return iExact
		}
		return suggestions[i].City < suggestions[j].City
	})

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}
