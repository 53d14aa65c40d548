package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

// DefaultCountryNames maps country codes to the country names used as keys in holidays.json
var DefaultCountryNames = map[string]string{
	"IN": "India",
}

// FileSource implements Source using a local JSON file shaped
// {"India": {"2025": [{"date": "2025-01-26", "name": "Republic Day"}]}}
type FileSource struct {
	filePath     string
	countryNames map[string]string // code -> name
	logger       *zap.Logger

	mu   sync.Mutex
	data map[string]map[string][]Record // country name -> year -> records
}

// NewFileSource creates a new FileSource instance; the file is read lazily
func NewFileSource(filePath string, countryNames map[string]string, logger *zap.Logger) *FileSource {
	if len(countryNames) == 0 {
		countryNames = DefaultCountryNames
	}

	return &FileSource{
		filePath:     filePath,
		countryNames: countryNames,
		logger:       logger,
	}
}

// loadLocked reads the holiday file (caller must hold mu)
func (fs *FileSource) loadLocked() error {
	raw, err := os.ReadFile(fs.filePath)
	if err != nil {
		return fmt.Errorf("failed to open holiday file: %w", err)
	}

	var data map[string]map[string][]Record
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed to parse holiday file: %w", err)
	}

	fs.data = data
	fs.logger.Info("Holiday file loaded",
		zap.String("file", fs.filePath),
		zap.Int("countries", len(data)))

	return nil
}

func (fs *FileSource) loaded() (map[string]map[string][]Record, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.data == nil {
		if err := fs.loadLocked(); err != nil {
			return nil, err
		}
	}
	return fs.data, nil
}

// Holidays returns the holidays in the file. Unknown countries and years yield
// an empty list; records with malformed dates are skipped.
func (fs *FileSource) Holidays(ctx context.Context, country string, year int) ([]Holiday, error) {
	data, err := fs.loaded()
	if err != nil {
		return nil, err
	}

	name, ok := fs.countryNames[country]
	if !ok {
		fs.logger.Debug("Country not mapped in holiday file", zap.String("country", country))
		return []Holiday{}, nil
	}

	records := data[name][strconv.Itoa(year)]
	holidays := make([]Holiday, 0, len(records))
	for _, r := range records {
		h, err := r.ToHoliday()
		if err != nil {
			fs.logger.Warn("Skipping holiday with malformed date",
				zap.String("country", country),
				zap.Int("year", year),
				zap.String("date", r.Date),
				zap.Error(err))
			continue
		}
		holidays = append(holidays, h)
	}

	return holidays, nil
}

// Countries lists the mapped countries present in the file
func (fs *FileSource) Countries(ctx context.Context) ([]Country, error) {
	data, err := fs.loaded()
	if err != nil {
		return nil, err
	}

	var countries []Country
	for code, name := range fs.countryNames {
		if _, ok := data[name]; ok {
			countries = append(countries, Country{Code: code, Name: name})
		}
	}

	sort.Slice(countries, func(i, j int) bool {
		return countries[i].Code < countries[j].Code
	})

	return countries, nil
}

// Years lists the years present in the file for a country, ascending
func (fs *FileSource) Years(country string) ([]int, error) {
	data, err := fs.loaded()
	if err != nil {
		return nil, err
	}

	name, ok := fs.countryNames[country]
	if !ok {
		return nil, nil
	}

	var years []int
	for yearStr := range data[name] {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			fs.logger.Warn("Failed to parse year", zap.String("year", yearStr), zap.Error(err))
			continue
		}
		years = append(years, year)
	}
	sort.Ints(years)

	return years, nil
}
