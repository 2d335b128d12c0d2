package tariff

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"curbside-backend/config"
	"curbside-backend/internal/model"
	"curbside-backend/internal/parse"
)

// ErrInvalidWindow is returned for windows whose end is not after their start.
var ErrInvalidWindow = errors.New("invalid calendar window")

// TariffSource reads metered windows from the tariff_windows table.
type TariffSource struct {
	db *gorm.DB
}

// NewTariffSource creates a source of tariff windows.
func NewTariffSource(db *gorm.DB) *TariffSource {
	return &TariffSource{db: db}
}

// Windows loads the windows of tariffID.
func (s *TariffSource) Windows(ctx context.Context, tariffID string) ([]Window, error) {
	var rows []model.TariffWindow
	if err := s.db.WithContext(ctx).
		Where("tariff_id = ?", tariffID).
		Order("weekday, start_minute").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	windows := make([]Window, len(rows))
	for i, r := range rows {
		windows[i] = Window{Weekday: r.Weekday, StartMinute: r.StartMinute, EndMinute: r.EndMinute}
	}
	return windows, nil
}

// PrivilegedSource reads privileged-hours windows from the privileged_windows table.
type PrivilegedSource struct {
	db *gorm.DB
}

// NewPrivilegedSource creates a source of privileged-hours windows keyed by zone code.
func NewPrivilegedSource(db *gorm.DB) *PrivilegedSource {
	return &PrivilegedSource{db: db}
}

// Windows loads the privileged windows of zoneCode.
func (s *PrivilegedSource) Windows(ctx context.Context, zoneCode string) ([]Window, error) {
	var rows []model.PrivilegedWindow
	if err := s.db.WithContext(ctx).
		Where("zone_code = ?", zoneCode).
		Order("weekday, start_minute").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	windows := make([]Window, len(rows))
	for i, r := range rows {
		windows[i] = Window{Weekday: r.Weekday, StartMinute: r.StartMinute, EndMinute: r.EndMinute}
	}
	return windows, nil
}

// CachedSource memoizes another source for ttl. Windows only change through migrate.
type CachedSource struct {
	next  Source
	cache *cache.Cache
	ttl   time.Duration
}

// NewCachedSource wraps next with an in-memory cache.
func NewCachedSource(next Source, ttl time.Duration) *CachedSource {
	return &CachedSource{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// Windows returns cached windows for key, loading them on a miss.
func (s *CachedSource) Windows(ctx context.Context, key string) ([]Window, error) {
	if v, found := s.cache.Get(key); found {
		return v.([]Window), nil
	}
	windows, err := s.next.Windows(ctx, key)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, windows, s.ttl)
	return windows, nil
}

// Flush drops every cached entry.
func (s *CachedSource) Flush() {
	s.cache.Flush()
}

// ExpandSeeds turns configuration seeds into one window per weekday.
func ExpandSeeds(seeds []config.WindowSeed) (map[string][]Window, error) {
	out := make(map[string][]Window)
	for _, seed := range seeds {
		if seed.ID == "" {
			return nil, fmt.Errorf("%w: seed without id", ErrInvalidWindow)
		}
		start, err := parse.ParseClock(seed.Start)
		if err != nil {
			return nil, fmt.Errorf("seed %s: %w", seed.ID, err)
		}
		end, err := parse.ParseClock(seed.End)
		if err != nil {
			return nil, fmt.Errorf("seed %s: %w", seed.ID, err)
		}
		if end <= start {
			return nil, fmt.Errorf("%w: seed %s ends at %s before it starts at %s", ErrInvalidWindow, seed.ID, seed.End, seed.Start)
		}
		days, err := parse.ParseWeekdays(seed.Days)
		if err != nil {
			return nil, fmt.Errorf("seed %s: %w", seed.ID, err)
		}
		for _, d := range days {
			out[seed.ID] = append(out[seed.ID], Window{Weekday: d, StartMinute: start, EndMinute: end})
		}
	}
	return out, nil
}

// SeedTariffWindows upserts tariff windows keyed by (tariff, weekday, start).
func SeedTariffWindows(ctx context.Context, db *gorm.DB, seeds []config.WindowSeed) error {
	expanded, err := ExpandSeeds(seeds)
	if err != nil {
		return err
	}
	var rows []model.TariffWindow
	for id, windows := range expanded {
		for _, w := range windows {
			rows = append(rows, model.TariffWindow{TariffID: id, Weekday: w.Weekday, StartMinute: w.StartMinute, EndMinute: w.EndMinute})
		}
	}
	if len(rows) == 0 {
		return nil
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tariff_id"}, {Name: "weekday"}, {Name: "start_minute"}},
		DoUpdates: clause.AssignmentColumns([]string{"end_minute", "updated_at"}),
	}).Create(&rows).Error
}

// SeedPrivilegedWindows upserts privileged windows keyed by (zone, weekday, start).
func SeedPrivilegedWindows(ctx context.Context, db *gorm.DB, seeds []config.WindowSeed) error {
	expanded, err := ExpandSeeds(seeds)
	if err != nil {
		return err
	}
	var rows []model.PrivilegedWindow
	for zone, windows := range expanded {
		for _, w := range windows {
			rows = append(rows, model.PrivilegedWindow{ZoneCode: zone, Weekday: w.Weekday, StartMinute: w.StartMinute, EndMinute: w.EndMinute})
		}
	}
	if len(rows) == 0 {
		return nil
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "zone_code"}, {Name: "weekday"}, {Name: "start_minute"}},
		DoUpdates: clause.AssignmentColumns([]string{"end_minute", "updated_at"}),
	}).Create(&rows).Error
}
