package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/NuSa-Nutrition-Scan/API-V1/internal/logging"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/nutrition/domain"
)

// Column positions in the raw food CSV.
const (
	colID           = 1
	colName         = 2
	colMineral      = 7
	colCalories     = 8
	colProtein      = 9
	colFat          = 10
	colCarbohydrate = 11
	colVitamin      = 12

	minColumns = colVitamin + 1
)

// FoodWriter persists one food record, keyed by name.
type FoodWriter interface {
	PutFood(ctx context.Context, food *domain.Food) error
}

// CacheInvalidator drops cached lookups for the given food names.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, names ...string) error
}

// ParseFoods reads the raw food CSV. The first row is a header.
func ParseFoods(r io.Reader) ([]*domain.Food, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var foods []*domain.Food
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv read error: %w", err)
		}

		food, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		foods = append(foods, food)
	}
	return foods, nil
}

func parseRow(rec []string) (*domain.Food, error) {
	if len(rec) < minColumns {
		return nil, fmt.Errorf("expected at least %d columns, got %d", minColumns, len(rec))
	}

	name := strings.TrimSpace(rec[colName])
	if name == "" {
		return nil, errors.New("empty food name")
	}

	calories, err := strconv.Atoi(strings.TrimSpace(rec[colCalories]))
	if err != nil {
		return nil, fmt.Errorf("calories: %w", err)
	}

	var nutrients [5]int
	for i, col := range []int{colProtein, colFat, colCarbohydrate, colVitamin, colMineral} {
		v, err := parseRounded(rec[col])
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", col, err)
		}
		nutrients[i] = v
	}

	return &domain.Food{
		ID:            strings.TrimSpace(rec[colID]),
		Name:          name,
		Calories:      calories,
		CaloriesFor2x: calories * 4,
		CaloriesFor3x: int(float64(calories) * 2.7),
		CaloriesFor4x: calories * 2,
		Protein:       nutrients[0],
		Fat:           nutrients[1],
		Carbohydrate:  nutrients[2],
		Vitamin:       nutrients[3],
		Mineral:       nutrients[4],
	}, nil
}

// parseRounded parses a decimal and rounds half to even.
func parseRounded(s string) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	return int(math.RoundToEven(f)), nil
}

// ImportFoods writes every record of the CSV and invalidates their cache
// entries. Nothing is written when the file does not parse. cache may be nil.
func ImportFoods(ctx context.Context, r io.Reader, w FoodWriter, cache CacheInvalidator) (int, error) {
	logger := logging.NewLogger(ctx)

	foods, err := ParseFoods(r)
	if err != nil {
		return 0, err
	}

	names := make([]string, 0, len(foods))
	for i, food := range foods {
		if err := w.PutFood(ctx, food); err != nil {
			return i, fmt.Errorf("put %s: %w", food.Name, err)
		}
		names = append(names, food.Name)
	}

	if cache != nil && len(names) > 0 {
		if err := cache.Invalidate(ctx, names...); err != nil {
			logger.LogWarnf("importer.import_foods", "cache invalidation failed: %v", err)
		}
	}

	logger.LogInfof("importer.import_foods", "imported %d foods", len(foods))
	return len(foods), nil
}
