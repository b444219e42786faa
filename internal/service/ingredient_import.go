package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/models"
)

const importBatchSize = 500

type ingredientKey struct{ name, unit string }

// ImportIngredients loads "name,measurement_unit" rows into the dictionary.
// Rows already present (same name and unit, ignoring case) are skipped, so
// the import can be re-run. It returns how many ingredients were added.
func (s *CatalogService) ImportIngredients(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var (
		rows []models.Ingredient
		seen = map[ingredientKey]bool{}
		line int
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", line, err)
		}
		if len(record) < 2 {
			return 0, invalid("ingredients", "line %d: expected name and measurement unit", line)
		}
		name, unit := strings.TrimSpace(record[0]), strings.TrimSpace(record[1])
		if name == "" || unit == "" {
			continue
		}
		key := ingredientKey{strings.ToLower(name), strings.ToLower(unit)}
		if seen[key] {
			continue
		}
		seen[key] = true
		rows = append(rows, models.Ingredient{Name: name, MeasurementUnit: unit})
	}

	var added int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []models.Ingredient
		if err := tx.Select("name", "measurement_unit").Find(&existing).Error; err != nil {
			return err
		}
		for _, e := range existing {
			delete(seen, ingredientKey{strings.ToLower(e.Name), strings.ToLower(e.MeasurementUnit)})
		}

		fresh := rows[:0]
		for _, row := range rows {
			if seen[ingredientKey{strings.ToLower(row.Name), strings.ToLower(row.MeasurementUnit)}] {
				fresh = append(fresh, row)
			}
		}
		if len(fresh) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(fresh, importBatchSize).Error; err != nil {
			return err
		}
		added = len(fresh)
		return nil
	})
	if err != nil {
		return 0, err
	}

	logging.Info().Int("added", added).Int("rows", len(rows)).Msg("Ingredient import finished")
	return added, nil
}
