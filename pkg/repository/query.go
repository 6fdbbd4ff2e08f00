package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"droscher.com/BreweryFinder/pkg/model"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrUnknownField  = errors.New("unknown field")
	ErrMissingParent = errors.New("missing parent record")
)

// ListFields returns an entity's declared column names in schema order.
func (r *Repository) ListFields(entity *model.Entity) []string {
	fields := make([]string, len(entity.Fields))
	copy(fields, entity.Fields)

	return fields
}

// Query narrows the entity's rows to those matching every valid column in
// filters, with implicit AND semantics. Keys that are not columns are
// silently ignored; wildcard fields match by substring. With no valid
// condition left, all rows come back.
func (r *Repository) Query(ctx context.Context, entity *model.Entity, filters map[string]any, wildcards []string) ([]map[string]any, error) {
	tx := r.DB.WithContext(ctx).Table(entity.Table)

	for _, field := range entity.Fields {
		value, ok := filters[field]
		if !ok {
			continue
		}

		if containsField(wildcards, field) {
			tx = tx.Where(field+" LIKE ?", "%"+fmt.Sprint(value)+"%")
		} else {
			tx = tx.Where(field+" = ?", value)
		}
	}

	var rows []map[string]any
	if result := tx.Find(&rows); result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}

// GetByID fetches exactly one row by primary key. A malformed id is treated
// the same as a missing row, never as a server fault.
func (r *Repository) GetByID(ctx context.Context, entity *model.Entity, id string) (map[string]any, error) {
	recordID, err := parseID(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var rows []map[string]any

	result := r.DB.WithContext(ctx).Table(entity.Table).Where("id = ?", recordID).Limit(1).Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	return rows[0], nil
}

// Create inserts a record from a field/value mapping. Unknown attribute
// names are rejected, and every foreign key present must resolve to an
// existing parent before the transaction commits.
func (r *Repository) Create(ctx context.Context, entity *model.Entity, values map[string]any) (uint, error) {
	record, err := recordValues(entity, values)
	if err != nil {
		return 0, err
	}

	delete(record, "id")

	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkParents(tx, entity, record); err != nil {
			return err
		}

		result := tx.Table(entity.Table).
			Clauses(clause.Returning{Columns: []clause.Column{{Name: "id"}}}).
			Create(record)

		return result.Error
	})
	if err != nil {
		return 0, err
	}

	return toUint(record["id"]), nil
}

// Update applies an arbitrary subset of columns onto an existing row.
func (r *Repository) Update(ctx context.Context, entity *model.Entity, id string, values map[string]any) error {
	recordID, err := parseID(id)
	if err != nil {
		return ErrNotFound
	}

	record, err := recordValues(entity, values)
	if err != nil {
		return err
	}

	delete(record, "id")

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if result := tx.Table(entity.Table).Where("id = ?", recordID).Count(&count); result.Error != nil {
			return result.Error
		}

		if count == 0 {
			return ErrNotFound
		}

		if err := checkParents(tx, entity, record); err != nil {
			return err
		}

		if len(record) == 0 {
			return nil
		}

		result := tx.Table(entity.Table).Where("id = ?", recordID).Updates(record)

		return result.Error
	})
}

// Delete removes a row and, depth-first, every dependent child row declared
// in the registry, all inside one transaction. The deleted id is returned
// for confirmation.
func (r *Repository) Delete(ctx context.Context, entity *model.Entity, id string) (uint, error) {
	recordID, err := parseID(id)
	if err != nil {
		return 0, ErrNotFound
	}

	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if result := tx.Table(entity.Table).Where("id = ?", recordID).Count(&count); result.Error != nil {
			return result.Error
		}

		if count == 0 {
			return ErrNotFound
		}

		return deleteCascade(tx, entity, []uint{uint(recordID)})
	})
	if err != nil {
		return 0, err
	}

	return uint(recordID), nil
}

func deleteCascade(tx *gorm.DB, entity *model.Entity, ids []uint) error {
	for _, child := range entity.Children {
		childEntity := model.MustLookup(child.Entity)

		var childIDs []uint
		if result := tx.Table(childEntity.Table).Where(child.Column+" IN ?", ids).Pluck("id", &childIDs); result.Error != nil {
			return result.Error
		}

		if len(childIDs) > 0 {
			if err := deleteCascade(tx, childEntity, childIDs); err != nil {
				return err
			}
		}
	}

	result := tx.Exec("DELETE FROM "+entity.Table+" WHERE id IN ?", ids)

	return result.Error
}

func checkParents(tx *gorm.DB, entity *model.Entity, record map[string]any) error {
	for _, fk := range entity.ForeignKeys {
		value, ok := record[fk.Column]
		if !ok || value == nil {
			continue
		}

		parent := model.MustLookup(fk.Parent)

		var count int64
		if result := tx.Table(parent.Table).Where("id = ?", value).Count(&count); result.Error != nil {
			return result.Error
		}

		if count == 0 {
			return fmt.Errorf("%w: no record in %q with id %v for %q", ErrMissingParent, parent.Table, value, fk.Column)
		}
	}

	return nil
}

func recordValues(entity *model.Entity, values map[string]any) (map[string]any, error) {
	record := make(map[string]any, len(values))

	for key, value := range values {
		if !entity.HasField(key) {
			return nil, fmt.Errorf("%w: %q is not a column of %q", ErrUnknownField, key, entity.Table)
		}

		record[key] = value
	}

	return record, nil
}

// ValidateFields narrows a requested field list (comma string or string
// slice) to the entity's columns, falling back to the full list when the
// input is not usable.
func ValidateFields(entity *model.Entity, fields any) []string {
	var requested []string

	switch v := fields.(type) {
	case string:
		for _, f := range strings.Split(v, ",") {
			if f = strings.TrimSpace(f); f != "" {
				requested = append(requested, f)
			}
		}
	case []string:
		requested = v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				requested = append(requested, s)
			}
		}
	}

	valid := make([]string, 0, len(requested))

	for _, f := range requested {
		if entity.HasField(f) {
			valid = append(valid, f)
		}
	}

	if len(valid) == 0 {
		return entity.Projection()
	}

	return valid
}

// Representation projects rows to the given field list. Absent columns
// surface as nulls so the shape stays stable across records.
func Representation(rows []map[string]any, fields []string) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, RepresentationOne(row, fields))
	}

	return out
}

func RepresentationOne(row map[string]any, fields []string) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		out[f] = row[f]
	}

	return out
}

func parseID(id string) (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(id), 10, 64)
}

func containsField(fields []string, name string) bool {
	for _, f := range fields {
		if f == name {
			return true
		}
	}

	return false
}

func toUint(value any) uint {
	switch v := value.(type) {
	case int64:
		return uint(v)
	case uint64:
		return uint(v)
	case int:
		return uint(v)
	case uint:
		return v
	case int32:
		return uint(v)
	case float64:
		return uint(v)
	default:
		return 0
	}
}
