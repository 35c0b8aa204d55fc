package omeka

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/localnerve/itemsetgroup/internal/models"
	"github.com/localnerve/itemsetgroup/internal/types"
	"gorm.io/gorm"
)

// Property terms used by this service
const (
	TermTitle       = "dcterms:title"
	TermDescription = "dcterms:description"
	TermIsPartOf    = "dcterms:isPartOf"
)

// PropertyID resolves a "prefix:local_name" term to its property id
func (s *Store) PropertyID(ctx context.Context, term string) (int, error) {
	prefix, local, ok := strings.Cut(term, ":")
	if !ok {
		return 0, fmt.Errorf("property %q: %w", term, ErrNotFound)
	}
	var id int
	err := s.quiet(ctx).Table("property p").
		Select("p.id").
		Joins("JOIN vocabulary v ON v.id = p.vocabulary_id").
		Where("v.prefix = ? AND p.local_name = ?", prefix, local).
		Take(&id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("property %q: %w", term, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("read property %q: %w", term, err)
	}
	return id, nil
}

// Value returns the first literal value of term on a resource. When langs is
// not empty only values in one of those languages, or without a language,
// are considered. Private values are skipped for viewers who cannot see them.
func (s *Store) Value(ctx context.Context, resourceID int, term string, langs []string, viewer types.Viewer) (string, error) {
	propertyID, err := s.PropertyID(ctx, term)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	q := s.quiet(ctx).Model(&models.Value{}).
		Where("resource_id = ? AND property_id = ? AND value IS NOT NULL", resourceID, propertyID)
	if !viewer.CanSeePrivate() {
		q = q.Where("is_public = ?", true)
	}
	if len(langs) > 0 {
		q = q.Where("(lang IN ? OR lang IS NULL OR lang = '')", langs)
	}

	var v models.Value
	err = q.Order("id ASC").Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s of %d: %w", term, resourceID, err)
	}
	return *v.Value, nil
}

// GroupParentIDs returns the item sets that other item sets point to with
// dcterms:isPartOf.
func (s *Store) GroupParentIDs(ctx context.Context) (map[int]bool, error) {
	propertyID, err := s.PropertyID(ctx, TermIsPartOf)
	if errors.Is(err, ErrNotFound) {
		return map[int]bool{}, nil
	}
	if err != nil {
		return nil, err
	}

	var ids []int
	err = s.quiet(ctx).Table("value v").
		Joins("JOIN item_set child ON child.id = v.resource_id").
		Where("v.property_id = ? AND v.value_resource_id IS NOT NULL", propertyID).
		Pluck("v.value_resource_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("read group parents: %w", err)
	}
	out := make(map[int]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
