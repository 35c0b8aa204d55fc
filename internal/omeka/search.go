package omeka

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/localnerve/itemsetgroup/internal/types"
	"gorm.io/gorm"
)

// PropertyFilter is one entry of the host's advanced search "property" query
type PropertyFilter struct {
	Joiner   string
	Property string
	Type     string
	Text     string
}

// ItemSetQuery narrows an item set search
type ItemSetQuery struct {
	SiteID     int
	Properties []PropertyFilter
	PublicOnly bool
	SortBy     string
	SortOrder  string
	Page       int
	PerPage    int
}

// SearchItemSets lists item sets matching q that the viewer may see, along
// with the total count before paging. PerPage <= 0 returns every match.
func (s *Store) SearchItemSets(ctx context.Context, q ItemSetQuery, viewer types.Viewer) ([]ItemSetView, int64, error) {
	tx := s.quiet(ctx).Table("resource r").
		Joins("JOIN item_set s ON s.id = r.id")

	if q.SiteID > 0 {
		tx = tx.Where("r.id IN (?)", s.quiet(ctx).Table("site_item_set").Select("item_set_id").Where("site_id = ?", q.SiteID))
	}
	if q.PublicOnly || !viewer.CanSeePrivate() {
		tx = tx.Where("r.is_public = ?", true)
	}

	var err error
	if tx, err = s.applyProperties(ctx, tx, q.Properties); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Distinct("r.id").Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count item sets: %w", err)
	}

	tx = tx.Select("r.id, r.title, r.is_public, r.created, r.thumbnail_id").
		Order(sortColumn(q.SortBy) + " " + sortDirection(q.SortOrder)).
		Order("r.id ASC")
	if q.PerPage > 0 {
		page := max(q.Page, 1)
		tx = tx.Limit(q.PerPage).Offset((page - 1) * q.PerPage)
	}

	var out []ItemSetView
	if err := tx.Find(&out).Error; err != nil {
		return nil, 0, fmt.Errorf("search item sets: %w", err)
	}
	return out, total, nil
}

// applyProperties adds one subquery condition per supported filter. Filters
// with an unknown property or type are ignored, as the host does.
func (s *Store) applyProperties(ctx context.Context, tx *gorm.DB, filters []PropertyFilter) (*gorm.DB, error) {
	var or []*gorm.DB
	for _, f := range filters {
		propertyID, err := s.filterProperty(ctx, f.Property)
		if err != nil {
			return nil, err
		}
		if propertyID == 0 && f.Property != "" {
			continue
		}

		values := s.quiet(ctx).Table("value").Select("resource_id")
		if propertyID > 0 {
			values = values.Where("property_id = ?", propertyID)
		}

		negate := false
		switch f.Type {
		case "res", "nres":
			id, err := strconv.Atoi(strings.TrimSpace(f.Text))
			if err != nil {
				continue
			}
			values = values.Where("value_resource_id = ?", id)
			negate = f.Type == "nres"
		case "eq", "neq":
			values = values.Where("value = ?", f.Text)
			negate = f.Type == "neq"
		case "in", "nin":
			values = values.Where("value LIKE ?", "%"+f.Text+"%")
			negate = f.Type == "nin"
		case "ex", "nex":
			negate = f.Type == "nex"
		default:
			continue
		}

		cond := "r.id IN (?)"
		if negate {
			cond = "r.id NOT IN (?)"
		}
		if strings.EqualFold(f.Joiner, "or") && len(or) > 0 {
			or = append(or, s.quiet(ctx).Where(cond, values))
			continue
		}
		if len(or) > 0 {
			tx = tx.Where(orGroup(or))
		}
		or = []*gorm.DB{s.quiet(ctx).Where(cond, values)}
	}
	if len(or) > 0 {
		tx = tx.Where(orGroup(or))
	}
	return tx, nil
}

func orGroup(conds []*gorm.DB) *gorm.DB {
	group := conds[0]
	for _, c := range conds[1:] {
		group = group.Or(c)
	}
	return group
}

// filterProperty accepts a numeric property id or a term. 0 means any property.
func (s *Store) filterProperty(ctx context.Context, property string) (int, error) {
	property = strings.TrimSpace(property)
	if property == "" {
		return 0, nil
	}
	if id, err := strconv.Atoi(property); err == nil {
		return id, nil
	}
	id, err := s.PropertyID(ctx, property)
	if err != nil {
		if isNotFound(err) {
			return 0, nil
		}
		return 0, err
	}
	return id, nil
}

func sortColumn(sortBy string) string {
	switch sortBy {
	case TermTitle, "title":
		return "r.title"
	case "created":
		return "r.created"
	case "modified":
		return "r.modified"
	case "id":
		return "r.id"
	}
	return "r.created"
}

func sortDirection(order string) string {
	if strings.EqualFold(order, "desc") {
		return "DESC"
	}
	return "ASC"
}
