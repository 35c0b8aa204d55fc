package omeka

import (
	"context"
	"errors"
	"fmt"

	"github.com/localnerve/itemsetgroup/internal/models"
	"github.com/localnerve/itemsetgroup/internal/types"
	"gorm.io/gorm"
)

// Site reads a site by slug
func (s *Store) Site(ctx context.Context, slug string) (*models.Site, error) {
	var site models.Site
	err := s.quiet(ctx).Where("slug = ?", slug).Take(&site).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("site %q: %w", slug, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read site %q: %w", slug, err)
	}
	return &site, nil
}

// DefaultSite returns the site named by the default_site setting, else the
// first public site.
func (s *Store) DefaultSite(ctx context.Context) (*models.Site, error) {
	var id any
	if err := s.Setting(ctx, "default_site", &id); err != nil {
		return nil, err
	}
	if siteID := types.IntOf(id); siteID > 0 {
		var site models.Site
		err := s.quiet(ctx).Where("id = ?", siteID).Take(&site).Error
		if err == nil {
			return &site, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("read default site %d: %w", siteID, err)
		}
	}

	var site models.Site
	err := s.quiet(ctx).Where("is_public = ?", true).Order("id ASC").Take(&site).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("default site: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read first public site: %w", err)
	}
	return &site, nil
}

// Setting decodes a global setting into target. A missing setting leaves
// target untouched.
func (s *Store) Setting(ctx context.Context, key string, target any) error {
	var row models.Setting
	err := s.quiet(ctx).Where("id = ?", key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read setting %s: %w", key, err)
	}
	return row.Value.Decode(target)
}

// SiteSetting decodes a site setting into target. A missing setting leaves
// target untouched.
func (s *Store) SiteSetting(ctx context.Context, siteID int, key string, target any) error {
	var row models.SiteSetting
	err := s.quiet(ctx).Where("id = ? AND site_id = ?", key, siteID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read site %d setting %s: %w", siteID, key, err)
	}
	return row.Value.Decode(target)
}

// ThemeSetting returns one key of the site's current theme settings, or ""
func (s *Store) ThemeSetting(ctx context.Context, site *models.Site, key string) (string, error) {
	if site == nil || site.Theme == "" {
		return "", nil
	}
	var settings map[string]any
	if err := s.SiteSetting(ctx, site.ID, "theme_settings_"+site.Theme, &settings); err != nil {
		return "", err
	}
	v, ok := settings[key].(string)
	if !ok {
		return "", nil
	}
	return v, nil
}

// SitePageBlock reads a page block together with its page
func (s *Store) SitePageBlock(ctx context.Context, blockID int) (*models.SitePageBlock, *models.SitePage, error) {
	var block models.SitePageBlock
	err := s.quiet(ctx).Where("id = ?", blockID).Take(&block).Error
	if err := notFound(err, "page block", blockID); err != nil {
		return nil, nil, err
	}
	var page models.SitePage
	err = s.quiet(ctx).Where("id = ?", block.PageID).Take(&page).Error
	if err := notFound(err, "site page", block.PageID); err != nil {
		return nil, nil, err
	}
	return &block, &page, nil
}

// SaveSitePageBlockData replaces the stored data of a page block
func (s *Store) SaveSitePageBlockData(ctx context.Context, blockID int, data models.JSON) error {
	res := s.DB.WithContext(ctx).Model(&models.SitePageBlock{}).Where("id = ?", blockID).Update("data", data)
	if res.Error != nil {
		return fmt.Errorf("save page block %d: %w", blockID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("page block %d: %w", blockID, ErrNotFound)
	}
	return nil
}
