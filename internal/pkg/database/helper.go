package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

const (
	// DefaultPageSize is applied when the caller requests no explicit size
	DefaultPageSize = 50
	// MaxPageSize caps a single page
	MaxPageSize = 100
)

// NormalizePage clamps page and pageSize to sane values
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// Paginate adds offset/limit pagination to a query
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		page, pageSize = NormalizePage(page, pageSize)
		offset := (page - 1) * pageSize
		return db.Offset(offset).Limit(pageSize)
	}
}

// PageResult represents a paginated result
type PageResult struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// FindWithPagination counts the matching rows and loads one page into dest.
// The page is sliced at the query, the full set is never loaded.
func FindWithPagination(ctx context.Context, db *gorm.DB, dest interface{}, page, pageSize int) (*PageResult, error) {
	page, pageSize = NormalizePage(page, pageSize)

	var total int64
	if err := db.WithContext(ctx).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}

	offset := (page - 1) * pageSize
	if err := db.WithContext(ctx).Offset(offset).Limit(pageSize).Find(dest).Error; err != nil {
		return nil, fmt.Errorf("failed to find records: %w", err)
	}

	return &PageResult{
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Count counts records matching the query
func Count(ctx context.Context, db *gorm.DB, model interface{}, query interface{}, args ...interface{}) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(model).Where(query, args...).Count(&count).Error
	return count, err
}
