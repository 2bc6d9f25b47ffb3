package data

import (
	"context"
	"fmt"

	"github.com/memebin/memebin/internal/meme/biz"
	"github.com/memebin/memebin/internal/pkg/database"
	"gorm.io/gorm"
)

// MemePO is the database model for a meme row
type MemePO struct {
	ID        int64   `gorm:"primarykey"`
	Title     string  `gorm:"index"`
	Content   *string `gorm:"type:text"`
	ObjectKey string  `gorm:"size:1024"`
	URL       string  `gorm:"type:text"`
	// gorm's naming strategy would migrate ETag to "e_tag"; the column
	// name must match the raw predicates below
	ETag      string  `gorm:"column:etag;index"`
}

func (MemePO) TableName() string {
	return "memes"
}

// memeColumns are the updatable columns; the primary key is excluded so an
// upsert can never overwrite it.
var memeColumns = []string{"title", "content", "object_key", "url", "etag"}

// MemeRepo is the gorm-backed metadata repository
type MemeRepo struct {
	db *database.DB
}

// NewMemeRepo creates the meme repository
func NewMemeRepo(db *database.DB) biz.MemeRepo {
	return &MemeRepo{db: db}
}

// FindBy returns the single row matching fields
func (r *MemeRepo) FindBy(ctx context.Context, fields map[string]interface{}) (*biz.Meme, error) {
	filter := filterColumns(fields)
	if len(filter) == 0 {
		// no usable condition must never widen into a full table scan
		return nil, biz.ErrMemeNotFound
	}

	var pos []MemePO
	err := r.db.WithContext(ctx).
		Where(filter).
		Limit(2).
		Find(&pos).Error
	if err != nil {
		return nil, r.mapError(err)
	}

	switch len(pos) {
	case 0:
		return nil, biz.ErrMemeNotFound
	case 1:
		return toMeme(&pos[0]), nil
	default:
		return nil, biz.ErrMultipleMemesFound
	}
}

// List returns one page of rows plus the total count
func (r *MemeRepo) List(ctx context.Context, page, pageSize int) ([]*biz.Meme, int64, error) {
	var pos []MemePO
	query := r.db.GetDB().Model(&MemePO{}).Order("id")

	result, err := database.FindWithPagination(ctx, query, &pos, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	memes := make([]*biz.Meme, len(pos))
	for i := range pos {
		memes[i] = toMeme(&pos[i])
	}

	return memes, result.Total, nil
}

// Create inserts a new row, ignoring any caller-supplied id
func (r *MemeRepo) Create(ctx context.Context, meme *biz.Meme) (*biz.Meme, error) {
	po := fromMeme(meme)
	po.ID = 0

	if err := r.db.WithContext(ctx).Create(po).Error; err != nil {
		return nil, r.mapError(err)
	}

	return toMeme(po), nil
}

// Upsert merges data into the row matching filter, or creates a new row
// when none matches. The read-modify-write runs inside one transaction so
// a half-written row is never visible.
func (r *MemeRepo) Upsert(ctx context.Context, filter map[string]interface{}, data biz.MemeFields, partial bool) (*biz.Meme, error) {
	conditions := filterColumns(filter)
	if len(conditions) == 0 {
		return nil, biz.ErrMemeNotFound
	}

	var out MemePO

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var po MemePO
		err := tx.Where(conditions).First(&po).Error

		switch {
		case err == nil:
			updates := upsertValues(data, partial)
			if len(updates) > 0 {
				if err := tx.Model(&MemePO{}).Where("id = ?", po.ID).Updates(updates).Error; err != nil {
					return err
				}
			}
			return tx.First(&out, po.ID).Error

		case database.IsRecordNotFoundError(err):
			created := poFromFields(data)
			if err := tx.Create(created).Error; err != nil {
				return err
			}
			out = *created
			return nil

		default:
			return err
		}
	})
	if err != nil {
		return nil, r.mapError(err)
	}

	return toMeme(&out), nil
}

// DeleteBy removes matching rows; zero matches is not an error
func (r *MemeRepo) DeleteBy(ctx context.Context, fields map[string]interface{}) error {
	filter := filterColumns(fields)
	if len(filter) == 0 {
		// no usable condition must never become an unconditional delete
		return nil
	}

	err := r.db.WithContext(ctx).
		Where(filter).
		Delete(&MemePO{}).Error
	if err != nil {
		return r.mapError(err)
	}
	return nil
}

// CountOthersByETag counts rows sharing etag, excluding the row excludeID
func (r *MemeRepo) CountOthersByETag(ctx context.Context, etag string, excludeID int64) (int64, error) {
	return database.Count(ctx, r.db.GetDB(), &MemePO{}, "etag = ? AND id <> ?", etag, excludeID)
}

// mapError translates storage errors into the domain taxonomy. Anything
// that is not a constraint violation propagates unmapped.
func (r *MemeRepo) mapError(err error) error {
	if database.IsConstraintError(err) {
		return fmt.Errorf("%w: %v", biz.ErrConstraint, err)
	}
	return err
}

// filterColumns drops keys that are not columns of the memes table
func filterColumns(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for key, value := range fields {
		if key == "id" {
			out[key] = value
			continue
		}
		for _, col := range memeColumns {
			if key == col {
				out[key] = value
				break
			}
		}
	}
	return out
}

// upsertValues builds the column update map. With partial=true only set
// fields are included; otherwise every non-PK column is written, absent
// fields as NULL.
func upsertValues(data biz.MemeFields, partial bool) map[string]interface{} {
	set := map[string]*string{
		"title":      data.Title,
		"content":    data.Content,
		"object_key": data.ObjectKey,
		"url":        data.URL,
		"etag":       data.ETag,
	}

	updates := make(map[string]interface{}, len(memeColumns))
	for _, col := range memeColumns {
		value := set[col]
		if value != nil {
			updates[col] = *value
		} else if !partial {
			updates[col] = nil
		}
	}
	return updates
}

func poFromFields(data biz.MemeFields) *MemePO {
	po := &MemePO{Content: data.Content}
	if data.Title != nil {
		po.Title = *data.Title
	}
	if data.ObjectKey != nil {
		po.ObjectKey = *data.ObjectKey
	}
	if data.URL != nil {
		po.URL = *data.URL
	}
	if data.ETag != nil {
		po.ETag = *data.ETag
	}
	return po
}

func toMeme(po *MemePO) *biz.Meme {
	meme := &biz.Meme{
		ID:        po.ID,
		Title:     po.Title,
		ObjectKey: po.ObjectKey,
		URL:       po.URL,
		ETag:      po.ETag,
	}
	if po.Content != nil {
		meme.Content = *po.Content
	}
	return meme
}

func fromMeme(meme *biz.Meme) *MemePO {
	po := &MemePO{
		ID:        meme.ID,
		Title:     meme.Title,
		ObjectKey: meme.ObjectKey,
		URL:       meme.URL,
		ETag:      meme.ETag,
	}
	if meme.Content != "" {
		content := meme.Content
		po.Content = &content
	}
	return po
}
