package biz

import (
	"context"
	"errors"
	"fmt"

	"github.com/memebin/memebin/internal/pkg/logger"
	"go.uber.org/zap"
)

// Domain errors surfaced to the service layer
var (
	// ErrMemeNotFound is returned when a lookup matches no rows
	ErrMemeNotFound = errors.New("meme not found")

	// ErrMultipleMemesFound is returned when a lookup that requires exactly
	// one row matches several
	ErrMultipleMemesFound = errors.New("found more than one meme")

	// ErrConstraint is returned when the database rejects a write for
	// integrity reasons
	ErrConstraint = errors.New("database constraint violated")

	// ErrFileNotFound is returned when the object store has no object with
	// the requested name
	ErrFileNotFound = errors.New("file not found")
)

// Meme is a stored meme: metadata row plus a reference to its uploaded file
type Meme struct {
	ID        int64
	Title     string
	Content   string
	ObjectKey string
	URL       string
	ETag      string
}

// MemeFields carries optional column values for upserts. A nil field is
// "absent": left untouched on a partial update, reset to the column default
// on a full update.
type MemeFields struct {
	Title     *string
	Content   *string
	ObjectKey *string
	URL       *string
	ETag      *string
}

// MemeRepo is the metadata repository over meme rows
type MemeRepo interface {
	// FindBy returns the single row matching fields. ErrMemeNotFound when
	// zero rows match, ErrMultipleMemesFound when more than one does.
	FindBy(ctx context.Context, fields map[string]interface{}) (*Meme, error)

	// List returns one page of rows and the total row count. The slicing
	// happens at the query, the full set is never loaded.
	List(ctx context.Context, page, pageSize int) ([]*Meme, int64, error)

	// Create inserts a new row, ignoring any caller-supplied id, and
	// returns the persisted row including the generated id.
	Create(ctx context.Context, meme *Meme) (*Meme, error)

	// Upsert merges data into the row matching filter, or creates a new
	// row when none matches. With partial=false every column absent from
	// data is reset to its default; the primary key is never overwritten.
	Upsert(ctx context.Context, filter map[string]interface{}, data MemeFields, partial bool) (*Meme, error)

	// DeleteBy removes matching rows. Zero matches is not an error.
	DeleteBy(ctx context.Context, fields map[string]interface{}) error

	// CountOthersByETag counts rows carrying etag, excluding the row with
	// id excludeID.
	CountOthersByETag(ctx context.Context, etag string, excludeID int64) (int64, error)
}

// StoredFile describes an object placed in the file store
type StoredFile struct {
	Key  string
	URL  string
	ETag string
}

// FileStore is the object store used for uploaded meme files
type FileStore interface {
	// Upload stores data under suggestedName (or a generated name when
	// empty). With preventOverwrite an existing name is never reused:
	// the store picks a fresh unique name instead.
	Upload(ctx context.Context, data []byte, suggestedName, contentType string, preventOverwrite bool) (*StoredFile, error)

	// DeleteByName removes the named object. ErrFileNotFound when absent.
	DeleteByName(ctx context.Context, name string) error

	// ETagByName returns the fingerprint of the named object.
	// ErrFileNotFound when absent.
	ETagByName(ctx context.Context, name string) (string, error)
}

// UploadRequest is the caller-supplied meme payload
type UploadRequest struct {
	Title       string
	Content     string
	FileName    string
	ContentType string
	Data        []byte
}

// MemeUseCase coordinates the metadata repository and the file store so
// that create, replace and delete appear atomic to callers. A file is
// removed only when no other row references its fingerprint.
type MemeUseCase struct {
	repo   MemeRepo
	files  FileStore
	logger *logger.Logger
}

// NewMemeUseCase creates the meme use case
func NewMemeUseCase(repo MemeRepo, files FileStore, log *logger.Logger) *MemeUseCase {
	return &MemeUseCase{
		repo:   repo,
		files:  files,
		logger: log,
	}
}

// Get returns the meme with the given id
func (uc *MemeUseCase) Get(ctx context.Context, id int64) (*Meme, error) {
	return uc.repo.FindBy(ctx, map[string]interface{}{"id": id})
}

// List returns one page of memes and the total count
func (uc *MemeUseCase) List(ctx context.Context, page, pageSize int) ([]*Meme, int64, error) {
	return uc.repo.List(ctx, page, pageSize)
}

// Create uploads the file first, then writes the row, so a row never
// exists without its file being durably stored.
func (uc *MemeUseCase) Create(ctx context.Context, req *UploadRequest) (*Meme, error) {
	stored, err := uc.files.Upload(ctx, req.Data, req.FileName, req.ContentType, true)
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	meme, err := uc.repo.Create(ctx, &Meme{
		Title:     req.Title,
		Content:   req.Content,
		ObjectKey: stored.Key,
		URL:       stored.URL,
		ETag:      stored.ETag,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create meme: %w", err)
	}

	return meme, nil
}

// Replace swaps out a meme's metadata and file wholesale. The sequence is
// upload-new, upsert-row, delete-old: the row never points at a missing
// file, and a crash mid-way leaves at worst an orphaned object. The old
// file is removed only when no other row shares its fingerprint.
func (uc *MemeUseCase) Replace(ctx context.Context, id int64, req *UploadRequest) (*Meme, error) {
	current, err := uc.repo.FindBy(ctx, map[string]interface{}{"id": id})
	if err != nil {
		return nil, err
	}

	shared, err := uc.isETagShared(ctx, current)
	if err != nil {
		return nil, err
	}

	stored, err := uc.files.Upload(ctx, req.Data, req.FileName, req.ContentType, true)
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	data := MemeFields{
		Title:     &req.Title,
		ObjectKey: &stored.Key,
		URL:       &stored.URL,
		ETag:      &stored.ETag,
	}
	if req.Content != "" {
		data.Content = &req.Content
	}

	updated, err := uc.repo.Upsert(ctx, map[string]interface{}{"id": id}, data, false)
	if err != nil {
		return nil, err
	}

	if !shared {
		// The row is already committed; an orphaned old object is the
		// acceptable failure direction here.
		if err := uc.files.DeleteByName(ctx, current.ObjectKey); err != nil && !errors.Is(err, ErrFileNotFound) {
			uc.logger.Warn("failed to delete replaced file",
				zap.Int64("meme_id", id),
				zap.String("object_key", current.ObjectKey),
				zap.Error(err),
			)
		}
	}

	return updated, nil
}

// Delete removes a meme row, then its file when no other row shares the
// fingerprint. A file already gone is tolerated: a concurrent delete may
// have won the race.
func (uc *MemeUseCase) Delete(ctx context.Context, id int64) error {
	current, err := uc.repo.FindBy(ctx, map[string]interface{}{"id": id})
	if err != nil {
		return err
	}

	shared, err := uc.isETagShared(ctx, current)
	if err != nil {
		return err
	}

	if err := uc.repo.DeleteBy(ctx, map[string]interface{}{"id": id}); err != nil {
		return err
	}

	if !shared {
		if err := uc.files.DeleteByName(ctx, current.ObjectKey); err != nil && !errors.Is(err, ErrFileNotFound) {
			return fmt.Errorf("failed to delete file: %w", err)
		}
	}

	return nil
}

// isETagShared reports whether any other row references the meme's
// fingerprint. Shared files must never be deleted.
func (uc *MemeUseCase) isETagShared(ctx context.Context, meme *Meme) (bool, error) {
	count, err := uc.repo.CountOthersByETag(ctx, meme.ETag, meme.ID)
	if err != nil {
		return false, fmt.Errorf("failed to count etag references: %w", err)
	}
	return count > 0, nil
}
