package service

import (
	"errors"
	"io"
	"mime/multipart"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/memebin/memebin/internal/meme/biz"
	"github.com/memebin/memebin/internal/pkg/database"
	"github.com/memebin/memebin/internal/pkg/logger"
	"github.com/memebin/memebin/internal/pkg/response"
	"go.uber.org/zap"
)

// MemeService exposes the meme use case over HTTP
type MemeService struct {
	uc     *biz.MemeUseCase
	logger *logger.Logger
}

// NewMemeService creates the meme HTTP service
func NewMemeService(uc *biz.MemeUseCase, log *logger.Logger) *MemeService {
	return &MemeService{
		uc:     uc,
		logger: log,
	}
}

// RegisterPublicRoutes mounts the read/create endpoints
func (s *MemeService) RegisterPublicRoutes(g *gin.RouterGroup) {
	g.GET("/memes", s.ListMemes)
	g.GET("/memes/:id", s.GetMeme)
	g.POST("/memes", s.CreateMeme)
}

// RegisterAdminRoutes mounts the replace/delete endpoints
func (s *MemeService) RegisterAdminRoutes(g *gin.RouterGroup) {
	g.PUT("/memes/:id", s.ReplaceMeme)
	g.DELETE("/memes/:id", s.DeleteMeme)
}

// ListMemes returns one page of memes
func (s *MemeService) ListMemes(c *gin.Context) {
	var req ListMemesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	page, size := database.NormalizePage(req.Page, req.Size)

	memes, total, err := s.uc.List(c.Request.Context(), page, size)
	if err != nil {
		s.handleError(c, err)
		return
	}

	response.Success(c, toListMemesResponse(memes, total, page, size))
}

// GetMeme returns a single meme by id
func (s *MemeService) GetMeme(c *gin.Context) {
	id, ok := s.memeID(c)
	if !ok {
		return
	}

	meme, err := s.uc.Get(c.Request.Context(), id)
	if err != nil {
		s.handleError(c, err)
		return
	}

	response.Success(c, toMemeResponse(meme))
}

// CreateMeme stores a new meme from a multipart form (title, content, file)
func (s *MemeService) CreateMeme(c *gin.Context) {
	req, ok := s.uploadRequest(c)
	if !ok {
		return
	}

	meme, err := s.uc.Create(c.Request.Context(), req)
	if err != nil {
		s.handleError(c, err)
		return
	}

	response.Created(c, toMemeResponse(meme))
}

// ReplaceMeme replaces a meme wholesale, metadata and file
func (s *MemeService) ReplaceMeme(c *gin.Context) {
	id, ok := s.memeID(c)
	if !ok {
		return
	}

	req, ok := s.uploadRequest(c)
	if !ok {
		return
	}

	meme, err := s.uc.Replace(c.Request.Context(), id, req)
	if err != nil {
		s.handleError(c, err)
		return
	}

	response.Success(c, toMemeResponse(meme))
}

// DeleteMeme deletes a meme and, when unshared, its file
func (s *MemeService) DeleteMeme(c *gin.Context) {
	id, ok := s.memeID(c)
	if !ok {
		return
	}

	if err := s.uc.Delete(c.Request.Context(), id); err != nil {
		s.handleError(c, err)
		return
	}

	response.Success(c, nil)
}

func (s *MemeService) memeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "meme id must be an integer")
		return 0, false
	}
	return id, true
}

func (s *MemeService) uploadRequest(c *gin.Context) (*biz.UploadRequest, bool) {
	title := c.PostForm("title")
	if title == "" {
		response.BadRequest(c, "title is required")
		return nil, false
	}

	header, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return nil, false
	}

	data, err := readUpload(header)
	if err != nil {
		s.logger.Error("failed to read uploaded file", zap.Error(err))
		response.InternalError(c, "failed to read uploaded file")
		return nil, false
	}

	return &biz.UploadRequest{
		Title:       title,
		Content:     c.PostForm("content"),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, true
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	src, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return io.ReadAll(src)
}

// handleError maps domain errors to transport responses
func (s *MemeService) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, biz.ErrMemeNotFound):
		response.NotFound(c, "meme not found")
	case errors.Is(err, biz.ErrFileNotFound):
		response.NotFound(c, "file not found")
	case errors.Is(err, biz.ErrMultipleMemesFound):
		s.logger.Error("ambiguous meme lookup", zap.Error(err))
		response.InternalError(c, "found more than one meme")
	case errors.Is(err, biz.ErrConstraint):
		s.logger.Error("constraint violation", zap.Error(err))
		response.InternalError(c, "internal db constraint")
	default:
		s.logger.Error("internal error", zap.Error(err))
		response.InternalError(c, "internal server error")
	}
}

func toMemeResponse(meme *biz.Meme) *MemeResponse {
	return &MemeResponse{
		ID:      meme.ID,
		Title:   meme.Title,
		Content: meme.Content,
		URL:     meme.URL,
		ETag:    meme.ETag,
	}
}

func toListMemesResponse(memes []*biz.Meme, total int64, page, size int) *ListMemesResponse {
	items := make([]*MemeResponse, len(memes))
	for i, meme := range memes {
		items[i] = toMemeResponse(meme)
	}

	pages := int(total) / size
	if int(total)%size != 0 {
		pages++
	}

	return &ListMemesResponse{
		Items: items,
		Pagination: &PaginationResponse{
			Page:  page,
			Size:  size,
			Total: total,
			Pages: pages,
		},
	}
}
