package service

// MemeResponse is the wire representation of a meme
type MemeResponse struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`
	URL     string `json:"url"`
	ETag    string `json:"etag"`
}

// ListMemesRequest carries the pagination query parameters
type ListMemesRequest struct {
	Page int `form:"page"`
	Size int `form:"size"`
}

// PaginationResponse mirrors the page slicing applied to the query
type PaginationResponse struct {
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// ListMemesResponse is one page of memes
type ListMemesResponse struct {
	Items      []*MemeResponse     `json:"items"`
	Pagination *PaginationResponse `json:"pagination"`
}
