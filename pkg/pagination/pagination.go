package pagination

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

const (
	defaultPerPage = 15
	maxPerPage     = 100
)

// Pagination is the page metadata returned with offset listings
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// PaginationParams selects one page of an offset listing
type PaginationParams struct {
	Page    int `form:"page" json:"page"`
	PerPage int `form:"per_page" json:"per_page"`
}

// Validate clamps the page to at least 1 and the size to 1..100
func (p *PaginationParams) Validate() {
	if p.Page < 1 {
		p.Page = 1
	}
	p.PerPage = clampLimit(p.PerPage)
}

// Offset is the number of rows skipped before the page
func (p *PaginationParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// NewPagination builds the metadata for page of perPage rows out of total
func NewPagination(page, perPage int, total int64) *Pagination {
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))

	return &Pagination{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

// PaginatedResult is one page of items with its metadata
type PaginatedResult[T any] struct {
	Items      []T         `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

// NewPaginatedResult creates a new paginated result
func NewPaginatedResult[T any](items []T, pagination *Pagination) *PaginatedResult[T] {
	return &PaginatedResult[T]{
		Items:      items,
		Pagination: pagination,
	}
}

// CursorDirection is the way a keyset listing moves from its cursor
type CursorDirection string

const (
	CursorDirectionNext CursorDirection = "next"
	CursorDirectionPrev CursorDirection = "prev"
)

// Cursor is the (created_at, id) key a keyset page starts after
type Cursor struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// CursorParams selects one keyset page. Rows are ordered oldest first; next
// pages move toward newer rows and prev pages toward older ones.
type CursorParams struct {
	Cursor    string          `form:"cursor" json:"cursor"`
	Direction CursorDirection `form:"direction" json:"direction"`
	Limit     int             `form:"limit" json:"limit"`
}

// CursorPagination is the keyset metadata returned with a page
type CursorPagination struct {
	NextCursor *string `json:"next_cursor,omitempty"`
	PrevCursor *string `json:"prev_cursor,omitempty"`
	HasNext    bool    `json:"has_next"`
	HasPrev    bool    `json:"has_prev"`
	Limit      int     `json:"limit"`
}

// CursorPaginatedResult is one keyset page of items
type CursorPaginatedResult[T any] struct {
	Items      []T               `json:"items"`
	Pagination *CursorPagination `json:"pagination"`
}

// Validate clamps the limit and defaults the direction to next
func (c *CursorParams) Validate() {
	c.Limit = clampLimit(c.Limit)
	if c.Direction != CursorDirectionPrev {
		c.Direction = CursorDirectionNext
	}
}

// Backward reports a prev page. Its rows are fetched newest first and put
// back in ascending order by NewCursorPagination.
func (c *CursorParams) Backward() bool {
	return c.Direction == CursorDirectionPrev && c.Cursor != ""
}

// DecodeCursor decodes the cursor; an empty cursor yields nil
func (c *CursorParams) DecodeCursor() (*Cursor, error) {
	if c.Cursor == "" {
		return nil, nil
	}

	decoded, err := base64.URLEncoding.DecodeString(c.Cursor)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor format: %w", err)
	}

	var cursor Cursor
	if err := json.Unmarshal(decoded, &cursor); err != nil {
		return nil, fmt.Errorf("invalid cursor data: %w", err)
	}

	return &cursor, nil
}

// EncodeCursor creates a base64 encoded cursor from an ID and optional timestamp
func EncodeCursor(id string, createdAt ...time.Time) string {
	cursor := Cursor{ID: id}
	if len(createdAt) > 0 {
		cursor.CreatedAt = createdAt[0]
	}

	data, _ := json.Marshal(cursor)
	return base64.URLEncoding.EncodeToString(data)
}

// NewCursorPagination trims a keyset fetch of up to limit+1 rows to the page
// and works out its metadata. For a backward page the rows arrive newest
// first; they are returned oldest first like every other page.
func NewCursorPagination[T any](items []T, params *CursorParams, getID func(T) string, getCreatedAt func(T) time.Time) (*CursorPagination, []T) {
	more := len(items) > params.Limit
	if more {
		items = items[:params.Limit]
	}

	pagination := &CursorPagination{Limit: params.Limit}
	if params.Backward() {
		reverse(items)
		pagination.HasPrev = more
		pagination.HasNext = true
	} else {
		pagination.HasNext = more
		pagination.HasPrev = params.Cursor != ""
	}

	if len(items) > 0 {
		last := items[len(items)-1]
		next := EncodeCursor(getID(last), getCreatedAt(last))
		pagination.NextCursor = &next

		first := items[0]
		prev := EncodeCursor(getID(first), getCreatedAt(first))
		pagination.PrevCursor = &prev
	}

	return pagination, items
}

// NewCursorPaginatedResult creates a new cursor-paginated result
func NewCursorPaginatedResult[T any](items []T, pagination *CursorPagination) *CursorPaginatedResult[T] {
	return &CursorPaginatedResult[T]{
		Items:      items,
		Pagination: pagination,
	}
}

// ListParams is the query of a listing that serves both page and cursor
// paging. A cursor or a limit switches it to keyset paging.
type ListParams struct {
	Page    int `form:"page"`
	PerPage int `form:"per_page"`

	Cursor    string          `form:"cursor"`
	Direction CursorDirection `form:"direction"`
	Limit     int             `form:"limit"`
}

// IsCursorBased reports keyset paging
func (l *ListParams) IsCursorBased() bool {
	return l.Cursor != "" || l.Limit > 0
}

// ToPaginationParams returns the validated page parameters
func (l *ListParams) ToPaginationParams() *PaginationParams {
	params := &PaginationParams{Page: l.Page, PerPage: l.PerPage}
	params.Validate()
	return params
}

// ToCursorParams returns the validated keyset parameters. per_page stands in
// for a missing limit.
func (l *ListParams) ToCursorParams() *CursorParams {
	params := &CursorParams{Cursor: l.Cursor, Direction: l.Direction, Limit: l.Limit}
	if params.Limit == 0 && l.PerPage > 0 {
		params.Limit = l.PerPage
	}
	params.Validate()
	return params
}

func clampLimit(n int) int {
	if n < 1 {
		return defaultPerPage
	}
	if n > maxPerPage {
		return maxPerPage
	}
	return n
}

func reverse[T any](items []T) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}
