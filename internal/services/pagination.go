package services

import (
	"strconv"

	"gorm.io/gorm"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type Page struct {
	Number int
	Size   int
}

func (p Page) normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p Page) offset() int {
	return (p.Number - 1) * p.Size
}

type PageResult[T any] struct {
	Items []T
	Total int64
	Page  Page
}

func (r PageResult[T]) TotalPages() int64 {
	if r.Page.Size == 0 {
		return 0
	}
	return (r.Total + int64(r.Page.Size) - 1) / int64(r.Page.Size)
}

// paginate counts and fetches one page of query, which must not carry an
// ORDER BY yet.
func paginate[T any](query *gorm.DB, page Page, order string) (PageResult[T], error) {
	page = page.normalize()
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return PageResult[T]{}, err
	}

	items := make([]T, 0, page.Size)
	if err := query.Order(order).Offset(page.offset()).Limit(page.Size).Find(&items).Error; err != nil {
		return PageResult[T]{}, err
	}

	return PageResult[T]{Items: items, Total: total, Page: page}, nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
