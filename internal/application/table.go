package application

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bnema/x-analytics-cli/internal/domain"
)

const (
	DefaultRowsPerPage = 50
	maxPagerButtons    = 7
)

// PageEllipsis marks a gap in TablePage.PageWindow.
const PageEllipsis = 0

type SortColumn string

const (
	SortByDate        SortColumn = "date"
	SortByAgent       SortColumn = "agent"
	SortByHandle      SortColumn = "handle"
	SortByPosts       SortColumn = "posts"
	SortByImpressions SortColumn = "impressions"
)

func ParseSortColumn(raw string) (SortColumn, error) {
	column := SortColumn(strings.ToLower(strings.TrimSpace(raw)))
	switch column {
	case "":
		return SortByDate, nil
	case SortByDate, SortByAgent, SortByHandle, SortByPosts, SortByImpressions:
		return column, nil
	default:
		return "", fmt.Errorf("unsupported sort column %q", raw)
	}
}

type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

func ParseSortDirection(raw string) (SortDirection, error) {
	direction := SortDirection(strings.ToLower(strings.TrimSpace(raw)))
	switch direction {
	case "":
		return SortDescending, nil
	case SortAscending, SortDescending:
		return direction, nil
	default:
		return "", fmt.Errorf("unsupported sort direction %q", raw)
	}
}

type TableQuery struct {
	Search      string
	SortColumn  SortColumn
	Direction   SortDirection
	Page        int
	RowsPerPage int
}

// TablePage is one page of the records table. Start and End are 1-based and
// inclusive; both are 0 when there are no rows.
type TablePage struct {
	Rows       []domain.Record `json:"rows"`
	Page       int             `json:"page"`
	TotalPages int             `json:"totalPages"`
	TotalRows  int             `json:"totalRows"`
	Start      int             `json:"start"`
	End        int             `json:"end"`
	PageWindow []int           `json:"pageWindow"`
}

// QueryTable searches, sorts and paginates records without touching the input.
func QueryTable(records []domain.Record, query TableQuery) TablePage {
	rowsPerPage := query.RowsPerPage
	if rowsPerPage <= 0 {
		rowsPerPage = DefaultRowsPerPage
	}

	rows := searchRecords(records, query.Search)
	sortRecords(rows, query.SortColumn, query.Direction)

	total := len(rows)
	totalPages := (total + rowsPerPage - 1) / rowsPerPage

	page := query.Page
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * rowsPerPage
	end := start + rowsPerPage
	if end > total {
		end = total
	}
	if start > end {
		start = end
	}

	result := TablePage{
		Rows:       rows[start:end],
		Page:       page,
		TotalPages: totalPages,
		TotalRows:  total,
		End:        end,
		PageWindow: pageWindow(page, totalPages),
	}
	if total > 0 {
		result.Start = start + 1
	}

	return result
}

func searchRecords(records []domain.Record, search string) []domain.Record {
	needle := strings.ToLower(strings.TrimSpace(search))

	rows := make([]domain.Record, 0, len(records))
	for _, record := range records {
		if needle == "" ||
			strings.Contains(strings.ToLower(record.DisplayName), needle) ||
			strings.Contains(strings.ToLower(record.XHandle), needle) ||
			strings.Contains(string(record.Date), needle) {
			rows = append(rows, record)
		}
	}

	return rows
}

func sortRecords(rows []domain.Record, column SortColumn, direction SortDirection) {
	if column == "" {
		column = SortByDate
	}

	less := func(a, b domain.Record) bool {
		switch column {
		case SortByAgent:
			return strings.ToLower(a.DisplayName) < strings.ToLower(b.DisplayName)
		case SortByHandle:
			return strings.ToLower(a.XHandle) < strings.ToLower(b.XHandle)
		case SortByPosts:
			return a.Posts < b.Posts
		case SortByImpressions:
			return a.Impressions < b.Impressions
		default:
			return a.Date < b.Date
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if direction == SortAscending {
			return less(rows[i], rows[j])
		}
		return less(rows[j], rows[i])
	})
}

// pageWindow lists the page buttons to show; PageEllipsis marks a gap.
func pageWindow(page, totalPages int) []int {
	if totalPages <= maxPagerButtons {
		pages := make([]int, 0, totalPages)
		for i := 1; i <= totalPages; i++ {
			pages = append(pages, i)
		}
		return pages
	}

	switch {
	case page <= 4:
		return []int{1, 2, 3, 4, 5, PageEllipsis, totalPages}
	case page >= totalPages-3:
		return []int{1, PageEllipsis, totalPages - 4, totalPages - 3, totalPages - 2, totalPages - 1, totalPages}
	default:
		return []int{1, PageEllipsis, page - 1, page, page + 1, PageEllipsis, totalPages}
	}
}
