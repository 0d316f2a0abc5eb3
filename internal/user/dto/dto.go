package dto

type UserFilters struct {
	SearchQuery string // matches email or full name
	Role        string
	IsActive    *bool
	Page        int
	PageSize    int
}
