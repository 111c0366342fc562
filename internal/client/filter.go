package client

import (
	"strings"

	"github.com/thoas/go-funk"

	"github.com/patric-chuzhbe/userdir/internal/models"
)

// PageSize is the number of rows on one page.
const PageSize = 10

// Filters narrows the visible users. Zero values match everything.
type Filters struct {
	Search   string
	Gender   models.Gender
	IsActive *bool
}

// Matches reports whether usr passes every filter. Search is a
// case-insensitive substring match on name or email.
func (f Filters) Matches(usr models.User) bool {
	search := strings.ToLower(f.Search)
	matchesSearch := search == "" ||
		strings.Contains(strings.ToLower(usr.Name), search) ||
		strings.Contains(strings.ToLower(usr.Email), search)
	matchesGender := f.Gender == "" || usr.Gender == f.Gender
	matchesStatus := f.IsActive == nil || usr.IsActive == *f.IsActive

	return matchesSearch && matchesGender && matchesStatus
}

// Filter keeps the order of users.
func Filter(users []models.User, f Filters) []models.User {
	if len(users) == 0 {
		return []models.User{}
	}

	return funk.Filter(users, f.Matches).([]models.User)
}

// TotalPages is ceil(count / PageSize).
func TotalPages(count int) int {
	return (count + PageSize - 1) / PageSize
}

// Paginate returns the page-th slice of PageSize users, counting from 1.
// Pages outside the range are empty.
func Paginate(users []models.User, page int) []models.User {
	if page < 1 {
		return []models.User{}
	}

	start := (page - 1) * PageSize
	if start >= len(users) {
		return []models.User{}
	}

	end := start + PageSize
	if end > len(users) {
		end = len(users)
	}

	return users[start:end]
}
