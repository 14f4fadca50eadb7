package services

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/postpromo/internal/common"
	"github.com/dmitrijs2005/postpromo/internal/models"
	"github.com/google/uuid"
)

func validID(v *common.ValidationError, field, id string) {
	if _, err := uuid.Parse(id); err != nil {
		v.Add(field, "must be a valid UUID")
	}
}

// Widths of the varchar columns.
const (
	maxTitleLength = 255
	maxNameLength  = 255
	maxCodeLength  = 50
)

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// checkText flags a required field that is blank or wider than its column.
func checkText(v *common.ValidationError, field, s string, max int) {
	switch {
	case blank(s):
		v.Add(field, "must not be empty")
	case utf8.RuneCountInString(s) > max:
		v.Add(field, fmt.Sprintf("must be at most %d characters", max))
	}
}

// page checks the pagination window shared by every list call.
func page(number, perPage int) (models.Page, error) {
	v := &common.ValidationError{}
	if number < 1 {
		v.Add("page", "must be >= 1")
	}
	if perPage < 1 || perPage > common.MaxPerPage {
		v.Add("per_page", fmt.Sprintf("must be between 1 and %d", common.MaxPerPage))
	}
	if err := v.Err(); err != nil {
		return models.Page{}, err
	}
	return models.Page{Number: number, PerPage: perPage}, nil
}

// nextUpdate returns a timestamp strictly after prev, at the microsecond
// resolution PostgreSQL keeps.
func nextUpdate(now time.Time, prev time.Time) time.Time {
	next := now.UTC().Truncate(time.Microsecond)
	if !next.After(prev) {
		next = prev.Add(time.Microsecond)
	}
	return next
}
