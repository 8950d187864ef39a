package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ytakahashi/daily-checklist/internal/models"
)

// itemRequest uses pointers so that absent fields can be told apart from
// zero values.
type itemRequest struct {
	ID       string           `json:"id"`
	Label    *string          `json:"label"`
	Category *models.Category `json:"category"`
	Order    *int             `json:"order"`
	Status   *models.Status   `json:"status"`
	Complete *bool            `json:"complete"`
}

func (r itemRequest) validate(prefix string, fields map[string]string) {
	if r.Label == nil || strings.TrimSpace(*r.Label) == "" {
		fields[prefix+"label"] = "must not be blank"
	}
	if r.Category == nil {
		fields[prefix+"category"] = "must not be null"
	}
	if r.Order == nil {
		fields[prefix+"order"] = "must not be null"
	}
	if r.Status == nil {
		fields[prefix+"status"] = "must not be null"
	}
	if r.Complete == nil {
		fields[prefix+"complete"] = "must not be null"
	}
}

func (r itemRequest) model() models.CatalogItem {
	return models.CatalogItem{
		ID:       r.ID,
		Label:    *r.Label,
		Category: *r.Category,
		Order:    *r.Order,
		Status:   *r.Status,
		Complete: *r.Complete,
	}
}

// bindItems decodes and validates a JSON array of checklist items.
func bindItems(c echo.Context) ([]models.CatalogItem, error) {
	var reqs []itemRequest
	if err := c.Bind(&reqs); err != nil {
		if he, ok := err.(*echo.HTTPError); ok && he.Code != http.StatusBadRequest {
			return nil, he
		}
		return nil, fmt.Errorf("%w: %v", errInvalidBody, bindMessage(err))
	}
	if reqs == nil {
		return nil, fmt.Errorf("%w: expected a JSON array of items", errInvalidBody)
	}

	fields := map[string]string{}
	for i, r := range reqs {
		r.validate(fmt.Sprintf("[%d].", i), fields)
	}
	if len(fields) > 0 {
		return nil, &validationError{fields: fields}
	}

	items := make([]models.CatalogItem, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, r.model())
	}
	return items, nil
}

func bindMessage(err error) any {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Message
	}
	return err
}
