package domain

import (
	"net/url"
	"strconv"

	"hotelWeb/internal/shared/normalization"
)

const (
	DefaultPage = 0
	DefaultSize = 10
)

// PageRequest selects a zero-based page of reservations.
type PageRequest struct {
	Page int
	Size int
}

// Normalize returns a copy with the defaults applied. A negative page or a non-positive size
// counts as omitted so the backend never receives a malformed request.
func (p PageRequest) Normalize() PageRequest {
	normalized := p
	if normalized.Page < 0 {
		normalized.Page = DefaultPage
	}
	if normalized.Size <= 0 {
		normalized.Size = DefaultSize
	}
	return normalized
}

// ToURLValues returns the page and size query parameters.
func (p PageRequest) ToURLValues() url.Values {
	normalized := p.Normalize()
	values := url.Values{}
	values.Set("page", strconv.Itoa(normalized.Page))
	values.Set("size", strconv.Itoa(normalized.Size))
	return values
}

// ParsePageRequest reads page and size from query parameters, ignoring unparsable values.
func ParsePageRequest(values url.Values) PageRequest {
	request := PageRequest{Page: DefaultPage, Size: DefaultSize}
	if page, err := strconv.Atoi(values.Get("page")); err == nil {
		request.Page = page
	}
	if size, err := strconv.Atoi(values.Get("size")); err == nil {
		request.Size = size
	}
	return request.Normalize()
}

// Page is one slice of a reservation listing.
type Page struct {
	Items         []Reservation `json:"items"`
	Page          int           `json:"page"`
	Size          int           `json:"size"`
	TotalElements int           `json:"totalElements"`
	TotalPages    int           `json:"totalPages"`
}

// BuildReservationPage projects list payloads into a Page. The backend answers either with a
// bare array or with a page envelope ({"content": [...], "totalElements": n, ...}). requested
// fills page metadata the payload omits.
func BuildReservationPage(payload any, requested PageRequest) (*Page, bool) {
	requested = requested.Normalize()

	var rawItems []any
	container := normalization.MapFromPayload(payload)
	switch {
	case container != nil:
		listValue := normalization.FirstPresent(container, "content", "items", "reservations", "data")
		if listValue == nil {
			return nil, false
		}
		rawItems = normalization.AsInterfaceSlice(listValue)
	default:
		items, ok := payload.([]any)
		if !ok {
			return nil, false
		}
		rawItems = items
	}

	page := &Page{Items: make([]Reservation, 0, len(rawItems)), Page: requested.Page, Size: requested.Size}
	for _, item := range rawItems {
		if rawMap, ok := item.(map[string]any); ok {
			if reservation, ok := NormalizeReservation(rawMap); ok {
				page.Items = append(page.Items, reservation)
			}
		}
	}

	if container != nil {
		if number, ok := container["number"]; ok {
			page.Page = normalization.AsInt(number)
		} else if number, ok := container["page"]; ok {
			page.Page = normalization.AsInt(number)
		}
		if size := normalization.AsInt(container["size"]); size > 0 {
			page.Size = size
		}
		page.TotalElements = normalization.AsInt(normalization.FirstPresent(container, "totalElements", "total"))
		page.TotalPages = normalization.AsInt(container["totalPages"])
	}

	if page.TotalElements == 0 {
		page.TotalElements = page.Page*page.Size + len(page.Items)
	}
	if page.TotalPages == 0 && page.TotalElements > 0 {
		page.TotalPages = (page.TotalElements + page.Size - 1) / page.Size
	}

	return page, true
}
