package infrastructure

import (
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"hotelWeb/internal/modules/reservations/application/port"
)

type pathBuilder func(string) (string, error)

type reservationEndpoint struct {
	operation string
	method    string
	path      pathBuilder
}

const (
	opHold        = "hold"
	opGet         = "get"
	opConfirm     = "confirm"
	opCancel      = "cancel"
	opGetMy       = "getMy"
	opGetByUserID = "getByUserId"
)

var reservationEndpoints = map[string]reservationEndpoint{
	opHold:        {operation: opHold, method: http.MethodPost, path: staticPathBuilder("/reservations/hold")},
	opGet:         {operation: opGet, method: http.MethodGet, path: resourcePathBuilder("/reservations", "my", "hold", "user")},
	opConfirm:     {operation: opConfirm, method: http.MethodPost, path: requiredValuePathBuilder("/reservations/%s/confirm")},
	opCancel:      {operation: opCancel, method: http.MethodPost, path: requiredValuePathBuilder("/reservations/%s/cancel")},
	opGetMy:       {operation: opGetMy, method: http.MethodGet, path: staticPathBuilder("/reservations/my")},
	opGetByUserID: {operation: opGetByUserID, method: http.MethodGet, path: resourcePathBuilder("/reservations/user")},
}

func staticPathBuilder(path string) pathBuilder {
	trimmed := strings.TrimSpace(path)
	return func(string) (string, error) {
		if trimmed == "" {
			return "", fmt.Errorf("missing path configuration")
		}
		return trimmed, nil
	}
}

func requiredValuePathBuilder(format string) pathBuilder {
	trimmed := strings.TrimSpace(format)
	return func(value string) (string, error) {
		identifier, err := pathIdentifier(value, nil)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(trimmed, identifier), nil
	}
}

// resourcePathBuilder appends the id to base. reserved lists sibling segments under base that
// an id must not shadow.
func resourcePathBuilder(base string, reserved ...string) pathBuilder {
	trimmed := strings.TrimSpace(base)
	return func(value string) (string, error) {
		identifier, err := pathIdentifier(value, reserved)
		if err != nil {
			return "", err
		}
		return strings.TrimRight(trimmed, "/") + "/" + identifier, nil
	}
}

// pathIdentifier escapes value as one path segment. Dot segments and reserved names are
// rejected since they would address a different endpoint.
func pathIdentifier(value string, reserved []string) (string, error) {
	identifier := strings.TrimSpace(value)
	if identifier == "" {
		return "", port.ErrMissingID
	}
	if identifier == "." || identifier == ".." || slices.Contains(reserved, strings.ToLower(identifier)) {
		return "", fmt.Errorf("%w: %q", port.ErrInvalidID, identifier)
	}
	return url.PathEscape(identifier), nil
}
