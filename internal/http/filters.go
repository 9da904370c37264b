package httpx

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/fractionaljobs/landing/internal/domain/model"
	apperrors "github.com/fractionaljobs/landing/internal/errors"
)

// parseListingFilter reads category and location query parameters. Category
// must be an exact RoleCategory value.
func parseListingFilter(r *http.Request) (model.ListingFilter, error) {
	q := r.URL.Query()
	f := model.ListingFilter{Location: strings.TrimSpace(q.Get("location"))}
	if raw := strings.TrimSpace(q.Get("category")); raw != "" {
		c, err := model.ParseRoleCategory(raw)
		if err != nil {
			return model.ListingFilter{}, apperrors.ValidationField("category", fmt.Sprintf("unknown role category %q", raw))
		}
		f.Category = &c
	}
	return f, nil
}

// parseLimit reads the limit query parameter, returning def when absent.
func parseLimit(r *http.Request, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.ValidationField("limit", "limit must be an integer")
	}
	return n, nil
}

func writeValidationError(w http.ResponseWriter, err error) {
	WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_" + apperrors.GetField(err), Err: err})
}
