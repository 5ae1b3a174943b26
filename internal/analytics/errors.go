package analytics

import "errors"

// Error kinds returned by the Service. Callers match them with errors.Is.
var (
	ErrCenterNotFound   = errors.New("center not found")
	ErrAreaNotFound     = errors.New("area not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrInvalidTimeRange = errors.New("from must not be later than to")
	ErrInvalidFormat    = errors.New("invalid parameter format")
	ErrNullParams       = errors.New("required parameter missing")
	ErrInvalidPage      = errors.New("page out of range")
)

// Kind returns a short label for err, used as a metrics label.
// It returns "" for nil and "store" for errors that are not analytics kinds.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCenterNotFound):
		return "center_not_found"
	case errors.Is(err, ErrAreaNotFound):
		return "area_not_found"
	case errors.Is(err, ErrCustomerNotFound):
		return "customer_not_found"
	case errors.Is(err, ErrInvalidTimeRange):
		return "invalid_time_range"
	case errors.Is(err, ErrInvalidFormat):
		return "invalid_format"
	case errors.Is(err, ErrNullParams):
		return "null_params"
	case errors.Is(err, ErrInvalidPage):
		return "invalid_page"
	default:
		return "store"
	}
}

// IsClientError reports whether err was caused by the caller's input.
func IsClientError(err error) bool {
	k := Kind(err)
	return k != "" && k != "store"
}
