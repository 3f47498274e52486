package dismissal

import apperrors "github.com/louisbranch/relayweb/internal/services/web/platform/errors"

var (
	errNoStore  = apperrors.E(apperrors.KindUnavailable, "dismissal store is not configured")
	errEmptyKey = apperrors.E(apperrors.KindInvalidInput, "dismissal key is required")
)
