package domain

// Status is the freshness tier derived from remaining expiry days
type Status string

const (
	StatusGood    Status = "good"
	StatusWarning Status = "warning"
	StatusBad     Status = "bad"

	// StatusNone marks items that do not expire
	StatusNone Status = ""
)

// Classify maps remaining expiry days to a status tier. It is the single
// classification point shared by every write path, so a stored status can
// always be re-derived from the stored expiry days.
func Classify(expiryDays *int) Status {
	if expiryDays == nil {
		return StatusNone
	}
	switch days := *expiryDays; {
	case days <= 2:
		return StatusBad
	case days <= 5:
		return StatusWarning
	default:
		return StatusGood
	}
}
