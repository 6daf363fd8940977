package domain

// QualityLevel is a derived display classification. It never influences
// ranking.
type QualityLevel int

const (
	QualityOES         QualityLevel = 1 // original-equipment supplier
	QualityAftermarket QualityLevel = 2
	QualityExchange    QualityLevel = 3 // exchange part carrying a core charge
	QualityAdaptable   QualityLevel = 4 // no brand data resolved
)

// Label returns the display label for the quality level.
func (q QualityLevel) Label() string {
	switch q {
	case QualityOES:
		return "OES"
	case QualityAftermarket:
		return "Aftermarket"
	case QualityExchange:
		return "Exchange"
	default:
		return "Adaptable"
	}
}

// DeriveQuality computes the quality level from the resolved brand and the
// price deposit. A non-zero deposit marks an exchange item regardless of
// brand origin; a missing brand falls back to adaptable.
func DeriveQuality(brand *Brand, deposit float64) QualityLevel {
	if brand == nil {
		return QualityAdaptable
	}
	if deposit > 0 {
		return QualityExchange
	}
	if brand.Origin == OriginOEM {
		return QualityOES
	}
	return QualityAftermarket
}

// Availability states for a result item.
const (
	AvailabilityAvailable   = "available"
	AvailabilityOnOrder     = "on-order"
	AvailabilityUnavailable = "unavailable"
)

// DeriveAvailability computes the availability status from the sale price and
// the part's visibility flag.
func DeriveAvailability(price float64, visible bool) string {
	switch {
	case visible && price > 0:
		return AvailabilityAvailable
	case visible:
		return AvailabilityOnOrder
	default:
		return AvailabilityUnavailable
	}
}
