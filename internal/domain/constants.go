package domain

// Booking code format
const (
	CodePrefix     = "RR"
	CodeDateFormat = "060102" // YYMMDD
)

// Default policy values, overridable via config
const (
	DefaultGSTBasisPoints        = 1800 // 18%
	DefaultServiceTaxBasisPoints = 0    // modeled as a separate line for future use
	DefaultPendingHoldTTLMinutes = 30
	DefaultPastStartGraceMinutes = 5
)

// Business validation constants
const (
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MinQuantity                 = 1
	MaxQuantity                 = 365
)
