package sip2

import "strings"

// Circulation status codes for the item information response.
const (
	CirculationStatusOther           = "01"
	CirculationStatusOnOrder         = "02"
	CirculationStatusAvailable       = "03"
	CirculationStatusCharged         = "04"
	CirculationStatusChargedRecalled = "05"
	CirculationStatusInProcess       = "06"
	CirculationStatusRecalled        = "07"
	CirculationStatusWaitingOnHold   = "08"
	CirculationStatusInTransit       = "09"
	CirculationStatusMissing         = "10"
	CirculationStatusLost            = "11"
	CirculationStatusUnknown         = "12"
	CirculationStatusBilled          = "13"
)

var circulationStatusByName = map[string]string{
	"other":            CirculationStatusOther,
	"on_order":         CirculationStatusOnOrder,
	"available":        CirculationStatusAvailable,
	"charged":          CirculationStatusCharged,
	"charged_recalled": CirculationStatusChargedRecalled,
	"in_process":       CirculationStatusInProcess,
	"recalled":         CirculationStatusRecalled,
	"waiting_on_hold":  CirculationStatusWaitingOnHold,
	"in_transit":       CirculationStatusInTransit,
	"missing":          CirculationStatusMissing,
	"lost":             CirculationStatusLost,
	"unknown":          CirculationStatusUnknown,
	"billed":           CirculationStatusBilled,
}

// CirculationStatus resolves a symbolic status name to its 2-digit code,
// falling back to "other" for unmapped names. 2-digit codes pass through.
func CirculationStatus(name string) string {
	if len(name) == 2 && isDigits(name) {
		return name
	}
	if code, ok := circulationStatusByName[strings.ToLower(name)]; ok {
		return code
	}
	return CirculationStatusOther
}

// Security marker codes.
const (
	SecurityMarkerOther       = "00"
	SecurityMarkerNone        = "01"
	SecurityMarkerTattleTape  = "02"
	SecurityMarkerWhisperTape = "03"
)

var securityMarkerByName = map[string]string{
	"other":        SecurityMarkerOther,
	"none":         SecurityMarkerNone,
	"tattle_tape":  SecurityMarkerTattleTape,
	"whisper_tape": SecurityMarkerWhisperTape,
}

// SecurityMarker resolves a symbolic marker name to its 2-digit code.
// Unmapped names fall back to the provided default.
func SecurityMarker(name, fallback string) string {
	if len(name) == 2 && isDigits(name) {
		return name
	}
	if code, ok := securityMarkerByName[strings.ToLower(name)]; ok {
		return code
	}
	return fallback
}

// Media type codes.
const (
	MediaTypeOther             = "000"
	MediaTypeBook              = "001"
	MediaTypeMagazine          = "002"
	MediaTypeBoundJournal      = "003"
	MediaTypeAudioTape         = "004"
	MediaTypeVideoTape         = "005"
	MediaTypeCD                = "006"
	MediaTypeDiskette          = "007"
	MediaTypeBookWithDiskette  = "008"
	MediaTypeBookWithCD        = "009"
	MediaTypeBookWithAudioTape = "010"
)

var mediaTypeByName = map[string]string{
	"other":         MediaTypeOther,
	"book":          MediaTypeBook,
	"magazine":      MediaTypeMagazine,
	"bound_journal": MediaTypeBoundJournal,
	"audio_tape":    MediaTypeAudioTape,
	"video_tape":    MediaTypeVideoTape,
	"cd":            MediaTypeCD,
	"diskette":      MediaTypeDiskette,
}

// MediaType resolves a symbolic media type name to its 3-digit code, falling
// back to "other".
func MediaType(name string) string {
	if len(name) == 3 && isDigits(name) {
		return name
	}
	if code, ok := mediaTypeByName[strings.ToLower(name)]; ok {
		return code
	}
	return MediaTypeOther
}

// PatronStatusFlag is one position in the 14-character patron status field.
type PatronStatusFlag int

// Patron status flag positions, in wire order.
const (
	ChargePrivilegesDenied PatronStatusFlag = iota
	RenewalPrivilegesDenied
	RecallPrivilegesDenied
	HoldPrivilegesDenied
	CardReportedLost
	TooManyItemsCharged
	TooManyItemsOverdue
	TooManyRenewals
	TooManyClaimsOfItemsReturned
	TooManyItemsLost
	ExcessiveOutstandingFines
	ExcessiveOutstandingFees
	RecallOverdue
	TooManyItemsBilled

	patronStatusWidth
)

// PatronStatus is the 14-position patron status bitset. The zero value means
// no conditions apply.
type PatronStatus uint16

// Set marks the given condition as true.
func (ps *PatronStatus) Set(flag PatronStatusFlag) {
	*ps |= 1 << uint(flag)
}

// Has reports whether the given condition is set.
func (ps PatronStatus) Has(flag PatronStatusFlag) bool {
	return ps&(1<<uint(flag)) != 0
}

// String renders the status in wire form: one character per position,
// 'Y' when the condition applies, blank otherwise.
func (ps PatronStatus) String() string {
	var b strings.Builder
	b.Grow(int(patronStatusWidth))
	for flag := PatronStatusFlag(0); flag < patronStatusWidth; flag++ {
		if ps.Has(flag) {
			b.WriteByte('Y')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
