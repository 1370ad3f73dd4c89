package acs

import "time"

// Defaults for the protocol-level configuration.
const (
	DefaultProtocolVersion = "2.00"
	DefaultTimeoutPeriod   = 10
	DefaultRetriesAllowed  = 5
)

// Config holds the protocol-level behavior of the circulation system side:
// the capability flags advertised in the ACS status response and defaults
// applied when handler payloads leave fields blank.
type Config struct {
	// ProtocolVersion is reported in the ACS status response.
	ProtocolVersion string

	// Capability flags, reported in the ACS status response. A capability is
	// only advertised when its flag is set and the matching handler is bound.
	OnlineStatus  bool
	CheckinOK     bool
	CheckoutOK    bool
	RenewalPolicy bool
	OfflineOK     bool

	// TimeoutPeriod is the advertised response timeout in tenths of seconds.
	TimeoutPeriod int
	// RetriesAllowed is the advertised retry budget.
	RetriesAllowed int

	// DefaultSecurityMarker is the 2-digit marker code used when an item
	// payload does not name one.
	DefaultSecurityMarker string
	// DefaultLanguage is the ISO 639-2 name used when neither a patron
	// session nor the terminal profile pins a language.
	DefaultLanguage string

	// Clock overrides the time source for transaction dates. Nil means
	// time.Now. Tests pin it to get deterministic wire text.
	Clock func() time.Time
}

// DefaultConfig returns a Config with the standard capability set enabled.
func DefaultConfig() *Config {
	return &Config{
		ProtocolVersion:       DefaultProtocolVersion,
		OnlineStatus:          true,
		CheckinOK:             true,
		CheckoutOK:            true,
		RenewalPolicy:         true,
		TimeoutPeriod:         DefaultTimeoutPeriod,
		RetriesAllowed:        DefaultRetriesAllowed,
		DefaultSecurityMarker: "02",
		DefaultLanguage:       "und",
	}
}

func (c *Config) now() time.Time {
	if c.Clock != nil {
		return c.Clock().UTC()
	}
	return time.Now().UTC()
}

// SupportedMessages renders the 16-position BX bitmap from the capability
// flags and the bound handlers, in the wire order defined by the protocol.
func (c *Config) SupportedMessages(h *RemoteHandlers) string {
	yn := func(ok bool) byte {
		if ok {
			return 'Y'
		}
		return 'N'
	}

	return string([]byte{
		yn(h.PatronStatus != nil),                // patron status request
		yn(c.CheckoutOK && h.Checkout != nil),    // checkout
		yn(c.CheckinOK && h.Checkin != nil),      // checkin
		'N',                                      // block patron
		'Y',                                      // SC/ACS status
		'Y',                                      // request SC/ACS resend
		'Y',                                      // login
		yn(h.PatronAccount != nil),               // patron information
		'Y',                                      // end patron session
		yn(h.FeePaid != nil),                     // fee paid
		yn(h.ItemInformation != nil),             // item information
		'N',                                      // item status update
		yn(h.EnablePatron != nil),                // patron enable
		yn(h.Hold != nil),                        // hold
		yn(c.RenewalPolicy && h.Renew != nil),    // renew
		yn(c.RenewalPolicy && h.RenewAll != nil), // renew all
	})
}
