package sip2

// Command codes handled by the server.
const (
	CmdBlockPatron           = "01"
	CmdCheckin               = "09"
	CmdCheckinResp           = "10"
	CmdCheckout              = "11"
	CmdCheckoutResp          = "12"
	CmdHold                  = "15"
	CmdHoldResp              = "16"
	CmdItemInformation       = "17"
	CmdItemInformationResp   = "18"
	CmdItemStatusUpdate      = "19"
	CmdItemStatusUpdateResp  = "20"
	CmdPatronStatus          = "23"
	CmdPatronStatusResp      = "24"
	CmdPatronEnable          = "25"
	CmdPatronEnableResp      = "26"
	CmdRenew                 = "29"
	CmdRenewResp             = "30"
	CmdEndPatronSession      = "35"
	CmdEndSessionResp        = "36"
	CmdFeePaid               = "37"
	CmdFeePaidResp           = "38"
	CmdPatronInformation     = "63"
	CmdPatronInformationResp = "64"
	CmdRenewAll              = "65"
	CmdRenewAllResp          = "66"
	CmdLogin                 = "93"
	CmdLoginResp             = "94"
	CmdRequestSCResend       = "96"
	CmdRequestACSResend      = "97"
	CmdACSStatus             = "98"
	CmdSCStatus              = "99"
)

// catalogBuilder resolves field names through a registry while assembling the
// default catalog. The built-in catalog only references built-in fields, so
// lookup failures are programming errors and panic.
type catalogBuilder struct {
	reg *Registry
}

func (b catalogBuilder) fixed(names ...string) []*FixedField {
	out := make([]*FixedField, 0, len(names))
	for _, name := range names {
		f, err := b.reg.Fixed(name)
		if err != nil {
			panic(err)
		}
		out = append(out, f)
	}
	return out
}

func (b catalogBuilder) vars(names ...string) []*VarField {
	out := make([]*VarField, 0, len(names))
	for _, name := range names {
		f, err := b.reg.Var(name)
		if err != nil {
			panic(err)
		}
		out = append(out, f)
	}
	return out
}

// DefaultCatalog returns the standard SIP2 message type catalog, with every
// command the server handles. Fixed fields are listed in exact wire order.
func DefaultCatalog(r *Registry) *Catalog {
	b := catalogBuilder{reg: r}

	types := []*MessageType{
		{
			Command: CmdBlockPatron, Label: "block patron",
			Fixed:    b.fixed("card_retained", "transaction_date"),
			Required: b.vars("institution_id", "blocked_card_msg", "patron_id", "terminal_pwd"),
		},
		{
			Command: CmdCheckin, Label: "checkin",
			Fixed:    b.fixed("no_block", "transaction_date", "return_date"),
			Required: b.vars("current_location", "institution_id", "item_id", "terminal_pwd"),
			Optional: b.vars("item_properties", "cancel"),
		},
		{
			Command: CmdCheckinResp, Label: "checkin response",
			Fixed:    b.fixed("ok", "resensitize", "magnetic_media", "alert", "transaction_date"),
			Required: b.vars("institution_id", "item_id", "permanent_location"),
			Optional: b.vars("title_id", "sort_bin", "patron_id", "media_type", "item_properties",
				"alert_type", "hold_patron_id", "hold_patron_name", "destination_location",
				"screen_messages", "print_line"),
		},
		{
			Command: CmdCheckout, Label: "checkout",
			Fixed:    b.fixed("sc_renewal_policy", "no_block", "transaction_date", "nb_due_date"),
			Required: b.vars("institution_id", "patron_id", "item_id", "terminal_pwd"),
			Optional: b.vars("item_properties", "patron_pwd", "fee_acknowledged", "cancel"),
		},
		{
			Command: CmdCheckoutResp, Label: "checkout response",
			Fixed:    b.fixed("ok", "renewal_ok", "magnetic_media", "desensitize", "transaction_date"),
			Required: b.vars("institution_id", "patron_id", "item_id", "title_id", "due_date"),
			Optional: b.vars("fee_type", "security_inhibit", "currency_type", "fee_amount",
				"media_type", "item_properties", "transaction_id", "screen_messages", "print_line"),
		},
		{
			Command: CmdHold, Label: "hold",
			Fixed:    b.fixed("hold_mode", "transaction_date"),
			Required: b.vars("institution_id", "patron_id"),
			Optional: b.vars("expiration_date", "pickup_location", "hold_type", "patron_pwd",
				"item_id", "title_id", "terminal_pwd", "fee_acknowledged"),
		},
		{
			Command: CmdHoldResp, Label: "hold response",
			Fixed:    b.fixed("ok", "available", "transaction_date"),
			Required: b.vars("institution_id", "patron_id"),
			Optional: b.vars("expiration_date", "queue_position", "pickup_location", "item_id",
				"title_id", "screen_messages", "print_line"),
		},
		{
			Command: CmdItemInformation, Label: "item information",
			Fixed:    b.fixed("transaction_date"),
			Required: b.vars("institution_id", "item_id"),
			Optional: b.vars("terminal_pwd"),
		},
		{
			Command: CmdItemInformationResp, Label: "item information response",
			Fixed:    b.fixed("circulation_status", "security_marker", "fee_type", "transaction_date"),
			Required: b.vars("item_id", "title_id"),
			Optional: b.vars("hold_queue_length", "due_date", "recall_date", "hold_pickup_date",
				"owner", "currency_type", "fee_amount", "media_type", "permanent_location",
				"current_location", "item_properties", "screen_messages", "print_line"),
		},
		{
			Command: CmdItemStatusUpdate, Label: "item status update",
			Fixed:    b.fixed("transaction_date"),
			Required: b.vars("institution_id", "item_id", "item_properties"),
			Optional: b.vars("terminal_pwd"),
		},
		{
			Command: CmdItemStatusUpdateResp, Label: "item status update response",
			Fixed:    b.fixed("item_properties_ok", "transaction_date"),
			Optional: b.vars("item_id", "title_id", "item_properties", "screen_messages", "print_line"),
		},
		{
			Command: CmdPatronStatus, Label: "patron status request",
			Fixed:    b.fixed("language", "transaction_date"),
			Required: b.vars("institution_id", "patron_id", "terminal_pwd", "patron_pwd"),
		},
		{
			Command: CmdPatronStatusResp, Label: "patron status response",
			Fixed:    b.fixed("patron_status", "language", "transaction_date"),
			Required: b.vars("institution_id", "patron_id", "patron_name"),
			Optional: b.vars("valid_patron", "valid_patron_pwd", "currency_type", "fee_amount",
				"screen_messages", "print_line"),
		},
		{
			Command: CmdPatronEnable, Label: "patron enable",
			Fixed:    b.fixed("transaction_date"),
			Required: b.vars("institution_id", "patron_id"),
			Optional: b.vars("terminal_pwd", "patron_pwd"),
		},
		{
			Command: CmdPatronEnableResp, Label: "patron enable response",
			Fixed:    b.fixed("patron_status", "language", "transaction_date"),
			Required: b.vars("institution_id", "patron_id", "patron_name"),
			Optional: b.vars("valid_patron", "valid_patron_pwd", "screen_messages", "print_line"),
		},
		{
			Command: CmdRenew, Label: "renew",
			Fixed:    b.fixed("third_party_allowed", "no_block", "transaction_date", "nb_due_date"),
			Required: b.vars("institution_id", "patron_id"),
			Optional: b.vars("patron_pwd", "item_id", "title_id", "terminal_pwd", "item_properties",
				"fee_acknowledged"),
		},
		{
			Command: CmdRenewResp, Label: "renew response",
			Fixed:    b.fixed("ok", "renewal_ok", "magnetic_media", "desensitize", "transaction_date"),
			Required: b.vars("institution_id", "patron_id", "item_id", "title_id", "due_date"),
			Optional: b.vars("fee_type", "security_inhibit", "currency_type", "fee_amount",
				"media_type", "item_properties", "transaction_id", "screen_messages", "print_line"),
		},
		{
			Command: CmdEndPatronSession, Label: "end patron session",
			Fixed:    b.fixed("transaction_date"),
			Required: b.vars("institution_id", "patron_id"),
			Optional: b.vars("terminal_pwd", "patron_pwd"),
		},
		{
			Command: CmdEndSessionResp, Label: "end session response",
			Fixed:    b.fixed("end_session", "transaction_date"),
			Required: b.vars("institution_id", "patron_id"),
			Optional: b.vars("screen_messages", "print_line"),
		},
		{
			Command: CmdFeePaid, Label: "fee paid",
			Fixed:    b.fixed("transaction_date", "fee_type", "payment_type", "currency_type"),
			Required: b.vars("fee_amount", "institution_id", "patron_id"),
			Optional: b.vars("terminal_pwd", "patron_pwd", "fee_identifier", "transaction_id"),
		},
		{
			Command: CmdFeePaidResp, Label: "fee paid response",
			Fixed:    b.fixed("payment_accepted", "transaction_date"),
			Required: b.vars("institution_id", "patron_id"),
			Optional: b.vars("transaction_id", "screen_messages", "print_line"),
		},
		{
			Command: CmdPatronInformation, Label: "patron information",
			Fixed:    b.fixed("language", "transaction_date", "summary"),
			Required: b.vars("institution_id", "patron_id"),
			Optional: b.vars("terminal_pwd", "patron_pwd", "start_item", "end_item"),
		},
		{
			Command: CmdPatronInformationResp, Label: "patron information response",
			Fixed: b.fixed("patron_status", "language", "transaction_date",
				"hold_items_count", "overdue_items_count", "charged_items_count",
				"fine_items_count", "recall_items_count", "unavailable_holds_count"),
			Required: b.vars("institution_id", "patron_id", "patron_name"),
			Optional: b.vars("hold_items_limit", "overdue_items_limit", "charged_items_limit",
				"valid_patron", "valid_patron_pwd", "currency_type", "fee_amount", "fee_limit",
				"hold_items", "overdue_items", "charged_items", "fine_items", "recall_items",
				"unavailable_hold_items", "home_address", "email", "home_phone",
				"patron_expiration_date", "patron_birth_date", "patron_class",
				"patron_internet_profile", "screen_messages", "print_line"),
		},
		{
			Command: CmdRenewAll, Label: "renew all",
			Fixed:    b.fixed("transaction_date"),
			Required: b.vars("institution_id", "patron_id"),
			Optional: b.vars("patron_pwd", "terminal_pwd", "fee_acknowledged"),
		},
		{
			Command: CmdRenewAllResp, Label: "renew all response",
			Fixed:    b.fixed("ok", "renewed_count", "unrenewed_count", "transaction_date"),
			Required: b.vars("institution_id"),
			Optional: b.vars("renewed_items", "unrenewed_items", "screen_messages", "print_line"),
		},
		{
			Command: CmdLogin, Label: "login",
			Fixed:    b.fixed("uid_algorithm", "pwd_algorithm"),
			Required: b.vars("login_uid", "login_pwd"),
			Optional: b.vars("location_code"),
		},
		{
			Command: CmdLoginResp, Label: "login response",
			Fixed:   b.fixed("ok"),
		},
		{
			Command: CmdRequestSCResend, Label: "request sc resend",
		},
		{
			Command: CmdRequestACSResend, Label: "request acs resend",
		},
		{
			Command: CmdACSStatus, Label: "acs status",
			Fixed: b.fixed("online_status", "checkin_ok", "checkout_ok", "acs_renewal_policy",
				"status_update_ok", "offline_ok", "timeout_period", "retries_allowed",
				"date_time_sync", "protocol_version"),
			Required: b.vars("institution_id", "supported_messages"),
			Optional: b.vars("library_name", "terminal_location", "screen_messages", "print_line"),
		},
		{
			Command: CmdSCStatus, Label: "sc status",
			Fixed:   b.fixed("status_code", "max_print_width", "protocol_version"),
		},
	}

	c, err := NewCatalog(types)
	if err != nil {
		panic(err)
	}
	return c
}
