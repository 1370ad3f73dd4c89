package sip2

// DefaultRegistry returns the standard SIP2 field registry used by the
// server. The registry is immutable once built.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(defaultFixedFields(), defaultVarFields())
	if err != nil {
		// the built-in definitions are static; a failure here is a
		// programming error
		panic(err)
	}
	return r
}

func defaultFixedFields() []*FixedField {
	return []*FixedField{
		{Name: "ok", Label: "ok", Length: 1, Transform: OneZero},
		{Name: "login_ok", Label: "login ok", Length: 1, Transform: OneZero},
		{Name: "available", Label: "available", Length: 1, Transform: YesNo},
		{Name: "transaction_date", Label: "transaction date", Length: 18, Transform: SIPDate},
		{Name: "date_time_sync", Label: "date/time sync", Length: 18, Transform: SIPDate},
		{Name: "return_date", Label: "return date", Length: 18, Transform: SIPDate},
		{Name: "nb_due_date", Label: "no block due date", Length: 18, Transform: SIPDate},
		{Name: "uid_algorithm", Label: "uid algorithm", Length: 1, Fill: '0'},
		{Name: "pwd_algorithm", Label: "pwd algorithm", Length: 1, Fill: '0'},
		{Name: "fee_type", Label: "fee type", Length: 2, Fill: '0', PadLeft: true},
		{Name: "payment_type", Label: "payment type", Length: 2, Fill: '0', PadLeft: true},
		{Name: "currency_type", Label: "currency type", Length: 3},
		{Name: "payment_accepted", Label: "payment accepted", Length: 1, Transform: YesNo},
		{Name: "magnetic_media", Label: "magnetic media", Length: 1, Transform: YesNo},
		{Name: "desensitize", Label: "desensitize", Length: 1, Transform: YesNo},
		{Name: "resensitize", Label: "resensitize", Length: 1, Transform: YesNo},
		{Name: "alert", Label: "alert", Length: 1, Transform: YesNo},
		{Name: "status_code", Label: "status code", Length: 1},
		{Name: "max_print_width", Label: "max print width", Length: 3, Fill: '0', PadLeft: true},
		{Name: "protocol_version", Label: "protocol version", Length: 4},
		{Name: "online_status", Label: "on-line status", Length: 1, Transform: YesNo},
		{Name: "checkin_ok", Label: "checkin ok", Length: 1, Transform: YesNo},
		{Name: "checkout_ok", Label: "checkout ok", Length: 1, Transform: YesNo},
		{Name: "acs_renewal_policy", Label: "acs renewal policy", Length: 1, Transform: YesNo},
		{Name: "status_update_ok", Label: "status update ok", Length: 1, Transform: YesNo},
		{Name: "offline_ok", Label: "off-line ok", Length: 1, Transform: YesNo},
		{Name: "timeout_period", Label: "timeout period", Length: 3, Fill: '0', PadLeft: true},
		{Name: "retries_allowed", Label: "retries allowed", Length: 3, Fill: '0', PadLeft: true},
		{Name: "patron_status", Label: "patron status", Length: 14},
		{Name: "language", Label: "language", Length: 3, Fill: '0', PadLeft: true, Transform: LanguageCode},
		{Name: "summary", Label: "summary", Length: 10},
		{Name: "hold_mode", Label: "hold mode", Length: 1},
		{Name: "sc_renewal_policy", Label: "sc renewal policy", Length: 1, Transform: YesNo},
		{Name: "no_block", Label: "no block", Length: 1, Transform: YesNo},
		{Name: "card_retained", Label: "card retained", Length: 1, Transform: YesNo},
		{Name: "third_party_allowed", Label: "third party allowed", Length: 1, Transform: YesNo},
		{Name: "end_session", Label: "end session", Length: 1, Transform: YesNo},
		{Name: "renewal_ok", Label: "renewal ok", Length: 1, Transform: YesNo},
		{Name: "item_properties_ok", Label: "item properties ok", Length: 1, Transform: OneZero},
		{Name: "circulation_status", Label: "circulation status", Length: 2, Fill: '0', PadLeft: true},
		{Name: "security_marker", Label: "security marker", Length: 2, Fill: '0', PadLeft: true},
		{Name: "hold_items_count", Label: "hold items count", Length: 4, Fill: '0', PadLeft: true},
		{Name: "overdue_items_count", Label: "overdue items count", Length: 4, Fill: '0', PadLeft: true},
		{Name: "charged_items_count", Label: "charged items count", Length: 4, Fill: '0', PadLeft: true},
		{Name: "fine_items_count", Label: "fine items count", Length: 4, Fill: '0', PadLeft: true},
		{Name: "recall_items_count", Label: "recall items count", Length: 4, Fill: '0', PadLeft: true},
		{Name: "unavailable_holds_count", Label: "unavailable holds count", Length: 4, Fill: '0', PadLeft: true},
		{Name: "renewed_count", Label: "renewed count", Length: 4, Fill: '0', PadLeft: true},
		{Name: "unrenewed_count", Label: "unrenewed count", Length: 4, Fill: '0', PadLeft: true},
	}
}

func defaultVarFields() []*VarField {
	return []*VarField{
		{Name: "patron_id", Tag: "AA", Label: "patron identifier"},
		{Name: "item_id", Tag: "AB", Label: "item identifier"},
		{Name: "terminal_pwd", Tag: "AC", Label: "terminal password"},
		{Name: "patron_pwd", Tag: "AD", Label: "patron password"},
		{Name: "patron_name", Tag: "AE", Label: "personal name"},
		{Name: "screen_messages", Tag: "AF", Label: "screen message", Multiple: true},
		{Name: "print_line", Tag: "AG", Label: "print line", Multiple: true},
		{Name: "due_date", Tag: "AH", Label: "due date", Transform: SIPDate},
		{Name: "title_id", Tag: "AJ", Label: "title identifier"},
		{Name: "blocked_card_msg", Tag: "AL", Label: "blocked card message"},
		{Name: "library_name", Tag: "AM", Label: "library name"},
		{Name: "terminal_location", Tag: "AN", Label: "terminal location"},
		{Name: "institution_id", Tag: "AO", Label: "institution id"},
		{Name: "current_location", Tag: "AP", Label: "current location"},
		{Name: "permanent_location", Tag: "AQ", Label: "permanent location"},
		{Name: "hold_items", Tag: "AS", Label: "hold items", Multiple: true},
		{Name: "overdue_items", Tag: "AT", Label: "overdue items", Multiple: true},
		{Name: "charged_items", Tag: "AU", Label: "charged items", Multiple: true},
		{Name: "fine_items", Tag: "AV", Label: "fine items", Multiple: true},
		{Name: "sequence_number", Tag: "AY", Label: "sequence number", Length: 1},
		{Name: "checksum", Tag: "AZ", Label: "checksum", Length: 4},
		{Name: "home_address", Tag: "BD", Label: "home address"},
		{Name: "email", Tag: "BE", Label: "e-mail address"},
		{Name: "home_phone", Tag: "BF", Label: "home phone number"},
		{Name: "owner", Tag: "BG", Label: "owner"},
		{Name: "currency_type", Tag: "BH", Label: "currency type", Length: 3},
		{Name: "cancel", Tag: "BI", Label: "cancel", Length: 1, Transform: YesNo},
		{Name: "transaction_id", Tag: "BK", Label: "transaction id"},
		{Name: "valid_patron", Tag: "BL", Label: "valid patron", Length: 1, Transform: YesNo},
		{Name: "renewed_items", Tag: "BM", Label: "renewed items", Multiple: true},
		{Name: "unrenewed_items", Tag: "BN", Label: "unrenewed items", Multiple: true},
		{Name: "fee_acknowledged", Tag: "BO", Label: "fee acknowledged", Length: 1, Transform: YesNo},
		{Name: "start_item", Tag: "BP", Label: "start item"},
		{Name: "end_item", Tag: "BQ", Label: "end item"},
		{Name: "queue_position", Tag: "BR", Label: "queue position"},
		{Name: "pickup_location", Tag: "BS", Label: "pickup location"},
		{Name: "fee_type", Tag: "BT", Label: "fee type", Length: 2},
		{Name: "recall_items", Tag: "BU", Label: "recall items", Multiple: true},
		{Name: "fee_amount", Tag: "BV", Label: "fee amount"},
		{Name: "expiration_date", Tag: "BW", Label: "expiration date", Length: 18, Transform: SIPDate},
		{Name: "supported_messages", Tag: "BX", Label: "supported messages"},
		{Name: "hold_type", Tag: "BY", Label: "hold type", Length: 1},
		{Name: "hold_items_limit", Tag: "BZ", Label: "hold items limit", Length: 4},
		{Name: "overdue_items_limit", Tag: "CA", Label: "overdue items limit", Length: 4},
		{Name: "charged_items_limit", Tag: "CB", Label: "charged items limit", Length: 4},
		{Name: "fee_limit", Tag: "CC", Label: "fee limit"},
		{Name: "unavailable_hold_items", Tag: "CD", Label: "unavailable hold items", Multiple: true},
		{Name: "hold_queue_length", Tag: "CF", Label: "hold queue length"},
		{Name: "fee_identifier", Tag: "CG", Label: "fee identifier"},
		{Name: "item_properties", Tag: "CH", Label: "item properties"},
		{Name: "security_inhibit", Tag: "CI", Label: "security inhibit", Length: 1, Transform: YesNo},
		{Name: "recall_date", Tag: "CJ", Label: "recall date", Length: 18, Transform: SIPDate},
		{Name: "media_type", Tag: "CK", Label: "media type", Length: 3},
		{Name: "sort_bin", Tag: "CL", Label: "sort bin"},
		{Name: "hold_pickup_date", Tag: "CM", Label: "hold pickup date", Length: 18, Transform: SIPDate},
		{Name: "login_uid", Tag: "CN", Label: "login user id"},
		{Name: "login_pwd", Tag: "CO", Label: "login password"},
		{Name: "location_code", Tag: "CP", Label: "location code"},
		{Name: "valid_patron_pwd", Tag: "CQ", Label: "valid patron password", Length: 1, Transform: YesNo},
		{Name: "call_number", Tag: "CS", Label: "call number"},
		{Name: "destination_location", Tag: "CT", Label: "destination location"},
		{Name: "alert_type", Tag: "CV", Label: "alert type"},
		{Name: "hold_patron_id", Tag: "CY", Label: "hold patron id"},
		{Name: "hold_patron_name", Tag: "DA", Label: "hold patron name"},
		{Name: "patron_expiration_date", Tag: "PA", Label: "patron expiration date", Length: 18, Transform: SIPDate},
		{Name: "patron_birth_date", Tag: "PB", Label: "patron birth date"},
		{Name: "patron_class", Tag: "PC", Label: "patron class", Length: 1},
		{Name: "patron_internet_profile", Tag: "PI", Label: "patron internet profile"},
	}
}
