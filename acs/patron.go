package acs

import (
	"context"

	"github.com/libstack/go-sip2/sip2"
	"github.com/libstack/go-sip2/store"
)

// patronStatusAction answers a patron status request (23) with the status
// flag block and fee summary.
type patronStatusAction struct {
	baseAction
}

func (a *patronStatusAction) Execute(ctx context.Context, msg *sip2.Message, client *store.Client) (*sip2.Message, error) {
	if a.handlers.PatronStatus == nil {
		return nil, nil
	}

	patronID := varVal(msg, "patron_id")
	profile, err := a.handlers.PatronStatus(ctx, patronID, institution(msg, client))
	if err != nil {
		return nil, err
	}

	return a.profileResponse(ctx, msg, client, patronID, profile)
}

// patronEnableAction re-enables a blocked patron (25) and reports the
// resulting status.
type patronEnableAction struct {
	baseAction
}

func (a *patronEnableAction) Execute(ctx context.Context, msg *sip2.Message, client *store.Client) (*sip2.Message, error) {
	if a.handlers.EnablePatron == nil {
		return nil, nil
	}

	patronID := varVal(msg, "patron_id")
	inst := institution(msg, client)

	if a.handlers.ValidatePatron != nil {
		valid, err := a.handlers.ValidatePatron(ctx, patronID, inst)
		if err != nil {
			return nil, err
		}
		if !valid {
			return a.profileResponse(ctx, msg, client, patronID, nil)
		}
	}

	profile, err := a.handlers.EnablePatron(ctx, patronID, inst)
	if err != nil {
		return nil, err
	}
	return a.profileResponse(ctx, msg, client, patronID, profile)
}

// profileResponse builds the shared 24/26 response shape. A nil profile
// renders an empty status block with valid_patron N.
func (a *baseAction) profileResponse(ctx context.Context, msg *sip2.Message, client *store.Client, patronID string, profile *PatronProfile) (*sip2.Message, error) {
	values := map[string]any{
		"transaction_date": a.cfg.now(),
		"institution_id":   institution(msg, client),
		"patron_id":        patronID,
		"language":         a.sessionLanguage(client),
	}
	if profile != nil {
		values["patron_status"] = profile.Status
		values["patron_name"] = profile.PatronName
		if profile.Language != "" {
			values["language"] = profile.Language
		}
	}

	resp := a.newResponse(values)
	a.optional(resp, "valid_patron", profile != nil)
	if profile == nil {
		return resp, nil
	}

	if pwd, ok := msg.VarValue("patron_pwd"); ok && a.handlers.AuthorizePatron != nil {
		valid, err := a.handlers.AuthorizePatron(ctx, patronID, pwd, institution(msg, client))
		if err != nil {
			return nil, err
		}
		a.optional(resp, "valid_patron_pwd", valid)
	}
	a.optional(resp, "currency_type", profile.CurrencyType)
	a.optional(resp, "fee_amount", profile.FeeAmount)
	a.optionalList(resp, "screen_messages", profile.ScreenMessages)
	a.optionalList(resp, "print_line", profile.PrintLine)
	return resp, nil
}

// Patron information summary bitmap positions, in wire order. Only the first
// six positions select an item category.
const (
	summaryHoldItems = iota
	summaryOverdueItems
	summaryChargedItems
	summaryFineItems
	summaryRecallItems
	summaryUnavailableHolds
)

func summaryWants(summary string, pos int) bool {
	return pos < len(summary) && (summary[pos] == 'Y' || summary[pos] == 'y')
}

// patronInformationAction answers a patron information request (63): it opens
// the patron sub-session on the client and reports the account snapshot, with
// the item lists filtered by the request's summary bitmap.
type patronInformationAction struct {
	baseAction
}

func (a *patronInformationAction) Execute(ctx context.Context, msg *sip2.Message, client *store.Client) (*sip2.Message, error) {
	if a.handlers.PatronAccount == nil {
		return nil, nil
	}

	patronID := varVal(msg, "patron_id")
	inst := institution(msg, client)

	account, err := a.handlers.PatronAccount(ctx, patronID, inst)
	if err != nil {
		return nil, err
	}

	if account == nil {
		resp := a.newResponse(map[string]any{
			"transaction_date": a.cfg.now(),
			"language":         a.sessionLanguage(client),
			"institution_id":   inst,
			"patron_id":        patronID,
		})
		a.optional(resp, "valid_patron", false)
		return resp, nil
	}

	lang := account.Language
	if lang == "" {
		lang = a.sessionLanguage(client)
	}
	client.PatronSession = &store.PatronSession{PatronID: patronID, Language: lang}

	resp := a.newResponse(map[string]any{
		"patron_status":           account.Status,
		"language":                lang,
		"transaction_date":        a.cfg.now(),
		"hold_items_count":        len(account.HoldItems),
		"overdue_items_count":     len(account.OverdueItems),
		"charged_items_count":     len(account.ChargedItems),
		"fine_items_count":        len(account.FineItems),
		"recall_items_count":      len(account.RecallItems),
		"unavailable_holds_count": len(account.UnavailableHoldItems),
		"institution_id":          inst,
		"patron_id":               patronID,
		"patron_name":             account.PatronName,
	})

	summary := fixedVal(msg, "summary")
	if summaryWants(summary, summaryHoldItems) {
		a.optionalList(resp, "hold_items", account.HoldItems)
	}
	if summaryWants(summary, summaryOverdueItems) {
		a.optionalList(resp, "overdue_items", account.OverdueItems)
	}
	if summaryWants(summary, summaryChargedItems) {
		a.optionalList(resp, "charged_items", account.ChargedItems)
	}
	if summaryWants(summary, summaryFineItems) {
		a.optionalList(resp, "fine_items", account.FineItems)
	}
	if summaryWants(summary, summaryRecallItems) {
		a.optionalList(resp, "recall_items", account.RecallItems)
	}
	if summaryWants(summary, summaryUnavailableHolds) {
		a.optionalList(resp, "unavailable_hold_items", account.UnavailableHoldItems)
	}

	a.optional(resp, "hold_items_limit", intValue(account.HoldItemsLimit))
	a.optional(resp, "overdue_items_limit", intValue(account.OverdueItemsLimit))
	a.optional(resp, "charged_items_limit", intValue(account.ChargedItemsLimit))
	a.optional(resp, "valid_patron", true)
	if pwd, ok := msg.VarValue("patron_pwd"); ok && a.handlers.AuthorizePatron != nil {
		valid, err := a.handlers.AuthorizePatron(ctx, patronID, pwd, inst)
		if err != nil {
			return nil, err
		}
		a.optional(resp, "valid_patron_pwd", valid)
	}
	a.optional(resp, "currency_type", account.CurrencyType)
	a.optional(resp, "fee_amount", account.FeeAmount)
	a.optional(resp, "fee_limit", account.FeeLimit)
	a.optional(resp, "home_address", account.HomeAddress)
	a.optional(resp, "email", account.Email)
	a.optional(resp, "home_phone", account.HomePhone)
	a.optional(resp, "patron_expiration_date", timeValue(account.ExpirationDate))
	a.optional(resp, "patron_birth_date", account.BirthDate)
	a.optional(resp, "patron_class", account.PatronClass)
	a.optional(resp, "patron_internet_profile", account.InternetProfile)
	a.optionalList(resp, "screen_messages", account.ScreenMessages)
	a.optionalList(resp, "print_line", account.PrintLine)
	return resp, nil
}

// endSessionAction closes the patron sub-session (35).
type endSessionAction struct {
	baseAction
}

func (a *endSessionAction) Execute(_ context.Context, msg *sip2.Message, client *store.Client) (*sip2.Message, error) {
	client.ClearPatronSession()
	return a.newResponse(map[string]any{
		"end_session":      true,
		"transaction_date": a.cfg.now(),
		"institution_id":   institution(msg, client),
		"patron_id":        varVal(msg, "patron_id"),
	}), nil
}

// feePaidAction records a fee payment (37).
type feePaidAction struct {
	baseAction
}

func (a *feePaidAction) Execute(ctx context.Context, msg *sip2.Message, client *store.Client) (*sip2.Message, error) {
	if a.handlers.FeePaid == nil {
		return nil, nil
	}

	req := FeePaidRequest{
		PatronID:      varVal(msg, "patron_id"),
		InstitutionID: institution(msg, client),
		FeeType:       fixedVal(msg, "fee_type"),
		PaymentType:   fixedVal(msg, "payment_type"),
		CurrencyType:  fixedVal(msg, "currency_type"),
		FeeAmount:     varVal(msg, "fee_amount"),
		FeeIdentifier: varVal(msg, "fee_identifier"),
		TransactionID: varVal(msg, "transaction_id"),
	}
	res, err := a.handlers.FeePaid(ctx, req)
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = &FeePaidResult{}
	}

	resp := a.newResponse(map[string]any{
		"payment_accepted": res.Accepted,
		"transaction_date": a.cfg.now(),
		"institution_id":   req.InstitutionID,
		"patron_id":        req.PatronID,
	})
	a.optional(resp, "transaction_id", res.TransactionID)
	a.optionalList(resp, "screen_messages", res.ScreenMessages)
	a.optionalList(resp, "print_line", res.PrintLine)
	return resp, nil
}
