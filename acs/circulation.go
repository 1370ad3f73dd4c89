package acs

import (
	"context"
	"errors"

	"github.com/libstack/go-sip2/sip2"
	"github.com/libstack/go-sip2/store"
)

// circulationRequest extracts the fields shared by checkout, checkin, hold
// and renew requests.
func (a *baseAction) circulationRequest(msg *sip2.Message, client *store.Client) CirculationRequest {
	return CirculationRequest{
		UserID:          client.UserID,
		PatronID:        varVal(msg, "patron_id"),
		ItemID:          varVal(msg, "item_id"),
		InstitutionID:   institution(msg, client),
		Terminal:        client.TerminalLabel(),
		Language:        a.sessionLanguage(client),
		NoBlock:         fixedVal(msg, "no_block") == "Y",
		FeeAcknowledged: varVal(msg, "fee_acknowledged") == "Y",
	}
}

// magneticMedia defaults the 1-character magnetic media flag to U (unknown).
func magneticMedia(v string) string {
	if v == "" {
		return "U"
	}
	return v
}

// checkoutAction lends an item to a patron (11). A circulation refusal from
// the handler turns into an ok=0 response instead of a dropped connection.
type checkoutAction struct {
	baseAction
}

func (a *checkoutAction) Execute(ctx context.Context, msg *sip2.Message, client *store.Client) (*sip2.Message, error) {
	if a.handlers.Checkout == nil {
		return nil, nil
	}

	req := a.circulationRequest(msg, client)
	res, err := a.circulate(ctx, "checkout", a.handlers.Checkout, req)
	if err != nil {
		return nil, err
	}

	resp := a.newResponse(map[string]any{
		"ok":               res.OK,
		"renewal_ok":       res.RenewalOK,
		"magnetic_media":   magneticMedia(res.MagneticMedia),
		"desensitize":      res.Desensitize,
		"transaction_date": a.cfg.now(),
		"institution_id":   req.InstitutionID,
		"patron_id":        req.PatronID,
		"item_id":          req.ItemID,
		"title_id":         res.TitleID,
		"due_date":         timeValue(res.DueDate),
	})
	a.addCirculationExtras(resp, res)
	return resp, nil
}

// renewAction renews one loan (29). Its response shares the checkout shape.
type renewAction struct {
	baseAction
}

func (a *renewAction) Execute(ctx context.Context, msg *sip2.Message, client *store.Client) (*sip2.Message, error) {
	if a.handlers.Renew == nil {
		return nil, nil
	}

	req := a.circulationRequest(msg, client)
	res, err := a.circulate(ctx, "renew", a.handlers.Renew, req)
	if err != nil {
		return nil, err
	}

	resp := a.newResponse(map[string]any{
		"ok":               res.OK,
		"renewal_ok":       res.RenewalOK,
		"magnetic_media":   magneticMedia(res.MagneticMedia),
		"desensitize":      res.Desensitize,
		"transaction_date": a.cfg.now(),
		"institution_id":   req.InstitutionID,
		"patron_id":        req.PatronID,
		"item_id":          req.ItemID,
		"title_id":         res.TitleID,
		"due_date":         timeValue(res.DueDate),
	})
	a.addCirculationExtras(resp, res)
	return resp, nil
}

// addCirculationExtras appends the optional tail shared by the checkout and
// renew responses.
func (a *baseAction) addCirculationExtras(resp *sip2.Message, res *CirculationResult) {
	a.optional(resp, "fee_type", res.FeeType)
	a.optional(resp, "currency_type", res.CurrencyType)
	a.optional(resp, "fee_amount", res.FeeAmount)
	if res.MediaType != "" {
		a.optional(resp, "media_type", sip2.MediaType(res.MediaType))
	}
	a.optional(resp, "item_properties", res.Properties)
	a.optional(resp, "transaction_id", res.TransactionID)
	a.optionalList(resp, "screen_messages", res.ScreenMessages)
	a.optionalList(resp, "print_line", res.PrintLine)
}

// checkinAction returns an item (09).
type checkinAction struct {
	baseAction
}

func (a *checkinAction) Execute(ctx context.Context, msg *sip2.Message, client *store.Client) (*sip2.Message, error) {
	if a.handlers.Checkin == nil {
		return nil, nil
	}

	req := a.circulationRequest(msg, client)
	res, err := a.circulate(ctx, "checkin", a.handlers.Checkin, req)
	if err != nil {
		return nil, err
	}

	location := res.PermanentLocation
	if location == "" {
		location = varVal(msg, "current_location")
	}

	resp := a.newResponse(map[string]any{
		"ok":                 res.OK,
		"resensitize":        res.Resensitize,
		"magnetic_media":     magneticMedia(res.MagneticMedia),
		"alert":              res.Alert,
		"transaction_date":   a.cfg.now(),
		"institution_id":     req.InstitutionID,
		"item_id":            req.ItemID,
		"permanent_location": location,
	})
	a.optional(resp, "title_id", res.TitleID)
	a.optional(resp, "sort_bin", res.SortBin)
	a.optional(resp, "patron_id", res.PatronID)
	if res.MediaType != "" {
		a.optional(resp, "media_type", sip2.MediaType(res.MediaType))
	}
	a.optional(resp, "item_properties", res.Properties)
	a.optionalList(resp, "screen_messages", res.ScreenMessages)
	a.optionalList(resp, "print_line", res.PrintLine)
	return resp, nil
}

// holdAction places, modifies or cancels a hold (15), depending on the mode
// character.
type holdAction struct {
	baseAction
}

func (a *holdAction) Execute(ctx context.Context, msg *sip2.Message, client *store.Client) (*sip2.Message, error) {
	if a.handlers.Hold == nil {
		return nil, nil
	}

	req := a.circulationRequest(msg, client)
	req.HoldMode = fixedVal(msg, "hold_mode")
	req.PickupLocation = varVal(msg, "pickup_location")

	res, err := a.circulate(ctx, "hold", a.handlers.Hold, req)
	if err != nil {
		return nil, err
	}

	resp := a.newResponse(map[string]any{
		"ok":               res.OK,
		"available":        res.Available,
		"transaction_date": a.cfg.now(),
		"institution_id":   req.InstitutionID,
		"patron_id":        req.PatronID,
	})
	a.optional(resp, "expiration_date", timeValue(res.ExpirationDate))
	a.optional(resp, "queue_position", intValue(res.QueuePosition))
	a.optional(resp, "pickup_location", res.PickupLocation)
	a.optional(resp, "item_id", res.ItemID)
	a.optional(resp, "title_id", res.TitleID)
	a.optionalList(resp, "screen_messages", res.ScreenMessages)
	a.optionalList(resp, "print_line", res.PrintLine)
	return resp, nil
}

// renewAllAction renews every charged item of a patron (65).
type renewAllAction struct {
	baseAction
}

func (a *renewAllAction) Execute(ctx context.Context, msg *sip2.Message, client *store.Client) (*sip2.Message, error) {
	if a.handlers.RenewAll == nil {
		return nil, nil
	}

	inst := institution(msg, client)
	res, err := a.handlers.RenewAll(ctx, varVal(msg, "patron_id"), inst)
	if err != nil {
		var cerr *CirculationError
		if !errors.As(err, &cerr) {
			return nil, err
		}
		a.logger.Warn("renew all refused", "patron", varVal(msg, "patron_id"), "reason", err)
		res = &RenewAllResult{}
	}
	if res == nil {
		res = &RenewAllResult{}
	}

	resp := a.newResponse(map[string]any{
		"ok":               res.OK,
		"renewed_count":    len(res.RenewedItems),
		"unrenewed_count":  len(res.UnrenewedItems),
		"transaction_date": a.cfg.now(),
		"institution_id":   inst,
	})
	a.optionalList(resp, "renewed_items", res.RenewedItems)
	a.optionalList(resp, "unrenewed_items", res.UnrenewedItems)
	a.optionalList(resp, "screen_messages", res.ScreenMessages)
	a.optionalList(resp, "print_line", res.PrintLine)
	return resp, nil
}
