package acs

import (
	"context"

	"github.com/libstack/go-sip2/sip2"
	"github.com/libstack/go-sip2/store"
)

// itemInformationAction answers an item information request (17). The lookup
// runs in the language context of the open patron session when there is one.
type itemInformationAction struct {
	baseAction
}

func (a *itemInformationAction) Execute(ctx context.Context, msg *sip2.Message, client *store.Client) (*sip2.Message, error) {
	if a.handlers.ItemInformation == nil {
		return nil, nil
	}

	itemID := varVal(msg, "item_id")
	item, err := a.handlers.ItemInformation(ctx, itemID, client.TerminalLabel(), a.sessionLanguage(client), institution(msg, client))
	if err != nil {
		return nil, err
	}

	if item == nil {
		return a.newResponse(map[string]any{
			"circulation_status": sip2.CirculationStatusUnknown,
			"security_marker":    a.cfg.DefaultSecurityMarker,
			"transaction_date":   a.cfg.now(),
			"item_id":            itemID,
		}), nil
	}

	resp := a.newResponse(map[string]any{
		"circulation_status": sip2.CirculationStatus(item.CirculationStatus),
		"security_marker":    sip2.SecurityMarker(item.SecurityMarker, a.cfg.DefaultSecurityMarker),
		"fee_type":           item.FeeType,
		"transaction_date":   a.cfg.now(),
		"item_id":            item.ItemID,
		"title_id":           item.TitleID,
	})
	a.optional(resp, "hold_queue_length", intValue(item.HoldQueueLength))
	a.optional(resp, "due_date", timeValue(item.DueDate))
	a.optional(resp, "recall_date", timeValue(item.RecallDate))
	a.optional(resp, "hold_pickup_date", timeValue(item.HoldPickupDate))
	a.optional(resp, "owner", item.Owner)
	a.optional(resp, "currency_type", item.CurrencyType)
	a.optional(resp, "fee_amount", item.FeeAmount)
	if item.MediaType != "" {
		a.optional(resp, "media_type", sip2.MediaType(item.MediaType))
	}
	a.optional(resp, "permanent_location", item.PermanentLocation)
	a.optional(resp, "current_location", item.CurrentLocation)
	a.optional(resp, "item_properties", item.Properties)
	a.optionalList(resp, "screen_messages", item.ScreenMessages)
	a.optionalList(resp, "print_line", item.PrintLine)
	return resp, nil
}
