package acs

import (
	"context"

	"github.com/libstack/go-sip2/sip2"
	"github.com/libstack/go-sip2/store"
)

// loginAction authenticates the self-check terminal and merges the returned
// profile into the client session. It is one of the two actions reachable
// before authentication.
type loginAction struct {
	baseAction
}

func (a *loginAction) Execute(ctx context.Context, msg *sip2.Message, client *store.Client) (*sip2.Message, error) {
	uid := varVal(msg, "login_uid")
	location := varVal(msg, "location_code")

	profile, err := a.handlers.Login(ctx, uid, varVal(msg, "login_pwd"), client.IP)
	if err != nil {
		return nil, err
	}

	if profile == nil {
		a.logger.Warn("login rejected", "uid", uid, "ip", client.IP)
	} else {
		client.Authenticated = true
		client.UserID = profile.UserID
		client.InstitutionID = profile.InstitutionID
		client.LibraryName = profile.LibraryName
		client.LibraryLanguage = profile.LibraryLanguage
		if location != "" {
			client.Terminal = location
		}
		a.logger.Info("terminal logged in",
			"uid", uid, "institution", client.InstitutionID, "terminal", client.TerminalLabel())
	}

	return a.newResponse(map[string]any{"ok": client.Authenticated}), nil
}

// statusAction answers the SC status poll with the capability set, the
// supported message bitmap and the current clock for date/time sync.
type statusAction struct {
	baseAction
}

func (a *statusAction) Execute(ctx context.Context, msg *sip2.Message, client *store.Client) (*sip2.Message, error) {
	var info *StatusInfo
	if a.handlers.SystemStatus != nil {
		status := SCStatus{
			StatusCode:      fixedVal(msg, "status_code"),
			MaxPrintWidth:   fixedVal(msg, "max_print_width"),
			ProtocolVersion: fixedVal(msg, "protocol_version"),
			Terminal:        client.TerminalLabel(),
		}
		var err error
		info, err = a.handlers.SystemStatus(ctx, status, client.InstitutionID)
		if err != nil {
			return nil, err
		}
	}

	resp := a.newResponse(map[string]any{
		"online_status":      a.cfg.OnlineStatus,
		"checkin_ok":         a.cfg.CheckinOK && a.handlers.Checkin != nil,
		"checkout_ok":        a.cfg.CheckoutOK && a.handlers.Checkout != nil,
		"acs_renewal_policy": a.cfg.RenewalPolicy && a.handlers.Renew != nil,
		"status_update_ok":   false,
		"offline_ok":         a.cfg.OfflineOK,
		"timeout_period":     a.cfg.TimeoutPeriod,
		"retries_allowed":    a.cfg.RetriesAllowed,
		"date_time_sync":     a.cfg.now(),
		"protocol_version":   a.cfg.ProtocolVersion,
		"institution_id":     client.InstitutionID,
		"supported_messages": a.cfg.SupportedMessages(a.handlers),
	})
	a.optional(resp, "library_name", client.LibraryName)
	a.optional(resp, "terminal_location", client.Terminal)
	if info != nil {
		a.optionalList(resp, "screen_messages", info.ScreenMessages)
		a.optionalList(resp, "print_line", info.PrintLine)
	}
	return resp, nil
}

// resendAction replays the last response sent to this client, verbatim and
// without sequence bookkeeping. With nothing to replay it stays silent.
type resendAction struct {
	baseAction
}

func (a *resendAction) Execute(_ context.Context, _ *sip2.Message, client *store.Client) (*sip2.Message, error) {
	if client.LastResponse == "" {
		a.logger.Warn("resend requested but no response stored", "client", client.TerminalLabel())
		return nil, nil
	}
	return sip2.RawMessage(client.LastResponse), nil
}
