package acs

import (
	"context"
	"fmt"

	"github.com/libstack/go-sip2/logger"
	"github.com/libstack/go-sip2/sip2"
	"github.com/libstack/go-sip2/store"
)

// SuppressReason explains why an exchange produced no response.
type SuppressReason string

const (
	SuppressUnauthenticated SuppressReason = "unauthenticated"
	SuppressUnknownCommand  SuppressReason = "unknown_command"
	SuppressNotImplemented  SuppressReason = "not_implemented"
)

// Result is the tagged outcome of one dispatch: either a response message or
// an explicit suppression reason. A suppressed exchange keeps the connection
// open but sends nothing back.
type Result struct {
	Response   *sip2.Message
	Suppressed SuppressReason
}

// Responded reports whether the exchange produced a response to send.
func (r Result) Responded() bool { return r.Response != nil }

// stubAction answers commands the server recognizes but does not implement.
type stubAction struct {
	baseAction
}

func (a *stubAction) Execute(context.Context, *sip2.Message, *store.Client) (*sip2.Message, error) {
	return nil, nil
}

// Dispatcher routes inbound commands to their actions and enforces the
// authentication gate. Only login and resend requests are reachable before
// the terminal has logged in.
type Dispatcher struct {
	actions map[string]Action
	logger  logger.Logger
}

// NewDispatcher builds the action set for the given catalog, configuration
// and remote handlers. The Login handler is mandatory.
func NewDispatcher(catalog *sip2.Catalog, cfg *Config, handlers *RemoteHandlers, log logger.Logger) (*Dispatcher, error) {
	if err := handlers.Validate(); err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = logger.GetLogger()
	}

	base := func(cmd, respCmd string, auth bool) (baseAction, error) {
		var respType *sip2.MessageType
		if respCmd != "" {
			var err error
			respType, err = catalog.GetByCommand(respCmd)
			if err != nil {
				return baseAction{}, fmt.Errorf("response type for command %s: %w", cmd, err)
			}
		}
		return baseAction{
			command:  cmd,
			auth:     auth,
			response: respType,
			cfg:      cfg,
			handlers: handlers,
			logger:   log.With("action", cmd),
		}, nil
	}

	specs := []struct {
		cmd, resp string
		auth      bool
		wrap      func(baseAction) Action
	}{
		{sip2.CmdLogin, sip2.CmdLoginResp, false, func(b baseAction) Action { return &loginAction{b} }},
		{sip2.CmdRequestACSResend, "", false, func(b baseAction) Action { return &resendAction{b} }},
		{sip2.CmdSCStatus, sip2.CmdACSStatus, true, func(b baseAction) Action { return &statusAction{b} }},
		{sip2.CmdPatronStatus, sip2.CmdPatronStatusResp, true, func(b baseAction) Action { return &patronStatusAction{b} }},
		{sip2.CmdPatronEnable, sip2.CmdPatronEnableResp, true, func(b baseAction) Action { return &patronEnableAction{b} }},
		{sip2.CmdPatronInformation, sip2.CmdPatronInformationResp, true, func(b baseAction) Action { return &patronInformationAction{b} }},
		{sip2.CmdEndPatronSession, sip2.CmdEndSessionResp, true, func(b baseAction) Action { return &endSessionAction{b} }},
		{sip2.CmdItemInformation, sip2.CmdItemInformationResp, true, func(b baseAction) Action { return &itemInformationAction{b} }},
		{sip2.CmdCheckout, sip2.CmdCheckoutResp, true, func(b baseAction) Action { return &checkoutAction{b} }},
		{sip2.CmdCheckin, sip2.CmdCheckinResp, true, func(b baseAction) Action { return &checkinAction{b} }},
		{sip2.CmdHold, sip2.CmdHoldResp, true, func(b baseAction) Action { return &holdAction{b} }},
		{sip2.CmdRenew, sip2.CmdRenewResp, true, func(b baseAction) Action { return &renewAction{b} }},
		{sip2.CmdRenewAll, sip2.CmdRenewAllResp, true, func(b baseAction) Action { return &renewAllAction{b} }},
		{sip2.CmdFeePaid, sip2.CmdFeePaidResp, true, func(b baseAction) Action { return &feePaidAction{b} }},
		{sip2.CmdBlockPatron, "", true, func(b baseAction) Action { return &stubAction{b} }},
		{sip2.CmdItemStatusUpdate, "", true, func(b baseAction) Action { return &stubAction{b} }},
	}

	actions := make(map[string]Action, len(specs))
	for _, s := range specs {
		b, err := base(s.cmd, s.resp, s.auth)
		if err != nil {
			return nil, err
		}
		actions[s.cmd] = s.wrap(b)
	}

	return &Dispatcher{actions: actions, logger: log}, nil
}

// Supports reports whether the command code has an action bound.
func (d *Dispatcher) Supports(cmd string) bool {
	_, ok := d.actions[cmd]
	return ok
}

// Execute routes the message to its action. It may mutate the client session
// record; the caller persists it. An error aborts the exchange and the caller
// is expected to drop the connection.
func (d *Dispatcher) Execute(ctx context.Context, msg *sip2.Message, client *store.Client) (Result, error) {
	action, ok := d.actions[msg.Command()]
	if !ok {
		d.logger.Warn("unsupported command", "command", msg.Command(), "client", client.TerminalLabel())
		return Result{Suppressed: SuppressUnknownCommand}, nil
	}

	if action.RequiresAuth() && !client.Authenticated {
		d.logger.Warn("request before login dropped", "command", msg.Command(), "client", client.TerminalLabel())
		return Result{Suppressed: SuppressUnauthenticated}, nil
	}

	resp, err := action.Execute(ctx, msg, client)
	if err != nil {
		return Result{}, fmt.Errorf("command %s: %w", msg.Command(), err)
	}
	if resp == nil {
		return Result{Suppressed: SuppressNotImplemented}, nil
	}

	// replayed raw responses keep their original trailer untouched
	if resp.Text() == "" && msg.SequenceNumber() >= 0 {
		resp.SetSequenceNumber(msg.SequenceNumber())
	}
	return Result{Response: resp}, nil
}
