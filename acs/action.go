package acs

import (
	"context"
	"errors"
	"time"

	"github.com/libstack/go-sip2/logger"
	"github.com/libstack/go-sip2/sip2"
	"github.com/libstack/go-sip2/store"
)

// Action handles one inbound command. Execute may mutate the client session
// record; the caller persists it after the exchange. A nil response with a
// nil error means the action intentionally stays silent.
type Action interface {
	Command() string
	RequiresAuth() bool
	Execute(ctx context.Context, msg *sip2.Message, client *store.Client) (*sip2.Message, error)
}

// baseAction carries the shared wiring of every concrete action: its command
// code, the response message type, protocol config and the remote handlers.
type baseAction struct {
	command  string
	auth     bool
	response *sip2.MessageType
	cfg      *Config
	handlers *RemoteHandlers
	logger   logger.Logger
}

func (a *baseAction) Command() string { return a.command }

func (a *baseAction) RequiresAuth() bool { return a.auth }

// newResponse assembles the response skeleton: every fixed field in wire
// order and every required variable field, taken from the values map. A
// missing entry renders as an empty (space padded) value.
func (a *baseAction) newResponse(values map[string]any) *sip2.Message {
	msg := sip2.NewMessage(a.response)
	for _, f := range a.response.Fixed {
		v, ok := values[f.Name]
		if !ok {
			v = ""
		}
		msg.AddFixed(f, v)
	}
	for _, f := range a.response.Required {
		v, ok := values[f.Name]
		if !ok {
			v = ""
		}
		msg.AddVar(f, v)
	}
	return msg
}

// optional appends a named optional field when the value is non-empty.
func (a *baseAction) optional(msg *sip2.Message, name string, v any) {
	f := a.optionalField(name)
	if f == nil || v == nil {
		return
	}
	if s, ok := v.(string); ok && s == "" {
		return
	}
	msg.AddVar(f, v)
}

// optionalList appends one instance of a repeatable optional field per value.
func (a *baseAction) optionalList(msg *sip2.Message, name string, values []string) {
	f := a.optionalField(name)
	if f == nil {
		return
	}
	for _, v := range values {
		msg.AddVar(f, v)
	}
}

func (a *baseAction) optionalField(name string) *sip2.VarField {
	for _, f := range a.response.Optional {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// circulate runs one circulation handler. A CirculationError with a fallback
// payload downgrades to a negative result so the terminal still gets a
// response; every other error propagates and aborts the exchange.
func (a *baseAction) circulate(ctx context.Context, op string, fn CirculationFunc, req CirculationRequest) (*CirculationResult, error) {
	res, err := fn(ctx, req)
	if err != nil {
		var cerr *CirculationError
		if errors.As(err, &cerr) && cerr.Fallback != nil {
			a.logger.Warn("circulation refused, answering with fallback",
				"op", op, "patron", req.PatronID, "item", req.ItemID, "reason", err)
			return cerr.Fallback, nil
		}
		return nil, err
	}
	if res == nil {
		res = &CirculationResult{}
	}
	return res, nil
}

// sessionLanguage resolves the language context of the exchange: the open
// patron session wins, then the terminal profile, then the configured
// default.
func (a *baseAction) sessionLanguage(client *store.Client) string {
	if client.PatronSession != nil && client.PatronSession.Language != "" {
		return client.PatronSession.Language
	}
	if client.LibraryLanguage != "" {
		return client.LibraryLanguage
	}
	return a.cfg.DefaultLanguage
}

func fixedVal(msg *sip2.Message, name string) string {
	v, _ := msg.FixedValue(name)
	return v
}

func varVal(msg *sip2.Message, name string) string {
	v, _ := msg.VarValue(name)
	return v
}

// institution returns the request's institution id, falling back to the one
// bound at login.
func institution(msg *sip2.Message, client *store.Client) string {
	if v, ok := msg.VarValue("institution_id"); ok && v != "" {
		return v
	}
	return client.InstitutionID
}

// timeValue unwraps an optional timestamp for a date field; nil renders
// empty instead of the zero time.
func timeValue(t *time.Time) any {
	if t == nil {
		return ""
	}
	return *t
}

// intValue unwraps an optional count.
func intValue(n *int) any {
	if n == nil {
		return ""
	}
	return *n
}
