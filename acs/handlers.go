package acs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/libstack/go-sip2/sip2"
)

// LoginProfile is returned by a successful terminal login. Its fields are
// merged into the client session.
type LoginProfile struct {
	UserID          string
	InstitutionID   string
	LibraryName     string
	LibraryLanguage string // ISO 639-2 name, e.g. "eng"
}

// SCStatus carries the self-check terminal's status request payload.
type SCStatus struct {
	StatusCode      string
	MaxPrintWidth   string
	ProtocolVersion string
	Terminal        string
}

// StatusInfo is the optional payload a remote system attaches to the ACS
// status response.
type StatusInfo struct {
	ScreenMessages []string
	PrintLine      []string
}

// PatronProfile is returned by patron enable and patron status handlers.
type PatronProfile struct {
	PatronID       string
	PatronName     string
	Status         sip2.PatronStatus
	Language       string // ISO 639-2 name
	CurrencyType   string
	FeeAmount      string
	ScreenMessages []string
	PrintLine      []string
}

// PatronAccount is the full account snapshot behind a patron information
// response. The item lists hold pre-rendered identifiers or titles.
type PatronAccount struct {
	PatronID   string
	PatronName string
	Status     sip2.PatronStatus
	Language   string // ISO 639-2 name

	HoldItems            []string
	OverdueItems         []string
	ChargedItems         []string
	FineItems            []string
	RecallItems          []string
	UnavailableHoldItems []string

	HoldItemsLimit    *int
	OverdueItemsLimit *int
	ChargedItemsLimit *int

	CurrencyType string
	FeeAmount    string
	FeeLimit     string

	HomeAddress     string
	Email           string
	HomePhone       string
	BirthDate       string
	PatronClass     string
	ExpirationDate  *time.Time
	InternetProfile string

	ScreenMessages []string
	PrintLine      []string
}

// Item is the payload behind an item information response.
type Item struct {
	ItemID            string
	TitleID           string
	CirculationStatus string // symbolic name or 2-digit code
	SecurityMarker    string // symbolic name or 2-digit code
	FeeType           string
	MediaType         string // symbolic name or 3-digit code
	Owner             string

	DueDate        *time.Time
	RecallDate     *time.Time
	HoldPickupDate *time.Time

	HoldQueueLength   *int
	CurrencyType      string
	FeeAmount         string
	PermanentLocation string
	CurrentLocation   string
	Properties        string

	ScreenMessages []string
	PrintLine      []string
}

// CirculationRequest is the input to checkout, checkin, hold and renew
// handlers.
type CirculationRequest struct {
	UserID        string // transaction user bound to the terminal session
	PatronID      string
	ItemID        string
	InstitutionID string
	Terminal      string
	Language      string

	// HoldMode is the +, - or * mode character of a hold request.
	HoldMode        string
	PickupLocation  string
	NoBlock         bool
	FeeAcknowledged bool
}

// CirculationResult is the outcome of a circulation handler. Fields that a
// particular response type does not use are ignored during assembly.
type CirculationResult struct {
	OK        bool
	RenewalOK bool

	PatronID      string
	ItemID        string
	TitleID       string
	InstitutionID string

	DueDate        *time.Time
	ExpirationDate *time.Time

	MagneticMedia string // Y, N or U
	Desensitize   bool
	Resensitize   bool
	Alert         bool
	Available     bool

	PermanentLocation string
	SortBin           string
	PickupLocation    string
	QueuePosition     *int

	FeeType       string
	CurrencyType  string
	FeeAmount     string
	MediaType     string
	TransactionID string
	Properties    string

	ScreenMessages []string
	PrintLine      []string
}

// FeePaidRequest is the input to the fee paid handler.
type FeePaidRequest struct {
	PatronID      string
	InstitutionID string
	FeeType       string
	PaymentType   string
	CurrencyType  string
	FeeAmount     string
	FeeIdentifier string
	TransactionID string
}

// FeePaidResult is the outcome of the fee paid handler.
type FeePaidResult struct {
	Accepted       bool
	TransactionID  string
	ScreenMessages []string
	PrintLine      []string
}

// RenewAllResult is the outcome of the renew all handler.
type RenewAllResult struct {
	OK             bool
	RenewedItems   []string
	UnrenewedItems []string
	ScreenMessages []string
	PrintLine      []string
}

// CirculationFunc executes one circulation operation. A handler signals a
// business-level refusal by returning a *CirculationError whose Fallback
// payload is used to build a best-effort negative response; any other error
// aborts the exchange and closes the connection.
type CirculationFunc func(ctx context.Context, req CirculationRequest) (*CirculationResult, error)

// RemoteHandlers is the typed capability set of one remote library system.
// Login is mandatory; every other handler is optional and its absence makes
// the corresponding action respond negatively or stay silent.
type RemoteHandlers struct {
	Login           func(ctx context.Context, login, password, terminalIP string) (*LoginProfile, error)
	SystemStatus    func(ctx context.Context, status SCStatus, institutionID string) (*StatusInfo, error)
	ValidatePatron  func(ctx context.Context, patronID, institutionID string) (bool, error)
	AuthorizePatron func(ctx context.Context, patronID, password, institutionID string) (bool, error)
	EnablePatron    func(ctx context.Context, patronID, institutionID string) (*PatronProfile, error)
	PatronStatus    func(ctx context.Context, patronID, institutionID string) (*PatronProfile, error)
	PatronAccount   func(ctx context.Context, patronID, institutionID string) (*PatronAccount, error)
	ItemInformation func(ctx context.Context, itemID, terminal, language, institutionID string) (*Item, error)

	Checkout CirculationFunc
	Checkin  CirculationFunc
	Hold     CirculationFunc
	Renew    CirculationFunc

	FeePaid  func(ctx context.Context, req FeePaidRequest) (*FeePaidResult, error)
	RenewAll func(ctx context.Context, patronID, institutionID string) (*RenewAllResult, error)
}

// Validate checks that the mandatory handlers are bound.
func (h *RemoteHandlers) Validate() error {
	if h == nil {
		return errors.New("remote handlers are nil")
	}
	if h.Login == nil {
		return errors.New("remote handlers: Login is required")
	}
	return nil
}

// CirculationError signals a circulation-level refusal (item not available,
// patron blocked, ...) as opposed to a transport or programming error. The
// attached Fallback payload completes the exchange with a negative response
// instead of dropping the connection.
type CirculationError struct {
	Op       string
	Fallback *CirculationResult
	Err      error
}

func (e *CirculationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("circulation %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("circulation %s failed", e.Op)
}

func (e *CirculationError) Unwrap() error { return e.Err }
