// Package demo provides a self-contained in-memory library backend that
// implements the remote handler set. The sip2d daemon serves it when no real
// library system is wired in, and integration tests drive full exchanges
// against it.
package demo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/libstack/go-sip2/acs"
	"github.com/libstack/go-sip2/sip2"
)

// Account is one terminal login.
type Account struct {
	Login           string
	Password        string
	InstitutionID   string
	LibraryName     string
	LibraryLanguage string
}

// Patron is one library patron.
type Patron struct {
	ID       string
	Name     string
	Password string
	Language string
	Status   sip2.PatronStatus
	Fines    []string
}

// Item is one circulating item.
type Item struct {
	ID       string
	Title    string
	Location string
	Media    string
}

type loan struct {
	patronID string
	due      time.Time
	renewals int
}

// Library is an in-memory circulation backend. All methods are safe for
// concurrent use.
type Library struct {
	mu       sync.Mutex
	accounts map[string]*Account
	patrons  map[string]*Patron
	items    map[string]*Item
	loans    map[string]*loan // item id -> loan
	holds    map[string][]string
	now      func() time.Time
}

// NewLibrary creates an empty Library.
func NewLibrary() *Library {
	return &Library{
		accounts: make(map[string]*Account),
		patrons:  make(map[string]*Patron),
		items:    make(map[string]*Item),
		loans:    make(map[string]*loan),
		holds:    make(map[string][]string),
		now:      time.Now,
	}
}

// NewSeededLibrary creates a Library with a terminal account, two patrons
// and a small collection, enough to drive every exchange.
func NewSeededLibrary() *Library {
	l := NewLibrary()
	l.AddAccount(&Account{
		Login:           "selfcheck",
		Password:        "selfcheck",
		InstitutionID:   "demo",
		LibraryName:     "Demo Library",
		LibraryLanguage: "eng",
	})
	l.AddPatron(&Patron{ID: "patron1", Name: "Ada Lovelace", Password: "secret", Language: "eng"})
	l.AddPatron(&Patron{ID: "patron2", Name: "Alan Turing", Password: "secret", Language: "fre"})
	l.AddItem(&Item{ID: "item1", Title: "Structure and Interpretation of Computer Programs", Location: "main", Media: "book"})
	l.AddItem(&Item{ID: "item2", Title: "The Go Programming Language", Location: "main", Media: "book"})
	l.AddItem(&Item{ID: "item3", Title: "TAOCP Volume 1", Location: "annex", Media: "book"})

	return l
}

// SetClock overrides the time source, for deterministic tests.
func (l *Library) SetClock(now func() time.Time) { l.now = now }

func (l *Library) AddAccount(a *Account) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts[a.Login] = a
}

func (l *Library) AddPatron(p *Patron) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.patrons[p.ID] = p
}

func (l *Library) AddItem(i *Item) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items[i.ID] = i
}

// Handlers returns the remote handler set backed by this library.
func (l *Library) Handlers() *acs.RemoteHandlers {
	return &acs.RemoteHandlers{
		Login:           l.login,
		ValidatePatron:  l.validatePatron,
		AuthorizePatron: l.authorizePatron,
		EnablePatron:    l.enablePatron,
		PatronStatus:    l.patronStatus,
		PatronAccount:   l.patronAccount,
		ItemInformation: l.itemInformation,
		Checkout:        l.checkout,
		Checkin:         l.checkin,
		Hold:            l.hold,
		Renew:           l.renew,
		FeePaid:         l.feePaid,
		RenewAll:        l.renewAll,
	}
}

func (l *Library) login(_ context.Context, login, password, _ string) (*acs.LoginProfile, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	account, ok := l.accounts[login]
	if !ok || account.Password != password {
		return nil, nil
	}

	return &acs.LoginProfile{
		UserID:          account.Login,
		InstitutionID:   account.InstitutionID,
		LibraryName:     account.LibraryName,
		LibraryLanguage: account.LibraryLanguage,
	}, nil
}

func (l *Library) validatePatron(_ context.Context, patronID, _ string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.patrons[patronID]

	return ok, nil
}

func (l *Library) authorizePatron(_ context.Context, patronID, password, _ string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	patron, ok := l.patrons[patronID]

	return ok && patron.Password == password, nil
}

func (l *Library) enablePatron(_ context.Context, patronID, _ string) (*acs.PatronProfile, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	patron, ok := l.patrons[patronID]
	if !ok {
		return nil, nil
	}
	patron.Status = 0

	return l.profileLocked(patron), nil
}

func (l *Library) patronStatus(_ context.Context, patronID, _ string) (*acs.PatronProfile, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	patron, ok := l.patrons[patronID]
	if !ok {
		return nil, nil
	}

	return l.profileLocked(patron), nil
}

func (l *Library) profileLocked(patron *Patron) *acs.PatronProfile {
	return &acs.PatronProfile{
		PatronID:   patron.ID,
		PatronName: patron.Name,
		Status:     patron.Status,
		Language:   patron.Language,
	}
}

func (l *Library) patronAccount(_ context.Context, patronID, _ string) (*acs.PatronAccount, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	patron, ok := l.patrons[patronID]
	if !ok {
		return nil, nil
	}

	account := &acs.PatronAccount{
		PatronID:   patron.ID,
		PatronName: patron.Name,
		Status:     patron.Status,
		Language:   patron.Language,
		FineItems:  patron.Fines,
	}
	now := l.now()
	for itemID, loan := range l.loans {
		if loan.patronID != patron.ID {
			continue
		}
		account.ChargedItems = append(account.ChargedItems, itemID)
		if loan.due.Before(now) {
			account.OverdueItems = append(account.OverdueItems, itemID)
		}
	}
	for itemID, patrons := range l.holds {
		for _, id := range patrons {
			if id == patron.ID {
				account.HoldItems = append(account.HoldItems, itemID)
			}
		}
	}

	return account, nil
}

func (l *Library) itemInformation(_ context.Context, itemID, _, _, _ string) (*acs.Item, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	item, ok := l.items[itemID]
	if !ok {
		return nil, nil
	}

	info := &acs.Item{
		ItemID:            item.ID,
		TitleID:           item.Title,
		CirculationStatus: "available",
		MediaType:         item.Media,
		PermanentLocation: item.Location,
		CurrentLocation:   item.Location,
	}
	if loan, ok := l.loans[item.ID]; ok {
		info.CirculationStatus = "charged"
		due := loan.due
		info.DueDate = &due
	}
	if queue := len(l.holds[item.ID]); queue > 0 {
		info.HoldQueueLength = &queue
	}

	return info, nil
}

func (l *Library) checkout(_ context.Context, req acs.CirculationRequest) (*acs.CirculationResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	item, err := l.circulable(req, "checkout")
	if err != nil {
		return nil, err
	}

	if loan, ok := l.loans[item.ID]; ok {
		return nil, &acs.CirculationError{
			Op:       "checkout",
			Fallback: l.fallbackLocked(req, item),
			Err:      fmt.Errorf("item %s already charged to %s", item.ID, loan.patronID),
		}
	}

	due := l.now().AddDate(0, 0, 28)
	l.loans[item.ID] = &loan{patronID: req.PatronID, due: due}

	return &acs.CirculationResult{
		OK:          true,
		RenewalOK:   false,
		Desensitize: true,
		PatronID:    req.PatronID,
		ItemID:      item.ID,
		TitleID:     item.Title,
		DueDate:     &due,
		MediaType:   item.Media,
	}, nil
}

func (l *Library) checkin(_ context.Context, req acs.CirculationRequest) (*acs.CirculationResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	item, err := l.circulable(req, "checkin")
	if err != nil {
		return nil, err
	}

	loan, ok := l.loans[item.ID]
	if !ok {
		return nil, &acs.CirculationError{
			Op:       "checkin",
			Fallback: l.fallbackLocked(req, item),
			Err:      fmt.Errorf("item %s is not charged", item.ID),
		}
	}
	delete(l.loans, item.ID)

	return &acs.CirculationResult{
		OK:                true,
		Resensitize:       true,
		Alert:             len(l.holds[item.ID]) > 0,
		PatronID:          loan.patronID,
		ItemID:            item.ID,
		TitleID:           item.Title,
		PermanentLocation: item.Location,
		MediaType:         item.Media,
	}, nil
}

func (l *Library) renew(_ context.Context, req acs.CirculationRequest) (*acs.CirculationResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	item, err := l.circulable(req, "renew")
	if err != nil {
		return nil, err
	}

	loan, ok := l.loans[item.ID]
	if !ok || loan.patronID != req.PatronID {
		return nil, &acs.CirculationError{
			Op:       "renew",
			Fallback: l.fallbackLocked(req, item),
			Err:      fmt.Errorf("item %s is not charged to patron %s", item.ID, req.PatronID),
		}
	}

	loan.due = loan.due.AddDate(0, 0, 28)
	loan.renewals++
	due := loan.due

	return &acs.CirculationResult{
		OK:        true,
		RenewalOK: true,
		PatronID:  req.PatronID,
		ItemID:    item.ID,
		TitleID:   item.Title,
		DueDate:   &due,
		MediaType: item.Media,
	}, nil
}

func (l *Library) hold(_ context.Context, req acs.CirculationRequest) (*acs.CirculationResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	item, err := l.circulable(req, "hold")
	if err != nil {
		return nil, err
	}

	switch req.HoldMode {
	case "-":
		queue := l.holds[item.ID]
		for i, id := range queue {
			if id == req.PatronID {
				l.holds[item.ID] = append(queue[:i], queue[i+1:]...)
				break
			}
		}
	default: // "+" and mode-less requests place a hold
		l.holds[item.ID] = append(l.holds[item.ID], req.PatronID)
	}

	_, available := l.loans[item.ID]
	position := len(l.holds[item.ID])

	return &acs.CirculationResult{
		OK:             true,
		Available:      !available,
		PatronID:       req.PatronID,
		ItemID:         item.ID,
		TitleID:        item.Title,
		PickupLocation: req.PickupLocation,
		QueuePosition:  &position,
	}, nil
}

func (l *Library) renewAll(_ context.Context, patronID, _ string) (*acs.RenewAllResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.patrons[patronID]; !ok {
		return &acs.RenewAllResult{}, nil
	}

	result := &acs.RenewAllResult{OK: true}
	for itemID, loan := range l.loans {
		if loan.patronID != patronID {
			continue
		}
		loan.due = loan.due.AddDate(0, 0, 28)
		loan.renewals++
		result.RenewedItems = append(result.RenewedItems, itemID)
	}

	return result, nil
}

func (l *Library) feePaid(_ context.Context, req acs.FeePaidRequest) (*acs.FeePaidResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	patron, ok := l.patrons[req.PatronID]
	if !ok {
		return &acs.FeePaidResult{}, nil
	}
	patron.Fines = nil

	return &acs.FeePaidResult{
		Accepted:      true,
		TransactionID: req.TransactionID,
	}, nil
}

// circulable resolves the item of a circulation request, failing with a
// typed circulation error when the patron or item is unknown.
func (l *Library) circulable(req acs.CirculationRequest, op string) (*Item, error) {
	if _, ok := l.patrons[req.PatronID]; !ok && req.PatronID != "" {
		return nil, &acs.CirculationError{
			Op:       op,
			Fallback: &acs.CirculationResult{PatronID: req.PatronID, ItemID: req.ItemID},
			Err:      errors.New("unknown patron " + req.PatronID),
		}
	}

	item, ok := l.items[req.ItemID]
	if !ok {
		return nil, &acs.CirculationError{
			Op:       op,
			Fallback: &acs.CirculationResult{PatronID: req.PatronID, ItemID: req.ItemID},
			Err:      errors.New("unknown item " + req.ItemID),
		}
	}

	return item, nil
}

func (l *Library) fallbackLocked(req acs.CirculationRequest, item *Item) *acs.CirculationResult {
	return &acs.CirculationResult{
		PatronID: req.PatronID,
		ItemID:   item.ID,
		TitleID:  item.Title,
	}
}
