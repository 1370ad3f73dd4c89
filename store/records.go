package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Record type prefixes used in KV keys.
const (
	ServerRecordType = "server"
	ClientRecordType = "client"
)

// Server status values.
const (
	StatusRunning = "running"
	StatusDown    = "down"
)

// Server is the persistent record of one listening SIP2 server.
type Server struct {
	ID        string     `json:"id"`
	Name      string     `json:"server_name"`
	Host      string     `json:"host"`
	Port      int        `json:"port"`
	RemoteApp string     `json:"remote_app"`
	Status    string     `json:"status"`
	ProcessID int        `json:"process_id,omitempty"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	StoppedAt *time.Time `json:"stopped_at,omitempty"`
	Created   time.Time  `json:"created"`
	Updated   time.Time  `json:"updated"`
}

// Key returns the KV key of the server record.
func (s *Server) Key() string {
	return fmt.Sprintf("%s:%s", ServerRecordType, s.ID)
}

// IsRunning reports whether the record's status is running.
func (s *Server) IsRunning() bool { return s.Status == StatusRunning }

// PatronSession is the transient per-connection patron context, opened by a
// patron information request and closed by end patron session.
type PatronSession struct {
	PatronID string `json:"patron_id"`
	Language string `json:"language"`
}

// Client is the per-connection session record. It exists from TCP accept to
// disconnect and is scoped to its server via the key suffix.
type Client struct {
	ID              string         `json:"id"`
	ServerID        string         `json:"server_id"`
	IP              string         `json:"ip_address"`
	Port            int            `json:"socket_port"`
	RemoteApp       string         `json:"remote_app"`
	Terminal        string         `json:"terminal,omitempty"`
	Authenticated   bool           `json:"authenticated"`
	UserID          string         `json:"user_id,omitempty"`
	InstitutionID   string         `json:"institution_id,omitempty"`
	LibraryName     string         `json:"library_name,omitempty"`
	LibraryLanguage string         `json:"library_language,omitempty"`
	PatronSession   *PatronSession `json:"patron_session,omitempty"`
	LastRequest     string         `json:"last_request,omitempty"`
	LastResponse    string         `json:"last_response,omitempty"`
	LastSequence    *int           `json:"last_sequence,omitempty"`
	Created         time.Time      `json:"created"`
	Updated         time.Time      `json:"updated"`
}

// Key returns the KV key of the client record, scoped to its server.
func (c *Client) Key() string {
	return fmt.Sprintf("%s:%s_server:%s", ClientRecordType, c.ID, c.ServerID)
}

// TerminalLabel returns the terminal identifier reported by the self-check,
// falling back to the peer IP address.
func (c *Client) TerminalLabel() string {
	if c.Terminal != "" {
		return c.Terminal
	}
	return c.IP
}

// ClearPatronSession closes the patron sub-session.
func (c *Client) ClearPatronSession() { c.PatronSession = nil }

// Records is the typed record layer over a KV backend.
type Records struct {
	kv KV
}

// NewRecords wraps a KV backend.
func NewRecords(kv KV) *Records {
	return &Records{kv: kv}
}

// CreateServer registers a new server record. If a record with the same name
// already exists it is reused unless it is marked running, in which case
// ErrServerAlreadyRunning is returned.
func (r *Records) CreateServer(ctx context.Context, srv *Server) error {
	existing, err := r.FindServerByName(ctx, srv.Name)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.IsRunning() {
			return fmt.Errorf("%w: %s (id %s)", ErrServerAlreadyRunning, existing.Name, existing.ID)
		}
		srv.ID = existing.ID
		srv.Created = existing.Created
	} else {
		srv.ID = newID()
		srv.Created = time.Now().UTC()
	}

	return r.UpdateServer(ctx, srv)
}

// UpdateServer persists the server record.
func (r *Records) UpdateServer(ctx context.Context, srv *Server) error {
	srv.Updated = time.Now().UTC()
	return r.put(ctx, srv.Key(), srv)
}

// GetServer loads a server record by id.
func (r *Records) GetServer(ctx context.Context, id string) (*Server, error) {
	srv := &Server{ID: id}
	if err := r.get(ctx, srv.Key(), srv); err != nil {
		return nil, err
	}
	return srv, nil
}

// AllServers returns every server record.
func (r *Records) AllServers(ctx context.Context) ([]*Server, error) {
	keys, err := r.kv.Keys(ctx, ServerRecordType+":*")
	if err != nil {
		return nil, err
	}

	servers := make([]*Server, 0, len(keys))
	for _, key := range keys {
		srv := &Server{}
		if err := r.get(ctx, key, srv); err != nil {
			return nil, err
		}
		servers = append(servers, srv)
	}
	return servers, nil
}

// FindServerByName returns the server record with the given name, or nil.
func (r *Records) FindServerByName(ctx context.Context, name string) (*Server, error) {
	servers, err := r.AllServers(ctx)
	if err != nil {
		return nil, err
	}
	for _, srv := range servers {
		if srv.Name == name {
			return srv, nil
		}
	}
	return nil, nil
}

// ServerUp marks the server record running and timestamps the start.
func (r *Records) ServerUp(ctx context.Context, srv *Server) error {
	now := time.Now().UTC()
	srv.Status = StatusRunning
	srv.StartedAt = &now
	srv.StoppedAt = nil
	return r.UpdateServer(ctx, srv)
}

// ServerDown marks the server record down, clears its process id and
// cascade-deletes every client record scoped to it.
func (r *Records) ServerDown(ctx context.Context, srv *Server) error {
	now := time.Now().UTC()
	srv.Status = StatusDown
	srv.StoppedAt = &now
	srv.ProcessID = 0
	if err := r.UpdateServer(ctx, srv); err != nil {
		return err
	}
	return r.DeleteClientsOf(ctx, srv.ID)
}

// DeleteServer removes the server record and all of its clients.
func (r *Records) DeleteServer(ctx context.Context, srv *Server) error {
	if err := r.DeleteClientsOf(ctx, srv.ID); err != nil {
		return err
	}
	return r.kv.Delete(ctx, srv.Key())
}

// CreateClient assigns an id and persists a new client record.
func (r *Records) CreateClient(ctx context.Context, client *Client) error {
	client.ID = newID()
	client.Created = time.Now().UTC()
	return r.UpdateClient(ctx, client)
}

// UpdateClient persists the client record.
func (r *Records) UpdateClient(ctx context.Context, client *Client) error {
	client.Updated = time.Now().UTC()
	return r.put(ctx, client.Key(), client)
}

// DeleteClient removes the client record.
func (r *Records) DeleteClient(ctx context.Context, client *Client) error {
	return r.kv.Delete(ctx, client.Key())
}

// ClientsOf returns every client record scoped to the given server.
func (r *Records) ClientsOf(ctx context.Context, serverID string) ([]*Client, error) {
	pattern := fmt.Sprintf("%s:*_server:%s", ClientRecordType, serverID)
	keys, err := r.kv.Keys(ctx, pattern)
	if err != nil {
		return nil, err
	}

	clients := make([]*Client, 0, len(keys))
	for _, key := range keys {
		client := &Client{}
		if err := r.get(ctx, key, client); err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, nil
}

// DeleteClientsOf removes every client record scoped to the given server.
func (r *Records) DeleteClientsOf(ctx context.Context, serverID string) error {
	clients, err := r.ClientsOf(ctx, serverID)
	if err != nil {
		return err
	}
	for _, client := range clients {
		if err := r.DeleteClient(ctx, client); err != nil {
			return err
		}
	}
	return nil
}

// Flush clears the whole datastore.
func (r *Records) Flush(ctx context.Context) error {
	return r.kv.Flush(ctx)
}

func (r *Records) put(ctx context.Context, key string, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record %q: %w", key, err)
	}
	return r.kv.Set(ctx, key, data)
}

func (r *Records) get(ctx context.Context, key string, record any) error {
	data, found, err := r.kv.Get(ctx, key)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err := json.Unmarshal(data, record); err != nil {
		return fmt.Errorf("unmarshal record %q: %w", key, err)
	}
	return nil
}

// newID returns a random 128-bit hex identifier.
func newID() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
