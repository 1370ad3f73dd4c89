package sip2

import "fmt"

// MessageType describes one SIP2 command: its fixed fields in wire order,
// the variable fields a well-formed message must carry, and the optional
// variable fields it may carry.
type MessageType struct {
	Command  string
	Label    string
	Fixed    []*FixedField
	Required []*VarField
	Optional []*VarField
}

// Catalog maps 2-digit command codes onto message type descriptors. Like the
// field Registry it is built once at startup and read-only afterwards.
type Catalog struct {
	byCommand map[string]*MessageType
}

// NewCatalog builds a Catalog from the given message types. It returns
// ErrDuplicateCommand when two types claim the same command code.
func NewCatalog(types []*MessageType) (*Catalog, error) {
	c := &Catalog{byCommand: make(map[string]*MessageType, len(types))}
	for _, mt := range types {
		if _, ok := c.byCommand[mt.Command]; ok {
			return nil, fmt.Errorf("%w: %q claimed twice", ErrDuplicateCommand, mt.Command)
		}
		c.byCommand[mt.Command] = mt
	}
	return c, nil
}

// GetByCommand returns the message type registered under the command code.
func (c *Catalog) GetByCommand(code string) (*MessageType, error) {
	mt, ok := c.byCommand[code]
	if !ok {
		return nil, fmt.Errorf("%w: command '%s' not found", ErrCommandNotFound, code)
	}
	return mt, nil
}
