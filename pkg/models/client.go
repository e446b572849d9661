package models

// Client represents a customer invoices are issued to.
type Client struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Address       string `json:"address,omitempty"`
	TaxID         string `json:"tax_id,omitempty"`
	ContactPerson string `json:"contact_person,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	IsActive      bool   `json:"is_active"`

	// Invoices is populated by join logic and never persisted.
	Invoices []*Invoice `json:"-"`
}

// NewClient returns an active client with the given name.
func NewClient(name string) *Client {
	return &Client{Name: name, IsActive: true}
}

func (c *Client) GetID() string   { return c.ID }
func (c *Client) SetID(id string) { c.ID = id }

// Clone copies the client without its invoice view.
func (c *Client) Clone() *Client {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Invoices = nil
	return &cp
}
