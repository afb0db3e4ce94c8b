package ticket

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/clubhousegolfcanada/ClubOS/internal/models"
	"github.com/clubhousegolfcanada/ClubOS/pkg/utils"
	"gopkg.in/yaml.v3"
)

// Directory maps ticket categories to the on-call contact. The mapping can be
// reloaded at runtime; readers always see a complete snapshot.
type Directory struct {
	contacts atomic.Pointer[map[string]models.Contact]
}

// DefaultContacts is the built-in on-call roster, used when no contacts file
// is configured or a category is missing from the loaded file.
func DefaultContacts() map[string]models.Contact {
	return map[string]models.Contact{
		"facilities": {Name: "Nick Thompson", Phone: "281-555-0101", Email: "nick@clubhouse.com"},
		"equipment":  {Name: "Jason Miller", Phone: "281-555-0102", Email: "jason@clubhouse.com"},
		"general":    {Name: "Manager", Phone: "281-555-0103", Email: "manager@clubhouse.com"},
		"emergency":  {Name: "Mike Rodriguez", Phone: "281-555-0104", Email: "mike@clubhouse.com"},
	}
}

// NewDirectory creates a directory seeded with the built-in roster.
func NewDirectory() *Directory {
	d := &Directory{}
	contacts := DefaultContacts()
	d.contacts.Store(&contacts)
	return d
}

// LoadFile replaces the roster from a YAML file keyed by category. Categories
// missing from the file keep their built-in contact.
func (d *Directory) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read contacts file: %w", err)
	}

	var loaded map[string]models.Contact
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to parse contacts file: %w", err)
	}

	contacts := DefaultContacts()
	for category, contact := range loaded {
		if err := utils.ValidateEmail(contact.Email); err != nil {
			return fmt.Errorf("contact %s: %w", category, err)
		}
		contacts[category] = contact
	}
	d.contacts.Store(&contacts)
	return nil
}

// Lookup returns the contact for a category, falling back to the general
// contact for unknown categories.
func (d *Directory) Lookup(category string) models.Contact {
	contacts := *d.contacts.Load()
	if contact, ok := contacts[category]; ok {
		return contact
	}
	return contacts["general"]
}
