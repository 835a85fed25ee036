package models

import (
	"strings"

	"gorm.io/gorm"
)

// APIClient is a credentialed machine consumer of the API, managed from
// the admin panel. Permissions is a comma-separated list of granted
// scopes, e.g. "rooms:read,bookings:write".
type APIClient struct {
	gorm.Model
	Name        string `json:"name" gorm:"column:name;not null"`
	APIKey      string `json:"-" gorm:"column:api_key;unique;not null"`
	Permissions string `json:"permissions" gorm:"column:permissions"`
	Active      bool   `json:"active" gorm:"column:active;default:true"`
}

// TableName specifies the table name
func (APIClient) TableName() string {
	return "api_clients"
}

// HasPermission reports whether the client was granted the named scope.
func (c *APIClient) HasPermission(permission string) bool {
	for _, p := range strings.Split(c.Permissions, ",") {
		if strings.TrimSpace(p) == permission {
			return true
		}
	}
	return false
}
