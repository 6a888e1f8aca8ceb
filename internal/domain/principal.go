package domain

import "strings"

// Role — роль аутентифицированного актора.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Principal — аутентифицированный актор. Выдаётся внешним
// коллаборатором аутентификации, ядро его не хранит.
type Principal struct {
	ID   string
	Role Role
}

// IsAdmin сообщает, имеет ли актор административную роль.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Profile — учётная запись владельца из справочника профилей.
type Profile struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Role      Role
}

// DisplayName собирает отображаемое имя владельца:
// имя и фамилия, иначе email, иначе "Unknown".
func (p Profile) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
	if name != "" {
		return name
	}
	if p.Email != "" {
		return p.Email
	}
	return "Unknown"
}
