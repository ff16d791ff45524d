package session

import "fmt"

type Role string

const (
	RoleAnonymous Role = ""
	RoleTrainer   Role = "trainer"
	RoleEmployee  Role = "employee"
)

// Identity is the authenticated principal of a request: a trainer, an
// employee, or nobody.
type Identity struct {
	Role Role `json:"role"`
	ID   uint `json:"id"`
}

func Anonymous() Identity {
	return Identity{Role: RoleAnonymous}
}

func Trainer(id uint) Identity {
	return Identity{Role: RoleTrainer, ID: id}
}

func Employee(id uint) Identity {
	return Identity{Role: RoleEmployee, ID: id}
}

func (i Identity) IsTrainer() bool  { return i.Role == RoleTrainer && i.ID != 0 }
func (i Identity) IsEmployee() bool { return i.Role == RoleEmployee && i.ID != 0 }
func (i Identity) IsAnonymous() bool {
	return !i.IsTrainer() && !i.IsEmployee()
}

// Is reports whether the identity carries the given role.
func (i Identity) Is(role Role) bool {
	switch role {
	case RoleTrainer:
		return i.IsTrainer()
	case RoleEmployee:
		return i.IsEmployee()
	default:
		return i.IsAnonymous()
	}
}

func (i Identity) String() string {
	if i.IsAnonymous() {
		return "anonymous"
	}
	return fmt.Sprintf("%s:%d", i.Role, i.ID)
}
