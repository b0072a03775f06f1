package farms

import "time"

// Staff is one assignable contact: the farm's inseminator or its doctor.
type Staff struct {
	ID    string
	Name  string
	Phone string
}

// Farm groups the herd and its people. Phone numbers are stored normalized
// to +251 form.
type Farm struct {
	ID        string
	OwnerName string
	Address   string
	Phone     string

	Inseminator *Staff
	Doctor      *Staff

	RegisteredAt time.Time
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
