package types

type BondStatus string

const (
	BOND_STATUS_NEW         BondStatus = "new"
	BOND_STATUS_REVIEWED    BondStatus = "reviewed"
	BOND_STATUS_IN_PROGRESS BondStatus = "in_progress"
	BOND_STATUS_COMPLETED   BondStatus = "completed"
	BOND_STATUS_ARCHIVED    BondStatus = "archived"
)

func (s BondStatus) Valid() bool {
	switch s {
	case BOND_STATUS_NEW, BOND_STATUS_REVIEWED, BOND_STATUS_IN_PROGRESS,
		BOND_STATUS_COMPLETED, BOND_STATUS_ARCHIVED:
		return true
	}
	return false
}

// BondSubmission is an administrative triage record, not token-gated.
// Unlike the consumer-facing resources its status is advisory: staff may set
// any value from any value, the only permanent record is the history trail.
type BondSubmission struct {
	ID            string     `json:"id" db:"id"`
	DetaineeName  string     `json:"detainee_name" db:"detainee_name"`
	ContactName   string     `json:"contact_name" db:"contact_name"`
	ContactPhone  string     `json:"contact_phone" db:"contact_phone"`
	DetentionSite string     `json:"detention_site" db:"detention_site"`
	Fields        FormFields `json:"fields" db:"fields"`
	Status        BondStatus `json:"status" db:"status"`
	CreatedAt     int64      `json:"created_at" db:"created_at"`
	UpdatedAt     int64      `json:"updated_at" db:"updated_at"`
}

// BondStatusHistory rows are append-only: they are never edited or deleted,
// so the trail survives any amount of lateral status churn.
type BondStatusHistory struct {
	ID        int64      `json:"id" db:"id"`
	BondID    string     `json:"bond_id" db:"bond_id"`
	Status    BondStatus `json:"status" db:"status"`
	Principal string     `json:"principal" db:"principal"`
	Note      string     `json:"note" db:"note"`
	CreatedAt int64      `json:"created_at" db:"created_at"`
}
