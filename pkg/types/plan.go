package types

// EmergencyPlan is read-only once created by its owner; third parties only
// ever view it through the access validator. There is no mutation workflow,
// the share policy (expiry, views, password) is the whole lifecycle.
type EmergencyPlan struct {
	ID         string     `json:"id" db:"id"`
	ClientName string     `json:"client_name" db:"client_name"`
	Fields     FormFields `json:"fields" db:"fields"`
	CreatedBy  string     `json:"created_by" db:"created_by"`
	CreatedAt  int64      `json:"created_at" db:"created_at"`
}
