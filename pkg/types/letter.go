package types

type LetterStatus string

const (
	LETTER_STATUS_PENDING   LetterStatus = "pending" // created, writer has not touched it yet
	LETTER_STATUS_DRAFT     LetterStatus = "draft"   // at least one save landed
	LETTER_STATUS_SIGNED    LetterStatus = "signed"
	LETTER_STATUS_SUBMITTED LetterStatus = "submitted" // received outside the signing flow, e.g. by mail
)

func (s LetterStatus) Terminal() bool {
	return s == LETTER_STATUS_SIGNED || s == LETTER_STATUS_SUBMITTED
}

// CanTransition is the consumer-facing linear path: once a letter is signed
// or submitted nothing moves it again.
func (s LetterStatus) CanTransition(target LetterStatus) bool {
	switch s {
	case LETTER_STATUS_PENDING:
		return target == LETTER_STATUS_DRAFT
	case LETTER_STATUS_DRAFT:
		return target == LETTER_STATUS_SIGNED || target == LETTER_STATUS_SUBMITTED
	default:
		return false
	}
}

// LetterRequiredFields is checked only at finalization; the signature image
// is validated separately because it is a blob, not a form field.
var LetterRequiredFields = []string{"writer_name", "character_description"}

// CharacterLetter is a character-reference letter a third party fills out
// through a mailed link on behalf of a client.
type CharacterLetter struct {
	ID           string       `json:"id" db:"id"`
	ClientName   string       `json:"client_name" db:"client_name"`
	Status       LetterStatus `json:"status" db:"status"`
	Fields       FormFields   `json:"fields" db:"fields"`
	SignatureKey string       `json:"signature_key" db:"signature_key"` // blob-store key of the signature image
	CreatedBy    string       `json:"created_by" db:"created_by"`
	CreatedAt    int64        `json:"created_at" db:"created_at"`
	UpdatedAt    int64        `json:"updated_at" db:"updated_at"`
	FinalizedAt  int64        `json:"finalized_at" db:"finalized_at"` // set once, never updated
}
