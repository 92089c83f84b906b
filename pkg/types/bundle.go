package types

type BundleStatus string

const (
	BUNDLE_STATUS_PENDING   BundleStatus = "pending"
	BUNDLE_STATUS_SUBMITTED BundleStatus = "submitted"
)

func (s BundleStatus) Terminal() bool {
	return s == BUNDLE_STATUS_SUBMITTED
}

// SponsorBundle is the document set a sponsor uploads before a filing.
// The file list is append/remove while pending and frozen on submit.
type SponsorBundle struct {
	ID          string       `json:"id" db:"id"`
	ClientName  string       `json:"client_name" db:"client_name"`
	SponsorName string       `json:"sponsor_name" db:"sponsor_name"`
	Status      BundleStatus `json:"status" db:"status"`
	CreatedBy   string       `json:"created_by" db:"created_by"`
	CreatedAt   int64        `json:"created_at" db:"created_at"`
	UpdatedAt   int64        `json:"updated_at" db:"updated_at"`
	FinalizedAt int64        `json:"finalized_at" db:"finalized_at"`
}

type FileCategory string

const (
	FILE_CATEGORY_IDENTIFICATION FileCategory = "identification"
	FILE_CATEGORY_PROOF_INCOME   FileCategory = "proof_of_income"
	FILE_CATEGORY_RESIDENCE      FileCategory = "proof_of_residence"
	FILE_CATEGORY_TAX_RETURN     FileCategory = "tax_return"
	FILE_CATEGORY_RELATIONSHIP   FileCategory = "proof_of_relationship"
	FILE_CATEGORY_OTHER          FileCategory = "other"
)

func (c FileCategory) Valid() bool {
	switch c {
	case FILE_CATEGORY_IDENTIFICATION, FILE_CATEGORY_PROOF_INCOME, FILE_CATEGORY_RESIDENCE,
		FILE_CATEGORY_TAX_RETURN, FILE_CATEGORY_RELATIONSHIP, FILE_CATEGORY_OTHER:
		return true
	}
	return false
}

// BundleFile records one uploaded document. Bytes live in the blob store,
// only the object key is kept here.
type BundleFile struct {
	ID          string       `json:"id" db:"id"`
	BundleID    string       `json:"bundle_id" db:"bundle_id"`
	Category    FileCategory `json:"category" db:"category"`
	DisplayName string       `json:"display_name" db:"display_name"`
	FileKey     string       `json:"file_key" db:"file_key"`
	SizeBytes   int64        `json:"size_bytes" db:"size_bytes"`
	MimeType    string       `json:"mime_type" db:"mime_type"`
	UploadedAt  int64        `json:"uploaded_at" db:"uploaded_at"`
}
