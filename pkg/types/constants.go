package types

const (
	NO_PAGINATION = 0

	DEFAULT_PAGE_SIZE = 20
	MAX_PAGE_SIZE     = 100
)

type ListCharacterLetterOptions struct {
	Status *LetterStatus
}

type ListSponsorBundleOptions struct {
	Status *BundleStatus
}

type ListBondSubmissionOptions struct {
	Status   *BondStatus
	Detainee string
}
