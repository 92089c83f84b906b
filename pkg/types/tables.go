package types

import "fmt"

type TableName string

func (s TableName) Name() string {
	return fmt.Sprintf("%s%s", TABLE_PREFIX, s)
}

const TABLE_PREFIX = "intake_"

const (
	TABLE_SHARE_TOKEN         = TableName("share_token")
	TABLE_CHARACTER_LETTER    = TableName("character_letter")
	TABLE_EMERGENCY_PLAN      = TableName("emergency_plan")
	TABLE_SPONSOR_BUNDLE      = TableName("sponsor_bundle")
	TABLE_BUNDLE_FILE         = TableName("bundle_file")
	TABLE_BOND_SUBMISSION     = TableName("bond_submission")
	TABLE_BOND_STATUS_HISTORY = TableName("bond_status_history")
)
