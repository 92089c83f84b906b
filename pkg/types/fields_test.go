package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormFields_Merge(t *testing.T) {
	base := FormFields{"writer_name": "Ana", "city": "Austin"}
	patch := FormFields{"city": "Dallas", "relationship": "neighbor"}

	merged := base.Merge(patch)

	assert.Equal(t, "Ana", merged["writer_name"], "untouched key survives")
	assert.Equal(t, "Dallas", merged["city"], "patched key wins")
	assert.Equal(t, "neighbor", merged["relationship"], "new key lands")

	// merge never mutates its receiver
	assert.Equal(t, "Austin", base["city"])
}

func TestFormFields_MergeDisjointCommutes(t *testing.T) {
	a := FormFields{"writer_name": "Ana"}
	b := FormFields{"character_description": "kind and reliable"}

	assert.Equal(t, a.Merge(b), b.Merge(a))
}

func TestFormFields_MissingOf(t *testing.T) {
	required := []string{"writer_name", "character_description"}

	tests := []struct {
		name   string
		fields FormFields
		want   []string
	}{
		{
			name:   "all present",
			fields: FormFields{"writer_name": "Ana", "character_description": "kind"},
			want:   nil,
		},
		{
			name:   "blank counts as missing",
			fields: FormFields{"writer_name": "Ana", "character_description": ""},
			want:   []string{"character_description"},
		},
		{
			name:   "empty form reports everything in order",
			fields: FormFields{},
			want:   []string{"writer_name", "character_description"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fields.MissingOf(required))
		})
	}
}

func TestFormFields_ScanNil(t *testing.T) {
	var f FormFields
	assert.NoError(t, f.Scan(nil))
	assert.NotNil(t, f)
	assert.Empty(t, f)
}
