package postgres

import (
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "foreign key",
			err:  &pq.Error{Code: codeForeignKeyViolation, Constraint: "simulations_location_id_fkey"},
			want: "unknown reference (simulations_location_id_fkey)",
		},
		{
			name: "unique",
			err:  &pq.Error{Code: codeUniqueViolation, Constraint: "simulations_pkey"},
			want: "duplicate simulation (simulations_pkey)",
		},
		{
			name: "other pq error",
			err:  &pq.Error{Code: "57014", Message: "canceling statement"},
			want: "canceling statement",
		},
		{
			name: "plain error",
			err:  errors.New("connection refused"),
			want: "connection refused",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := describe(tt.err)
			assert.Contains(t, got.Error(), tt.want)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestSchemaEmbedded(t *testing.T) {
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS simulations")
	assert.Contains(t, schemaSQL, "REFERENCES locations (id)")
	assert.Contains(t, schemaSQL, "REFERENCES panel_types (id)")
}
