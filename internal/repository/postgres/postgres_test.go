package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oilslickpad/storeops/internal/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host: "db", Port: "5432", User: "ops", Password: "secret", DBName: "storeops", SSLMode: "disable",
	})
	assert.Equal(t, "host=db port=5432 user=ops password=secret dbname=storeops sslmode=disable", dsn)
}

func TestStateRoundTrip(t *testing.T) {
	data, err := marshalState(nil)
	require.NoError(t, err)
	assert.Nil(t, data)

	state, err := unmarshalState(nil)
	require.NoError(t, err)
	assert.Nil(t, state)

	data, err = marshalState(map[string]interface{}{"tags": []string{"family:banger"}})
	require.NoError(t, err)
	state, err = unmarshalState(data)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"family:banger"}, state["tags"])

	_, err = unmarshalState([]byte("{"))
	assert.Error(t, err)
}

func TestAlreadyApplied(t *testing.T) {
	assert.True(t, alreadyApplied(errors.New(`pq: relation "audit_events" already exists`)))
	assert.False(t, alreadyApplied(errors.New("pq: syntax error at or near \"CREAT\"")))
}

func TestRunMigration_MissingFile(t *testing.T) {
	_, err := RunMigration(context.Background(), nil, "does/not/exist.sql")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read migration file")
}
