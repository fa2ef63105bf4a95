package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/uifilter-go/uifilter"
)

func Test_ParseConfig(t *testing.T) {
	t.Setenv("HEROES_POSTGRES_DSN", "postgres://u:p@db:5432/heroes")
	t.Setenv("HEROES_POSTGRES_REPLICA_DSN", "")

	cfg, err := parseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/heroes", cfg.DSN)
	assert.Empty(t, cfg.ReplicaDSN)
	assert.Equal(t, adapterPGX, cfg.Adapter)
	assert.Equal(t, defaultTableName, cfg.TableName)
	assert.Equal(t, defaultFilter, cfg.FilterJSON)

	cfg, err = parseConfig([]string{"-adapter", "sqlx", "-table", "villains", "-seed", "-static-resolver"})
	require.NoError(t, err)
	assert.Equal(t, adapterSQLX, cfg.Adapter)
	assert.Equal(t, "villains", cfg.TableName)
	assert.True(t, cfg.Seed)
	assert.True(t, cfg.StaticResolver)

	_, err = parseConfig([]string{"-adapter", "mysql"})
	assert.ErrorIs(t, err, errUnknownAdapter)
}

func Test_Config_ReadFilter(t *testing.T) {
	filter, err := Config{FilterJSON: `{"first":10,"rows":5}`}.readFilter()
	require.NoError(t, err)
	assert.Equal(t, 10, filter.Offset())
	assert.Equal(t, 5, filter.PageSize())

	path := filepath.Join(t.TempDir(), "filter.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"filters":{"state":[{"value":"Maine"}]}}`), 0o600))

	filter, err = Config{FilterJSON: defaultFilter, FilterFile: path}.readFilter()
	require.NoError(t, err)
	require.Len(t, filter.Criteria(fieldState), 1)
	assert.Equal(t, "Maine", filter.Criteria(fieldState)[0].Value())

	_, err = Config{FilterFile: filepath.Join(t.TempDir(), "missing.json")}.readFilter()
	assert.Error(t, err)

	_, err = Config{FilterJSON: `{"rows":`}.readFilter()
	assert.ErrorIs(t, err, uifilter.ErrInvalidFilterJSON)
}

func Test_NewObservabilityConfig(t *testing.T) {
	assert.Equal(t, ObservabilityConfig{}, Config{}.newObservabilityConfig())

	obsConfig := Config{Verbose: true, ObservabilityEnabled: true}.newObservabilityConfig()
	assert.NotNil(t, obsConfig.Logger)
	assert.NotNil(t, obsConfig.ContextualLogger)
	assert.NotNil(t, obsConfig.MetricsCollector)
	assert.NotNil(t, obsConfig.TracingCollector)
	assert.Len(t, executorOptions(obsConfig), 3)
}

func Test_BuildSeedInsert(t *testing.T) {
	now := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

	insertSQL, args, err := buildSeedInsert("heroes", demoHeroes()[:2], now)

	require.NoError(t, err)
	assert.Contains(t, insertSQL, `INSERT INTO "heroes"`)
	assert.Contains(t, insertSQL, `"alter_ego"`)
	assert.Contains(t, insertSQL, "$16")
	assert.NotContains(t, insertSQL, "$17")
	require.Len(t, args, 16)
	assert.Contains(t, args, "Mark Henry")

	ids, ages := 0, []string{}
	for _, arg := range args {
		switch arg.(type) {
		case int, int64:
			ages = append(ages, fmt.Sprint(arg))
		}

		if s, ok := arg.(string); ok {
			if _, parseErr := uuid.Parse(s); parseErr == nil {
				ids++
			}
		}
	}

	assert.Equal(t, 2, ids)
	assert.ElementsMatch(t, []string{"29", "41"}, ages)
}

func Test_AgeAt(t *testing.T) {
	birthday := time.Date(1996, time.March, 3, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 28, ageAt(birthday, time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 29, ageAt(birthday, time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)))
}

func Test_WriteResult(t *testing.T) {
	id := uuid.MustParse("0198c0de-0000-7000-8000-000000000001")
	buf := &bytes.Buffer{}

	err := writeResult(buf, uifilter.Result{
		TotalRecords: 8,
		Records:      uifilter.Records{{fieldID: id, fieldName: "Bolt", fieldAge: int64(28)}},
	})

	require.NoError(t, err)
	assert.JSONEq(t, `{
		"totalRecords": 8,
		"records": [{"id": "0198c0de-0000-7000-8000-000000000001", "name": "Bolt", "age": 28}]
	}`, buf.String())

	buf.Reset()
	require.NoError(t, writeResult(buf, uifilter.Result{}))
	assert.JSONEq(t, `{"totalRecords": 0, "records": []}`, buf.String())
}
