package gorm_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	gormlogger "gorm.io/gorm/logger"

	adapter "github.com/PropertyLens/PropertyLens/internal/logger/adapter/gorm"
)

func newTestLogger(level string, buf *bytes.Buffer) *adapter.Logger {
	zl := zerolog.New(buf).Level(zerolog.TraceLevel)

	l := adapter.New(level)
	l.Log = func() *zerolog.Logger { return &zl }

	return l
}

func sqlFunc() (string, int64) { return "SELECT * FROM faqs", 3 }

func TestTrace(t *testing.T) {
	testCases := []struct {
		name    string
		level   string
		begin   time.Time
		err     error
		contain string
	}{
		{name: "silent logs nothing", level: "silent", err: errors.New("boom")},
		{name: "error logged", level: "error", begin: time.Now(), err: errors.New("boom"), contain: "query failed"},
		{name: "record not found ignored", level: "warn", begin: time.Now(), err: gormlogger.ErrRecordNotFound},
		{name: "slow query warned", level: "warn", begin: time.Now().Add(-time.Second), contain: "slow query"},
		{name: "fast query hidden at warn", level: "warn", begin: time.Now()},
		{name: "every query at info", level: "info", begin: time.Now(), contain: "SELECT * FROM faqs"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer

			newTestLogger(tc.level, &buf).Trace(context.Background(), tc.begin, sqlFunc, tc.err)

			if tc.contain == "" {
				assert.Empty(t, buf.String())
				return
			}

			assert.Contains(t, buf.String(), tc.contain)
			assert.Contains(t, buf.String(), `"component":"gorm"`)
		})
	}
}

func TestLogMode(t *testing.T) {
	var buf bytes.Buffer

	l := newTestLogger("silent", &buf)
	l.LogMode(gormlogger.Info).Info(context.Background(), "migrated %d tables", 4)

	assert.Contains(t, buf.String(), "migrated 4 tables")

	// the original keeps its level
	buf.Reset()
	l.Info(context.Background(), "hidden")
	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, adapter.ParseLevel("silent"))
	assert.Equal(t, gormlogger.Error, adapter.ParseLevel("error"))
	assert.Equal(t, gormlogger.Info, adapter.ParseLevel("info"))
	assert.Equal(t, gormlogger.Warn, adapter.ParseLevel("warn"))
	assert.Equal(t, gormlogger.Warn, adapter.ParseLevel(""))
}
