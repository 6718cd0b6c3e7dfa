package shared

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-03-09")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-09", d.String())

	empty, err := ParseDate("")
	require.NoError(t, err)
	assert.True(t, empty.IsZero())
	assert.Equal(t, "", empty.String())

	_, err = ParseDate("09/03/2026")
	assert.Error(t, err)
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		Due  Date `json:"due"`
		None Date `json:"none"`
		Full Date `json:"full"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"due":"2026-03-09","none":null,"full":"2026-03-09T10:00:00"}`), &payload))
	assert.Equal(t, "2026-03-09", payload.Due.String())
	assert.True(t, payload.None.IsZero())
	assert.Equal(t, 9, payload.Full.Day())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2026-03-09","none":null,"full":"2026-03-09"}`, string(out))
}

func TestTimestampLayouts(t *testing.T) {
	for _, raw := range []string{
		`"2026-03-09T10:15:30Z"`,
		`"2026-03-09T10:15:30.123456"`,
		`"2026-03-09T10:15:30"`,
		`"2026-03-09 10:15:30"`,
	} {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(raw), &ts), raw)
		assert.Equal(t, 10, ts.Hour(), raw)
		assert.Equal(t, time.March, ts.Month(), raw)
	}

	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}
