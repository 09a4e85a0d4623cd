package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFile(t *testing.T) {
	conf, err := Load(filepath.Join(t.TempDir(), "calendars.json"))
	require.NoError(t, err)
	assert.NotNil(t, conf)
	assert.Empty(t, conf)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "{"},
		{"array", `["a"]`},
		{"null", `null`},
		{"string calendars", `{"work": "primary"}`},
		{"null calendars", `{"work": null}`},
		{"numeric name", `{"work": {"primary": 1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "calendars.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := Load(path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "calendars.json")
	conf := Calendars{
		"work": {
			"primary": "Work",
			"ja.japanese#holiday@group.v.calendar.google.com": "日本の祝日",
		},
		"home": {},
	}

	require.NoError(t, Save(path, conf))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, conf, loaded)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "日本の祝日", "non-ASCII must not be escaped")
	assert.Contains(t, text, "\n    \"home\"", "expected 4-space indentation")
	assert.False(t, strings.Contains(text, `&`))
}

func TestCalendars_Add(t *testing.T) {
	conf := Calendars{"work": {"primary": "Work"}}

	err := conf.Add("work", map[string]string{"other": "Other"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAccountExists))
	assert.Equal(t, map[string]string{"primary": "Work"}, conf["work"], "existing account must be untouched")

	require.NoError(t, conf.Add("home", nil))
	assert.True(t, conf.Has("home"))
	assert.NotNil(t, conf["home"])
}

func TestCalendars_SortedIDs(t *testing.T) {
	conf := Calendars{
		"b": {"z": "Z", "a": "A"},
		"a": {},
	}

	assert.Equal(t, []string{"a", "b"}, conf.AccountIDs())
	assert.Equal(t, []string{"a", "z"}, conf.CalendarIDs("b"))
	assert.Empty(t, conf.CalendarIDs("missing"))
}
