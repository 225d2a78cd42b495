package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollageJSONKeepsUnknownFields(t *testing.T) {
	in := `{"url":"collages.php?id=4","id":"4","owner":{"name":"x"},"num_torrents":3,"tags":["a","b"]}`

	var c Collage
	require.NoError(t, json.Unmarshal([]byte(in), &c))
	assert.Equal(t, "4", c.ID)
	assert.Equal(t, 3, c.NumTorrents)
	assert.Nil(t, c.Torrents)
	require.Len(t, c.Extra, 2)

	out, err := json.Marshal(&c)
	require.NoError(t, err)
	assert.Equal(t,
		`{"category":"","id":"4","name":"","num_torrents":3,"owner":{"name":"x"},"subscribers":0,"tags":["a","b"],"updated":"","url":"collages.php?id=4"}`,
		string(out))
}

func TestCollageJSONTorrents(t *testing.T) {
	c := &Collage{ID: "1", Torrents: []Torrent{}}
	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"torrents":[]`)

	var back Collage
	require.NoError(t, json.Unmarshal(out, &back))
	assert.NotNil(t, back.Torrents)
}

func TestCollageJSONRejectsBadTypes(t *testing.T) {
	var c Collage
	assert.Error(t, json.Unmarshal([]byte(`{"id":4}`), &c))
	assert.Error(t, json.Unmarshal([]byte(`"just a string"`), &c))
}

func TestCollageField(t *testing.T) {
	c := &Collage{
		ID:          "1",
		Updated:     "jan 1",
		NumTorrents: 5,
		Extra:       map[string]json.RawMessage{"owner": json.RawMessage(`"bob"`)},
	}

	v, ok := c.Field("updated")
	assert.True(t, ok)
	assert.Equal(t, "jan 1", v)

	v, ok = c.Field("num_torrents")
	assert.True(t, ok)
	assert.Equal(t, 5, v)

	v, ok = c.Field("owner")
	assert.True(t, ok)
	assert.Equal(t, `"bob"`, v)

	_, ok = c.Field("nope")
	assert.False(t, ok)
}

func TestCredentialsValidate(t *testing.T) {
	assert.NoError(t, Credentials{Username: "u", Password: "p"}.Validate())

	var cfgErr *ConfigError
	require.ErrorAs(t, Credentials{Password: "p"}.Validate(), &cfgErr)
	assert.Equal(t, "username", cfgErr.Field)
	require.ErrorAs(t, Credentials{Username: "u"}.Validate(), &cfgErr)
	assert.Equal(t, "password", cfgErr.Field)
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "fetch collage 7: http status 502", (&DetailFetchError{ID: "7", Status: 502}).Error())
	assert.Equal(t, `could not log in as "alice"`, (&AuthError{Username: "alice"}).Error())
	assert.Equal(t, "config: username is required", (&ConfigError{Field: "username", Reason: "is required"}).Error())
}
