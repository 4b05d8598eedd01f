package client_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/roster"
	"github.com/sagarc03/roster/client"
)

var sampleUser = roster.User{ID: 7, Name: "ada", Fullname: "Ada Lovelace", Nickname: "countess"}

func TestNewFormatter(t *testing.T) {
	t.Run("json formatter", func(t *testing.T) {
		_, ok := client.NewFormatter(true, false).(*client.JSONFormatter)
		assert.True(t, ok)
	})

	t.Run("human formatter quiet", func(t *testing.T) {
		hf, ok := client.NewFormatter(false, true).(*client.HumanFormatter)
		require.True(t, ok)
		assert.True(t, hf.Quiet)
	})
}

func TestHumanFormatter_FormatUser(t *testing.T) {
	t.Run("full", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&client.HumanFormatter{}).FormatUser(&buf, sampleUser))

		out := buf.String()
		assert.Contains(t, out, "ID:       7")
		assert.Contains(t, out, "Fullname: Ada Lovelace")
		assert.Contains(t, out, "Nickname: countess")
	})

	t.Run("quiet prints id", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&client.HumanFormatter{Quiet: true}).FormatUser(&buf, sampleUser))
		assert.Equal(t, "7\n", buf.String())
	})
}

func TestHumanFormatter_FormatUsers(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		users := []roster.User{sampleUser, {ID: 8, Name: "grace", Fullname: "Grace Hopper", Nickname: "amazing"}}
		require.NoError(t, (&client.HumanFormatter{}).FormatUsers(&buf, users))

		out := buf.String()
		assert.Contains(t, out, "NAME")
		assert.Contains(t, out, "Grace Hopper")
		assert.Contains(t, out, "countess")
	})

	t.Run("long names truncated", func(t *testing.T) {
		var buf bytes.Buffer
		long := roster.User{ID: 1, Name: string(bytes.Repeat([]byte("n"), 50)), Fullname: "x", Nickname: "y"}
		require.NoError(t, (&client.HumanFormatter{}).FormatUsers(&buf, []roster.User{long}))
		assert.Contains(t, buf.String(), "...")
		assert.NotContains(t, buf.String(), long.Name)
	})

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&client.HumanFormatter{}).FormatUsers(&buf, nil))
		assert.Equal(t, "No users\n", buf.String())
	})
}

func TestHumanFormatter_FormatDelete(t *testing.T) {
	results := []client.DeleteResult{
		{ID: 7, Deleted: true, User: sampleUser},
		{ID: 9, Err: errors.New("not there")},
	}

	t.Run("normal", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&client.HumanFormatter{}).FormatDelete(&buf, results))
		assert.Contains(t, buf.String(), "Deleted: 7 (ada)")
		assert.Contains(t, buf.String(), "Error: 9 - not there")
	})

	t.Run("quiet shows only errors", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&client.HumanFormatter{Quiet: true}).FormatDelete(&buf, results))
		assert.NotContains(t, buf.String(), "Deleted")
		assert.Contains(t, buf.String(), "Error: 9")
	})
}

func TestJSONFormatter(t *testing.T) {
	f := &client.JSONFormatter{}

	t.Run("user", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, f.FormatUser(&buf, sampleUser))

		var got roster.User
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, sampleUser, got)
	})

	t.Run("empty users is an array", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, f.FormatUsers(&buf, nil))
		assert.JSONEq(t, `[]`, buf.String())
	})

	t.Run("delete", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, f.FormatDelete(&buf, []client.DeleteResult{
			{ID: 7, Deleted: true, User: sampleUser},
			{ID: 9, Err: errors.New("gone")},
		}))
		assert.JSONEq(t, `{"results":[
			{"id":7,"deleted":true,"user":{"id":7,"name":"ada","fullname":"Ada Lovelace","nickname":"countess"}},
			{"id":9,"deleted":false,"error":"gone"}
		]}`, buf.String())
	})

	t.Run("error", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, f.FormatError(&buf, errors.New("boom")))
		assert.JSONEq(t, `{"error":"boom"}`, buf.String())
	})
}
