package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSchema(t *testing.T) {
	out := filepath.Join(t.TempDir(), "schema", "messages.json")

	require.NoError(t, writeSchema(out, buildSchema()))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "UNO messages", doc["title"])
	assert.True(t, strings.Contains(string(data), `"wild_draw4"`))
	assert.True(t, strings.Contains(string(data), `"cardsIndex"`))

	_, err = os.Stat(out + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
