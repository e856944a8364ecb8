package database

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studianta/studianta/internal/config"
)

func TestURL(t *testing.T) {
	raw := URL(config.Database{Host: "db", Port: 5432, User: "studianta", Pass: "p@ss'word", Name: "studianta", Schema: "studianta"})

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "db:5432", u.Host)
	assert.Equal(t, "/studianta", u.Path)
	password, _ := u.User.Password()
	assert.Equal(t, "p@ss'word", password)
	assert.Equal(t, "studianta", u.Query().Get("search_path"))
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
}

func TestFindMigrationsPath(t *testing.T) {
	path, err := findMigrationsPath()

	require.NoError(t, err)
	assert.FileExists(t, path+"/000001_init.up.sql")
}
