package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DECIDEUR_BACKEND_URL", "")
	t.Setenv("BACKEND_TIMEOUT", "")
	t.Setenv("CONFIG_FILE", "")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8098", c.Backend.DecideurURL)
	assert.Equal(t, "http://localhost:8099", c.Backend.OperateurURL)
	assert.Equal(t, 8*time.Second, c.Backend.Timeout)
	assert.Equal(t, 2.0, c.Alerts.AnomalyZ)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("BACKEND_TIMEOUT", "3s")
	t.Setenv("BACKEND_RPS", "5")
	t.Setenv("CORS_ORIGINS", " http://a.test , ,http://b.test")
	t.Setenv("ANOMALY_Z", "2.5")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, c.Backend.Timeout)
	assert.Equal(t, 5, c.Backend.RPS)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.CORSOrigins)
	assert.Equal(t, 2.5, c.Alerts.AnomalyZ)
}

func TestLoadYAMLOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "app_port: \"9090\"\nbackend:\n  decideur_url: http://decideur.internal:8098\nalerts:\n  worker_interval: 30s\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("CONFIG_FILE", path)

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", c.AppPort)
	assert.Equal(t, "http://decideur.internal:8098", c.Backend.DecideurURL)
	// tidak disebut di file → tetap dari env/default
	assert.Equal(t, "http://localhost:8099", c.Backend.OperateurURL)
	assert.Equal(t, 30*time.Second, c.Alerts.WorkerInterval)
}

func TestLoadYAMLOverlayMissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load()
	require.Error(t, err)
}

func TestMySQLDSN(t *testing.T) {
	c := &Config{}
	c.MySQL.DSN = "u:p@tcp(db:3306)/x"
	assert.Equal(t, "u:p@tcp(db:3306)/x", c.MySQLDSN())

	t.Setenv("MYSQL_HOST", "db")
	c = &Config{}
	c.MySQL.User, c.MySQL.Password, c.MySQL.Host, c.MySQL.Port, c.MySQL.DB = "root", "pw", "db", "3306", "drilling"
	assert.Equal(t, "root:pw@tcp(db:3306)/drilling?parseTime=true", c.MySQLDSN())
}
