package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	// cors.New panics on an empty AllowOrigins list, so the default must let
	// a bare environment start.
	assert.NotEmpty(t, cfg.CORSOrigins())

	assert.NotEmpty(t, cfg.Port)
	assert.NotEmpty(t, cfg.MongoURI)
	assert.NotEmpty(t, cfg.AuditDSN())
}

func TestCORSOrigins_SplitsAndTrims(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.example, http://b.example ,")
	cfg := Load()
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORSOrigins())
}

func TestESAddrs_SplitsAndTrims(t *testing.T) {
	t.Setenv("ELASTICSEARCH_ADDRS", "http://es1:9200 ,http://es2:9200")
	cfg := Load()
	assert.Equal(t, []string{"http://es1:9200", "http://es2:9200"}, cfg.ESAddrs())
}
