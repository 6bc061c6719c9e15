package logger_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Vendas-api/pkg/logger"
)

func TestNew_JSONConServicioYComponente(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Service: "vendas-api", Out: &buf})

	log.Component("checkout").Info().Str("sale_id", "s1").Msg("venta confirmada")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "vendas-api", line["service"])
	assert.Equal(t, "checkout", line["component"])
	assert.Equal(t, "s1", line["sale_id"])
	assert.Equal(t, "info", line["level"])
}

func TestNew_FiltraPorNivel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "warn", Out: &buf})

	log.Info().Msg("descartado")
	log.Warn().Msg("webhook sin respuesta")

	out := buf.String()
	assert.NotContains(t, out, "descartado")
	assert.Contains(t, out, "webhook sin respuesta")
}

func TestNew_NivelInvalidoUsaInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "ruidoso", Out: &buf})

	log.Debug().Msg("oculto")
	log.Info().Msg("visible")

	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
	assert.Contains(t, buf.String(), "visible")
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { logger.Nop().Component("x").Error().Msg("nada") })
}
