package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formseed/formseed/internal/classify"
	"github.com/formseed/formseed/internal/config"
	"github.com/formseed/formseed/internal/form"
	"github.com/formseed/formseed/internal/generate"
	"github.com/formseed/formseed/internal/runner"
)

func testService() *runner.Service {
	classifier := classify.NewFallbackClassifier(nil, false)
	return runner.NewService(
		form.NewValidator(0),
		form.NewExtractor(false),
		classifier,
		generate.NewGenerator(1),
		form.NewFiller(false),
	)
}

func TestNewServer(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Mode = config.ModeStdio

	s, err := NewServer(cfg, testService())
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.NotNil(t, s.mcpServer)
}

func TestNewServer_NilService(t *testing.T) {
	cfg := config.DefaultConfig()

	s, err := NewServer(cfg, nil)
	require.Error(t, err)
	assert.Nil(t, s)
	assert.Contains(t, err.Error(), "service")
}
