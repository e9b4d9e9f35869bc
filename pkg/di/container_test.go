package di

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/xhfile/pkg/api"
	"github.com/ssargent/xhfile/pkg/catalog"
)

type stubStarter struct{ called bool }

func (s *stubStarter) StartServer(context.Context, api.TraceStore, api.ServerConfig, *slog.Logger) error {
	s.called = true
	return nil
}

type stubFactory struct{ starter *stubStarter }

func (f stubFactory) CreateServerStarter() api.ServerStarter { return f.starter }

func TestNewContainer(t *testing.T) {
	c := NewContainer()
	assert.NotNil(t, c.GetServerFactory())

	cat, err := c.OpenCatalog(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, cat.Close())
}

func TestContainer_Overrides(t *testing.T) {
	c := NewContainer()

	starter := &stubStarter{}
	c.SetServerFactory(stubFactory{starter: starter})
	require.NoError(t, c.GetServerFactory().CreateServerStarter().StartServer(context.Background(), nil, api.ServerConfig{}, nil))
	assert.True(t, starter.called)

	errNope := errors.New("nope")
	c.SetCatalogOpener(func(string) (*catalog.Catalog, error) { return nil, errNope })
	_, err := c.OpenCatalog("anywhere")
	assert.ErrorIs(t, err, errNope)
}
