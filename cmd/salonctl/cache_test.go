package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCache struct {
	ids []string
	err error
}

func (c *recordingCache) Invalidate(_ context.Context, serviceIDs ...string) error {
	c.ids = append(c.ids, serviceIDs...)
	return c.err
}

func TestRunInvalidate(t *testing.T) {
	cache := &recordingCache{}
	var out bytes.Buffer

	require.NoError(t, runInvalidate(context.Background(), cache, []string{"service_haircut", "service_color"}, &out))

	assert.Equal(t, []string{"service_haircut", "service_color"}, cache.ids)
	assert.Equal(t, "invalidated 2 service definitions\n", out.String())
}

func TestRunInvalidateRedisDown(t *testing.T) {
	cache := &recordingCache{err: errors.New("dial tcp: connection refused")}

	err := runInvalidate(context.Background(), cache, []string{"service_haircut"}, &bytes.Buffer{})

	assert.ErrorContains(t, err, "invalidate cache")
}
