//go:build integration

// Package harness drives the docker compose environment the integration
// suite runs against.
package harness

import (
	"context"
	"os"
	"testing"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Container names as declared in the compose file.
const (
	Mongo1 = "mongo1"
	Nats1  = "nats1"
)

type Harness struct {
	t *testing.T

	DockerClient *client.Client
	MongoUri     string
	NatsUrl      string
}

type Options struct {
	MongoUri string
	NatsUrl  string
}

func FromEnv() *Options {
	return &Options{
		MongoUri: os.Getenv("MONGO_URI"),
		NatsUrl:  os.Getenv("NATS_URL"),
	}
}

func New(t *testing.T, opt *Options) *Harness {
	dockerClient, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, dockerClient.Close())
	})

	return &Harness{
		t:            t,
		DockerClient: dockerClient,
		MongoUri:     opt.MongoUri,
		NatsUrl:      opt.NatsUrl,
	}
}

func (h *Harness) MustStartContainer(ctx context.Context, names ...string) {
	for _, name := range names {
		err := h.DockerClient.ContainerStart(ctx, name, container.StartOptions{})
		require.NoError(h.t, err)
	}
}

func (h *Harness) MustStopContainer(ctx context.Context, names ...string) {
	for _, name := range names {
		err := h.DockerClient.ContainerStop(ctx, name, container.StopOptions{})
		require.NoError(h.t, err)
	}
}
