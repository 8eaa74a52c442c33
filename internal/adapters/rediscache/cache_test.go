package rediscache

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"ims/internal/domain"
	"ims/internal/ports"
)

var _ ports.ScoreCache = (*Cache)(nil)

func TestKey(t *testing.T) {
	assert.Equal(t, "compliance:ISO_14001", Key(domain.ISO14001))
}

func TestInvalidateNothingSkipsRoundTrip(t *testing.T) {
	// the client points nowhere; any command would fail
	c := New(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), 0)
	defer c.Close()
	assert.NoError(t, c.Invalidate(context.Background()))
}

func TestConnectRejectsBadURL(t *testing.T) {
	_, err := Connect(context.Background(), "http://not-redis", 0)
	assert.ErrorContains(t, err, "parse redis url")
}
