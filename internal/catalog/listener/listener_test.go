package listener

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

type fakeReader struct {
	mu       sync.Mutex
	messages [][]byte
	failures int
	closed   bool
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if r.failures > 0 {
		r.failures--
		r.mu.Unlock()
		return kafka.Message{}, errors.New("broker unavailable")
	}
	if len(r.messages) > 0 {
		v := r.messages[0]
		r.messages = r.messages[1:]
		r.mu.Unlock()
		return kafka.Message{Value: v}, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

type countingCatalog struct {
	mu          sync.Mutex
	invalidated int
	err         error
}

func (c *countingCatalog) ListProducts(context.Context, *dto.ProductFilters) ([]model.Product, error) {
	return nil, nil
}

func (c *countingCatalog) GetProduct(context.Context, string) (*model.Product, error) {
	return nil, nil
}

func (c *countingCatalog) RelatedProducts(context.Context, string) ([]model.Product, error) {
	return nil, nil
}

func (c *countingCatalog) InvalidateCache(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	return c.err
}

func (c *countingCatalog) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidated
}

func TestProcessMessage(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"upsert", `{"event_type":"ProductUpserted","payload":{"id":"p1"}}`, 1},
		{"delete", `{"event_type":"ProductDeleted","payload":{"id":"p1"}}`, 1},
		{"other event", `{"event_type":"OrderCreated","payload":{"id":"o1"}}`, 0},
		{"garbage", `not json`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &countingCatalog{}
			l := NewCatalogListener(&fakeReader{}, uc, logger.NewNop())
			l.processMessage(context.Background(), []byte(tt.value))
			assert.Equal(t, tt.want, uc.count())
		})
	}
}

func TestProcessMessageInvalidateErrorIsLogged(t *testing.T) {
	uc := &countingCatalog{err: errors.New("redis down")}
	l := NewCatalogListener(&fakeReader{}, uc, logger.NewNop())
	assert.NotPanics(t, func() {
		l.processMessage(context.Background(), []byte(`{"event_type":"ProductUpserted"}`))
	})
	assert.Equal(t, 1, uc.count())
}

func TestStartConsumesUntilCancelled(t *testing.T) {
	reader := &fakeReader{
		failures: 1,
		messages: [][]byte{
			[]byte(`{"event_type":"ProductUpserted","payload":{"id":"p1"}}`),
			[]byte(`{"event_type":"ProductDeleted","payload":{"id":"p2"}}`),
		},
	}
	uc := &countingCatalog{}
	l := NewCatalogListener(reader, uc, logger.NewNop())
	l.backoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return uc.count() == 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("listener did not stop")
	}

	assert.NoError(t, l.Close())
	assert.True(t, reader.closed)
}
