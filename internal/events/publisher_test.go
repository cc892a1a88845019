package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_NoBrokersIsNop(t *testing.T) {
	p := New(nil)
	_, ok := p.(Nop)
	assert.True(t, ok)
	assert.NoError(t, p.Publish(context.Background(), TopicOrders, "1", OrderEvent{Type: OrderPlaced}))
	assert.NoError(t, p.Close())
}

func TestNew_WithBrokers(t *testing.T) {
	p := New([]string{"localhost:9092"})
	_, ok := p.(*KafkaPublisher)
	assert.True(t, ok)
	assert.NoError(t, p.Close())
}

func TestRecorder(t *testing.T) {
	r := &Recorder{Err: errors.New("down")}
	err := r.Publish(context.Background(), TopicProducts, "5", ProductEvent{Type: ProductCreated, ProductID: 5})
	assert.Error(t, err)
	assert.Equal(t, []string{ProductCreated}, r.Types())
	assert.Equal(t, "5", r.Events[0].Key)
}
