package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	mu      sync.Mutex
	batches [][]Envelope
	err     error
}

func (p *recordingPublisher) Publish(_ context.Context, batch []Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.batches = append(p.batches, append([]Envelope{}, batch...))
	return p.err
}

func (p *recordingPublisher) all() []Envelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []Envelope
	for _, b := range p.batches {
		out = append(out, b...)
	}
	return out
}

func TestDispatcher_Stop_Flushes_Pending_Events(t *testing.T) {
	req := require.New(t)
	pub := &recordingPublisher{}
	d := NewDispatcher(pub, Options{BatchSize: 100, FlushInterval: time.Hour}, zap.NewNop())
	d.Start()

	for range 3 {
		d.Emit(NewEnvelope("system", Broadcast, TypeMeetingCreated, nil, "abcd1234"))
	}
	d.Stop()

	got := pub.all()
	req.Len(got, 3)
	req.Equal("agent-fleet-v1", got[0].Protocol)
	req.Equal("abcd1234", got[0].Context.SessionID)
}

func TestDispatcher_Flushes_By_Batch_Size(t *testing.T) {
	req := require.New(t)
	pub := &recordingPublisher{}
	d := NewDispatcher(pub, Options{BatchSize: 2, FlushInterval: time.Hour}, zap.NewNop())
	d.Start()
	defer d.Stop()

	d.Emit(NewEnvelope("alex", Broadcast, TypeMessagePosted, nil, "m1"))
	d.Emit(NewEnvelope("alex", Broadcast, TypeMessagePosted, nil, "m1"))

	req.Eventually(func() bool { return len(pub.all()) == 2 }, time.Second, 5*time.Millisecond)
}

func TestDispatcher_Emit_After_Stop_Is_Dropped(t *testing.T) {
	req := require.New(t)
	pub := &recordingPublisher{}
	d := NewDispatcher(pub, Options{}, zap.NewNop())
	d.Start()
	d.Stop()
	d.Stop()

	req.NotPanics(func() {
		d.Emit(NewEnvelope("alex", Broadcast, TypeMessagePosted, nil, "m1"))
	})
	req.Empty(pub.all())
}

func TestDispatcher_Publisher_Error_Does_Not_Stop_Worker(t *testing.T) {
	req := require.New(t)
	pub := &recordingPublisher{err: errors.New("redis down")}
	d := NewDispatcher(pub, Options{BatchSize: 1, FlushInterval: time.Hour}, zap.NewNop())
	d.Start()

	d.Emit(NewEnvelope("alex", Broadcast, TypeMessagePosted, nil, "m1"))
	d.Emit(NewEnvelope("alex", Broadcast, TypeMessagePosted, nil, "m1"))
	d.Stop()

	req.Len(pub.all(), 2)
}

func TestEnvelope_JSON_Shape(t *testing.T) {
	req := require.New(t)
	e := NewEnvelope("devika", "alex", TypeMessagePosted, map[string]string{"content": "hi"}, "m1")

	data, err := json.Marshal(e)
	req.NoError(err)

	var raw map[string]any
	req.NoError(json.Unmarshal(data, &raw))
	req.Equal(map[string]any{"agent_id": "devika"}, raw["from"])
	req.Equal(map[string]any{"agent_id": "alex"}, raw["to"])
	req.Equal(map[string]any{"session_id": "m1"}, raw["context"])
}

func TestRedisPublisher_Unreachable_Returns_Error(t *testing.T) {
	req := require.New(t)
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	defer rdb.Close()

	err := NewRedisPublisher(rdb).Publish(context.Background(), []Envelope{
		NewEnvelope("system", Broadcast, TypeMeetingCreated, nil, "m1"),
	})
	req.Error(err)

	req.NoError(NewRedisPublisher(rdb).Publish(context.Background(), nil))
}
