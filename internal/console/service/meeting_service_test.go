package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xela07ax/paulis-place/internal/domain"
	"github.com/xela07ax/paulis-place/internal/events"
	"github.com/xela07ax/paulis-place/internal/metrics"
	"github.com/xela07ax/paulis-place/internal/registry"
	"github.com/xela07ax/paulis-place/internal/store"
)

type recordingEmitter struct {
	mu     sync.Mutex
	events []events.Envelope
}

func (e *recordingEmitter) Emit(env events.Envelope) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, env)
}

func (e *recordingEmitter) types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.events))
	for _, env := range e.events {
		out = append(out, env.Type)
	}
	return out
}

type fixture struct {
	svc     *MeetingService
	emitter *recordingEmitter
	metrics *metrics.Metrics
}

func newFixture() fixture {
	return newFixtureWith(registry.New())
}

func newFixtureWith(agents *registry.Registry) fixture {
	em := &recordingEmitter{}
	m := metrics.NewMetrics(prometheus.NewRegistry())
	svc := NewMeetingService(store.NewMeetingStore(agents), agents, em, m, zap.NewNop())
	return fixture{svc: svc, emitter: em, metrics: m}
}

func TestMeetingService_Lifecycle(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	ctx := context.Background()

	m := f.svc.CreateMeeting(ctx, domain.MeetingDraft{Title: "Sprint Sync", Agenda: "Plan Q3", MeetingType: "standup"})
	req.Equal(domain.MeetingStatusDraft, m.Status)

	_, err := f.svc.StartMeeting(ctx, m.ID)
	req.NoError(err)
	ended, err := f.svc.EndMeeting(ctx, m.ID)
	req.NoError(err)
	req.Equal(domain.MeetingEnded, ended.Status)

	msgs, err := f.svc.Messages(ctx, m.ID)
	req.NoError(err)
	req.Len(msgs, 3)

	req.Equal([]string{events.TypeMeetingCreated, events.TypeMeetingStarted, events.TypeMeetingEnded}, f.emitter.types())
	req.Equal(1.0, testutil.ToFloat64(f.metrics.MeetingsCreated))
	req.Equal(2.0, testutil.ToFloat64(f.metrics.MessagesTotal.WithLabelValues("system")))
	req.Equal(1.0, testutil.ToFloat64(f.metrics.MessagesTotal.WithLabelValues("chat")))
}

func TestMeetingService_Not_Found_Does_Not_Emit(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.StartMeeting(ctx, "missing")
	req.ErrorIs(err, domain.ErrMeetingNotFound)
	_, err = f.svc.EndMeeting(ctx, "missing")
	req.ErrorIs(err, domain.ErrMeetingNotFound)
	_, err = f.svc.PostMessage(ctx, "missing", "alex", "hi", domain.MessageChat)
	req.ErrorIs(err, domain.ErrMeetingNotFound)
	_, err = f.svc.RunDiscussion(ctx, "missing", nil, nil)
	req.ErrorIs(err, domain.ErrMeetingNotFound)

	req.Empty(f.emitter.types())
}

func TestMeetingService_Status_Counts(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	ctx := context.Background()

	f.svc.CreateMeeting(ctx, domain.MeetingDraft{Title: "a"})
	f.svc.CreateMeeting(ctx, domain.MeetingDraft{Title: "b"})

	st := f.svc.Status(ctx)
	req.Equal("paulis-place", st.Service)
	req.Equal("1.0.0", st.Version)
	req.Equal(12, st.AgentsCount)
	req.Equal(2, st.MeetingsCount)
}

func TestMeetingService_PostMessage_Unknown_Agent(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	ctx := context.Background()
	m := f.svc.CreateMeeting(ctx, domain.MeetingDraft{Title: "a"})

	msg, err := f.svc.PostMessage(ctx, m.ID, "ghost", "boo", domain.MessageChat)
	req.NoError(err)
	req.Equal("Ghost", msg.AgentName)

	msg, err = f.svc.PostMessage(ctx, m.ID, "user", "hello", domain.MessageChat)
	req.NoError(err)
	req.Equal("User", msg.AgentName)
}

func TestMeetingService_CreateFromCamel(t *testing.T) {
	req := require.New(t)
	f := newFixture()

	m := f.svc.CreateFromCamel(context.Background(), domain.CamelRequest{}.Session())

	req.Equal("CAMEL: Agent A × Agent B", m.Title)
	req.Equal("Collaborative discussion", m.Agenda)
	req.Nil(m.CamelSessionID)
	req.Equal("GPT-Agent-im-ready", m.AdaptedFrom)
	req.True(strings.HasPrefix(m.Title, "CAMEL: "))
}

func TestMeetingService_PostMessage_Bounds_Type_Label(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	ctx := context.Background()
	m := f.svc.CreateMeeting(ctx, domain.MeetingDraft{Title: "t"})

	for i := range 20 {
		msg, err := f.svc.PostMessage(ctx, m.ID, "alex", "hi", domain.MessageType(fmt.Sprintf("custom-%d", i)))
		req.NoError(err)
		// Сам тип сообщения сохраняется как прислали
		req.Equal(domain.MessageType(fmt.Sprintf("custom-%d", i)), msg.MessageType)
	}

	req.Equal(2, testutil.CollectAndCount(f.metrics.MessagesTotal))
	req.Equal(20.0, testutil.ToFloat64(f.metrics.MessagesTotal.WithLabelValues("other")))
}
