package store

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xela07ax/paulis-place/internal/domain"
	"github.com/xela07ax/paulis-place/internal/registry"
)

func newStore() *MeetingStore {
	return NewMeetingStore(registry.New())
}

func sprintSync() domain.MeetingDraft {
	return domain.MeetingDraft{Title: "Sprint Sync", Agenda: "Plan Q3", MeetingType: "standup"}
}

func TestMeetingStore_Create_Starts_As_Draft_With_One_Message(t *testing.T) {
	req := require.New(t)
	s := newStore()

	m := s.Create(sprintSync())

	req.Len(m.ID, 8)
	req.Equal(domain.MeetingStatusDraft, m.Status)
	req.Nil(m.StartedAt)
	req.Nil(m.EndedAt)
	req.NotNil(m.Attendees)
	req.NotNil(m.ActionItems)

	msgs, err := s.Messages(m.ID)
	req.NoError(err)
	req.Len(msgs, 1)
	req.Equal(domain.MessageSystem, msgs[0].MessageType)
	req.Equal("System", msgs[0].AgentName)
	req.Contains(msgs[0].Content, "Plan Q3")
	req.Equal(`Meeting "Sprint Sync" created. Agenda: Plan Q3`, msgs[0].Content)
}

func TestMeetingStore_Create_Without_Agenda(t *testing.T) {
	req := require.New(t)
	s := newStore()

	m := s.Create(domain.MeetingDraft{Title: "Untitled Meeting"})

	msgs, err := s.Messages(m.ID)
	req.NoError(err)
	req.Equal(`Meeting "Untitled Meeting" created. Agenda: None set`, msgs[0].Content)
}

func TestMeetingStore_Start_Then_End(t *testing.T) {
	req := require.New(t)
	s := newStore()
	m := s.Create(sprintSync())

	started, err := s.Start(m.ID)
	req.NoError(err)
	req.Equal(domain.MeetingInProgress, started.Status)
	req.NotNil(started.StartedAt)

	ended, err := s.End(m.ID)
	req.NoError(err)
	req.Equal(domain.MeetingEnded, ended.Status)
	req.NotNil(ended.EndedAt)

	msgs, err := s.Messages(m.ID)
	req.NoError(err)
	req.Len(msgs, 3)
	req.Equal("devika", msgs[1].AgentID)
	req.Equal("Devika", msgs[1].AgentName)
	req.Equal(domain.MessageChat, msgs[1].MessageType)
	req.Equal("Meeting started. I'm Devika, your Lead Delegator. Let's get to work on: Plan Q3", msgs[1].Content)
	req.Equal("Meeting ended. 2 messages exchanged. Action items: 0", msgs[2].Content)
}

func TestMeetingStore_End_Adds_Exactly_One_Message(t *testing.T) {
	req := require.New(t)
	s := newStore()
	m := s.Create(sprintSync())

	before, _ := s.Messages(m.ID)
	_, err := s.End(m.ID)
	req.NoError(err)
	after, _ := s.Messages(m.ID)

	req.Len(after, len(before)+1)
}

func TestMeetingStore_Start_After_End_Reopens(t *testing.T) {
	req := require.New(t)
	s := newStore()
	m := s.Create(domain.MeetingDraft{Title: "Retro"})

	_, _ = s.Start(m.ID)
	_, _ = s.End(m.ID)
	reopened, err := s.Start(m.ID)
	req.NoError(err)

	req.Equal(domain.MeetingInProgress, reopened.Status)
	req.NotNil(reopened.EndedAt)

	msgs, _ := s.Messages(m.ID)
	req.Len(msgs, 4)
	req.Contains(msgs[3].Content, "Let's get to work on: Retro")
}

func TestMeetingStore_List_Newest_First(t *testing.T) {
	req := require.New(t)
	s := newStore()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	first := s.Create(domain.MeetingDraft{Title: "first"})
	second := s.Create(domain.MeetingDraft{Title: "second"})
	third := s.Create(domain.MeetingDraft{Title: "third"})

	list := s.List()
	req.Len(list, 3)
	req.Equal([]string{third.ID, second.ID, first.ID}, []string{list[0].ID, list[1].ID, list[2].ID})
	for i := 1; i < len(list); i++ {
		req.False(list[i].CreatedAt.After(list[i-1].CreatedAt))
	}
}

func TestMeetingStore_List_Same_Timestamp_Uses_Insertion_Order(t *testing.T) {
	req := require.New(t)
	s := newStore()
	frozen := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return frozen }

	a := s.Create(domain.MeetingDraft{Title: "a"})
	b := s.Create(domain.MeetingDraft{Title: "b"})

	list := s.List()
	req.Equal(b.ID, list[0].ID)
	req.Equal(a.ID, list[1].ID)
}

func TestMeetingStore_Append_Resolves_Names(t *testing.T) {
	req := require.New(t)
	s := newStore()
	m := s.Create(sprintSync())

	cases := map[string]string{
		"alex":     "Alex",
		"user":     "User",
		"stranger": "Stranger",
	}
	for agentID, want := range cases {
		msg, err := s.Append(m.ID, agentID, "hi", domain.MessageChat)
		req.NoError(err)
		req.Equal(want, msg.AgentName)
		req.NotEmpty(msg.ID)
	}

	msgs, _ := s.Messages(m.ID)
	req.Len(msgs, 4)
}

func TestMeetingStore_Unknown_Meeting_Is_Not_Found(t *testing.T) {
	req := require.New(t)
	s := newStore()

	_, err := s.Get("nope")
	req.ErrorIs(err, domain.ErrMeetingNotFound)
	_, err = s.Start("nope")
	req.ErrorIs(err, domain.ErrMeetingNotFound)
	_, err = s.End("nope")
	req.ErrorIs(err, domain.ErrMeetingNotFound)
	_, err = s.Messages("nope")
	req.ErrorIs(err, domain.ErrMeetingNotFound)
	_, err = s.Append("nope", "alex", "hi", domain.MessageChat)
	req.ErrorIs(err, domain.ErrMeetingNotFound)
	_, err = s.Recent("nope", 5)
	req.ErrorIs(err, domain.ErrMeetingNotFound)

	req.Zero(s.Count())
}

func TestMeetingStore_Recent(t *testing.T) {
	req := require.New(t)
	s := newStore()
	m := s.Create(sprintSync())
	for i := range 7 {
		_, err := s.Append(m.ID, "alex", fmt.Sprintf("msg %d", i), domain.MessageChat)
		req.NoError(err)
	}

	recent, err := s.Recent(m.ID, 5)
	req.NoError(err)
	req.Len(recent, 5)
	req.Equal("msg 2", recent[0].Content)
	req.Equal("msg 6", recent[4].Content)

	fresh := s.Create(sprintSync())
	recent, err = s.Recent(fresh.ID, 5)
	req.NoError(err)
	req.Len(recent, 1)
}

func TestMeetingStore_Returned_Meeting_Is_A_Copy(t *testing.T) {
	req := require.New(t)
	s := newStore()
	m := s.Create(domain.MeetingDraft{Title: "t", Attendees: []string{"alex"}})

	m.Attendees[0] = "mallory"
	m.Status = domain.MeetingEnded

	got, err := s.Get(m.ID)
	req.NoError(err)
	req.Equal([]string{"alex"}, got.Attendees)
	req.Equal(domain.MeetingStatusDraft, got.Status)
}

func TestMeetingStore_CreateFromSession(t *testing.T) {
	req := require.New(t)
	s := newStore()

	m := s.CreateFromSession(domain.CamelSession{SessionID: 42, Role1: "Python Programmer", Role2: "Stock Trader", Task: "Build a bot"})

	req.Equal("CAMEL: Python Programmer × Stock Trader", m.Title)
	req.Equal("Build a bot", m.Agenda)
	req.Equal("architecture", m.MeetingType)
	req.Equal(42, m.CamelSessionID)
	req.Equal(domain.AdaptedFromCamel, m.AdaptedFrom)

	msgs, err := s.Messages(m.ID)
	req.NoError(err)
	req.Len(msgs, 1)
	req.Equal("Meeting created from CAMEL session. Python Programmer (instructor) × Stock Trader (assistant). Task: Build a bot", msgs[0].Content)
}

func TestMeetingStore_Camel_Provenance_JSON(t *testing.T) {
	req := require.New(t)
	s := newStore()

	plain, err := json.Marshal(s.Create(sprintSync()))
	req.NoError(err)
	req.NotContains(string(plain), "camel_session_id")
	req.NotContains(string(plain), "adapted_from")

	camel, err := json.Marshal(s.CreateFromSession(domain.CamelSession{Role1: "a", Role2: "b", Task: "t"}))
	req.NoError(err)
	req.Contains(string(camel), `"camel_session_id":null`)
	req.Contains(string(camel), `"adapted_from":"GPT-Agent-im-ready"`)

	var back domain.Meeting
	req.NoError(json.Unmarshal(camel, &back))
	req.NotNil(back.CamelProvenance)
	req.Equal(domain.AdaptedFromCamel, back.AdaptedFrom)
}

func TestMeetingStore_Concurrent_Append_Keeps_Per_Writer_Order(t *testing.T) {
	req := require.New(t)
	s := newStore()
	m := s.Create(sprintSync())

	const writers, perWriter = 8, 50
	var wg sync.WaitGroup
	for w := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perWriter {
				_, err := s.Append(m.ID, fmt.Sprintf("w%d", w), fmt.Sprintf("%d", i), domain.MessageChat)
				if err != nil {
					t.Error(err)
				}
			}
		}()
	}
	wg.Wait()

	msgs, err := s.Messages(m.ID)
	req.NoError(err)
	req.Len(msgs, 1+writers*perWriter)

	next := make(map[string]int)
	ids := make(map[string]struct{})
	for _, msg := range msgs[1:] {
		req.Equal(fmt.Sprintf("%d", next[msg.AgentID]), msg.Content)
		next[msg.AgentID]++
		ids[msg.ID] = struct{}{}
	}
	req.Len(ids, writers*perWriter)
	for w := range writers {
		req.Equal(perWriter, next[fmt.Sprintf("w%d", w)])
	}
}
