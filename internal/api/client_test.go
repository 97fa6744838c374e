package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trygginn/trygginn/internal/config"
	"github.com/trygginn/trygginn/internal/domain"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg := config.DefaultConfig()
	cfg.APIBaseURL = srv.URL + "/api"
	return New(cfg, NoopObserver{})
}

type recordingObserver struct {
	mu     sync.Mutex
	events []CallEvent
}

func (o *recordingObserver) OnCallComplete(e CallEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func TestDo_SendsJSONHeadersAndDecodes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "kari@example.no", body["email"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"userId":7,"fullName":"Kari Nordmann","email":"kari@example.no","role":"PARENT"}`))
	})

	resp, err := client.Login(context.Background(), "kari@example.no", "hemmelig")
	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.UserID)
	assert.Equal(t, domain.RoleParent, resp.Role)
}

func TestDo_CallerHeadersAreMerged(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "nb", r.Header.Get("Accept-Language"))
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.Do(context.Background(), http.MethodGet, "/ping", nil, nil, WithHeader("Accept-Language", "nb"))
	require.NoError(t, err)
}

func TestDo_NoContentLeavesOutUntouched(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	out := UserProfile{FullName: "unchanged"}
	require.NoError(t, client.Do(context.Background(), http.MethodGet, "/users/1", nil, &out))
	assert.Equal(t, "unchanged", out.FullName)
}

func TestDo_EmptyOKBodyIsNoValue(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	var out []ChildSummary
	require.NoError(t, client.Do(context.Background(), http.MethodGet, "/children/guardian/1", nil, &out))
	assert.Nil(t, out)
}

func TestDo_ErrorMessageFromBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Ugyldig tilgangskode"}`))
	})

	_, err := client.UseAccessCode(context.Background(), "NOPE", nil)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Ugyldig tilgangskode", apiErr.Message)
	assert.Equal(t, "Ugyldig tilgangskode", UserMessage(err))
}

func TestDo_ErrorWithoutMessageUsesFallback(t *testing.T) {
	cases := []string{"", "not json", `{"error":"x"}`, `{"message":null}`}
	for _, body := range cases {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(body))
		})
		err := client.Do(context.Background(), http.MethodGet, "/x", nil, nil)
		assert.Equal(t, FallbackMessage, UserMessage(err), "body=%q", body)
	}
}

func TestDo_NotFoundMatchesSentinel(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := client.LatestStatus(context.Background(), 3)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDo_NoRetries(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	require.Error(t, client.RegisterAttendance(context.Background(), AttendanceRequest{ChildID: 1}))
	assert.Equal(t, 1, calls)
}

func TestDo_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := config.DefaultConfig()
	cfg.APIBaseURL = srv.URL
	cfg.RequestTimeout = 30 * time.Millisecond
	client := New(cfg, nil)

	err := client.Do(context.Background(), http.MethodGet, "/slow", nil, nil)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestDo_Unavailable(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.APIBaseURL = "http://127.0.0.1:1"
	client := New(cfg, nil)

	err := client.Do(context.Background(), http.MethodGet, "/x", nil, nil)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDo_InvalidJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":`))
	})

	_, err := client.User(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestDo_ObserverReceivesEvent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	cfg := config.DefaultConfig()
	cfg.APIBaseURL = srv.URL
	client := New(cfg, obs)

	_ = client.Do(context.Background(), http.MethodGet, "/attendance/child/1/latest", nil, nil)

	require.Len(t, obs.events, 1)
	ev := obs.events[0]
	assert.Equal(t, http.MethodGet, ev.Method)
	assert.Equal(t, 404, ev.Status)
	assert.False(t, ev.Success)
	assert.Equal(t, "HTTP_404", ev.ErrorCode)
	assert.NotEmpty(t, ev.RequestID)
}

func TestLogObserver_WritesCallLine(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogObserver(&buf)

	obs.OnCallComplete(CallEvent{Method: "GET", Path: "/children/1/details", Status: 200, LatencyMs: 12, Success: true})
	obs.OnCallComplete(CallEvent{Method: "POST", Path: "/attendance", Status: 500, ErrorCode: "HTTP_500"})

	out := buf.String()
	assert.Contains(t, out, "level=INFO msg=api_call method=GET path=/children/1/details status=200 latency_ms=12")
	assert.Contains(t, out, "level=WARN msg=api_call method=POST")
	assert.Contains(t, out, "error_code=HTTP_500")
}

func TestLatestStatus_DecodesLocalDateTime(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"childId":4,"childName":"Ola","lastEventType":"IN","lastEventTime":"2024-03-05T08:15:30","statusText":"Inne"}`))
	})

	st, err := client.LatestStatus(context.Background(), 4)
	require.NoError(t, err)
	ev := st.Event()
	require.NotNil(t, ev)
	assert.Equal(t, domain.AttendanceIn, ev.Type)
	assert.Equal(t, 8, ev.Time.Hour())
}

func TestLatestStatus_NullEventIsNoRecord(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"childId":4,"childName":"Ola","lastEventType":null,"lastEventTime":null,"statusText":""}`))
	})

	st, err := client.LatestStatus(context.Background(), 4)
	require.NoError(t, err)
	assert.Nil(t, st.Event())
}

func TestDeleteEvent_PassesDeletedBy(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/calendar-events/12", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("deletedByUserId"))
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.DeleteEvent(context.Background(), 12, 3))
}

func TestUserByEmail_EscapesQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "per+test@example.no", r.URL.Query().Get("email"))
		w.Write([]byte(`{"id":2,"fullName":"Per","role":"PARENT"}`))
	})

	u, err := client.UserByEmail(context.Background(), "per+test@example.no")
	require.NoError(t, err)
	assert.Equal(t, "Per", u.ToDomain().Name)
}

func TestCalendarEvent_ToDomainScope(t *testing.T) {
	group := "Blåbær"
	withGroup := CalendarEvent{Title: "Tur", DaycareGroupName: &group}
	assert.Equal(t, "Blåbær", withGroup.ToDomain().Scope)

	whole := CalendarEvent{Title: "Julefest"}
	ev := whole.ToDomain()
	assert.Equal(t, domain.ScopeWholeKindergarten, ev.Scope)
	assert.Nil(t, ev.End)
}

func TestTimestamp_MarshalRoundTrip(t *testing.T) {
	ts := NewTimestamp(time.Date(2024, 12, 13, 17, 30, 0, 0, time.Local))
	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2024-12-13T17:30:00"`, string(data))

	var zero Timestamp
	data, err = json.Marshal(zero)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestUserMessage_Sentinels(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Contains(t, UserMessage(ErrTimeout), "i tide")
	assert.Contains(t, UserMessage(ErrUnavailable), "kontakt")
	assert.Equal(t, FallbackMessage, UserMessage(errors.New("boom")))
}
