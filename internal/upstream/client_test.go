package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"jacket-survey/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/MemberService.svc", APIKey: "secret", Retries: 2, Backoff: time.Millisecond}, nil, nil)
}

func TestGetMember_UnwrapsAndNormalizes(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-API-Key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"d":{"MEMB_CODE":"000777","SIZE_CODE":"L","SURVEY_DATE":"/Date(1758602879000+0700)/"}}`))
	})

	rec, err := c.GetMember(context.Background(), "000777")
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, "/MemberService.svc/GetMemberByCode", gotPath)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "000777", gotBody["MEMB_CODE"])
	assert.Equal(t, "000777", rec.Code())
	assert.Equal(t, domain.SizeL, *rec.SizeCode)
	assert.Equal(t, domain.StatusConfirmed, rec.Status)
	assert.True(t, rec.SurveyDate.Equal(time.UnixMilli(1758602879000)))
}

func TestGetMember_NotFound(t *testing.T) {
	for name, h := range map[string]http.HandlerFunc{
		"null": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"GetMemberByCodeResult":null}`))
		},
		"404": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		},
		"empty list": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"d":[]}`))
		},
	} {
		t.Run(name, func(t *testing.T) {
			rec, err := newTestClient(t, h).GetMember(context.Background(), "1")
			require.NoError(t, err)
			assert.Nil(t, rec)
		})
	}
}

func TestGetMember_RetriesThenFails(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	rec, err := c.GetMember(context.Background(), "1")
	assert.Nil(t, rec)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstreamUnavailable))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGetMember_RecoversOnRetry(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"d":{"MEMB_CODE":"1"}}`))
	})

	rec, err := c.GetMember(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "1", rec.Code())
}

func TestGetMember_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	})
	_, err := c.GetMember(context.Background(), "1")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestClient_NotConfigured(t *testing.T) {
	c := New(Config{}, nil, nil)
	_, err := c.GetMember(context.Background(), "1")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestClient_ContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.SearchMembers(ctx, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_CancelDuringBackoff(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	c := New(Config{BaseURL: srv.URL, Retries: 3, Backoff: time.Hour}, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.GetMember(ctx, "1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestWait(t *testing.T) {
	c := New(Config{}, nil, nil)
	require.NoError(t, c.wait(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.wait(ctx, time.Hour), context.Canceled)
}

func TestSearchMembers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"SearchMembersResult":"[{\"MEMB_CODE\":\"1\"},null,{\"MEMB_CODE\":\"2\",\"RECEIVE_STATUS\":\"RECEIVED\"}]"}`))
	})
	list, err := c.SearchMembers(context.Background(), "som")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, domain.StatusReceived, list[1].Status)
}

func TestSaveSize_SendsLegacyFieldsWithoutRetry(t *testing.T) {
	var calls int32
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := c.SaveSize(context.Background(), "0009", domain.Size2XL, domain.SurveyMethodManual, "staff7")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, map[string]any{
		"MEMB_CODE":     "0009",
		"SIZE_CODE":     "2XL",
		"SURVEY_METHOD": "MANUAL",
		"PROCESSED_BY":  "staff7",
	}, body)
}

func TestSaveSize_Acknowledgements(t *testing.T) {
	cases := []struct {
		body    string
		status  int
		wantErr bool
	}{
		{`{"d":null}`, http.StatusOK, false},
		{`{"d":true}`, http.StatusOK, false},
		{``, http.StatusNoContent, false},
		{`{"SaveShirtSizeResult":{"SUCCESS":true}}`, http.StatusOK, false},
		{`{"d":false}`, http.StatusOK, true},
		{`{"SaveShirtSizeResult":{"SUCCESS":"N","MESSAGE":"survey closed"}}`, http.StatusOK, true},
		{`size not allowed`, http.StatusBadRequest, true},
	}
	for _, tc := range cases {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(tc.body))
		})
		err := c.SaveSize(context.Background(), "1", domain.SizeM, domain.SurveyMethodOnline, "")
		if !tc.wantErr {
			assert.NoError(t, err, tc.body)
			continue
		}
		require.Error(t, err, tc.body)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument, tc.body)
		var rej *RejectedError
		assert.True(t, errors.As(err, &rej))
	}
}

func TestSaveSize_RejectionMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"d":{"SUCCESS":false,"MESSAGE":"survey closed"}}`))
	})
	err := c.SaveSize(context.Background(), "1", domain.SizeM, domain.SurveyMethodOnline, "")
	assert.EqualError(t, err, "SaveShirtSize rejected by member service: survey closed")
}

func TestConfirmReceive(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"d":true}`))
	})
	err := c.ConfirmReceive(context.Background(), "1", domain.Pickup{ReceiverType: "OTHER", ReceiverName: "Somsri"}, "staff1")
	require.NoError(t, err)
	assert.Equal(t, "OTHER", body["RECEIVER_TYPE"])
	assert.Equal(t, "Somsri", body["RECEIVER_NAME"])
	assert.Equal(t, "staff1", body["PROCESSED_BY"])
}

func TestGetInventory(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"d":[{"SIZE_CODE":"M","TOTAL_QTY":10,"RECEIVED_QTY":4}]}`))
	})
	items, err := c.GetInventory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.InventoryItem{{Size: domain.SizeM, Total: 10, Distributed: 4, Remaining: 6}}, items)
}
