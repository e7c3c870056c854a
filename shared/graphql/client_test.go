package graphql

import (
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
)

var (
	listOp   = MustParseOperation("ListPosts", `query ListPosts { posts { slug } }`)
	createOp = MustParseOperation("CreateComment", `mutation CreateComment($name: String!) { createComment(data: {name: $name}) { id } }`)
)

type capturedRequest struct {
	Authorization string
	Body          request
}

func newServer(t *testing.T, status int, response string) (*httptest.Server, *[]capturedRequest) {
	t.Helper()

	var mu sync.Mutex
	var captured []capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body request
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		mu.Lock()
		captured = append(captured, capturedRequest{Authorization: r.Header.Get("Authorization"), Body: body})
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

type observation struct {
	operation string
	outcome   string
}

type recordingObserver struct {
	seen []observation
}

func (o *recordingObserver) ObserveUpstream(operation, outcome string, _ time.Duration) {
	o.seen = append(o.seen, observation{operation, outcome})
}

func TestClient_Execute_DecodesData(t *testing.T) {
	srv, captured := newServer(t, http.StatusOK, `{"data":{"posts":[{"slug":"hello-world"},{"slug":"second"}]}}`)
	obs := &recordingObserver{}
	client := NewClient(Config{Endpoint: srv.URL, Token: "secret"}, WithObserver(obs))

	var out struct {
		Posts []struct {
			Slug string `json:"slug"`
		} `json:"posts"`
	}
	err := client.Execute(context.Background(), listOp, map[string]any{"first": 2}, &out)
	require.NoError(t, err)

	require.Len(t, out.Posts, 2)
	assert.Equal(t, "hello-world", out.Posts[0].Slug)

	require.Len(t, *captured, 1)
	req := (*captured)[0]
	assert.Empty(t, req.Authorization, "plain queries are sent without the token")
	assert.Equal(t, "ListPosts", req.Body.OperationName)
	assert.Equal(t, listOp.Document, req.Body.Query)
	assert.EqualValues(t, 2, req.Body.Variables["first"])

	assert.Equal(t, []observation{{"ListPosts", "success"}}, obs.seen)
}

func TestClient_Execute_MutationSendsBearerToken(t *testing.T) {
	srv, captured := newServer(t, http.StatusOK, `{"data":{"createComment":{"id":"c1"}}}`)
	client := NewClient(Config{Endpoint: srv.URL, Token: "secret"})

	err := client.Execute(context.Background(), createOp, map[string]any{"name": "Alice"}, nil)
	require.NoError(t, err)

	require.Len(t, *captured, 1)
	assert.Equal(t, "Bearer secret", (*captured)[0].Authorization)
}

func TestClient_Execute_AuthenticatedQuerySendsBearerToken(t *testing.T) {
	srv, captured := newServer(t, http.StatusOK, `{"data":{"posts":[]}}`)
	client := NewClient(Config{Endpoint: srv.URL, Token: "secret"})

	op := listOp
	op.Authenticated = true
	require.NoError(t, client.Execute(context.Background(), op, nil, nil))

	assert.Equal(t, "Bearer secret", (*captured)[0].Authorization)
}

func TestClient_Execute_ConfigurationErrors(t *testing.T) {
	srv, captured := newServer(t, http.StatusOK, `{"data":{}}`)

	tests := []struct {
		name    string
		cfg     Config
		op      Operation
		wantErr error
	}{
		{name: "missing endpoint on read", cfg: Config{Token: "secret"}, op: listOp, wantErr: ErrMissingEndpoint},
		{name: "missing endpoint on write", cfg: Config{}, op: createOp, wantErr: ErrMissingEndpoint},
		{name: "missing token on write", cfg: Config{Endpoint: srv.URL}, op: createOp, wantErr: ErrMissingCredential},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := &recordingObserver{}
			client := NewClient(tt.cfg, WithObserver(obs))

			err := client.Execute(context.Background(), tt.op, nil, nil)

			assert.Equal(t, tt.wantErr, err)
			assert.True(t, IsConfigurationError(err))
			assert.Equal(t, "config_error", obs.seen[0].outcome)
		})
	}

	assert.Empty(t, *captured, "no request may be sent without configuration")
}

func TestClient_Execute_TransportErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		response    string
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "non-2xx status",
			status:      http.StatusUnauthorized,
			response:    `{"errors":[{"message":"not allowed"}]}`,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "graphql: CreateComment failed with status 401: not allowed",
		},
		{
			name:       "non-2xx status with html body",
			status:     http.StatusBadGateway,
			response:   `<html>bad gateway</html>`,
			wantStatus: http.StatusBadGateway,
		},
		{
			name:        "graphql errors with 200",
			status:      http.StatusOK,
			response:    `{"data":null,"errors":[{"message":"field post is not defined"},{"message":"second"}]}`,
			wantStatus:  http.StatusOK,
			wantMessage: "graphql: CreateComment failed with status 200: field post is not defined; second",
		},
		{
			name:       "undecodable body",
			status:     http.StatusOK,
			response:   `not json`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "data of the wrong shape",
			status:     http.StatusOK,
			response:   `{"data":{"createComment":"oops"}}`,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newServer(t, tt.status, tt.response)
			obs := &recordingObserver{}
			client := NewClient(Config{Endpoint: srv.URL, Token: "secret"}, WithObserver(obs))

			var out struct {
				CreateComment struct {
					ID string `json:"id"`
				} `json:"createComment"`
			}
			err := client.Execute(context.Background(), createOp, nil, &out)

			var te *TransportError
			require.True(t, errors.As(err, &te), "want *TransportError, got %T", err)
			assert.Equal(t, tt.wantStatus, te.StatusCode)
			assert.Equal(t, tt.wantStatus, StatusCode(err))
			assert.False(t, IsConfigurationError(err))
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, err.Error())
			}
			assert.Equal(t, "transport_error", obs.seen[0].outcome)
		})
	}
}

func TestClient_Execute_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	client := NewClient(Config{Endpoint: endpoint})
	err := client.Execute(context.Background(), listOp, nil, nil)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 0, te.StatusCode)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestClient_Execute_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	client := NewClient(Config{Endpoint: srv.URL, Timeout: 50 * time.Millisecond})
	err := client.Execute(context.Background(), listOp, nil, nil)

	var te *TransportError
	assert.ErrorAs(t, err, &te)
}

func TestStatusCode_NonTransportError(t *testing.T) {
	assert.Equal(t, 0, StatusCode(errors.New("plain")))
	assert.Equal(t, 0, StatusCode(nil))
}
