package workshop

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeDoer returns a canned response and records every request it serves.
type fakeDoer struct {
	status   int
	body     string
	requests []*http.Request
	bodies   []string
}

func (f *fakeDoer) Do(req *http.Request) (*http.Response, error) {
	f.requests = append(f.requests, req)
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		f.bodies = append(f.bodies, string(b))
	} else {
		f.bodies = append(f.bodies, "")
	}
	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(f.body))),
	}, nil
}

func TestClient_Search(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantNames []string
	}{
		{"bare array", `[{"modId":"A","modName":"Alpha"}]`, []string{"Alpha"}},
		{"wrapped upper", `{"Content":[{"modId":"A","modName":"Alpha"},{"modId":"B","modName":"Beta"}]}`, []string{"Alpha", "Beta"}},
		{"wrapped lower", `{"content":[{"modId":"A","modName":"Alpha"}]}`, []string{"Alpha"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doer := &fakeDoer{body: tt.body}
			client := New("http://registry.test/", doer)

			results, err := client.Search(context.Background(), "alpha mod")
			assert.NoError(t, err)

			names := make([]string, len(results))
			for i, r := range results {
				names[i] = r.ModName
			}
			assert.Equal(t, tt.wantNames, names)
			assert.Equal(t, "http://registry.test/search?name=alpha+mod", doer.requests[0].URL.String())
		})
	}
}

func TestClient_SearchBlankQuery(t *testing.T) {
	doer := &fakeDoer{body: `[]`}
	client := New("http://registry.test", doer)

	for _, q := range []string{"", "   ", "\t"} {
		results, err := client.Search(context.Background(), q)
		assert.NoError(t, err)
		assert.Nil(t, results)
	}
	assert.Empty(t, doer.requests, "blank queries must not hit the registry")
}

func TestClient_SearchBadBody(t *testing.T) {
	client := New("http://registry.test", &fakeDoer{body: `"unexpected"`})
	_, err := client.Search(context.Background(), "x")
	assert.Error(t, err)
}

func TestClient_Dependencies(t *testing.T) {
	doer := &fakeDoer{body: `{"dependencies":[{"modId":"DEP","modName":"Dependency"}]}`}
	client := New("http://registry.test", doer)

	deps, err := client.Dependencies(context.Background(), "MOD1", "Some Mod")
	assert.NoError(t, err)
	assert.Len(t, deps, 1)
	assert.Equal(t, "DEP", deps[0].ModID)

	assert.Equal(t, http.MethodPost, doer.requests[0].Method)
	assert.Equal(t, "http://registry.test/mod", doer.requests[0].URL.String())
	assert.Equal(t, "application/json", doer.requests[0].Header.Get("Content-Type"))

	var payload map[string]string
	assert.NoError(t, json.Unmarshal([]byte(doer.bodies[0]), &payload))
	assert.Equal(t, map[string]string{"modId": "MOD1", "modName": "Some Mod"}, payload)
}

func TestClient_BatchInfo(t *testing.T) {
	doer := &fakeDoer{body: `[{"modId":"A","modName":"Alpha","version":"1.0.0"},{"modId":"B","error":"not found"}]`}
	client := New("http://registry.test", doer)

	items, err := client.BatchInfo(context.Background(), []string{"A", "B"})
	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "1.0.0", items[0].Version)
	assert.Equal(t, "not found", items[1].Error)

	assert.Equal(t, "http://registry.test/mods", doer.requests[0].URL.String())
	var payload map[string][]string
	assert.NoError(t, json.Unmarshal([]byte(doer.bodies[0]), &payload))
	assert.Equal(t, []string{"A", "B"}, payload["mods"])
}

func TestClient_BatchInfoEmpty(t *testing.T) {
	doer := &fakeDoer{}
	client := New("http://registry.test", doer)

	items, err := client.BatchInfo(context.Background(), nil)
	assert.NoError(t, err)
	assert.Nil(t, items)
	assert.Empty(t, doer.requests)
}

func TestClient_Count(t *testing.T) {
	doer := &fakeDoer{body: `{"count": 1234}`}
	client := New("http://registry.test", doer)

	count, err := client.Count(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1234, count)
	assert.Equal(t, "http://registry.test/count", doer.requests[0].URL.String())
}

func TestClient_StatusError(t *testing.T) {
	client := New("http://registry.test", &fakeDoer{status: http.StatusBadGateway, body: `oops`})

	_, err := client.Search(context.Background(), "x")
	assert.Error(t, err)

	var se *StatusError
	assert.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadGateway, se.Code)
	assert.Equal(t, "HTTP 502: Bad Gateway", se.Error())
}
