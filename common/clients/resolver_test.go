package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_InlineObject(t *testing.T) {
	var logins int
	mux := http.NewServeMux()
	mux.Handle("/auth", acceptAuth(&logins))
	mux.HandleFunc("/data/member/info", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"cust_id":100001,"display_name":"Dev Driver"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	doc, err := client.Resolve(context.Background(), "/data/member/info", nil)

	require.NoError(t, err)
	assert.JSONEq(t, `{"cust_id":100001,"display_name":"Dev Driver"}`, string(doc))
	assert.Equal(t, 1, logins)
	assert.True(t, client.Session().Authenticated())
}

func TestResolve_FollowsLink(t *testing.T) {
	var logins, linkFetches int
	mux := http.NewServeMux()
	mux.Handle("/auth", acceptAuth(&logins))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/data/car/get", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"link":"%s/cache/cars.json"}`, srv.URL)
	})
	mux.HandleFunc("/cache/cars.json", func(w http.ResponseWriter, r *http.Request) {
		linkFetches++
		w.Write([]byte(`[1,2,3]`))
	})

	client := newTestClient(t, srv.URL)
	doc, err := client.Resolve(context.Background(), "/data/car/get", nil)

	require.NoError(t, err)
	assert.JSONEq(t, `[1,2,3]`, string(doc))
	assert.Equal(t, 1, linkFetches)
}

func TestResolve_ArrayBodyIsNeverAnEnvelope(t *testing.T) {
	var logins int
	mux := http.NewServeMux()
	mux.Handle("/auth", acceptAuth(&logins))
	mux.HandleFunc("/data/constants/divisions", func(w http.ResponseWriter, r *http.Request) {
		// Elements carrying "link" keys must not trigger indirection.
		w.Write([]byte(`[{"link":"not-a-redirect"},{"division":1}]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	doc, err := client.Resolve(context.Background(), "/data/constants/divisions", nil)

	require.NoError(t, err)
	assert.JSONEq(t, `[{"link":"not-a-redirect"},{"division":1}]`, string(doc))
}

func TestResolve_ObjectWithoutLinkReturnedVerbatim(t *testing.T) {
	var logins int
	mux := http.NewServeMux()
	mux.Handle("/auth", acceptAuth(&logins))
	mux.HandleFunc("/data/lookup/countries", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"countries":["GB","IE"]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	doc, err := client.Resolve(context.Background(), "/data/lookup/countries", nil)

	require.NoError(t, err)
	assert.JSONEq(t, `{"countries":["GB","IE"]}`, string(doc))
}

func TestResolve_QueryParamsAttached(t *testing.T) {
	var logins int
	var gotQuery url.Values
	mux := http.NewServeMux()
	mux.Handle("/auth", acceptAuth(&logins))
	mux.HandleFunc("/data/league/get", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.Resolve(context.Background(), "/data/league/get", url.Values{
		"league_id": []string{"4403"},
	})

	require.NoError(t, err)
	assert.Equal(t, "4403", gotQuery.Get("league_id"))
}

func TestResolve_ReauthenticatesAfter401(t *testing.T) {
	var logins, fetches int
	mux := http.NewServeMux()
	mux.Handle("/auth", acceptAuth(&logins))
	mux.HandleFunc("/data/member/info", func(w http.ResponseWriter, r *http.Request) {
		fetches++
		if fetches == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"unauthorized"}`))
			return
		}
		w.Write([]byte(`{"display_name":"Dev Driver"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	doc, err := client.Resolve(context.Background(), "/data/member/info", nil)

	require.NoError(t, err)
	assert.JSONEq(t, `{"display_name":"Dev Driver"}`, string(doc))
	assert.Equal(t, 2, logins, "401 must trigger exactly one re-login")
	assert.Equal(t, 2, fetches)
}

func TestResolve_SecondConsecutive401FailsFast(t *testing.T) {
	var logins, fetches int
	mux := http.NewServeMux()
	mux.Handle("/auth", acceptAuth(&logins))
	mux.HandleFunc("/data/member/info", func(w http.ResponseWriter, r *http.Request) {
		fetches++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"unauthorized"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	doc, err := client.Resolve(context.Background(), "/data/member/info", nil)

	assert.Nil(t, doc)
	var resolveErr *ResolveError
	require.ErrorAs(t, err, &resolveErr)
	assert.Equal(t, http.StatusUnauthorized, resolveErr.StatusCode)

	assert.Equal(t, 2, fetches, "no retry beyond one re-auth cycle")
	assert.Equal(t, 2, logins)
	assert.False(t, client.Session().Authenticated())
}

func TestResolveOnce_401InvalidatesSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	client.session.authenticated = true

	_, err := client.resolveOnce(context.Background(), srv.URL+"/data/x", nil)

	var resolveErr *ResolveError
	require.ErrorAs(t, err, &resolveErr)
	assert.False(t, client.Session().Authenticated(),
		"401 must flip the session regardless of caller retries")
}

func TestResolve_BadStatus(t *testing.T) {
	var logins int
	mux := http.NewServeMux()
	mux.Handle("/auth", acceptAuth(&logins))
	mux.HandleFunc("/data/member/info", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"maintenance"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	doc, err := client.Resolve(context.Background(), "/data/member/info", nil)

	assert.Nil(t, doc)
	var resolveErr *ResolveError
	require.ErrorAs(t, err, &resolveErr)
	assert.Equal(t, http.StatusServiceUnavailable, resolveErr.StatusCode)
	assert.Contains(t, resolveErr.Body, "maintenance")
}

func TestResolve_BadStatusOnLinkFetch(t *testing.T) {
	var logins int
	mux := http.NewServeMux()
	mux.Handle("/auth", acceptAuth(&logins))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/data/car/assets", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"link":"%s/cache/expired.json"}`, srv.URL)
	})
	mux.HandleFunc("/cache/expired.json", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`expired`))
	})

	client := newTestClient(t, srv.URL)
	_, err := client.Resolve(context.Background(), "/data/car/assets", nil)

	var resolveErr *ResolveError
	require.ErrorAs(t, err, &resolveErr)
	assert.Equal(t, http.StatusForbidden, resolveErr.StatusCode)
}

func TestResolve_ConnectionErrorDegradesToAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	client := newTestClient(t, baseURL)
	client.session.authenticated = true

	doc, err := client.Resolve(context.Background(), "/data/member/info", nil)

	assert.Nil(t, doc)
	assert.NoError(t, err, "transient connectivity failures are soft")
}

func TestResolve_AuthErrorIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"authcode":0,"message":"bad credentials"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.Resolve(context.Background(), "/data/member/info", nil)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, AuthRejected, authErr.Kind)
}

func TestRedirectLink(t *testing.T) {
	link, ok := redirectLink([]byte(`{"link":"https://x/y.json"}`))
	assert.True(t, ok)
	assert.Equal(t, "https://x/y.json", link)

	_, ok = redirectLink([]byte(`{"data":1}`))
	assert.False(t, ok)

	_, ok = redirectLink([]byte(`[{"link":"https://x/y.json"}]`))
	assert.False(t, ok)

	_, ok = redirectLink([]byte(`"link"`))
	assert.False(t, ok)
}
