package asl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"schoolfinder/internal/components/telemetry"
	"schoolfinder/internal/config"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const findPage = `<!DOCTYPE html>
<html lang="it-IT">
<head>
	<script src="/wp-includes/js/jquery/jquery.min.js"></script>
	<script>window.dataLayer = window.dataLayer || [];</script>
</head>
<body>
	<div id="asl-storelocator"></div>
	<script id="asl-remote-js-extra">
	/* <![CDATA[ */
	var ASL_REMOTE = {"ajax_url":"https:\/\/operanazionalemontessori.it\/wp-admin\/admin-ajax.php","nonce":"abc123","default_lang":"it_IT"};
	/* ]]> */
	</script>
</body>
</html>`

func parse(t *testing.T, page string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

func TestExtractNonce(t *testing.T) {
	testCases := []struct {
		name     string
		page     string
		expected string
		found    bool
	}{
		{
			name:     "asl remote script",
			page:     findPage,
			expected: "abc123",
			found:    true,
		},
		{
			name: "nonce outside of marked script",
			page: `<script>var other = {"nonce":"nope"};</script>
				<script>var ASL_REMOTE = {"nonce":"yes"};</script>`,
			expected: "yes",
			found:    true,
		},
		{
			name:  "marker without nonce",
			page:  `<script>var ASL_REMOTE = {"ajax_url":"x"};</script>`,
			found: false,
		},
		{
			name:  "no scripts",
			page:  `<html><body><p>ASL_REMOTE "nonce":"abc"</p></body></html>`,
			found: false,
		},
		{
			name:     "first match wins",
			page:     `<script>ASL_REMOTE {"nonce":"first"}</script><script>ASL_REMOTE {"nonce":"second"}</script>`,
			expected: "first",
			found:    true,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			nonce, ok := ExtractNonce(parse(t, test.page), config.DefaultMarker)
			require.Equal(t, test.found, ok)
			require.Equal(t, test.expected, nonce)
		})
	}
}

type fakeSite struct {
	page       string
	ajaxStatus int
	ajaxBody   string

	lock  sync.Mutex
	posts []*http.Request
	forms []map[string]string
}

func (f *fakeSite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case config.DefaultPagePath:
		w.Header().Set("Content-Type", "text/html; charset=UTF-8")
		fmt.Fprint(w, f.page)
	case config.DefaultAjaxPath:
		err := r.ParseForm()
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		form := map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		f.lock.Lock()
		f.posts = append(f.posts, r)
		f.forms = append(f.forms, form)
		f.lock.Unlock()

		status := f.ajaxStatus
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		fmt.Fprint(w, f.ajaxBody)
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, site *fakeSite) (Client, *telemetry.TestAPI) {
	server := httptest.NewServer(site)
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.BaseUrl = server.URL

	tel := telemetry.NewTestAPI()
	client, err := NewClient(cfg, tel)
	require.NoError(t, err)
	return client, tel
}

func TestGetNonce(t *testing.T) {
	client, tel := newTestClient(t, &fakeSite{page: findPage})

	nonce, err := client.GetNonce(context.Background())
	require.NoError(t, err)
	require.Equal(t, "abc123", nonce)
	require.Empty(t, tel.Broken)
}

func TestGetNonceMissing(t *testing.T) {
	client, tel := newTestClient(t, &fakeSite{page: `<html><script>var x = 1;</script></html>`})

	nonce, err := client.GetNonce(context.Background())
	require.ErrorIs(t, err, ErrNonceNotFound)
	require.Equal(t, "", nonce)
	require.True(t, tel.HasBroken(report_client_get_nonce))
}

func TestGetNonceNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	cfg := config.Default()
	cfg.BaseUrl = server.URL
	server.Close()

	tel := telemetry.NewTestAPI()
	client, err := NewClient(cfg, tel)
	require.NoError(t, err)

	nonce, err := client.GetNonce(context.Background())
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrNonceNotFound))
	require.Equal(t, "", nonce)
	require.True(t, tel.HasBroken(report_client_get_nonce))
}

func TestLoadStores(t *testing.T) {
	site := &fakeSite{
		ajaxBody: `[
			{"id":"1","title":"Casa dei Bambini","city":"Roma","lat":"41.9028","lng":12.4964},
			{"id":"2","title":"Scuola Montessori","city":null}
		]`,
	}
	client, tel := newTestClient(t, site)

	data, err := client.LoadStores(context.Background(), "abc123")
	require.NoError(t, err)
	require.Empty(t, tel.Broken)

	expected := []any{
		map[string]any{
			"id":    "1",
			"title": "Casa dei Bambini",
			"city":  "Roma",
			"lat":   "41.9028",
			"lng":   json.Number("12.4964"),
		},
		map[string]any{
			"id":    "2",
			"title": "Scuola Montessori",
			"city":  nil,
		},
	}
	if diff := cmp.Diff(expected, data); diff != "" {
		t.Fatalf("unexpected stores (-want +got):\n%s", diff)
	}

	site.lock.Lock()
	defer site.lock.Unlock()
	require.Len(t, site.forms, 1)
	require.Equal(t, map[string]string{
		"action":   "asl_load_stores",
		"nonce":    "abc123",
		"load_all": "1",
		"layout":   "1",
		"lang":     "it_IT",
	}, site.forms[0])

	req := site.posts[0]
	require.Equal(t, http.MethodPost, req.Method)
	require.True(t, strings.HasPrefix(req.Header.Get("Content-Type"), "application/x-www-form-urlencoded"))
	require.Equal(t, "XMLHttpRequest", req.Header.Get("X-Requested-With"))
	require.True(t, strings.HasSuffix(req.Header.Get("Referer"), config.DefaultPagePath))
}

func TestLoadStoresNotJSON(t *testing.T) {
	client, tel := newTestClient(t, &fakeSite{ajaxBody: "0 nonce expired"})

	data, err := client.LoadStores(context.Background(), "abc123")
	require.ErrorIs(t, err, ErrNotJSON)
	require.Nil(t, data)

	require.Len(t, tel.Broken, 1)
	require.Contains(t, tel.Broken[0].Params, "response preview: 0 nonce expired")
}

func TestLoadStoresNotJSONLongBody(t *testing.T) {
	body := "<html>" + strings.Repeat("a", 500) + "</html>"
	client, tel := newTestClient(t, &fakeSite{ajaxBody: body})

	_, err := client.LoadStores(context.Background(), "abc123")
	require.ErrorIs(t, err, ErrNotJSON)
	require.Len(t, tel.Broken, 1)
	require.Contains(t, tel.Broken[0].Params, "response too long to preview")
}

func TestLoadStoresStatus(t *testing.T) {
	client, tel := newTestClient(t, &fakeSite{ajaxStatus: http.StatusForbidden, ajaxBody: "-1"})

	data, err := client.LoadStores(context.Background(), "abc123")
	require.ErrorIs(t, err, ErrUnexpectedStatus)
	require.Nil(t, data)
	require.True(t, tel.HasBroken(report_client_load_stores))
}

func TestLoadStoresRequiresNonce(t *testing.T) {
	client, _ := newTestClient(t, &fakeSite{})
	require.Panics(t, func() {
		client.LoadStores(context.Background(), "")
	})
}

func TestDecodeJSON(t *testing.T) {
	_, err := decodeJSON([]byte(`[] []`))
	require.Error(t, err)

	_, err = decodeJSON([]byte(``))
	require.Error(t, err)

	data, err := decodeJSON([]byte(" {\"a\":1}\n"))
	require.NoError(t, err)
	require.Equal(t, map[string]any{"a": json.Number("1")}, data)
}
