package session

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		name := strings.TrimPrefix(r.URL.Path, "/")
		fmt.Fprintf(w, `<html><head><title>Page %s</title><style>p{}</style></head>
<body><h1>Heading %s</h1><script>var x = 1;</script><p>Body   of
 %s</p></body></html>`, name, name, name)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestExtractText(t *testing.T) {
	title, text, err := ExtractText(strings.NewReader(
		`<html><head><title> Hello </title></head><body><script>alert(1)</script>
<p>first</p>   <noscript>nojs</noscript><p>second  line</p></body></html>`))
	require.NoError(t, err)
	assert.Equal(t, "Hello", title)
	assert.Equal(t, "first second line", text)
}

func TestExtractText_SeparatesBlocks(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"list", `<h1>News</h1><ul><li>Rain today</li><li>Sun tomorrow</li></ul><div>Contact</div>`, "News Rain today Sun tomorrow Contact"},
		{"inline", `<p>Go<b>pher</b> and <a href="/x">links</a></p><p>next</p>`, "Gopher and links next"},
		{"table", `<table><tr><td>a</td><td>b</td></tr></table>`, "a b"},
		{"comment", `<p>x<!-- hidden -->y</p>`, "xy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, text, err := ExtractText(strings.NewReader(tt.html))
			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestHeadless_NavigateAndExtract(t *testing.T) {
	srv := pageServer(t)
	h := NewHeadless(HeadlessConfig{})
	defer h.Close()

	var seen []Page
	h.OnChange(func(p Page) { seen = append(seen, p) })

	require.NoError(t, h.Navigate(context.Background(), srv.URL+"/a"))
	assert.Equal(t, srv.URL+"/a", h.URL())
	assert.Equal(t, "Page a", h.Title())

	text, err := h.ExtractContent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Heading a Body of a", text)
	require.Len(t, seen, 1)
	assert.Equal(t, "Page a", seen[0].Title)
}

func TestHeadless_History(t *testing.T) {
	srv := pageServer(t)
	ctx := context.Background()
	h := NewHeadless(HeadlessConfig{})

	assert.ErrorIs(t, h.Back(ctx), ErrNoHistory)

	require.NoError(t, h.Navigate(ctx, srv.URL+"/a"))
	require.NoError(t, h.Navigate(ctx, srv.URL+"/b"))
	require.NoError(t, h.Navigate(ctx, srv.URL+"/c"))

	require.NoError(t, h.Back(ctx))
	require.NoError(t, h.Back(ctx))
	assert.Equal(t, "Page a", h.Title())
	assert.ErrorIs(t, h.Back(ctx), ErrNoHistory)

	require.NoError(t, h.Forward(ctx))
	assert.Equal(t, "Page b", h.Title())

	// navigating drops the forward entries
	require.NoError(t, h.Navigate(ctx, srv.URL+"/d"))
	assert.ErrorIs(t, h.Forward(ctx), ErrNoHistory)
	require.NoError(t, h.Back(ctx))
	assert.Equal(t, "Page b", h.Title())
}

func TestHeadless_Errors(t *testing.T) {
	srv := pageServer(t)
	ctx := context.Background()
	h := NewHeadless(HeadlessConfig{})

	_, err := h.ExtractContent(ctx)
	assert.ErrorIs(t, err, ErrNoPage)
	assert.ErrorIs(t, h.Reload(ctx), ErrNoPage)

	err = h.Navigate(ctx, srv.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Empty(t, h.URL())

	require.Error(t, h.Navigate(ctx, "http://[::1]:namedport"))
}

func TestHeadless_Reload(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprintf(w, "<title>v%d</title>", hits)
	}))
	defer srv.Close()

	h := NewHeadless(HeadlessConfig{UserAgent: "lauscher-test"})
	require.NoError(t, h.Navigate(context.Background(), srv.URL))
	assert.Equal(t, "v1", h.Title())
	require.NoError(t, h.Reload(context.Background()))
	assert.Equal(t, "v2", h.Title())
}
