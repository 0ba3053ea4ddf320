package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradebot/internal/api"
	"tradebot/internal/store"
)

func newsAPIServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/top-headlines", r.URL.Path)
		assert.Equal(t, "us", r.URL.Query().Get("country"))
		assert.Equal(t, "general", r.URL.Query().Get("category"))
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testClient(baseURL string) *api.Client {
	return api.NewClient(api.WithBaseURL(baseURL), api.WithRetry(&api.RetryConfig{MaxAttempts: 1}))
}

func TestNewsAPIHeadlines(t *testing.T) {
	srv := newsAPIServer(t, http.StatusOK, `{"status":"ok","totalResults":3,"articles":[
		{"title":"Congress passes budget"},
		{"title":"[Removed]"},
		{"title":"  "},
		{"title":"President signs policy order"}]}`)

	src := NewNewsAPI(testClient(srv.URL), NewsAPIOptions{APIKey: "secret"})
	headlines, err := src.Headlines(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Congress passes budget", "President signs policy order"}, headlines)
	assert.Equal(t, "newsapi", src.Name())
}

func TestNewsAPIEmptyIsNotAnError(t *testing.T) {
	srv := newsAPIServer(t, http.StatusOK, `{"status":"ok","totalResults":0,"articles":[]}`)

	headlines, err := NewNewsAPI(testClient(srv.URL), NewsAPIOptions{APIKey: "secret"}).Headlines(context.Background())
	require.NoError(t, err)
	assert.Empty(t, headlines)
}

func TestNewsAPIFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"error status", http.StatusOK, `{"status":"error","code":"rateLimited","message":"slow down"}`},
		{"malformed json", http.StatusOK, `{"status":`},
		{"http error", http.StatusUnauthorized, `{"status":"error","code":"apiKeyInvalid"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newsAPIServer(t, tc.status, tc.body)
			_, err := NewNewsAPI(testClient(srv.URL), NewsAPIOptions{APIKey: "secret"}).Headlines(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestNewsAPIMissingKey(t *testing.T) {
	_, err := NewNewsAPI(testClient("http://unused"), NewsAPIOptions{}).Headlines(context.Background())
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

const rssFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Politics</title>
<item><title><![CDATA[Election results <b>surprise</b>   markets]]></title></item>
<item><title>Inflation report due</title></item>
</channel></rss>`

const atomFeed = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom"><title>Wire</title>
<entry><title>Congress debates tariffs</title><id>1</id></entry>
</feed>`

func TestRSSHeadlinesKeepFeedOrder(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rss", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(20 * time.Millisecond)
		_, _ = w.Write([]byte(rssFeed))
	})
	mux.HandleFunc("/atom", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(atomFeed))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	src := NewRSS([]string{srv.URL + "/rss", srv.URL + "/atom"}, 5*time.Second)
	headlines, err := src.Headlines(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Election results surprise markets",
		"Inflation report due",
		"Congress debates tariffs",
	}, headlines)
}

func TestRSSSkipsFailingFeed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(atomFeed))
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	headlines, err := NewRSS([]string{srv.URL + "/broken", srv.URL + "/ok"}, 5*time.Second).Headlines(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Congress debates tariffs"}, headlines)

	_, err = NewRSS([]string{srv.URL + "/broken"}, 5*time.Second).Headlines(context.Background())
	assert.Error(t, err)
}

func TestCleanHTML(t *testing.T) {
	assert.Equal(t, "a b c", cleanHTML("  a \n b\tc "))
	assert.Equal(t, "Fed & Congress", cleanHTML("Fed &amp; Congress"))
	assert.Equal(t, "bold move", cleanHTML("<b>bold</b> move"))
}

const politicsPage = `<html><body>
<div class="story"><h3 class="title">Senate votes on policy</h3></div>
<div class="story"><h3 class="title">  President
   travels abroad </h3></div>
<div class="story"><h3 class="title">Senate votes on policy</h3></div>
<h3>not a headline</h3>
</body></html>`

func TestScraperHeadlines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(politicsPage))
	}))
	defer srv.Close()

	s := NewScraper([]store.ScrapePage{{Name: "test", URL: srv.URL + "/politics", Selector: "h3.title"}}, 5*time.Second, 0)
	headlines, err := s.Headlines(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Senate votes on policy", "President travels abroad"}, headlines)
}

func TestScraperAllPagesFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	s := NewScraper([]store.ScrapePage{{Name: "gone", URL: srv.URL, Selector: "h3"}}, 5*time.Second, 0)
	_, err := s.Headlines(context.Background())
	assert.Error(t, err)
}

type stubSource struct {
	name      string
	headlines []string
	err       error
	calls     int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Headlines(ctx context.Context) ([]string, error) {
	s.calls++
	return s.headlines, s.err
}

func TestChainFirstNonEmptyWins(t *testing.T) {
	a := &stubSource{name: "a", err: errors.New("down")}
	b := &stubSource{name: "b"}
	c := &stubSource{name: "c", headlines: []string{"x"}}
	d := &stubSource{name: "d", headlines: []string{"y"}}

	chain := NewChain(a, b, c, d)
	headlines, err := chain.Headlines(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, headlines)
	assert.Equal(t, 0, d.calls)
	assert.Equal(t, "chain(a,b,c,d)", chain.Name())
}

func TestChainAllEmpty(t *testing.T) {
	headlines, err := NewChain(&stubSource{name: "a", err: errors.New("down")}, &stubSource{name: "b"}).Headlines(context.Background())
	require.NoError(t, err)
	assert.Empty(t, headlines)
}

func TestChainAllFail(t *testing.T) {
	errA := errors.New("a down")
	errB := fmt.Errorf("b down")
	_, err := NewChain(&stubSource{name: "a", err: errA}, &stubSource{name: "b", err: errB}).Headlines(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
}

func TestNewSource(t *testing.T) {
	cfg := store.Default()
	src, err := NewSource(cfg)
	require.NoError(t, err)
	assert.Equal(t, "newsapi", src.Name())

	cfg.News.Provider = "CHAIN"
	cfg.News.Chain = []string{"NEWSAPI", "RSS"}
	cfg.News.RSS.Feeds = []string{"https://example.com/feed"}
	src, err = NewSource(cfg)
	require.NoError(t, err)
	assert.Equal(t, "chain(newsapi,rss)", src.Name())

	cfg.News.Provider = "TELEGRAPH"
	_, err = NewSource(cfg)
	assert.Error(t, err)
}
