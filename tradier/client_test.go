package tradier

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bcdannyboy/protect/hedge"
	"github.com/bcdannyboy/protect/pricing"
)

func newTestServer(t *testing.T, routes map[string]string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept header: got %q", got)
		}
		key := r.URL.Path
		if exp := r.URL.Query().Get("expiration"); exp != "" {
			key += "?" + exp
		}
		body, ok := routes[key]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClient("test-token", WithBaseURL(srv.URL+"/"), WithTimeout(5*time.Second))
}

func TestSpotPrice(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    float64
		wantErr bool
	}{
		{"last", `{"quotes":{"quote":{"symbol":"SPY","last":501.25,"bid":501.2,"ask":501.3,"prevclose":499}}}`, 501.25, false},
		{"mid when last is null", `{"quotes":{"quote":{"symbol":"SPY","last":null,"bid":500,"ask":501,"prevclose":499}}}`, 500.5, false},
		{"prevclose", `{"quotes":{"quote":{"symbol":"SPY","last":null,"bid":0,"ask":0,"prevclose":499}}}`, 499, false},
		{"array form", `{"quotes":{"quote":[{"symbol":"QQQ","last":400},{"symbol":"SPY","last":480}]}}`, 480, false},
		{"no price", `{"quotes":{"quote":{"symbol":"SPY","last":null,"bid":0,"ask":0,"prevclose":null}}}`, 0, true},
		{"unknown symbol", `{"quotes":{"quote":{"symbol":"QQQ","last":400}}}`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestServer(t, map[string]string{"/markets/quotes": tt.body})
			got, err := c.SpotPrice(context.Background(), "SPY")
			if tt.wantErr {
				if !errors.Is(err, ErrNoData) {
					t.Errorf("expected ErrNoData, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SpotPrice() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpotPriceResolvesConfig(t *testing.T) {
	c := newTestServer(t, map[string]string{
		"/markets/quotes": `{"quotes":{"quote":{"symbol":"SPY","last":510}}}`,
	})
	cfg, err := hedge.ResolveSpot(context.Background(), c, "spy", hedge.DefaultConfig())
	if err != nil {
		t.Fatalf("ResolveSpot() error: %v", err)
	}
	if cfg.Spot != 510 {
		t.Errorf("Spot: got %v, want 510", cfg.Spot)
	}
}

func TestHTTPErrors(t *testing.T) {
	c := newTestServer(t, map[string]string{})
	if _, err := c.SpotPrice(context.Background(), "SPY"); err == nil {
		t.Error("expected error on 404")
	}

	bad := NewClient("wrong", WithBaseURL(c.baseURL))
	if _, err := bad.History(context.Background(), "SPY", time.Now(), time.Now()); err == nil {
		t.Error("expected error on 401")
	}

	broken := newTestServer(t, map[string]string{"/markets/quotes": `{"quotes":`})
	if _, err := broken.Quote(context.Background(), "SPY"); err == nil {
		t.Error("expected unmarshal error")
	}
}

func TestHistory(t *testing.T) {
	c := newTestServer(t, map[string]string{
		"/markets/history": `{"history":{"day":[
			{"date":"2024-01-02","open":100,"high":102,"low":99,"close":101,"volume":1000},
			{"date":"2024-01-03","open":101,"high":103,"low":100,"close":102,"volume":1200}
		]}}`,
	})
	bars, err := c.History(context.Background(), "SPY", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("History() error: %v", err)
	}
	if len(bars) != 2 || bars[1].Date != "2024-01-03" || bars[1].Close != 102 {
		t.Errorf("unexpected bars: %+v", bars)
	}

	empty := newTestServer(t, map[string]string{"/markets/history": `{"history":null}`})
	if _, err := empty.History(context.Background(), "SPY", time.Now(), time.Now()); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}

	single := newTestServer(t, map[string]string{
		"/markets/history": `{"history":{"day":{"date":"2024-01-02","open":100,"high":102,"low":99,"close":101}}}`,
	})
	bars, err = single.History(context.Background(), "SPY", time.Now(), time.Now())
	if err != nil || len(bars) != 1 {
		t.Errorf("single day: got %v, %v", bars, err)
	}
}

func TestPutChains(t *testing.T) {
	now := time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC)
	c := newTestServer(t, map[string]string{
		"/markets/options/expirations": `{"expirations":{"date":["2024-01-05","2024-02-16","2024-06-21"]}}`,
		"/markets/options/chains?2024-02-16": `{"options":{"option":[
			{"symbol":"SPY240216P00430000","underlying":"SPY","strike":430,"bid":2.1,"ask":2.3,"expiration_date":"2024-02-16","option_type":"put"},
			{"symbol":"SPY240216C00500000","underlying":"SPY","strike":500,"bid":4.0,"ask":4.2,"expiration_date":"2024-02-16","option_type":"call"},
			{"symbol":"SPY240216P00450000","underlying":"SPY","strike":450,"bid":3.9,"ask":4.1,"expiration_date":"2024-02-16","option_type":"put"}
		]}}`,
	})

	var calls [][2]int
	puts, err := c.PutChains(context.Background(), "SPY", now, 7, 60, func(done, total int) {
		calls = append(calls, [2]int{done, total})
	})
	if err != nil {
		t.Fatalf("PutChains() error: %v", err)
	}
	if len(puts) != 2 {
		t.Fatalf("expected 2 puts, got %d: %+v", len(puts), puts)
	}
	for _, p := range puts {
		if p.Kind != pricing.Put {
			t.Errorf("non-put returned: %+v", p)
		}
		if want := time.Date(2024, 2, 16, 20, 0, 0, 0, time.UTC); !p.Expiration.Equal(want) {
			t.Errorf("expiration: got %v, want %v", p.Expiration, want)
		}
	}

	if len(calls) != 1 || calls[0] != [2]int{1, 1} {
		t.Errorf("progress calls: got %v", calls)
	}

	candidates := hedge.ScreenProtectivePuts(puts, 480, 0.045, 0, now)
	if len(candidates) != 2 {
		t.Errorf("expected both puts screened, got %d", len(candidates))
	}
}

func TestExpirationsSingle(t *testing.T) {
	c := newTestServer(t, map[string]string{
		"/markets/options/expirations": `{"expirations":{"date":"2024-03-15"}}`,
	})
	dates, err := c.Expirations(context.Background(), "SPY")
	if err != nil {
		t.Fatalf("Expirations() error: %v", err)
	}
	if len(dates) != 1 || dates[0].Format(dateLayout) != "2024-03-15" {
		t.Errorf("got %v", dates)
	}
}
