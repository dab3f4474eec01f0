package providers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const openWeatherBody = `{
  "coord": {"lon": 116.3972, "lat": 39.9075},
  "weather": [{"id": 800, "main": "Clear", "description": "Clear Sky", "icon": "01d"}],
  "base": "stations",
  "main": {"temp": 18.94, "feels_like": 17.9, "temp_min": 17.0, "temp_max": 20.1, "pressure": 1018, "humidity": 35},
  "visibility": 10000,
  "wind": {"speed": 3.2, "deg": 361},
  "clouds": {"all": 5},
  "dt": 1760500000,
  "sys": {"type": 1, "id": 9609, "country": "CN", "sunrise": 1760480000, "sunset": 1760520000},
  "timezone": 28800,
  "id": 1816670,
  "name": "Beijing",
  "cod": 200
}`

const testKey = "170202434e7c4230f7e04ab6f1c3c7ab"

func newTestOpenWeather(t *testing.T, baseURL string, logger *zap.Logger) *OpenWeatherProvider {
	t.Helper()
	if logger == nil {
		logger = zap.NewNop()
	}
	return NewOpenWeatherProvider(HTTPClientConfig{
		Client:  NewRestyClient(5 * time.Second),
		BaseURL: baseURL,
		Logger:  logger,
	}, "", weather.NewLocalizer("zh-CN"), weather.OpenWeatherLocations())
}

func TestNormalizeOpenWeather(t *testing.T) {
	model, err := NormalizeOpenWeather([]byte(openWeatherBody), weather.OpenWeatherLocations(), weather.NewLocalizer("zh-CN"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model.Location.DisplayName() != "北京" || model.Location.CountryCode != "CN" {
		t.Errorf("location = %+v", model.Location)
	}
	if model.ConditionLabel != "晴朗" {
		t.Errorf("label = %q, want case-insensitive phrase match", model.ConditionLabel)
	}
	if model.WindPoint != weather.North {
		t.Errorf("361 degrees should be North, got %q", model.WindPoint)
	}
	if model.VisibilityKm != 10 {
		t.Errorf("visibility = %v", model.VisibilityKm)
	}
	if model.TimezoneHours != 8 {
		t.Errorf("timezone = %v", model.TimezoneHours)
	}
	// 1760480000 is 22:13:20 UTC, 06:13 at UTC+8.
	if model.Sunrise != "06:13" {
		t.Errorf("sunrise = %q", model.Sunrise)
	}
	if model.Icon != "https://openweathermap.org/img/wn/01d@4x.png" {
		t.Errorf("icon = %q", model.Icon)
	}
	if model.CloudCoverPct == nil || *model.CloudCoverPct != 5 {
		t.Errorf("clouds = %v", model.CloudCoverPct)
	}
}

func TestNormalizeOpenWeatherPassesUnknownPhrase(t *testing.T) {
	body := strings.Replace(openWeatherBody, `"Clear Sky"`, `"light intensity drizzle"`, 1)
	model, err := NormalizeOpenWeather([]byte(body), nil, weather.NewLocalizer("zh-CN"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model.ConditionLabel != "light intensity drizzle" {
		t.Errorf("label = %q, want the phrase unchanged", model.ConditionLabel)
	}
	if model.Location.LocalName != "" {
		t.Errorf("no registry means no local name, got %q", model.Location.LocalName)
	}
}

func TestNormalizeOpenWeatherMissingFields(t *testing.T) {
	_, err := NormalizeOpenWeather([]byte(`{"name":"Beijing","weather":[]}`), nil, weather.NewLocalizer("en"))
	if !errors.Is(err, weather.ErrMalformedResponse) {
		t.Fatalf("expected malformed response, got %v", err)
	}
}

func TestOpenWeatherFetchSuccess(t *testing.T) {
	var query map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/2.5/weather" {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		query = map[string]string{"q": q.Get("q"), "appid": q.Get("appid"), "units": q.Get("units"), "lang": q.Get("lang")}
		_, _ = w.Write([]byte(openWeatherBody))
	}))
	defer srv.Close()

	p := newTestOpenWeather(t, srv.URL, nil)
	loc, _ := weather.OpenWeatherLocations().ByName("Beijing")
	if _, err := p.Fetch(context.Background(), loc, testKey); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]string{"q": "Beijing,CN", "appid": testKey, "units": "metric", "lang": "zh_cn"}
	for k, v := range want {
		if query[k] != v {
			t.Errorf("query %s = %q, want %q", k, query[k], v)
		}
	}
}

func TestOpenWeatherFetchClassifiesStatus(t *testing.T) {
	cases := []struct {
		status int
		want   error
		kind   weather.ErrorKind
	}{
		{http.StatusUnauthorized, weather.ErrInvalidCredential, weather.KindInvalidCredential},
		{http.StatusNotFound, weather.ErrLocationNotFound, weather.KindLocationNotFound},
		{http.StatusTooManyRequests, weather.ErrRateLimited, weather.KindRateLimited},
		{http.StatusBadRequest, weather.ErrProviderError, weather.KindProviderError},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"cod":"x","message":"nope"}`))
			}))
			defer srv.Close()

			p := newTestOpenWeather(t, srv.URL, nil)
			_, err := p.Fetch(context.Background(), weather.Location{Name: "Beijing", CountryCode: "CN"}, testKey)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if weather.ErrorKindOf(err) != tc.kind {
				t.Fatalf("kind = %q, want %q", weather.ErrorKindOf(err), tc.kind)
			}
		})
	}
}

func TestOpenWeatherInvalidCredentialGuidance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestOpenWeather(t, srv.URL, nil).Fetch(context.Background(), weather.Location{Name: "Beijing", CountryCode: "CN"}, testKey)
	msg := weather.NewLocalizer("en").ErrorMessage(err)
	for _, want := range []string{"API key is correct", "activated", "quota"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q lacks %q", msg, want)
		}
	}
}

func TestOpenWeatherFetchWithoutKeyMakesNoCall(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	_, err := newTestOpenWeather(t, srv.URL, nil).Fetch(context.Background(), weather.Location{Name: "Beijing"}, "  ")
	if !errors.Is(err, weather.ErrMissingCredential) {
		t.Fatalf("expected missing credential, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no outbound call, got %d", calls)
	}
}

func TestOpenWeatherLogsMaskCredential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(openWeatherBody))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	core := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(&buf), zapcore.DebugLevel)
	p := newTestOpenWeather(t, srv.URL, zap.New(core))

	if _, err := p.Fetch(context.Background(), weather.Location{Name: "Beijing", CountryCode: "CN"}, testKey); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, testKey) {
		t.Fatalf("log output contains the full credential: %s", out)
	}
	if !strings.Contains(out, "1702...") {
		t.Fatalf("log output lacks the masked prefix: %s", out)
	}
}

func TestOpenWeatherTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	_, err := newTestOpenWeather(t, base, nil).Fetch(context.Background(), weather.Location{Name: "Beijing", CountryCode: "CN"}, testKey)
	if !errors.Is(err, weather.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if strings.Contains(err.Error(), testKey) {
		t.Fatalf("transport error leaks credential: %v", err)
	}
}
