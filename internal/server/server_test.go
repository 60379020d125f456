package server

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/iwvelando/eugene-roi/internal/report"
	"github.com/iwvelando/eugene-roi/internal/roi"
	"github.com/iwvelando/eugene-roi/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func newTestHandler() http.Handler {
	return NewHandler(zap.NewNop(), constants.DefaultMaxBodySizeBytes, "test", time.Minute)
}

func postForm(t *testing.T, h http.Handler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == constants.SessionCookieName {
			return c
		}
	}
	t.Fatalf("response did not set %s", constants.SessionCookieName)
	return nil
}

func exportWith(h http.Handler, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/export", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestIndexShowsDefaults(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))

	body := rr.Body.String()
	assert.Contains(t, body, "Eugene ROI Calculator")
	assert.Contains(t, body, `name="vol_Core_base"`)
	assert.Contains(t, body, `<option value="GP" selected>GP</option>`)
	assert.NotContains(t, body, `name="weeks_year"`, "weeks per year is Advanced only")
	assert.NotContains(t, body, `name="shipping"`)
	assert.NotContains(t, body, "Net Annual Benefit")
}

func TestIndexRoutes(t *testing.T) {
	h := newTestHandler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestIndexFollowsSelections(t *testing.T) {
	rr := postForm(t, newTestHandler(), url.Values{
		"user_type":     {string(roi.RoleOwner)},
		"input_mode":    {string(roi.ModeAdvanced)},
		"specialty":     {string(roi.SpecialtyFertility)},
		"billing_model": {string(roi.BillingMixed)},
	})

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	for _, name := range []string{"weeks_year", "num_admin", "genetic_hourly", "shipping", "misc_logistics", "private_hourly", "bulk_rate", "research_Comprehensive_complex"} {
		assert.Contains(t, body, `name="`+name+`"`)
	}
	assert.Contains(t, body, "Monthly Logistics")
	assert.NotContains(t, body, "Net Annual Benefit", "layout refresh does not calculate")
}

func TestIndexCalculateAndExport(t *testing.T) {
	h := newTestHandler()
	rr := postForm(t, h, url.Values{
		"action":         {"calculate"},
		"operation_days": {"9"},
	})

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Net Annual Benefit")
	assert.Contains(t, body, "Potential Patient Savings")
	assert.Contains(t, body, "Revenue Breakdown")
	assert.Contains(t, body, "<svg")
	assert.Contains(t, body, "Clinical Days/Week: 9 is outside 1-7, using 7")
	assert.NotContains(t, body, "Reference schedule")

	export := exportWith(h, sessionCookie(t, rr))
	require.Equal(t, http.StatusOK, export.Code, export.Body.String())
	assert.Equal(t, constants.XLSXContentType, export.Header().Get("Content-Type"))
	assert.Contains(t, export.Header().Get("Content-Disposition"), constants.ReportFileName)

	f, err := excelize.OpenReader(bytes.NewReader(export.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, report.Sheets, f.GetSheetList())
}

func TestIndexDebugPanel(t *testing.T) {
	rr := postForm(t, newTestHandler(), url.Values{
		"debug":     {"1"},
		"specialty": {string(roi.SpecialtyOBGYN)},
	})

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Reference schedule")
	assert.Contains(t, body, "1 doctor, 4 patients/hour, 8 hours/day, 5 days/week")
	assert.Contains(t, body, "&#34;specialty&#34;: &#34;OB/GYN&#34;")
}

func TestIndexBodyTooLarge(t *testing.T) {
	h := NewHandler(zap.NewNop(), 16, "test", time.Minute)
	rr := postForm(t, h, url.Values{"action": {"calculate"}, "specialty": {strings.Repeat("x", 64)}})

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestExportWithoutResults(t *testing.T) {
	rr := exportWith(newTestHandler(), nil)

	require.Equal(t, http.StatusNotFound, rr.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "No results to export. Please run the calculation first.", resp["error"])
}

func TestExportMethodNotAllowed(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/export", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestCalculateYAML(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "config.yaml.example"))
	require.NoError(t, err)

	h := newTestHandler()
	req := httptest.NewRequest(http.MethodPost, "/api/calculate", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/yaml")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp calculateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, roi.SpecialtyFertility, resp.Results.Specialty)
	assert.Equal(t, roi.ModeAdvanced, resp.Results.Mode)
	assert.True(t, resp.Results.LogisticsApplies)
	assert.Equal(t, 21000.0, resp.Results.LogisticalCosts)
	assert.NotEmpty(t, resp.Results.CalculationID)
	assert.NotEmpty(t, resp.Duration)

	export := exportWith(h, sessionCookie(t, rr))
	assert.Equal(t, http.StatusOK, export.Code)
}

func TestCalculateJSONWarnings(t *testing.T) {
	body := `{"practice": {"specialty": "GP"}, "billing": {"model": "Bulk Bill", "privateHourly": 300}, "tests": {"Dermatology": {"weeklyVolume": 4}}}`
	req := httptest.NewRequest(http.MethodPost, "/api/calculate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp calculateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, roi.SpecialtyGP, resp.Results.Specialty)
	assert.Contains(t, resp.Warnings, "privateHourly is ignored under Bulk Bill")

	found := false
	for _, w := range resp.Warnings {
		if strings.Contains(w, "is not recognised") {
			found = true
		}
	}
	assert.True(t, found, "expected unknown category warning in %v", resp.Warnings)
}

func TestCalculateKeepsRequestOverEnvironment(t *testing.T) {
	t.Setenv("EUGENE_BILLING_MODEL", "Private")
	t.Setenv("EUGENE_PRACTICE_SPECIALTY", "OB/GYN")

	body := `{"practice": {"specialty": "GP"}, "billing": {"model": "Bulk Bill"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/calculate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp calculateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, roi.BillingBulkBill, resp.Results.BillingModel)
	assert.Equal(t, roi.SpecialtyGP, resp.Results.Specialty)
}

func TestCalculateErrors(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		body    string
		limit   int64
		want    int
		wantErr bool
	}{
		{name: "malformed json", method: http.MethodPost, body: `{"practice": `, want: http.StatusBadRequest, wantErr: true},
		{name: "too large", method: http.MethodPost, body: `{"role": "` + strings.Repeat("x", 128) + `"}`, limit: 32, want: http.StatusRequestEntityTooLarge, wantErr: true},
		{name: "wrong method", method: http.MethodGet, want: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit := tt.limit
			if limit == 0 {
				limit = constants.DefaultMaxBodySizeBytes
			}
			h := NewHandler(zap.NewNop(), limit, "test", time.Minute)

			req := httptest.NewRequest(tt.method, "/api/calculate", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			require.Equal(t, tt.want, rr.Code, rr.Body.String())
			if tt.wantErr {
				var resp map[string]string
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.NotEmpty(t, resp["error"])
			}
		})
	}
}

func TestVersionEndpoint(t *testing.T) {
	tests := []struct {
		version string
		want    string
	}{
		{version: "v1.2.3", want: "v1.2.3"},
		{version: "  ", want: "dev"},
	}

	for _, tt := range tests {
		h := NewHandler(nil, 0, tt.version, 0)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/version", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, tt.want, resp["version"])
	}
}

func TestStaticAssets(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/static/styles.css", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "#1C1363")
}

func TestServeListenerShutdown(t *testing.T) {
	defer goleak.VerifyNone(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ServeListener(ctx, zap.NewNop(), ln, newTestHandler())
	}()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + ln.Addr().String() + "/api/version")
	require.NoError(t, err)
	_, err = io.Copy(io.Discard, resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("server did not shut down")
	}
}
