package web

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"github.com/erazemk/heartshare/internal/db"
	"github.com/erazemk/heartshare/internal/feed"
	"github.com/erazemk/heartshare/internal/market"
	"github.com/erazemk/heartshare/internal/model"
	"github.com/erazemk/heartshare/internal/store"
	"github.com/erazemk/heartshare/internal/visitor"
)

const testSecret = "web-test-secret"

func setupTestServer(t *testing.T) (*httptest.Server, *market.Service) {
	t.Helper()
	hub := feed.NewHub()
	svc := &market.Service{DB: db.NewTestDB(t), Hub: hub}
	handler, err := NewRouter(svc, testSecret)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	t.Cleanup(hub.Close)
	return server, svc
}

// newClient returns a browser-like client that keeps cookies and does not
// follow redirects.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func get(t *testing.T, c *http.Client, u string) (int, string) {
	t.Helper()
	resp, err := c.Get(u)
	if err != nil {
		t.Fatalf("GET %s: %v", u, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func post(t *testing.T, c *http.Client, u, contentType string, body io.Reader) *http.Response {
	t.Helper()
	resp, err := c.Post(u, contentType, body)
	if err != nil {
		t.Fatalf("POST %s: %v", u, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return string(body)
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.RGBA{0, 128, 255, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func donateForm(t *testing.T, fields map[string]string, image []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	if image != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="photo.png"`)
		h.Set("Content-Type", "image/png")
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatalf("creating part: %v", err)
		}
		part.Write(image)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func validFields(name string) map[string]string {
	return map[string]string{
		"name":          name,
		"description":   "Solid oak, seats six",
		"category":      "Furniture",
		"condition":     "Good",
		"location":      "Central",
		"contact_email": "oak@example.com",
	}
}

func TestIndexShowsPlaceholders(t *testing.T) {
	server, _ := setupTestServer(t)

	status, body := get(t, newClient(t), server.URL+"/")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	for _, name := range []string{"Vintage Desk Lamp", "Kitchen Mixer", "Board Games Bundle"} {
		if !strings.Contains(body, name) {
			t.Errorf("expected %q on the grid", name)
		}
	}
	if !strings.Contains(body, "/static/live.js") {
		t.Error("expected the live update script")
	}
}

func TestDonateSubmit(t *testing.T) {
	server, svc := setupTestServer(t)
	c := newClient(t)

	body, ct := donateForm(t, validFields("Oak Dining Table"), testPNG(t))
	resp := post(t, c, server.URL+"/donate", ct, body)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/?donation=success#items" {
		t.Errorf("unexpected redirect %q", loc)
	}

	status, page := get(t, c, server.URL+"/?donation=success")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.Contains(page, "Donation Successful!") {
		t.Error("expected success banner")
	}
	if !strings.Contains(page, "Oak Dining Table") {
		t.Error("expected donated item on the grid")
	}
	if !strings.Contains(page, `class="badge">New<`) {
		t.Error("expected newest item to be flagged")
	}
	if strings.Contains(page, "oak@example.com") {
		t.Error("contact email must not appear on the grid")
	}

	items, err := svc.List(t.Context())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}

	status, _ = get(t, c, server.URL+"/items/"+items[0].ID+"/image")
	if status != http.StatusOK {
		t.Errorf("expected image 200, got %d", status)
	}
}

func TestDonateValidation(t *testing.T) {
	server, svc := setupTestServer(t)

	body, ct := donateForm(t, map[string]string{"contact_email": "nope"}, nil)
	resp := post(t, newClient(t), server.URL+"/donate", ct, body)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}

	page := readBody(t, resp)
	for _, msg := range []string{
		"Validation Error",
		"Item name is required",
		"Description is required",
		"Please select a category",
		"Please select condition",
		"Location is required",
		"Please enter a valid email",
		"Please upload an item photo",
	} {
		if !strings.Contains(page, msg) {
			t.Errorf("expected %q in the form", msg)
		}
	}

	n, err := store.CountDonatedItems(t.Context(), svc.DB)
	if err != nil {
		t.Fatalf("CountDonatedItems: %v", err)
	}
	if n != 0 {
		t.Errorf("expected nothing stored, got %d", n)
	}
}

func TestDonateKeepsInputOnError(t *testing.T) {
	server, _ := setupTestServer(t)

	fields := validFields("Bookshelf")
	body, ct := donateForm(t, fields, nil)
	resp := post(t, newClient(t), server.URL+"/donate", ct, body)
	page := readBody(t, resp)

	if !strings.Contains(page, `value="Bookshelf"`) {
		t.Error("expected name to be kept")
	}
	if !strings.Contains(page, "<option selected>Furniture</option>") {
		t.Error("expected category to stay selected")
	}
}

func TestClaimDonatedItem(t *testing.T) {
	server, svc := setupTestServer(t)
	c := newClient(t)

	item, err := svc.Donate(t.Context(), model.Donation{
		Name: "Road Bike", Description: "21 speeds", Category: "Sports",
		Condition: "Fair", Location: "East Side", ContactEmail: "bike@example.com",
	}, market.BytesUpload(testPNG(t), "image/png"))
	if err != nil {
		t.Fatalf("Donate: %v", err)
	}

	status, page := get(t, c, server.URL+"/items/"+item.ID+"/claim")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.Contains(page, "Confirm Claim") || !strings.Contains(page, "Road Bike") {
		t.Error("expected confirm dialog for the item")
	}
	if strings.Contains(page, "bike@example.com") {
		t.Error("email must not be revealed before confirming")
	}

	resp := post(t, c, server.URL+"/items/"+item.ID+"/claim", "application/x-www-form-urlencoded", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if page := readBody(t, resp); !strings.Contains(page, "bike@example.com") {
		t.Error("expected donor email on the success page")
	}

	_, grid := get(t, c, server.URL+"/")
	if strings.Contains(grid, "Road Bike") {
		t.Error("claimed item still listed")
	}

	resp = post(t, c, server.URL+"/items/"+item.ID+"/claim", "application/x-www-form-urlencoded", nil)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303 for second claim, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); !strings.HasPrefix(loc, "/?claim=gone") {
		t.Errorf("unexpected redirect %q", loc)
	}
}

func TestClaimPlaceholderPersists(t *testing.T) {
	server, _ := setupTestServer(t)
	c := newClient(t)

	resp := post(t, c, server.URL+"/placeholders/ph-1/claim", "application/x-www-form-urlencoded", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if page := readBody(t, resp); !strings.Contains(page, model.PlaceholderDonorEmail) {
		t.Error("expected placeholder donor email")
	}

	// Reload with the same cookie jar.
	_, page := get(t, c, server.URL+"/")
	if strings.Contains(page, "Vintage Desk Lamp") {
		t.Error("claimed placeholder shown after reload")
	}
	if !strings.Contains(page, "Kitchen Mixer") {
		t.Error("other placeholders must stay visible")
	}

	// A different visitor still sees it.
	_, other := get(t, newClient(t), server.URL+"/")
	if !strings.Contains(other, "Vintage Desk Lamp") {
		t.Error("placeholder claims must be local to the visitor")
	}

	status, _ := get(t, c, server.URL+"/placeholders/ph-1/claim")
	if status != http.StatusSeeOther {
		t.Errorf("expected redirect for an already claimed placeholder, got %d", status)
	}
}

func TestCancelLeavesGridUnchanged(t *testing.T) {
	server, _ := setupTestServer(t)
	c := newClient(t)

	_, before := get(t, c, server.URL+"/")
	status, confirm := get(t, c, server.URL+"/placeholders/ph-4/claim")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.Contains(confirm, `href="/#items">Cancel`) {
		t.Error("expected a cancel link back to the grid")
	}
	_, after := get(t, c, server.URL+"/")

	if before != after {
		t.Error("viewing the confirm step changed the grid")
	}
}

func TestTamperedVisitorCookie(t *testing.T) {
	server, _ := setupTestServer(t)
	c := newClient(t)

	u, _ := url.Parse(server.URL)
	forged, err := visitor.Encode("some-other-secret", []string{"ph-2"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	c.Jar.SetCookies(u, []*http.Cookie{{Name: visitor.CookieName, Value: forged, Path: "/"}})

	_, page := get(t, c, server.URL+"/")
	if !strings.Contains(page, "Children&#39;s Books Set") {
		t.Error("forged claims must be ignored")
	}
	for _, cookie := range c.Jar.Cookies(u) {
		if cookie.Name == visitor.CookieName {
			t.Error("expected forged cookie to be cleared")
		}
	}
}

func TestUnknownClaimRedirects(t *testing.T) {
	server, _ := setupTestServer(t)

	status, _ := get(t, newClient(t), server.URL+"/items/does-not-exist/claim")
	if status != http.StatusSeeOther {
		t.Errorf("expected 303, got %d", status)
	}

	_, page := get(t, newClient(t), server.URL+"/?claim=gone")
	if !strings.Contains(page, "already been claimed") {
		t.Error("expected claimed banner")
	}
}

func TestLiveScriptMarksNewestAfterDelete(t *testing.T) {
	server, _ := setupTestServer(t)

	status, script := get(t, newClient(t), server.URL+"/static/live.js")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	_, deleteBranch, ok := strings.Cut(script, `ev.type === "DELETE"`)
	if !ok {
		t.Fatal("live.js does not handle DELETE events")
	}
	if !strings.Contains(deleteBranch, "markNewest()") {
		t.Error("DELETE handler does not move the New badge to the next listing")
	}
}
