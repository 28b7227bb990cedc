package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"quickgrab-listing-feed/internal/config"
	"quickgrab-listing-feed/internal/domain/listing"
	"quickgrab-listing-feed/internal/domain/shared"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// fakeFeed keeps every item in memory and answers like the store query does
type fakeFeed struct {
	items []*listing.Item
	err   error
}

func (f *fakeFeed) RecentListings(ctx context.Context) ([]*listing.Item, error) {
	if f.err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrListingQuery, f.err)
	}

	sorted := make([]*listing.Item, len(f.items))
	copy(sorted, f.items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > listing.FeedSize {
		sorted = sorted[:listing.FeedSize]
	}
	return sorted, nil
}

func strPtr(s string) *string { return &s }

func newItem(name string, createdAt time.Time, seller listing.Seller) *listing.Item {
	return &listing.Item{
		ID:        uuid.New(),
		Name:      name,
		Price:     1500,
		Condition: listing.ConditionGood,
		Category:  listing.CategoryElectronics,
		CreatedAt: createdAt,
		Seller:    seller,
	}
}

func newSeller(name string) listing.Seller {
	return listing.Seller{
		ID:                 uuid.New(),
		Name:               name,
		VerificationStatus: listing.VerificationUnverified,
		AvgRating:          4.3,
		Badges:             []string{},
	}
}

func newTestRouter(t *testing.T, feed *fakeFeed) http.Handler {
	t.Helper()

	cfg := &config.Config{Environment: config.EnvDevelopment}
	pages, err := NewPageRenderer(PageRendererParams{Config: cfg, FeedService: feed, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("NewPageRenderer failed: %v", err)
	}
	api := NewItemsAPI(ItemsAPIParams{FeedService: feed, Logger: zerolog.Nop()})

	return NewRouter(RouterParams{Pages: pages, ItemsAPI: api, Logger: zerolog.Nop()})
}

func doGet(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decodeItems(t *testing.T, body io.Reader) []listing.Item {
	t.Helper()

	var payload struct {
		Items []listing.Item `json:"items"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		t.Fatalf("Failed to decode items response: %v", err)
	}
	return payload.Items
}

func TestItemsAPIReturnsFeed(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	seller := newSeller("Asha")
	seller.Photo = strPtr("https://cdn.example.com/asha.jpg")
	seller.Badges = []string{"fast-shipper"}
	feed := &fakeFeed{items: []*listing.Item{
		newItem("Older", base, seller),
		newItem("Newer", base.Add(time.Hour), seller),
	}}

	rec := doGet(t, newTestRouter(t, feed), "/api/items?page=3&limit=100")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected JSON content type, got %q", ct)
	}

	items := decodeItems(t, rec.Body)
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	if items[0].Name != "Newer" || items[1].Name != "Older" {
		t.Errorf("Expected newest first, got %s then %s", items[0].Name, items[1].Name)
	}
	if items[0].Seller.ID != seller.ID || items[0].Seller.AvgRating != 4.3 {
		t.Errorf("Seller projection mismatch: %+v", items[0].Seller)
	}
	if len(items[0].Seller.Badges) != 1 || items[0].Seller.Badges[0] != "fast-shipper" {
		t.Errorf("Expected badges to be kept, got %v", items[0].Seller.Badges)
	}
}

func sortedKeys(fields map[string]json.RawMessage) string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}

func TestItemsAPIJSONShape(t *testing.T) {
	feed := &fakeFeed{items: []*listing.Item{newItem("Kettle", time.Now(), newSeller("Dev"))}}

	rec := doGet(t, newTestRouter(t, feed), "/api/items")

	var payload struct {
		Items []map[string]json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("Failed to decode items response: %v", err)
	}
	if len(payload.Items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(payload.Items))
	}
	item := payload.Items[0]

	if got, want := sortedKeys(item), "aiPriceRating,category,condition,createdAt,id,name,photo,price,seller"; got != want {
		t.Errorf("Item keys = %s, want %s", got, want)
	}

	var seller map[string]json.RawMessage
	if err := json.Unmarshal(item["seller"], &seller); err != nil {
		t.Fatalf("Failed to decode seller: %v", err)
	}
	if got, want := sortedKeys(seller), "avgRating,badges,id,isOnline,name,photo,verificationStatus"; got != want {
		t.Errorf("Seller keys = %s, want %s", got, want)
	}

	tests := []struct {
		name string
		raw  json.RawMessage
		want string
	}{
		{"item photo", item["photo"], "null"},
		{"aiPriceRating", item["aiPriceRating"], "null"},
		{"seller photo", seller["photo"], "null"},
		{"badges", seller["badges"], "[]"},
		{"isOnline", seller["isOnline"], "false"},
		{"verificationStatus", seller["verificationStatus"], `"UNVERIFIED"`},
	}
	for _, tt := range tests {
		if string(tt.raw) != tt.want {
			t.Errorf("%s encoded as %s, want %s", tt.name, tt.raw, tt.want)
		}
	}
}

func TestItemsAPIFailsSoft(t *testing.T) {
	feed := &fakeFeed{err: errors.New("connection refused")}

	rec := doGet(t, newTestRouter(t, feed), "/api/items")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 on store failure, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"items":[]}` {
		t.Errorf("Expected empty items document, got %s", body)
	}
}

func TestItemsAPIEmptyStore(t *testing.T) {
	rec := doGet(t, newTestRouter(t, &fakeFeed{}), "/api/items")
	if body := strings.TrimSpace(rec.Body.String()); body != `{"items":[]}` {
		t.Errorf("Expected empty array rather than null, got %s", body)
	}
}

func TestHomeRendersCards(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	verified := newSeller("Ravi")
	verified.VerificationStatus = listing.VerificationVerified
	verified.IsOnline = true

	withPhoto := newItem("Camera", base, verified)
	withPhoto.Photo = strPtr("https://cdn.example.com/camera.jpg")
	withPhoto.AIPriceRating = strPtr("Great Deal")
	withPhoto.Price = 99.5

	rec := doGet(t, newTestRouter(t, &fakeFeed{items: []*listing.Item{withPhoto}}), "/home")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()

	for _, want := range []string{
		"QuickGrab",
		`href="/list-item"`,
		`href="/signin"`,
		`href="/item/` + withPhoto.ID.String() + `"`,
		`src="https://cdn.example.com/camera.jpg"`,
		"Great Deal",
		"₹99.5",
		"GOOD",
		"ELECTRONICS",
		"✓",
		"★ 4.3",
		`data-presence="online"`,
		"Online",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected page to contain %q", want)
		}
	}
	if strings.Contains(body, "No Image") {
		t.Error("Did not expect the placeholder for an item with a photo")
	}
	if strings.Contains(body, "Offline") {
		t.Error("Did not expect an offline indicator for an online seller")
	}
}

func TestHomePlaceholdersAndOfflineSeller(t *testing.T) {
	seller := newSeller("meera")
	seller.VerificationStatus = listing.VerificationPending
	item := newItem("Desk Lamp", time.Now(), seller)
	item.Photo = strPtr("")

	rec := doGet(t, newTestRouter(t, &fakeFeed{items: []*listing.Item{item}}), "/home")
	body := rec.Body.String()

	if !strings.Contains(body, "No Image") {
		t.Error("Expected No Image placeholder for an empty photo")
	}
	if strings.Contains(body, "✓") {
		t.Error("Did not expect a verified marker for a pending seller")
	}
	if !strings.Contains(body, `data-presence="offline"`) || !strings.Contains(body, "Offline") {
		t.Error("Expected offline indicator")
	}
	if strings.Contains(body, "Online") {
		t.Error("Did not expect an online indicator for an offline seller")
	}
	if !strings.Contains(body, `<span class="avatar">m</span>`) {
		t.Error("Expected the seller initial as avatar fallback")
	}
	if !strings.Contains(body, "₹1500") {
		t.Error("Expected whole prices without decimals")
	}
}

func TestHomeFailureRendersErrorPage(t *testing.T) {
	rec := doGet(t, newTestRouter(t, &fakeFeed{err: errors.New("timeout")}), "/home")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "500") || strings.Contains(body, `class="card"`) {
		t.Error("Expected the generic error page without any cards")
	}
}

func TestPageAndAPIShareOrdering(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	feed := &fakeFeed{}
	for i := 0; i < 25; i++ {
		seller := newSeller(fmt.Sprintf("Seller %d", i%5))
		feed.items = append(feed.items, newItem(fmt.Sprintf("Item %d", i), base.Add(time.Duration(i)*time.Minute), seller))
	}
	router := newTestRouter(t, feed)

	items := decodeItems(t, doGet(t, router, "/api/items").Body)
	if len(items) != listing.FeedSize {
		t.Fatalf("Expected %d items, got %d", listing.FeedSize, len(items))
	}
	if items[0].Name != "Item 24" || items[len(items)-1].Name != "Item 5" {
		t.Errorf("Expected Item 24 .. Item 5, got %s .. %s", items[0].Name, items[len(items)-1].Name)
	}

	page := doGet(t, router, "/home").Body.String()
	if got := strings.Count(page, `class="card"`); got != listing.FeedSize {
		t.Fatalf("Expected %d cards, got %d", listing.FeedSize, got)
	}

	last := -1
	for _, item := range items {
		idx := strings.Index(page, "/item/"+item.ID.String())
		if idx <= last {
			t.Fatalf("Page order differs from API order at %s", item.Name)
		}
		last = idx
	}
}

func TestRequestsAreIdempotent(t *testing.T) {
	seller := newSeller("Kiran")
	feed := &fakeFeed{items: []*listing.Item{
		newItem("Bike", time.Now(), seller),
		newItem("Helmet", time.Now().Add(-time.Minute), seller),
	}}
	router := newTestRouter(t, feed)

	for _, path := range []string{"/api/items", "/home"} {
		first := doGet(t, router, path).Body.String()
		second := doGet(t, router, path).Body.String()
		if first != second {
			t.Errorf("Expected identical responses for %s", path)
		}
	}
}

func TestRootRedirectsHome(t *testing.T) {
	rec := doGet(t, newTestRouter(t, &fakeFeed{}), "/")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("Expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/home" {
		t.Errorf("Expected redirect to /home, got %q", loc)
	}
}

func TestHealth(t *testing.T) {
	rec := doGet(t, newTestRouter(t, &fakeFeed{}), "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var payload map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("Failed to decode health response: %v", err)
	}
	if payload["status"] != "ok" || payload["service"] != "listing-feed" {
		t.Errorf("Unexpected health payload: %v", payload)
	}
}

func TestFeedSocketNotMountedWithoutNotifier(t *testing.T) {
	rec := doGet(t, newTestRouter(t, &fakeFeed{}), "/ws/feed")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 when notifications are disabled, got %d", rec.Code)
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		price float64
		want  string
	}{
		{1500, "₹1500"},
		{99.5, "₹99.5"},
		{0, "₹0"},
		{1234.56, "₹1234.56"},
	}

	for _, tt := range tests {
		if got := formatPrice(tt.price); got != tt.want {
			t.Errorf("formatPrice(%v) = %q, want %q", tt.price, got, tt.want)
		}
	}
}

func TestMissingTemplate(t *testing.T) {
	cfg := &config.Config{Environment: config.EnvProduction}
	pages, err := NewPageRenderer(PageRendererParams{Config: cfg, FeedService: &fakeFeed{}, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("NewPageRenderer failed: %v", err)
	}

	err = pages.render(httptest.NewRecorder(), http.StatusOK, "missing.html", nil)
	if !errors.Is(err, shared.ErrTemplateNotFound) {
		t.Errorf("Expected ErrTemplateNotFound, got %v", err)
	}
}
