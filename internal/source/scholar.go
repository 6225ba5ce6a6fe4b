package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// DefaultPageSize is the largest page Google Scholar serves per request.
const DefaultPageSize = 100

var (
	scholarIDRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{10,14}$`)
	userParamRe = regexp.MustCompile(`user=([^&]+)`)
)

// ExtractScholarID pulls the profile ID out of a query that is either a bare
// scholar ID or a citations URL. Returns "" when neither shape matches.
func ExtractScholarID(query string) string {
	query = strings.TrimSpace(query)
	if strings.Contains(query, "scholar.google.com/citations") {
		if m := userParamRe.FindStringSubmatch(query); len(m) > 1 {
			return m[1]
		}
		return ""
	}
	if scholarIDRe.MatchString(query) {
		return query
	}
	return ""
}

// scholarRecord is one parsed listing row.
type scholarRecord struct {
	secondary []string
	venueCell string
}

func (r *scholarRecord) SecondaryText() []string { return r.secondary }
func (r *scholarRecord) VenueField() string      { return r.venueCell }

// scholarAffordance wraps the "Show more" control found in the last fetched
// page together with the state needed to validate it.
type scholarAffordance struct {
	desc         string
	disabled     bool
	hidden       bool
	navigational bool
}

func (a *scholarAffordance) Describe() string { return a.desc }

// ScholarSource is the live content source backed by a Google Scholar
// profile. Each "reveal more" invocation fetches the next cstart window in
// the background and appends its rows, so record growth is observed through
// CountVisible exactly like on the rendered page.
type ScholarSource struct {
	baseURL  string
	userID   string
	pageSize int
	client   *http.Client
	logger   *zap.Logger

	mu      sync.Mutex
	records []Record
	lastDoc *goquery.Document
	// lastPageFull is false once a fetched window came back short, which is
	// Scholar's way of saying the listing is exhausted.
	lastPageFull bool
	fetching     bool
	fetchErr     error
}

// ScholarOptions configures a ScholarSource.
type ScholarOptions struct {
	// BaseURL defaults to https://scholar.google.com. Tests point it at a
	// local server.
	BaseURL  string
	PageSize int
	Client   *http.Client
	Logger   *zap.Logger
}

// NewScholarSource builds a source for the given scholar ID or profile URL.
// The profile is not fetched until Open is called.
func NewScholarSource(query string, opts ScholarOptions) (*ScholarSource, error) {
	id := ExtractScholarID(query)
	if id == "" {
		return nil, fmt.Errorf("not a scholar profile: %q", query)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = "https://scholar.google.com"
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &ScholarSource{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		userID:   id,
		pageSize: opts.PageSize,
		client:   opts.Client,
		logger:   opts.Logger.Named("scholar"),
	}, nil
}

// Open fetches and parses the first listing window.
func (s *ScholarSource) Open(ctx context.Context) error {
	doc, recs, err := s.fetchWindow(ctx, 0)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastDoc = doc
	s.records = recs
	s.lastPageFull = len(recs) >= s.pageSize
	return nil
}

// IsListingView reports whether the opened page is a citations listing: the
// publication table must be present.
func (s *ScholarSource) IsListingView() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastDoc == nil {
		return false
	}
	return s.lastDoc.Find("#gsc_a_b").Length() > 0
}

func (s *ScholarSource) CountVisible() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *ScholarSource) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// FindRevealAffordance discovers the "show more" control in the last fetched
// window. Strategies are tried in priority order and the first hit wins:
// the stable button ID, then visible-text matching, then a generic
// onclick-attribute heuristic.
func (s *ScholarSource) FindRevealAffordance() Affordance {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastDoc == nil || !s.lastPageFull {
		return nil
	}

	if sel := s.lastDoc.Find("#gsc_bpf_more"); sel.Length() > 0 {
		return affordanceFromSelection("button#gsc_bpf_more", sel.First())
	}

	var found Affordance
	s.lastDoc.Find("button, [role=button]").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		text := strings.ToLower(strings.TrimSpace(el.Text()))
		if text == "show more" || text == "more" || strings.Contains(text, "show more") {
			found = affordanceFromSelection("text match: "+text, el)
			return false
		}
		return true
	})
	if found != nil {
		return found
	}

	s.lastDoc.Find("[onclick]").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		onclick, _ := el.Attr("onclick")
		if strings.Contains(strings.ToLower(onclick), "more") {
			found = affordanceFromSelection("onclick heuristic", el)
			return false
		}
		return true
	})
	return found
}

func affordanceFromSelection(desc string, el *goquery.Selection) *scholarAffordance {
	_, disabled := el.Attr("disabled")
	style, _ := el.Attr("style")
	hidden := strings.Contains(strings.ReplaceAll(style, " ", ""), "display:none")
	href, _ := el.Attr("href")
	// Per-item "view" links open a single-citation detail page; clicking one
	// would navigate away instead of growing the listing.
	navigational := goquery.NodeName(el) == "a" && strings.Contains(href, "citation_for_view")
	return &scholarAffordance{
		desc:         desc,
		disabled:     disabled,
		hidden:       hidden,
		navigational: navigational,
	}
}

func (s *ScholarSource) Actionable(a Affordance) bool {
	sa, ok := a.(*scholarAffordance)
	if !ok || sa == nil {
		return false
	}
	return !sa.disabled && !sa.hidden && !sa.navigational
}

// Invoke fetches the next listing window in the background. The current
// records are never replaced, only appended to, so the listing view the
// analysis is reading stays put. A previous fetch error is returned here and
// cleared, letting the loader stop gracefully.
func (s *ScholarSource) Invoke(ctx context.Context, a Affordance) error {
	s.mu.Lock()
	if s.fetchErr != nil {
		err := s.fetchErr
		s.fetchErr = nil
		s.mu.Unlock()
		return err
	}
	if s.fetching {
		s.mu.Unlock()
		return nil
	}
	s.fetching = true
	cstart := len(s.records)
	s.mu.Unlock()

	go func() {
		doc, recs, err := s.fetchWindow(ctx, cstart)

		s.mu.Lock()
		defer s.mu.Unlock()
		s.fetching = false
		if err != nil {
			s.logger.Warn("failed to fetch next listing window",
				zap.Int("cstart", cstart), zap.Error(err))
			s.fetchErr = err
			s.lastPageFull = false
			return
		}
		s.lastDoc = doc
		s.records = append(s.records, recs...)
		s.lastPageFull = len(recs) >= s.pageSize
	}()
	return nil
}

// fetchWindow retrieves and parses one cstart window of the profile.
func (s *ScholarSource) fetchWindow(ctx context.Context, cstart int) (*goquery.Document, []Record, error) {
	url := fmt.Sprintf("%s/citations?user=%s&hl=en&cstart=%d&pagesize=%d",
		s.baseURL, s.userID, cstart, s.pageSize)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; where-do-i-publish/1.0)")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch profile page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, nil, fmt.Errorf("profile page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse profile page: %w", err)
	}
	return doc, parseRecords(doc), nil
}

// parseRecords extracts the listing rows. Each row carries its gs_gray
// fragments (author line, then venue line) and the dedicated venue cell when
// the markup variant has one.
func parseRecords(doc *goquery.Document) []Record {
	var recs []Record
	doc.Find(".gsc_a_tr").Each(func(_ int, row *goquery.Selection) {
		rec := &scholarRecord{}
		row.Find(".gs_gray").Each(func(_ int, frag *goquery.Selection) {
			rec.secondary = append(rec.secondary, strings.TrimSpace(frag.Text()))
		})
		rec.venueCell = strings.TrimSpace(row.Find(".gsc_a_venue").Text())
		recs = append(recs, rec)
	})
	return recs
}
