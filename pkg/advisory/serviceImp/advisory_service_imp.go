package serviceImp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"cropcal/entities"
	repo "cropcal/pkg/advisory/repository"
	"cropcal/pkg/advisory/service"
)

const defaultMaxBytes = 1_500_000

type Options struct {
	AllowedDomains []string
	MaxBytes       int
	Timeout        time.Duration
}

type Svc struct {
	r        repo.AdvisoryRepository
	allow    map[string]bool
	maxBytes int
	httpc    *http.Client
	log      *zap.Logger
}

func New(r repo.AdvisoryRepository, opts Options, log *zap.Logger) *Svc {
	if log == nil {
		log = zap.NewNop()
	}
	allow := map[string]bool{}
	for _, h := range opts.AllowedDomains {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			allow[h] = true
		}
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = defaultMaxBytes
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	return &Svc{r: r, allow: allow, maxBytes: opts.MaxBytes, httpc: &http.Client{Timeout: opts.Timeout}, log: log}
}

var _ service.AdvisoryService = (*Svc)(nil)

func (s *Svc) Ingest(ctx context.Context, title, tags, text, sourceURL string) (*entities.AdvisoryDocument, error) {
	title, text = strings.TrimSpace(title), strings.TrimSpace(text)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", entities.ErrInvalidInput)
	}
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", entities.ErrInvalidInput)
	}
	d := &entities.AdvisoryDocument{Title: title, Tags: strings.TrimSpace(tags), Text: text, SourceURL: sourceURL}
	if err := s.r.Create(ctx, d); err != nil {
		return nil, err
	}
	s.log.Info("advisory ingested", zap.Uint("doc_id", d.DocID), zap.String("title", d.Title))
	return d, nil
}

func (s *Svc) IngestURL(ctx context.Context, rawURL, title, tags string) (*entities.AdvisoryDocument, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: bad url", entities.ErrInvalidInput)
	}
	if !s.allow[strings.ToLower(u.Hostname())] {
		return nil, fmt.Errorf("%w: %s", service.ErrDomainNotAllowed, u.Hostname())
	}
	txt, pageTitle, err := fetchMainText(ctx, s.httpc, rawURL, s.maxBytes)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(title) == "" {
		title = pageTitle
	}
	return s.Ingest(ctx, title, tags, txt, rawURL)
}

// Search ranks documents by how many query terms they contain. Title and tag
// hits count double; documents matching nothing are dropped.
func (s *Svc) Search(ctx context.Context, query string, k int) ([]entities.AdvisoryDocument, error) {
	terms := queryTerms(query)
	if len(terms) == 0 || k <= 0 {
		return nil, nil
	}
	docs, err := s.r.All(ctx)
	if err != nil {
		return nil, err
	}

	type scored struct {
		d  entities.AdvisoryDocument
		sc int
	}
	var hits []scored
	for _, d := range docs {
		head := strings.ToLower(d.Title + " " + d.Tags)
		body := strings.ToLower(d.Text)
		sc := 0
		for _, t := range terms {
			if strings.Contains(head, t) {
				sc += 2
			}
			if strings.Contains(body, t) {
				sc++
			}
		}
		if sc > 0 {
			hits = append(hits, scored{d, sc})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].sc > hits[j].sc })
	if k > len(hits) {
		k = len(hits)
	}
	out := make([]entities.AdvisoryDocument, k)
	for i := range out {
		out[i] = hits[i].d
	}
	return out, nil
}

func (s *Svc) Refs(ctx context.Context, query string, k int) ([]entities.ArticleRef, error) {
	docs, err := s.Search(ctx, query, k)
	if err != nil {
		return nil, err
	}
	refs := make([]entities.ArticleRef, 0, len(docs))
	for _, d := range docs {
		refs = append(refs, entities.ArticleRef{Title: d.Title, URL: d.SourceURL})
	}
	return refs, nil
}

func queryTerms(q string) []string {
	seen := map[string]bool{}
	var out []string
	for _, f := range strings.FieldsFunc(strings.ToLower(q), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len([]rune(f)) < 3 || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
