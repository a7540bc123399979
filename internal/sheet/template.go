package sheet

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/pkordes/fuel-logbook/internal/domain"
)

// TemplateLoader fetches a template fully into memory.
// Errors wrap domain.ErrTemplateFetch.
type TemplateLoader interface {
	Load(ctx context.Context) ([]byte, error)
}

// NewTemplateLoader picks an HTTP fetch for http(s) locators and a file read
// for anything else. A nil client means http.DefaultClient.
func NewTemplateLoader(locator string, client *http.Client) TemplateLoader {
	if strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://") {
		if client == nil {
			client = http.DefaultClient
		}
		return &httpTemplate{url: locator, client: client}
	}
	return fileTemplate(locator)
}

// StaticTemplate serves template bytes already held in memory.
type StaticTemplate []byte

// Load returns the bytes; an empty template is a fetch failure.
func (t StaticTemplate) Load(_ context.Context) ([]byte, error) {
	if len(t) == 0 {
		return nil, fmt.Errorf("sheet.StaticTemplate: %w: empty template", domain.ErrTemplateFetch)
	}
	return t, nil
}

type fileTemplate string

func (p fileTemplate) Load(_ context.Context) ([]byte, error) {
	b, err := os.ReadFile(string(p))
	if err != nil {
		return nil, fmt.Errorf("sheet.fileTemplate %s: %w: %w", string(p), domain.ErrTemplateFetch, err)
	}
	return b, nil
}

type httpTemplate struct {
	url    string
	client *http.Client
}

func (t *httpTemplate) Load(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.url, nil)
	if err != nil {
		return nil, fmt.Errorf("sheet.httpTemplate %s: %w: %w", t.url, domain.ErrTemplateFetch, err)
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sheet.httpTemplate %s: %w: %w", t.url, domain.ErrTemplateFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("sheet.httpTemplate %s: %w: status %d", t.url, domain.ErrTemplateFetch, resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("sheet.httpTemplate %s: %w: %w", t.url, domain.ErrTemplateFetch, err)
	}
	return b, nil
}
