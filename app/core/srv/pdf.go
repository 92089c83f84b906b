package srv

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"
)

var ErrRendererDisabled = errors.New("pdf renderer not configured")

// PdfRenderer calls the HTML-to-PDF sidecar. Rendering is a courtesy copy
// for the case file, requested in the background after a letter is signed.
type PdfRenderer struct {
	endpoint string
	client   *http.Client
}

func NewPdfRenderer(endpoint string) *PdfRenderer {
	return &PdfRenderer{
		endpoint: endpoint,
		client:   &http.Client{Timeout: time.Second * 30},
	}
}

func (p *PdfRenderer) Enabled() bool {
	return p != nil && p.endpoint != ""
}

type RenderRequest struct {
	Title  string            `json:"title"`
	Fields map[string]string `json:"fields"`
}

func (p *PdfRenderer) Render(ctx context.Context, req RenderRequest) ([]byte, error) {
	if !p.Enabled() {
		return nil, ErrRendererDisabled
	}

	raw, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &DeliveryError{Status: resp.StatusCode}
	}

	return io.ReadAll(resp.Body)
}
