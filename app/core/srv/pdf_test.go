package srv_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidalaw/intake-api/app/core/srv"
)

func TestPdfRenderer_Render(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req srv.RenderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Character reference letter for J. Doe", req.Title)
		assert.Equal(t, "Ana", req.Fields["writer_name"])

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("%PDF-1.7 fake"))
	}))
	defer server.Close()

	p := srv.NewPdfRenderer(server.URL)
	content, err := p.Render(context.Background(), srv.RenderRequest{
		Title:  "Character reference letter for J. Doe",
		Fields: map[string]string{"writer_name": "Ana"},
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7 fake"), content)
}

func TestPdfRenderer_Disabled(t *testing.T) {
	p := srv.NewPdfRenderer("")
	assert.False(t, p.Enabled())

	_, err := p.Render(context.Background(), srv.RenderRequest{})
	assert.ErrorIs(t, err, srv.ErrRendererDisabled)
}

func TestPdfRenderer_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	p := srv.NewPdfRenderer(server.URL)
	_, err := p.Render(context.Background(), srv.RenderRequest{})

	var derr *srv.DeliveryError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, http.StatusInternalServerError, derr.Status)
}
