package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/storm-viewer/internal/adapter/backend"
	"github.com/couchcryptid/storm-viewer/internal/domain"
	"github.com/couchcryptid/storm-viewer/internal/mockbackend"
	"github.com/couchcryptid/storm-viewer/internal/observability"
)

func newClient(t *testing.T) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(mockbackend.NewHandler(mockbackend.Options{Logger: observability.DiscardLogger()}))
	t.Cleanup(srv.Close)
	return backend.NewClient(srv.URL, observability.DiscardLogger())
}

func TestRun_MockBackendPasses(t *testing.T) {
	var out bytes.Buffer
	code := run(context.Background(), newClient(t), &out, options{date: mockbackend.ArchiveDate, gridSize: 6})

	assert.Equal(t, 0, code, out.String())
	assert.Contains(t, out.String(), "Archive 15/09/2024")
	assert.Contains(t, out.String(), "All validations passed.")
}

func TestRun_MissingArchiveFails(t *testing.T) {
	var out bytes.Buffer
	code := run(context.Background(), newClient(t), &out, options{date: "20200101", gridSize: 6})

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "--- Archive 01/01/2020 ---")
	assert.Contains(t, out.String(), "Validation FAILED.")
}

func TestCheckStorms(t *testing.T) {
	good := domain.StormRecord{ID: "al01", Category: domain.CategoryStorm, ImageURL: "u", Location: domain.Label{En: "North Atlantic"}}
	bad := good
	bad.Category = 4
	bad.ImageURL = ""

	p := &phase{name: "storms"}
	checkStorms(p, []domain.StormRecord{good})
	assert.True(t, p.passed())

	checkStorms(p, []domain.StormRecord{good, bad})
	assert.Equal(t, []string{
		"duplicate storm id al01",
		"al01: category 4 outside 1-3",
		"al01: no image URL",
	}, p.errors)
}
