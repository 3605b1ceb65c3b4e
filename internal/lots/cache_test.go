package lots

import (
	"context"
	"testing"

	"github.com/lotverify/docscan/internal/gateway"
	"github.com/lotverify/docscan/internal/notify"
)

type fakeFetcher struct {
	records []gateway.LotRecord
	err     error
	calls   int
}

func (f *fakeFetcher) FetchAvailableLots(ctx context.Context) ([]gateway.LotRecord, error) {
	f.calls++
	return f.records, f.err
}

func sampleLots() []gateway.LotRecord {
	return []gateway.LotRecord{
		{Category: "A", TopText: "LOT A1", BottomText: "2025-01-31", IsVerified: true, DocumentNumber: "D-100", IssuedDate: "2025-01-01"},
		{Category: "B", TopText: "LOT B2", BottomText: "2025-02-28", DocumentNumber: "D-101", IssuedDate: "2025-02-01"},
	}
}

func TestRefreshSuccess(t *testing.T) {
	fetcher := &fakeFetcher{records: sampleLots()}
	cache := NewCache(fetcher, notify.NewRecorder())

	cache.Refresh(context.Background())

	if cache.Loading() {
		t.Error("Loading flag must clear on completion")
	}
	if cache.Err() != "" {
		t.Errorf("Expected no error, got %q", cache.Err())
	}
	records := cache.Records()
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].Category != "A" || records[1].DocumentNumber != "D-101" {
		t.Errorf("Unexpected records: %+v", records)
	}
}

func TestRefreshFailureDiscardsStaleData(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{
			name: "application failure",
			err:  &gateway.APIError{Reason: "Catalog offline", Cause: gateway.CauseApplication},
		},
		{
			name: "transport failure",
			err:  &gateway.APIError{Reason: "connection refused", Cause: gateway.CauseTransport},
		},
		{
			name: "precondition failure",
			err:  gateway.ErrNoCredential,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{records: sampleLots()}
			recorder := notify.NewRecorder()
			cache := NewCache(fetcher, recorder)

			// Populate, then fail the next refresh.
			cache.Refresh(context.Background())
			if len(cache.Records()) != 2 {
				t.Fatal("Expected initial records")
			}

			fetcher.records = nil
			fetcher.err = tt.err
			recorder.Drain()
			cache.Refresh(context.Background())

			if len(cache.Records()) != 0 {
				t.Error("A failed refresh must discard the previous list")
			}
			if cache.Err() == "" {
				t.Error("A failed refresh must record a non-empty reason")
			}
			if cache.Loading() {
				t.Error("Loading flag must clear on failure")
			}
			if len(recorder.Drain()) == 0 {
				t.Error("Every failure must be reported")
			}
		})
	}
}

func TestRefreshClearsPriorError(t *testing.T) {
	fetcher := &fakeFetcher{err: &gateway.APIError{Reason: "Catalog offline", Cause: gateway.CauseApplication}}
	cache := NewCache(fetcher, notify.NewRecorder())

	cache.Refresh(context.Background())
	if cache.Err() == "" {
		t.Fatal("Expected an error from the first refresh")
	}

	fetcher.err = nil
	fetcher.records = sampleLots()
	cache.Refresh(context.Background())

	if cache.Err() != "" {
		t.Errorf("Expected error cleared after success, got %q", cache.Err())
	}
	if len(cache.Records()) != 2 {
		t.Errorf("Expected records replaced, got %d", len(cache.Records()))
	}
}
