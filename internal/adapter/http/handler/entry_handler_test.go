package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/atelier-erp/cashbox/internal/adapter/http/dto"
)

func postEntry(t *testing.T, f *handlerFixture, cashboxID, direction, amount string) dto.EntryResponse {
	t.Helper()

	body, _ := json.Marshal(dto.CreatePostingRequest{
		Direction: direction,
		Amount:    decimal.RequireFromString(amount),
		Category:  "payment",
		Actor:     "user-1",
	})
	req := httptest.NewRequest(http.MethodPost, "/cashboxes/"+cashboxID+"/postings", bytes.NewReader(body))
	req = setChiURLParam(req, "id", cashboxID)
	rec := httptest.NewRecorder()

	f.cashbox.CreatePosting(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("posting setup failed: %d %s", rec.Code, rec.Body.String())
	}

	var resp dto.EntryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	return resp
}

func TestEntryHandler_ListByCashbox(t *testing.T) {
	f := newHandlerFixture()
	f.seedCashbox("cb-1", "0.00", true)

	postEntry(t, f, "cb-1", "income", "100.00")
	postEntry(t, f, "cb-1", "expense", "40.00")

	req := httptest.NewRequest(http.MethodGet, "/cashboxes/cb-1/entries", nil)
	req = setChiURLParam(req, "id", "cb-1")
	rec := httptest.NewRecorder()

	f.entry.ListByCashbox(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []*dto.EntryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(resp))
	}
	if resp[0].Seq >= resp[1].Seq {
		t.Fatal("entries must be in append order")
	}
}

func TestEntryHandler_ListByCashbox_BadDateFilter(t *testing.T) {
	f := newHandlerFixture()
	f.seedCashbox("cb-1", "0.00", true)

	req := httptest.NewRequest(http.MethodGet, "/cashboxes/cb-1/entries?from=yesterday", nil)
	req = setChiURLParam(req, "id", "cb-1")
	rec := httptest.NewRecorder()

	f.entry.ListByCashbox(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEntryHandler_Reverse(t *testing.T) {
	t.Run("reversal restores balance", func(t *testing.T) {
		f := newHandlerFixture()
		f.seedCashbox("cb-1", "0.00", true)

		income := postEntry(t, f, "cb-1", "income", "75.00")

		body := bytes.NewBufferString(`{"actor":"admin","notes":"wrong amount"}`)
		req := httptest.NewRequest(http.MethodPost, "/entries/"+income.ID+"/reverse", body)
		req = setChiURLParam(req, "id", income.ID)
		rec := httptest.NewRecorder()

		f.entry.Reverse(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp dto.EntryResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Direction != "reversal" {
			t.Fatalf("direction = %s, want reversal", resp.Direction)
		}
		if resp.ReversedEntryID == nil || *resp.ReversedEntryID != income.ID {
			t.Fatal("reversal must point at the original entry")
		}
		if !resp.BalanceAfter.Equal(decimal.Zero) {
			t.Fatalf("balance_after = %s, want 0", resp.BalanceAfter)
		}
	})

	t.Run("second reversal rejected", func(t *testing.T) {
		f := newHandlerFixture()
		f.seedCashbox("cb-1", "0.00", true)

		income := postEntry(t, f, "cb-1", "income", "75.00")

		for i, want := range []int{http.StatusCreated, http.StatusBadRequest} {
			body := bytes.NewBufferString(`{"actor":"admin"}`)
			req := httptest.NewRequest(http.MethodPost, "/entries/"+income.ID+"/reverse", body)
			req = setChiURLParam(req, "id", income.ID)
			rec := httptest.NewRecorder()

			f.entry.Reverse(rec, req)

			if rec.Code != want {
				t.Fatalf("attempt %d: expected %d, got %d", i+1, want, rec.Code)
			}
		}
	})

	t.Run("unknown entry returns 404", func(t *testing.T) {
		f := newHandlerFixture()

		body := bytes.NewBufferString(`{"actor":"admin"}`)
		req := httptest.NewRequest(http.MethodPost, "/entries/missing/reverse", body)
		req = setChiURLParam(req, "id", "missing")
		rec := httptest.NewRecorder()

		f.entry.Reverse(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestEntryHandler_Get(t *testing.T) {
	f := newHandlerFixture()
	f.seedCashbox("cb-1", "0.00", true)

	posted := postEntry(t, f, "cb-1", "income", "10.00")

	req := httptest.NewRequest(http.MethodGet, "/entries/"+posted.ID, nil)
	req = setChiURLParam(req, "id", posted.ID)
	rec := httptest.NewRecorder()

	f.entry.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.EntryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != posted.ID {
		t.Fatalf("id = %s, want %s", resp.ID, posted.ID)
	}
}
