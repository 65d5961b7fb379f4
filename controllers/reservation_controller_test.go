package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hotel-reservation-backend/models"
	"hotel-reservation-backend/services"
	"hotel-reservation-backend/store"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewMemory()
	ctx := context.Background()
	room := &models.Room{RoomNumber: "101", Type: models.RoomTypeDouble, Capacity: 2, NightlyRate: 100}
	if err := st.SaveRoom(ctx, room); err != nil {
		t.Fatalf("seed room: %v", err)
	}
	client := &models.Client{Name: "João Silva", NationalID: "12345678901"}
	if err := st.SaveClient(ctx, client); err != nil {
		t.Fatalf("seed client: %v", err)
	}

	rc := NewReservationController(services.NewReservationService(st))

	r := gin.New()
	api := r.Group("/api/reservations")
	api.GET("", rc.List)
	api.GET("/:id", rc.Get)
	api.POST("", rc.Create)
	api.PUT("/:id", rc.Update)
	api.PATCH("/:id/status", rc.UpdateStatus)
	api.DELETE("/:id", rc.Delete)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateReservationEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/reservations", gin.H{
		"clientIds": []uint{1},
		"roomId":    1,
		"checkIn":   "2026-01-05",
		"checkOut":  "2026-01-10",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool               `json:"success"`
		Data    models.Reservation `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Data.TotalPrice != 500 {
		t.Errorf("response = %+v, want success with totalPrice 500", resp)
	}
}

func TestCreateReservationEndpointErrors(t *testing.T) {
	r := newTestRouter(t)

	// occupy the room first
	if w := doJSON(t, r, http.MethodPost, "/api/reservations", gin.H{
		"clientIds": []uint{1}, "roomId": 1,
		"checkIn": "2026-01-05", "checkOut": "2026-01-10",
	}); w.Code != http.StatusCreated {
		t.Fatalf("setup create failed: %d", w.Code)
	}

	tests := []struct {
		name string
		body gin.H
		want int
	}{
		{
			name: "dateConflict",
			body: gin.H{"clientIds": []uint{1}, "roomId": 1, "checkIn": "2026-01-08", "checkOut": "2026-01-12"},
			want: http.StatusConflict,
		},
		{
			name: "unknownRoom",
			body: gin.H{"clientIds": []uint{1}, "roomId": 99, "checkIn": "2026-03-01", "checkOut": "2026-03-05"},
			want: http.StatusNotFound,
		},
		{
			name: "unknownClient",
			body: gin.H{"clientIds": []uint{42}, "roomId": 1, "checkIn": "2026-03-01", "checkOut": "2026-03-05"},
			want: http.StatusNotFound,
		},
		{
			name: "tooManyGuests",
			body: gin.H{"clientIds": []uint{1, 1, 1}, "roomId": 1, "checkIn": "2026-03-01", "checkOut": "2026-03-05"},
			want: http.StatusBadRequest,
		},
		{
			name: "reversedDates",
			body: gin.H{"clientIds": []uint{1}, "roomId": 1, "checkIn": "2026-03-05", "checkOut": "2026-03-01"},
			want: http.StatusBadRequest,
		},
		{
			name: "malformedDate",
			body: gin.H{"clientIds": []uint{1}, "roomId": 1, "checkIn": "05/01/2026", "checkOut": "2026-03-01"},
			want: http.StatusBadRequest,
		},
		{
			name: "missingGuests",
			body: gin.H{"roomId": 1, "checkIn": "2026-03-01", "checkOut": "2026-03-05"},
			want: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := doJSON(t, r, http.MethodPost, "/api/reservations", tt.body); w.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestReservationStatusEndpoint(t *testing.T) {
	r := newTestRouter(t)

	if w := doJSON(t, r, http.MethodPost, "/api/reservations", gin.H{
		"clientIds": []uint{1}, "roomId": 1,
		"checkIn": "2026-01-05", "checkOut": "2026-01-10",
	}); w.Code != http.StatusCreated {
		t.Fatalf("setup create failed: %d", w.Code)
	}

	w := doJSON(t, r, http.MethodPatch, "/api/reservations/1/status", gin.H{"status": "Cancelled"})
	if w.Code != http.StatusOK {
		t.Fatalf("status update = %d, body %s", w.Code, w.Body.String())
	}

	if w := doJSON(t, r, http.MethodPatch, "/api/reservations/1/status", gin.H{"status": "NoShow"}); w.Code != http.StatusBadRequest {
		t.Errorf("invalid status = %d, want 400", w.Code)
	}
	if w := doJSON(t, r, http.MethodPatch, "/api/reservations/9/status", gin.H{"status": "Cancelled"}); w.Code != http.StatusNotFound {
		t.Errorf("unknown reservation = %d, want 404", w.Code)
	}
}

func TestDeleteReservationEndpoint(t *testing.T) {
	r := newTestRouter(t)

	if w := doJSON(t, r, http.MethodPost, "/api/reservations", gin.H{
		"clientIds": []uint{1}, "roomId": 1,
		"checkIn": "2026-01-05", "checkOut": "2026-01-10",
	}); w.Code != http.StatusCreated {
		t.Fatalf("setup create failed: %d", w.Code)
	}

	if w := doJSON(t, r, http.MethodDelete, "/api/reservations/1", nil); w.Code != http.StatusOK {
		t.Fatalf("delete = %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, "/api/reservations/1", nil); w.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", w.Code)
	}
	if w := doJSON(t, r, http.MethodDelete, "/api/reservations/abc", nil); w.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id = %d, want 400", w.Code)
	}
}
