package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	authsvc "github.com/fourpaws/backend/internal/services/auth"
	petssvc "github.com/fourpaws/backend/internal/services/pets"
	ratesvc "github.com/fourpaws/backend/internal/services/rate"
)

type petStoreStub struct {
	pets map[uuid.UUID]petssvc.Pet
}

func newPetStoreStub() *petStoreStub {
	return &petStoreStub{pets: make(map[uuid.UUID]petssvc.Pet)}
}

func (s *petStoreStub) List(_ context.Context, ownerID uuid.UUID) ([]petssvc.Pet, error) {
	var out []petssvc.Pet
	for _, p := range s.pets {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *petStoreStub) Find(_ context.Context, ownerID, petID uuid.UUID) (petssvc.PetDetail, error) {
	p, ok := s.pets[petID]
	if !ok || p.OwnerID != ownerID {
		return petssvc.PetDetail{}, petssvc.ErrNotFound
	}
	return petssvc.PetDetail{Pet: p}, nil
}

func (s *petStoreStub) Insert(_ context.Context, pet petssvc.Pet) (petssvc.Pet, error) {
	pet.ID = uuid.New()
	pet.CreatedAt = time.Now()
	pet.UpdatedAt = pet.CreatedAt
	s.pets[pet.ID] = pet
	return pet, nil
}

func (s *petStoreStub) Update(_ context.Context, ownerID, petID uuid.UUID, in petssvc.UpdateInput) (petssvc.Pet, error) {
	p, ok := s.pets[petID]
	if !ok || p.OwnerID != ownerID {
		return petssvc.Pet{}, petssvc.ErrNotFound
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Breed.Set {
		p.Breed = in.Breed.Value
	}
	s.pets[petID] = p
	return p, nil
}

func (s *petStoreStub) Delete(_ context.Context, ownerID, petID uuid.UUID) error {
	p, ok := s.pets[petID]
	if !ok || p.OwnerID != ownerID {
		return petssvc.ErrNotFound
	}
	delete(s.pets, petID)
	return nil
}

func newPetsFixture() (*PetsHandler, *petStoreStub, authsvc.Identity) {
	store := newPetStoreStub()
	limiter := ratesvc.NewLimiter(ratesvc.NewMemoryStore())
	handler := NewPetsHandler(petssvc.NewService(store), limiter, ratesvc.Policy{Points: 20, Window: time.Minute})
	identity := authsvc.Identity{UserID: uuid.New(), Email: "owner@example.com"}
	return handler, store, identity
}

func authedRequest(method, target string, body []byte, identity authsvc.Identity) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(authsvc.WithIdentity(req.Context(), identity))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, routeCtx))
}

func TestPetsCreateRequiresAuth(t *testing.T) {
	handler, _, _ := newPetsFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/pets", bytes.NewReader([]byte(`{"name":"Buddy","species":"dog"}`)))
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestPetsCreateAndGet(t *testing.T) {
	handler, _, identity := newPetsFixture()

	rec := httptest.NewRecorder()
	handler.Create(rec, authedRequest(http.MethodPost, "/api/pets", []byte(`{"name":"Buddy","species":"dog"}`), identity))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got %d want %d, body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	getReq := withURLParam(authedRequest(http.MethodGet, "/api/pets/"+created.ID, nil, identity), "id", created.ID)
	getRec := httptest.NewRecorder()
	handler.Get(getRec, getReq)
	if getRec.Code != http.StatusOK {
		t.Fatalf("get: got %d want %d", getRec.Code, http.StatusOK)
	}
}

func TestPetsPatchDistinguishesAbsentFromNull(t *testing.T) {
	handler, store, identity := newPetsFixture()

	breed := "labrador"
	seeded, err := store.Insert(context.Background(), petssvc.Pet{
		OwnerID: identity.UserID,
		Name:    "Buddy",
		Species: "dog",
		Breed:   &breed,
	})
	if err != nil {
		t.Fatalf("seed pet: %v", err)
	}

	// Body without "breed" leaves the column alone.
	rec := httptest.NewRecorder()
	req := withURLParam(authedRequest(http.MethodPatch, "/api/pets/"+seeded.ID.String(), []byte(`{"name":"Max"}`), identity), "id", seeded.ID.String())
	handler.Update(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: got %d want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if got := store.pets[seeded.ID].Breed; got == nil || *got != "labrador" {
		t.Fatalf("breed should be untouched, got %v", got)
	}

	// Explicit null clears it.
	rec = httptest.NewRecorder()
	req = withURLParam(authedRequest(http.MethodPatch, "/api/pets/"+seeded.ID.String(), []byte(`{"breed":null}`), identity), "id", seeded.ID.String())
	handler.Update(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch null: got %d want %d", rec.Code, http.StatusOK)
	}
	if got := store.pets[seeded.ID].Breed; got != nil {
		t.Fatalf("breed should be cleared, got %q", *got)
	}
}

func TestPetsCreateRateLimited(t *testing.T) {
	store := newPetStoreStub()
	limiter := ratesvc.NewLimiter(ratesvc.NewMemoryStore())
	handler := NewPetsHandler(petssvc.NewService(store), limiter, ratesvc.Policy{Points: 2, Window: time.Minute})
	identity := authsvc.Identity{UserID: uuid.New()}

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.Create(rec, authedRequest(http.MethodPost, "/api/pets", []byte(`{"name":"Buddy","species":"dog"}`), identity))
		if rec.Code != http.StatusCreated {
			t.Fatalf("create %d: got %d want %d", i+1, rec.Code, http.StatusCreated)
		}
	}

	rec := httptest.NewRecorder()
	handler.Create(rec, authedRequest(http.MethodPost, "/api/pets", []byte(`{"name":"Buddy","species":"dog"}`), identity))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third create: got %d want %d", rec.Code, http.StatusTooManyRequests)
	}
}

func TestPetsDeleteForeignIsNotFound(t *testing.T) {
	handler, store, identity := newPetsFixture()

	seeded, err := store.Insert(context.Background(), petssvc.Pet{OwnerID: uuid.New(), Name: "Buddy", Species: "dog"})
	if err != nil {
		t.Fatalf("seed pet: %v", err)
	}

	rec := httptest.NewRecorder()
	req := withURLParam(authedRequest(http.MethodDelete, "/api/pets/"+seeded.ID.String(), nil, identity), "id", seeded.ID.String())
	handler.Delete(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("delete foreign pet: got %d want %d", rec.Code, http.StatusNotFound)
	}
}
