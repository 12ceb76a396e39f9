package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/staycheck/internal/analysis"
	"github.com/vbonduro/staycheck/internal/db"
	"github.com/vbonduro/staycheck/internal/domain"
	"github.com/vbonduro/staycheck/internal/photostore"
	"github.com/vbonduro/staycheck/internal/store"
	"github.com/vbonduro/staycheck/internal/vision"
)

// stubVision is a minimal VisionAnalyzer for tests.
type stubVision struct {
	mu       sync.Mutex
	result   *vision.AnalysisResult
	err      error
	calls    int
	lastReq  vision.Request
	blockCtx bool // wait for ctx cancellation instead of answering
}

func (s *stubVision) Analyze(ctx context.Context, _ io.Reader, _ string, req vision.Request) (*vision.AnalysisResult, error) {
	s.mu.Lock()
	s.calls++
	s.lastReq = req
	s.mu.Unlock()
	if s.blockCtx {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.result, s.err
}

func payloadResult(payload map[string]any) *vision.AnalysisResult {
	return &vision.AnalysisResult{Payload: payload, RawResponse: fmt.Sprint(payload)}
}

// stubPhotoStore is a minimal in-memory photostore.PhotoStore for tests.
type stubPhotoStore struct {
	mu      sync.Mutex
	saved   map[string][]byte
	saveErr error
	next    int
}

func newStubPhotoStore() *stubPhotoStore {
	return &stubPhotoStore{saved: make(map[string][]byte)}
}

func (s *stubPhotoStore) Save(_ context.Context, prefix, _ string, r io.Reader) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	data, _ := io.ReadAll(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	key := fmt.Sprintf("%s/photo_%d.jpg", prefix, s.next)
	s.saved[key] = data
	return key, nil
}

func (s *stubPhotoStore) Get(_ context.Context, key string) (io.ReadCloser, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.saved[key]
	if !ok {
		return nil, "", photostore.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), "image/jpeg", nil
}

func (s *stubPhotoStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.saved[key]; !ok {
		return errors.New("not found")
	}
	delete(s.saved, key)
	return nil
}

func (s *stubPhotoStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

type testEnv struct {
	inspections *InspectionService
	properties  *PropertyService
	vision      *stubVision
	photoStg    *stubPhotoStore
	checks      *store.CheckStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, d.Close()) })

	propertyStore := store.NewPropertyStore(d)
	roomStore := store.NewRoomStore(d)
	checkStore := store.NewCheckStore(d)
	checklistStore := store.NewChecklistStore(d)

	env := &testEnv{
		vision:   &stubVision{result: payloadResult(map[string]any{"missing_items": []any{}, "damage_detected": []any{}})},
		photoStg: newStubPhotoStore(),
		checks:   checkStore,
	}
	env.inspections = NewInspectionService(
		propertyStore,
		roomStore,
		checkStore,
		checklistStore,
		store.NewPhotoStore(d),
		store.NewIssueStore(d),
		env.vision,
		env.photoStg,
		analysis.NewSynthesizer(analysis.DefaultConfig(), analysis.ZeroCostEstimator{}),
		slog.Default(),
	)
	env.properties = NewPropertyService(propertyStore, roomStore, checklistStore, checkStore, slog.Default())
	return env
}

type fixture struct {
	property *domain.Property
	room     *domain.Room
	checkin  *domain.Check
	checkout *domain.Check
}

// newFixture creates a property with a bathroom holding a towel (15.00) and a
// hair dryer (120.00), plus a check-in and a later check-out.
func (e *testEnv) newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	p, err := e.properties.CreateProperty(ctx, "Beach House", nil)
	require.NoError(t, err)
	room, err := e.properties.CreateRoom(ctx, p.ID, "Bathroom", domain.RoomBathroom)
	require.NoError(t, err)
	_, err = e.properties.CreateChecklistItem(ctx, room.ID, "Towel", decimal.NewFromInt(15))
	require.NoError(t, err)
	_, err = e.properties.CreateChecklistItem(ctx, room.ID, "Hair Dryer", decimal.NewFromInt(120))
	require.NoError(t, err)

	guest := "Ada"
	checkin, err := e.checks.Create(ctx, p.ID, domain.CheckIn, &guest, time.Date(2026, 7, 1, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	checkout, err := e.checks.Create(ctx, p.ID, domain.CheckOut, &guest, time.Date(2026, 7, 5, 11, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	return fixture{property: p, room: room, checkin: checkin, checkout: checkout}
}
