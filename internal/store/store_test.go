package store

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type item struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

func validItem(i item) error {
	if i.ID == "" {
		return errors.New("missing id")
	}
	if i.Count < 0 {
		return errors.New("negative count")
	}
	return nil
}

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	st := NewRedisStore(client, "test")
	t.Cleanup(func() { st.Close() })
	return st, s
}

func setupSQLStore(t *testing.T) *SQLStore {
	t.Helper()
	st, err := NewSQLiteStore(filepath.Join(t.TempDir(), "kv.db"), "test")
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func backends(t *testing.T) map[string]Store {
	rs, _ := setupRedisStore(t)
	return map[string]Store{
		"redis":  rs,
		"sqlite": setupSQLStore(t),
	}
}

func TestLoadMissingKeyIsEmpty(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			items, err := Load[item](context.Background(), st, "nothing-here", validItem)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if items == nil || len(items) != 0 {
				t.Errorf("expected empty non-nil collection, got %#v", items)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			want := []item{{ID: "b", Count: 2}, {ID: "a", Count: 0}, {ID: "c", Count: 7}}

			if err := Save(ctx, st, PetitionsKey, want); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			got, err := Load[item](ctx, st, PetitionsKey, validItem)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("round trip mismatch: got %v want %v", got, want)
			}

			// save(load()) leaves the collection unchanged
			if err := Save(ctx, st, PetitionsKey, got); err != nil {
				t.Fatalf("second Save failed: %v", err)
			}
			again, _ := Load[item](ctx, st, PetitionsKey, validItem)
			if !reflect.DeepEqual(again, want) {
				t.Errorf("save(load()) changed contents: %v", again)
			}
		})
	}
}

func TestLoadRecoversFromBadPayloads(t *testing.T) {
	payloads := map[string]string{
		"malformed":     `[{"id": "a",`,
		"object":        `{"id": "a"}`,
		"null":          `null`,
		"string":        `"hello"`,
		"invalid entry": `[{"id": "a", "count": 1}, {"id": "", "count": 2}]`,
		"wrong types":   `[{"id": 5}]`,
	}

	rs, _ := setupRedisStore(t)
	ctx := context.Background()
	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			if err := rs.Set(ctx, "bad", payload); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			items, err := Load[item](ctx, rs, "bad", validItem)
			if err != nil {
				t.Fatalf("parse failure must not surface as error, got %v", err)
			}
			if len(items) != 0 {
				t.Errorf("expected empty collection, got %v", items)
			}
		})
	}
}

func TestSaveNilWritesEmptyArray(t *testing.T) {
	rs, s := setupRedisStore(t)
	if err := Save[item](context.Background(), rs, PetitionsKey, nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := s.Get("test:" + PetitionsKey)
	if err != nil {
		t.Fatalf("miniredis get: %v", err)
	}
	if got != "[]" {
		t.Errorf("expected [], got %s", got)
	}
}

func TestLoadBackendFailure(t *testing.T) {
	rs, s := setupRedisStore(t)
	s.Close()

	_, err := Load[item](context.Background(), rs, PetitionsKey, nil)
	if !errors.Is(err, ErrBackend) {
		t.Errorf("expected ErrBackend, got %v", err)
	}
	if err := Save(context.Background(), rs, PetitionsKey, []item{{ID: "a"}}); !errors.Is(err, ErrBackend) {
		t.Errorf("expected ErrBackend on save, got %v", err)
	}
}

func TestObjectRoundTripAndMalformedCleanup(t *testing.T) {
	rs, s := setupRedisStore(t)
	ctx := context.Background()

	if err := SaveObject(ctx, rs, UserKey, item{ID: "u1", Count: 1}); err != nil {
		t.Fatalf("SaveObject failed: %v", err)
	}
	got, found, err := LoadObject[item](ctx, rs, UserKey, validItem)
	if err != nil || !found {
		t.Fatalf("LoadObject: found=%v err=%v", found, err)
	}
	if got.ID != "u1" {
		t.Errorf("expected u1, got %s", got.ID)
	}

	s.Set("test:"+UserKey, "{not json")
	_, found, err = LoadObject[item](ctx, rs, UserKey, validItem)
	if err != nil || found {
		t.Fatalf("expected malformed object to be not found, found=%v err=%v", found, err)
	}
	if s.Exists("test:" + UserKey) {
		t.Error("malformed object should have been cleared")
	}
}

func TestFlagsAndKeys(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			lister := st.(Lister)

			for _, k := range []string{SignedKey("p1", "u1"), SignedKey("p2", "u1"), TxKey("p1", "u1"), VotedKey("o1", "u2")} {
				if err := st.Set(ctx, k, "true"); err != nil {
					t.Fatalf("Set %s: %v", k, err)
				}
			}

			keys, err := lister.Keys(ctx, "signed_")
			if err != nil {
				t.Fatalf("Keys failed: %v", err)
			}
			want := []string{"signed_p1_u1", "signed_p2_u1"}
			if !reflect.DeepEqual(keys, want) {
				t.Errorf("Keys = %v, want %v", keys, want)
			}

			if err := st.Del(ctx, SignedKey("p1", "u1"), TxKey("p1", "u1")); err != nil {
				t.Fatalf("Del failed: %v", err)
			}
			if _, found, _ := st.Get(ctx, SignedKey("p1", "u1")); found {
				t.Error("signed flag should be gone")
			}
			if v, found, _ := st.Get(ctx, VotedKey("o1", "u2")); !found || v != "true" {
				t.Errorf("unrelated flag disturbed: %q found=%v", v, found)
			}
		})
	}
}

func TestNamespacesAreIsolated(t *testing.T) {
	s := miniredis.RunT(t)
	a := NewRedisStore(redis.NewClient(&redis.Options{Addr: s.Addr()}), "alpha")
	b := NewRedisStore(redis.NewClient(&redis.Options{Addr: s.Addr()}), "beta")
	defer a.Close()
	defer b.Close()
	ctx := context.Background()

	if err := a.Set(ctx, UserKey, "a"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, found, _ := b.Get(ctx, UserKey); found {
		t.Error("beta should not see alpha's key")
	}
	if !s.Exists("alpha:user") {
		t.Error("expected namespaced key alpha:user")
	}
}

func TestKeyBuilders(t *testing.T) {
	if got := SignedKey("p1", "u1"); got != "signed_p1_u1" {
		t.Errorf("SignedKey = %s", got)
	}
	if got := TxKey("p1", "u1"); got != "tx_p1_u1" {
		t.Errorf("TxKey = %s", got)
	}
	if got := VotedKey("o1", "u1"); got != "voted_o1_u1" {
		t.Errorf("VotedKey = %s", got)
	}
}
