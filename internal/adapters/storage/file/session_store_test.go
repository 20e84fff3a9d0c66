package file

import (
	"context"
	"errors"
	"testing"

	"pet-care-portal/internal/domain/session"

	"github.com/spf13/afero"
)

func TestSessionStore_RoundTripAndDelete(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, err := NewSessionStore(fs, "/home/ana/.petcare/session.json")
	if err != nil {
		t.Fatalf("NewSessionStore: %v", err)
	}
	ctx := context.Background()

	if _, err := s.Get(ctx, session.KeyToken); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty store, got %v", err)
	}

	_ = s.Set(ctx, session.KeyToken, "tok")
	_ = s.Set(ctx, session.KeyUser, `{"id":1}`)

	// una instancia nueva lee lo mismo desde disco
	s2, _ := NewSessionStore(fs, "/home/ana/.petcare/session.json")
	if v, err := s2.Get(ctx, session.KeyUser); err != nil || v != `{"id":1}` {
		t.Fatalf("unexpected %q %v", v, err)
	}

	info, err := fs.Stat("/home/ana/.petcare/session.json")
	if err != nil || info.Mode().Perm() != filePerm {
		t.Fatalf("expected 0600 session file, got %v %v", info, err)
	}

	_ = s.Delete(ctx, session.KeyToken)
	_ = s.Delete(ctx, session.KeyUser)
	if ok, _ := afero.Exists(fs, "/home/ana/.petcare/session.json"); ok {
		t.Fatalf("empty session should remove the file")
	}
}

func TestSessionStore_CorruptFileReadsAsEmpty(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/s.json", []byte("{not json"), 0o600)
	s, _ := NewSessionStore(fs, "/s.json")

	if _, err := s.Get(context.Background(), session.KeyUser); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Set(context.Background(), session.KeyToken, "x"); err != nil {
		t.Fatalf("Set over corrupt file: %v", err)
	}
}

func TestSessionStore_WithHolder(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, _ := NewSessionStore(fs, "/s.json")
	ctx := context.Background()
	_ = s.Set(ctx, session.KeyToken, "tok")
	_ = s.Set(ctx, session.KeyUser, `{"id":`)

	h := session.NewHolder(s, nil, nil)
	if err := h.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if h.IsAuthenticated() {
		t.Fatalf("corrupted user must not authenticate")
	}
	if ok, _ := afero.Exists(fs, "/s.json"); ok {
		t.Fatalf("holder should have cleared the session file")
	}
}
