package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sciencehub/shx/internal/models"
)

func testUser(role models.Role) models.User {
	return models.User{
		ID:       "u1",
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
		Role:     role,
	}
}

func TestStore(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Nil Persister", func(t *testing.T) {
			s := NewStore(nil)

			if s.Current().Authenticated() {
				t.Error("expected logged-out session")
			}
		})

		t.Run("Rehydrates Persisted Session", func(t *testing.T) {
			p := &MemoryPersister{Session: models.Session{
				User:  &models.User{ID: "u1", Role: models.RoleUser},
				Token: "tok",
			}}
			s := NewStore(p)

			sess := s.Current()
			if !sess.Authenticated() {
				t.Fatal("expected authenticated session after rehydration")
			}
			if sess.User.ID != "u1" {
				t.Errorf("expected user u1, got %s", sess.User.ID)
			}
			if sess.Token != "tok" {
				t.Errorf("expected token 'tok', got %s", sess.Token)
			}
		})

		t.Run("Invalid Persisted Session Yields Logged Out", func(t *testing.T) {
			// token without a user violates the session invariant
			p := &MemoryPersister{Session: models.Session{Token: "orphan"}}
			s := NewStore(p)

			if s.Current().Authenticated() {
				t.Error("expected logged-out session")
			}
			if s.Current().Token != "" {
				t.Error("expected no token to survive an invalid rehydration")
			}
		})

		t.Run("Load Error Yields Logged Out", func(t *testing.T) {
			s := NewStore(failingPersister{})

			if s.Current().Authenticated() {
				t.Error("expected logged-out session")
			}
		})
	})

	t.Run("SetAuth", func(t *testing.T) {
		t.Run("Replaces Session And Persists", func(t *testing.T) {
			p := &MemoryPersister{}
			s := NewStore(p)

			if err := s.SetAuth(testUser(models.RoleUser), "tok"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if !s.Current().Authenticated() {
				t.Error("expected authenticated session")
			}
			if p.Session.Token != "tok" {
				t.Errorf("expected persisted token 'tok', got %s", p.Session.Token)
			}
		})

		t.Run("Rejects Empty Token", func(t *testing.T) {
			s := NewStore(nil)

			if err := s.SetAuth(testUser(models.RoleUser), ""); err == nil {
				t.Error("expected error for empty token")
			}
			if s.Current().Authenticated() {
				t.Error("expected session to stay logged out")
			}
		})

		t.Run("Rejects Unknown Role", func(t *testing.T) {
			s := NewStore(nil)

			if err := s.SetAuth(testUser("ROOT"), "tok"); err == nil {
				t.Error("expected error for unknown role")
			}
		})

		t.Run("Bumps Epoch", func(t *testing.T) {
			s := NewStore(nil)
			before := s.Epoch()

			s.SetAuth(testUser(models.RoleUser), "tok")

			if s.Epoch() != before+1 {
				t.Errorf("expected epoch %d, got %d", before+1, s.Epoch())
			}
		})
	})

	t.Run("Logout", func(t *testing.T) {
		t.Run("Clears Session And Persisted State", func(t *testing.T) {
			p := &MemoryPersister{}
			s := NewStore(p)
			s.SetAuth(testUser(models.RoleUser), "tok")

			if err := s.Logout(); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if s.Current().Authenticated() {
				t.Error("expected logged-out session")
			}
			if p.Session.Authenticated() {
				t.Error("expected persisted session to be cleared")
			}
		})

		t.Run("Is A No-Op When Logged Out", func(t *testing.T) {
			s := NewStore(nil)
			before := s.Epoch()

			notified := false
			s.Subscribe(func(models.Session) { notified = true })

			if err := s.Logout(); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if s.Epoch() != before {
				t.Error("expected epoch unchanged for no-op logout")
			}
			if notified {
				t.Error("expected no notification for no-op logout")
			}
		})
	})

	t.Run("Subscribe", func(t *testing.T) {
		t.Run("Notifies On Every Change", func(t *testing.T) {
			s := NewStore(nil)

			var seen []models.Session
			s.Subscribe(func(sess models.Session) { seen = append(seen, sess) })

			s.SetAuth(testUser(models.RoleUser), "tok")
			s.Logout()

			if len(seen) != 2 {
				t.Fatalf("expected 2 notifications, got %d", len(seen))
			}
			if !seen[0].Authenticated() {
				t.Error("expected first notification to be authenticated")
			}
			if seen[1].Authenticated() {
				t.Error("expected second notification to be logged out")
			}
		})

		t.Run("Never Delivers A Partial Update", func(t *testing.T) {
			s := NewStore(nil)

			s.Subscribe(func(sess models.Session) {
				if err := sess.Validate(); err != nil {
					t.Errorf("subscriber saw invalid session: %v", err)
				}
			})

			s.SetAuth(testUser(models.RoleAdmin), "tok")
			s.Logout()
		})

		t.Run("Unsubscribe Stops Notifications", func(t *testing.T) {
			s := NewStore(nil)

			count := 0
			unsubscribe := s.Subscribe(func(models.Session) { count++ })

			s.SetAuth(testUser(models.RoleUser), "tok1")
			unsubscribe()
			s.SetAuth(testUser(models.RoleUser), "tok2")

			if count != 1 {
				t.Errorf("expected 1 notification, got %d", count)
			}
		})

		t.Run("Subscriber May Read The Store", func(t *testing.T) {
			s := NewStore(nil)

			s.Subscribe(func(sess models.Session) {
				if s.Current().Token != sess.Token {
					t.Error("expected store to already hold the notified session")
				}
			})

			s.SetAuth(testUser(models.RoleUser), "tok")
		})
	})
}

func TestFilePersister(t *testing.T) {
	t.Run("Round Trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		p := NewFilePersister(path)

		user := testUser(models.RoleAdmin)
		if err := p.Save(models.Session{User: &user, Token: "tok"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		sess, err := p.Load()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if sess.User == nil || sess.User.Email != "ada@example.com" {
			t.Error("expected persisted user to survive round trip")
		}
		if sess.Token != "tok" {
			t.Errorf("expected token 'tok', got %s", sess.Token)
		}
	})

	t.Run("File Is Owner Only", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		p := NewFilePersister(path)

		user := testUser(models.RoleUser)
		if err := p.Save(models.Session{User: &user, Token: "tok"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("expected session file, got %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
		}
	})

	t.Run("Absent File Loads Logged Out", func(t *testing.T) {
		p := NewFilePersister(filepath.Join(t.TempDir(), "missing.json"))

		sess, err := p.Load()
		if err != nil {
			t.Fatalf("expected no error for absent file, got %v", err)
		}
		if sess.Authenticated() {
			t.Error("expected logged-out session")
		}
	})

	t.Run("Corrupt File Is An Error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
			t.Fatal(err)
		}

		if _, err := NewFilePersister(path).Load(); err == nil {
			t.Error("expected error for corrupt session file")
		}
	})

	t.Run("Logout Removes The File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		p := NewFilePersister(path)

		user := testUser(models.RoleUser)
		p.Save(models.Session{User: &user, Token: "tok"})
		if err := p.Save(models.Session{}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("expected session file to be removed")
		}
	})
}

type failingPersister struct{}

func (failingPersister) Save(models.Session) error { return errors.New("save failed") }

func (failingPersister) Load() (models.Session, error) {
	return models.Session{}, errors.New("load failed")
}
