package groups_test

import (
	"context"
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"wxwatch/internal/groups"
)

func writeContactsDB(t *testing.T, rows map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "MicroMsg.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE Contact (strUsrName TEXT PRIMARY KEY, strNickName TEXT)`); err != nil {
		t.Fatal(err)
	}
	for user, nick := range rows {
		if _, err := db.Exec(`INSERT INTO Contact (strUsrName, strNickName) VALUES (?, ?)`, user, nick); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

func TestLoadContactsSelectsGroupChats(t *testing.T) {
	path := writeContactsDB(t, map[string]string{
		"123456@chatroom": "Family",
		"789012@chatroom": "Work Friends",
		"wxid_direct":     "Alice",
	})

	contacts, err := groups.LoadContacts(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if len(contacts) != 2 {
		t.Fatalf("contacts = %d, want only the @chatroom rows", len(contacts))
	}
	digest := md5.Sum([]byte("123456@chatroom"))
	if contacts[0].DirName != hex.EncodeToString(digest[:]) {
		t.Fatalf("dir name = %s, want md5 of the username", contacts[0].DirName)
	}
	if contacts[0].Label != "Family" {
		t.Fatalf("label = %q, want Family", contacts[0].Label)
	}
}

func TestLoadContactsSkipsBlankNicknames(t *testing.T) {
	path := writeContactsDB(t, map[string]string{
		"named@chatroom":   "Team",
		"unnamed@chatroom": "   ",
	})

	contacts, err := groups.LoadContacts(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if len(contacts) != 1 || contacts[0].Label != "Team" {
		t.Fatalf("contacts = %+v, want only the named chat", contacts)
	}
}

func TestLoadContactsMissingDatabaseIsNotAnError(t *testing.T) {
	contacts, err := groups.LoadContacts(context.Background(), filepath.Join(t.TempDir(), "absent.db"))
	if err != nil {
		t.Fatalf("missing db: %v", err)
	}
	if contacts != nil {
		t.Fatalf("contacts = %+v, want nil", contacts)
	}

	contacts, err = groups.LoadContacts(context.Background(), "")
	if err != nil || contacts != nil {
		t.Fatal("unconfigured db path must be a quiet no-op")
	}
}

func TestLoadLabelsIndexesBothKeys(t *testing.T) {
	path := writeContactsDB(t, map[string]string{"123456@chatroom": "Family"})

	labels, err := groups.LoadLabels(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	digest := md5.Sum([]byte("123456@chatroom"))
	if labels[hex.EncodeToString(digest[:])] != "Family" {
		t.Fatal("directory digest must map to the label")
	}
	if labels["123456@chatroom"] != "Family" {
		t.Fatal("raw username must map to the label")
	}
}
