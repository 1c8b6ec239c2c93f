package groups

import (
	"context"
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	_ "modernc.org/sqlite"
)

// Contact is one chat row from the WeChat Msg database. DirName is the MD5
// hex of the internal username, which is how the chat's directory under
// MsgAttach is named.
type Contact struct {
	UserName string
	DirName  string
	Label    string
}

// LoadContacts reads the group-chat contacts from the Msg database. A
// missing database is not an error: the monitor degrades to using chat ids
// as labels.
func LoadContacts(ctx context.Context, dbPath string) ([]Contact, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, nil
	}
	if _, err := os.Stat(dbPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat contacts db: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open contacts db: %w", err)
	}
	defer db.Close()

	pragmas := []string{
		"PRAGMA query_only = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	rows, err := db.QueryContext(ctx,
		`SELECT strUsrName, strNickName
         FROM Contact
         WHERE strUsrName LIKE '%@chatroom'
         ORDER BY strUsrName`)
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}
	defer rows.Close()

	var contacts []Contact
	for rows.Next() {
		var userName string
		var nickName sql.NullString
		if err := rows.Scan(&userName, &nickName); err != nil {
			return nil, fmt.Errorf("scan contact row: %w", err)
		}
		label := strings.TrimSpace(nickName.String)
		if label == "" {
			continue
		}
		digest := md5.Sum([]byte(userName))
		contacts = append(contacts, Contact{
			UserName: userName,
			DirName:  hex.EncodeToString(digest[:]),
			Label:    label,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return contacts, nil
}

// LoadLabels builds the resolver lookup table from the contacts database.
// Each contact is indexed both by its directory digest and by its raw
// username, so either layout resolves.
func LoadLabels(ctx context.Context, dbPath string) (map[string]string, error) {
	contacts, err := LoadContacts(ctx, dbPath)
	if err != nil {
		return nil, err
	}
	labels := make(map[string]string, len(contacts)*2)
	for _, contact := range contacts {
		labels[contact.DirName] = contact.Label
		labels[contact.UserName] = contact.Label
	}
	return labels, nil
}
