// Package core provides encrypted history storage for DriveSweep.
//
// INVARIANTS:
// - History encrypted at rest via SQLCipher (AES-256) when a passphrase is set
// - The passphrase is never stored, only verified
// - Fail closed on a wrong passphrase
package core

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mutecomm/go-sqlcipher/v4"
)

// EncryptedDB wraps a SQLCipher-encrypted SQLite database.
type EncryptedDB struct {
	db        *sql.DB
	dbPath    string
	encrypted bool
}

// OpenEncryptedDB opens a SQLCipher-encrypted database. An empty
// passphrase opens the database without encryption. Opening an
// existing database with the wrong passphrase fails.
func OpenEncryptedDB(dbPath, passphrase string) (*EncryptedDB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	var dsn string
	encrypted := passphrase != ""
	if encrypted {
		dsn = fmt.Sprintf("file:%s?_pragma_key=%s&_journal_mode=WAL&_synchronous=NORMAL", dbPath, passphrase)
	} else {
		dsn = fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=NORMAL", dbPath)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if encrypted {
		// Reading anything fails when the key is wrong
		var version string
		if err := db.QueryRow("SELECT sqlite_version()").Scan(&version); err != nil {
			db.Close()
			return nil, fmt.Errorf("invalid passphrase or corrupted database: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &EncryptedDB{
		db:        db,
		dbPath:    dbPath,
		encrypted: encrypted,
	}, nil
}

// DB returns the underlying database connection.
func (edb *EncryptedDB) DB() *sql.DB {
	return edb.db
}

// Close closes the database connection.
func (edb *EncryptedDB) Close() error {
	return edb.db.Close()
}

// IsEncrypted returns whether the database is encrypted.
func (edb *EncryptedDB) IsEncrypted() bool {
	return edb.encrypted
}

// Path returns the database file path.
func (edb *EncryptedDB) Path() string {
	return edb.dbPath
}

// ExportBackup writes a consistent copy of the database into dir,
// together with recovery notes. The passphrase is never included.
func (edb *EncryptedDB) ExportBackup(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	dst := filepath.Join(dir, "history.db")
	vacuum := fmt.Sprintf("VACUUM INTO '%s'", dst)
	if _, err := edb.db.ExecContext(ctx, vacuum); err != nil {
		// Fallback to file copy if VACUUM INTO fails
		if err := copyDBFile(edb.dbPath, dst); err != nil {
			return fmt.Errorf("failed to copy database: %w", err)
		}
	}

	readme := `DriveSweep History Backup
=========================

This backup contains:
- history.db: recorded scans and the operation journal

If the original database was encrypted, this copy is encrypted with
the same passphrase. The passphrase is NOT stored in this backup.

MANUAL ACCESS:
1. Install sqlcipher
2. Open the database: sqlcipher history.db
3. Enter the key: PRAGMA key = "your-passphrase";
4. Inspect tables: scans, operation_log

Unencrypted databases open with any sqlite3 client.
`
	readmePath := filepath.Join(dir, "README.txt")
	if err := os.WriteFile(readmePath, []byte(readme), 0644); err != nil {
		return fmt.Errorf("failed to write README: %w", err)
	}

	return nil
}

// copyDBFile copies a database file safely.
func copyDBFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	if _, err := dstFile.ReadFrom(srcFile); err != nil {
		return err
	}

	return dstFile.Sync()
}
